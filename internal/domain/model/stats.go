package model

type DashboardStats struct {
	TotalUsers        int            `json:"total_users"`
	ActiveUsers       int            `json:"active_users"`
	InactiveUsers     int            `json:"inactive_users"`
	NewUsersLastMonth int            `json:"new_users_last_month"`
	TotalRoles        int            `json:"total_roles"`
	UsersByRole       map[string]int `json:"users_by_role"`
	RecentUsers       []RecentUser   `json:"recent_users"`
	LastUpdated       string         `json:"last_updated"`
}

type RecentUser struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Username  string   `json:"username"`
	FullName  string   `json:"full_name"`
	CreatedAt string   `json:"created_at"`
	IsActive  bool     `json:"is_active"`
	Roles     []string `json:"roles"`
}
