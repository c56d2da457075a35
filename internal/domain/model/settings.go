package model

import "time"

// SystemSettings carries the full settings document. Pointer fields mirror
// the backend's partial-update semantics: on PUT only non-nil fields are
// sent, on GET absent fields stay nil.
type SystemSettings struct {
	ID        int        `json:"id,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	UpdatedBy *int       `json:"updated_by,omitempty"`

	SiteName        *string `json:"site_name,omitempty"`
	SiteDescription *string `json:"site_description,omitempty"`
	SupportEmail    *string `json:"support_email,omitempty"`
	SupportPhone    *string `json:"support_phone,omitempty"`
	Timezone        *string `json:"timezone,omitempty"`
	Language        *string `json:"language,omitempty"`
	DateFormat      *string `json:"date_format,omitempty"`

	SessionTimeout           *int  `json:"session_timeout,omitempty"`
	PasswordMinLength        *int  `json:"password_min_length,omitempty"`
	PasswordRequireUppercase *bool `json:"password_require_uppercase,omitempty"`
	PasswordRequireLowercase *bool `json:"password_require_lowercase,omitempty"`
	PasswordRequireNumbers   *bool `json:"password_require_numbers,omitempty"`
	PasswordRequireSpecial   *bool `json:"password_require_special,omitempty"`
	MaxLoginAttempts         *int  `json:"max_login_attempts,omitempty"`
	LockoutDuration          *int  `json:"lockout_duration,omitempty"`
	TwoFactorAuthEnabled     *bool `json:"two_factor_auth_enabled,omitempty"`

	SMTPHost      *string `json:"smtp_host,omitempty"`
	SMTPPort      *int    `json:"smtp_port,omitempty"`
	SMTPUsername  *string `json:"smtp_username,omitempty"`
	SMTPPassword  *string `json:"smtp_password,omitempty"`
	SMTPUseTLS    *bool   `json:"smtp_use_tls,omitempty"`
	SMTPFromEmail *string `json:"smtp_from_email,omitempty"`
	SMTPFromName  *string `json:"smtp_from_name,omitempty"`

	EnableAuditLog           *bool   `json:"enable_audit_log,omitempty"`
	EnableEmailNotifications *bool   `json:"enable_email_notifications,omitempty"`
	EnableUserRegistration   *bool   `json:"enable_user_registration,omitempty"`
	EnablePasswordReset      *bool   `json:"enable_password_reset,omitempty"`
	MaintenanceMode          *bool   `json:"maintenance_mode,omitempty"`
	MaintenanceMessage       *string `json:"maintenance_message,omitempty"`
}

type TestEmailResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	SMTPHost string `json:"smtp_host,omitempty"`
	SMTPPort int    `json:"smtp_port,omitempty"`
}
