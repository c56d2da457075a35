package apihttp

import (
	"context"
	"net/http"

	"github.com/badalot/crm-banking-insurance/internal/domain/model"
)

type StatsRepo struct {
	client *Client
}

func NewStatsRepo(client *Client) *StatsRepo {
	return &StatsRepo{client: client}
}

func (r *StatsRepo) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	stats := model.DashboardStats{}
	if err := r.client.DoJSON(ctx, http.MethodGet, "/stats", nil, &stats, true); err != nil {
		return model.DashboardStats{}, err
	}
	return stats, nil
}
