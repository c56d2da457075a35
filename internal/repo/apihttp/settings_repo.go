package apihttp

import (
	"context"
	"net/http"

	"github.com/badalot/crm-banking-insurance/internal/domain/model"
)

type SettingsRepo struct {
	client *Client
}

func NewSettingsRepo(client *Client) *SettingsRepo {
	return &SettingsRepo{client: client}
}

func (r *SettingsRepo) Get(ctx context.Context) (model.SystemSettings, error) {
	settings := model.SystemSettings{}
	if err := r.client.DoJSON(ctx, http.MethodGet, "/settings/", nil, &settings, true); err != nil {
		return model.SystemSettings{}, err
	}
	return settings, nil
}

func (r *SettingsRepo) Update(ctx context.Context, input model.SystemSettings) (model.SystemSettings, error) {
	settings := model.SystemSettings{}
	if err := r.client.DoJSON(ctx, http.MethodPut, "/settings/", input, &settings, true); err != nil {
		return model.SystemSettings{}, err
	}
	return settings, nil
}

// TestEmail asks the backend to exercise its SMTP configuration; the test
// message goes to the calling administrator.
func (r *SettingsRepo) TestEmail(ctx context.Context) (model.TestEmailResult, error) {
	result := model.TestEmailResult{}
	if err := r.client.DoJSON(ctx, http.MethodPost, "/settings/test-email", nil, &result, true); err != nil {
		return model.TestEmailResult{}, err
	}
	return result, nil
}

func (r *SettingsRepo) Reset(ctx context.Context) (model.SystemSettings, error) {
	settings := model.SystemSettings{}
	if err := r.client.DoJSON(ctx, http.MethodPost, "/settings/reset", nil, &settings, true); err != nil {
		return model.SystemSettings{}, err
	}
	return settings, nil
}
