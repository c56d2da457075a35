package apihttp

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/badalot/crm-banking-insurance/internal/domain/model"
)

type AuditRepo struct {
	client *Client
}

func NewAuditRepo(client *Client) *AuditRepo {
	return &AuditRepo{client: client}
}

type AuditQuery struct {
	Action    string
	UserEmail string
	Days      int
	Limit     int
}

func (r *AuditRepo) List(ctx context.Context, query AuditQuery) ([]model.AuditLog, error) {
	values := url.Values{}
	if action := strings.TrimSpace(query.Action); action != "" {
		values.Set("action", action)
	}
	if email := strings.TrimSpace(query.UserEmail); email != "" {
		values.Set("user_email", email)
	}
	if query.Days > 0 {
		values.Set("days", strconv.Itoa(query.Days))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}

	path := "/audit"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	logs := []model.AuditLog{}
	if err := r.client.DoJSON(ctx, http.MethodGet, path, nil, &logs, true); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *AuditRepo) Actions(ctx context.Context) ([]string, error) {
	response := struct {
		Actions []string `json:"actions"`
	}{}
	if err := r.client.DoJSON(ctx, http.MethodGet, "/audit/actions", nil, &response, true); err != nil {
		return nil, err
	}
	return response.Actions, nil
}
