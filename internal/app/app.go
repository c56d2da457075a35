// Package app wires the console together: config, logger, session store,
// HTTP client, repos and the session manager, in that order. The token
// source and the 401 invalidation hook both point at the manager, which is
// the sole writer of the store.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/badalot/crm-banking-insurance/internal/config"
	"github.com/badalot/crm-banking-insurance/internal/repo/apihttp"
	"github.com/badalot/crm-banking-insurance/internal/repo/storage"
	"github.com/badalot/crm-banking-insurance/internal/services/session"
)

type App struct {
	cfg config.Config
	log *zap.Logger

	redis    *goredis.Client
	sessions *session.Manager

	auth        *apihttp.AuthRepo
	users       *apihttp.UsersRepo
	roles       *apihttp.RolesRepo
	permissions *apihttp.PermissionsRepo
	audit       *apihttp.AuditRepo
	stats       *apihttp.StatsRepo
	settings    *apihttp.SettingsRepo
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{cfg: cfg, log: log}

	store, err := a.buildStore()
	if err != nil {
		return nil, err
	}

	client, err := apihttp.NewClient(cfg.API.URL, cfg.API.Timeout)
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	a.auth = apihttp.NewAuthRepo(client)
	a.users = apihttp.NewUsersRepo(client)
	a.roles = apihttp.NewRolesRepo(client)
	a.permissions = apihttp.NewPermissionsRepo(client)
	a.audit = apihttp.NewAuditRepo(client)
	a.stats = apihttp.NewStatsRepo(client)
	a.settings = apihttp.NewSettingsRepo(client)

	a.sessions = session.NewManager(store, a.auth, log)
	client.SetTokenSource(a.sessions)
	client.OnSessionInvalid(a.sessions.Invalidate)

	return a, nil
}

func (a *App) buildStore() (storage.Store, error) {
	backend := strings.ToLower(strings.TrimSpace(a.cfg.Session.Backend))
	switch backend {
	case config.BackendRedis:
		a.redis = goredis.NewClient(&goredis.Options{
			Addr:     a.cfg.Session.Redis.Addr,
			Password: a.cfg.Session.Redis.Password,
			DB:       a.cfg.Session.Redis.DB,
		})
		store, err := storage.NewRedisStore(a.redis, a.cfg.Session.Redis.KeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("create redis session store: %w", err)
		}
		return store, nil
	default:
		dir, err := resolveSessionDir(a.cfg.Session.Dir)
		if err != nil {
			return nil, err
		}
		store, err := storage.NewFileStore(dir)
		if err != nil {
			return nil, fmt.Errorf("create file session store: %w", err)
		}
		return store, nil
	}
}

func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func (a *App) Sessions() *session.Manager      { return a.sessions }
func (a *App) Auth() *apihttp.AuthRepo         { return a.auth }
func (a *App) Users() *apihttp.UsersRepo       { return a.users }
func (a *App) Roles() *apihttp.RolesRepo       { return a.roles }
func (a *App) Perms() *apihttp.PermissionsRepo { return a.permissions }
func (a *App) Audit() *apihttp.AuditRepo       { return a.audit }
func (a *App) Stats() *apihttp.StatsRepo       { return a.stats }
func (a *App) Settings() *apihttp.SettingsRepo { return a.settings }

func resolveSessionDir(configured string) (string, error) {
	if trimmed := strings.TrimSpace(configured); trimmed != "" {
		return trimmed, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "crmadmin"), nil
}
