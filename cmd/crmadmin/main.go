package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/badalot/crm-banking-insurance/internal/app"
	"github.com/badalot/crm-banking-insurance/internal/config"
	"github.com/badalot/crm-banking-insurance/internal/domain/model"
	loginfra "github.com/badalot/crm-banking-insurance/internal/infra/logger"
	"github.com/badalot/crm-banking-insurance/internal/repo/apihttp"
	"github.com/badalot/crm-banking-insurance/internal/services/session"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", describeError(err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "crmadmin",
		Short:         "Console client for the CRM administration API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the yaml config file")

	cmd.AddCommand(newLoginCommand(&configPath))
	cmd.AddCommand(newLogoutCommand(&configPath))
	cmd.AddCommand(newWhoamiCommand(&configPath))
	cmd.AddCommand(newCanCommand(&configPath))
	cmd.AddCommand(newUsersCommand(&configPath))
	cmd.AddCommand(newRolesCommand(&configPath))
	cmd.AddCommand(newPermissionsCommand(&configPath))
	cmd.AddCommand(newAuditCommand(&configPath))
	cmd.AddCommand(newStatsCommand(&configPath))
	cmd.AddCommand(newSettingsCommand(&configPath))
	return cmd
}

// withApp builds the application for one command invocation and tears it
// down afterwards.
func withApp(configPath *string, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := loginfra.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return fn(ctx, a)
}

// requireUser is the console's redirect-on-unauthenticated: every protected
// command resolves the session state first and refuses to touch the backend
// while it is anything but authenticated.
func requireUser(ctx context.Context, a *app.App) (*model.User, error) {
	a.Sessions().Init(ctx)
	snapshot := a.Sessions().Snapshot()
	if snapshot.State != session.StateAuthenticated || snapshot.User == nil {
		return nil, errNotAuthenticated
	}
	return snapshot.User, nil
}

var errNotAuthenticated = errors.New("not authenticated: run 'crmadmin login' first")

func describeError(err error) string {
	switch {
	case err == nil:
		return ""
	case apihttp.IsKind(err, apihttp.KindInvalidCredentials):
		return "invalid email or password"
	case apihttp.IsKind(err, apihttp.KindSessionExpired):
		return "session expired: run 'crmadmin login' again"
	case apihttp.IsKind(err, apihttp.KindNetwork):
		return fmt.Sprintf("backend unreachable: %v", err)
	case apihttp.IsKind(err, apihttp.KindValidation):
		if detail := apihttp.ErrorDetail(err); detail != "" {
			return detail
		}
		return err.Error()
	default:
		return err.Error()
	}
}
