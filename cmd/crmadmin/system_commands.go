package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/badalot/crm-banking-insurance/internal/app"
	"github.com/badalot/crm-banking-insurance/internal/domain/model"
	"github.com/badalot/crm-banking-insurance/internal/repo/apihttp"
	"github.com/badalot/crm-banking-insurance/internal/services/access"
)

func newAuditCommand(configPath *string) *cobra.Command {
	var query apihttp.AuditQuery

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}
				if err := requirePermission(user, "system", "read"); err != nil {
					return err
				}

				logs, err := a.Audit().List(ctx, query)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "WHEN\tACTION\tUSER\tTARGET\tDESCRIPTION")
				for _, entry := range logs {
					target := entry.TargetType
					if entry.TargetName != "" {
						target += "/" + entry.TargetName
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						entry.CreatedAt.Format("2006-01-02 15:04"),
						entry.Action, entry.UserEmail, target, entry.Description)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&query.Action, "action", "", "Filter by action type")
	cmd.Flags().StringVar(&query.UserEmail, "user-email", "", "Filter by user email")
	cmd.Flags().IntVar(&query.Days, "days", 0, "Only entries from the last N days")
	cmd.Flags().IntVar(&query.Limit, "limit", 100, "Maximum number of entries")

	cmd.AddCommand(&cobra.Command{
		Use:   "actions",
		Short: "List the available audit action types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}
				if err := requirePermission(user, "system", "read"); err != nil {
					return err
				}

				actions, err := a.Audit().Actions(ctx)
				if err != nil {
					return err
				}
				for _, action := range actions {
					fmt.Fprintln(cmd.OutOrStdout(), action)
				}
				return nil
			})
		},
	})
	return cmd
}

func newStatsCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}
				if err := requirePermission(user, "system", "read"); err != nil {
					return err
				}

				stats, err := a.Stats().Dashboard(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "users: %d total, %d active, %d inactive, %d new last month\n",
					stats.TotalUsers, stats.ActiveUsers, stats.InactiveUsers, stats.NewUsersLastMonth)
				fmt.Fprintf(out, "roles: %d\n", stats.TotalRoles)
				for role, count := range stats.UsersByRole {
					fmt.Fprintf(out, "  %s: %d\n", role, count)
				}
				if len(stats.RecentUsers) > 0 {
					fmt.Fprintln(out, "recent users:")
					for _, recent := range stats.RecentUsers {
						fmt.Fprintf(out, "  %s (%s)\n", recent.Email, recent.FullName)
					}
				}
				return nil
			})
		},
	}
}

func newSettingsCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "System settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show system settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				if _, err := requireUser(ctx, a); err != nil {
					return err
				}

				settings, err := a.Settings().Get(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				printSetting(out, "site_name", settings.SiteName)
				printSetting(out, "support_email", settings.SupportEmail)
				printSetting(out, "timezone", settings.Timezone)
				printSetting(out, "language", settings.Language)
				printSettingInt(out, "session_timeout", settings.SessionTimeout)
				printSettingInt(out, "password_min_length", settings.PasswordMinLength)
				printSettingInt(out, "max_login_attempts", settings.MaxLoginAttempts)
				printSettingBool(out, "maintenance_mode", settings.MaintenanceMode)
				printSetting(out, "smtp_host", settings.SMTPHost)
				printSettingInt(out, "smtp_port", settings.SMTPPort)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "test-email",
		Short: "Send a test email through the configured SMTP relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}
				if err := requireSuperAdmin(user); err != nil {
					return err
				}

				result, err := a.Settings().TestEmail(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Message)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset system settings to their defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}
				if err := requireSuperAdmin(user); err != nil {
					return err
				}

				if _, err := a.Settings().Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "settings reset to defaults")
				return nil
			})
		},
	})
	return cmd
}

func requireSuperAdmin(user *model.User) error {
	if access.HasRole(user, access.RoleSuperAdmin) {
		return nil
	}
	return fmt.Errorf("permission denied: requires the %s role", access.RoleSuperAdmin)
}

func printSetting(out io.Writer, name string, value *string) {
	if value != nil {
		fmt.Fprintf(out, "%s: %s\n", name, *value)
	}
}

func printSettingInt(out io.Writer, name string, value *int) {
	if value != nil {
		fmt.Fprintf(out, "%s: %d\n", name, *value)
	}
}

func printSettingBool(out io.Writer, name string, value *bool) {
	if value != nil {
		fmt.Fprintf(out, "%s: %t\n", name, *value)
	}
}
