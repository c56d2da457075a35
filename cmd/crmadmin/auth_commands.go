package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/badalot/crm-banking-insurance/internal/app"
	"github.com/badalot/crm-banking-insurance/internal/services/access"
)

func newLoginCommand(configPath *string) *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the CRM backend and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				if password == "" {
					entered, err := promptPassword(cmd)
					if err != nil {
						return err
					}
					password = entered
				}

				a.Sessions().Init(ctx)
				if err := a.Sessions().Login(ctx, email, password); err != nil {
					return err
				}

				user := a.Sessions().CurrentUser()
				if user == nil {
					return fmt.Errorf("login finished but no session is active")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", user.Email, user.FullName())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				a.Sessions().Init(ctx)
				a.Sessions().Logout()
				fmt.Fprintln(cmd.OutOrStdout(), "logged out")
				return nil
			})
		},
	}
}

func newWhoamiCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session's profile, roles and permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", user.Email, user.FullName())
				fmt.Fprintf(out, "id: %s  active: %t  verified: %t\n", user.ID, user.IsActive, user.IsVerified)
				if user.LastLogin != nil {
					fmt.Fprintf(out, "last login: %s\n", user.LastLogin.Format("2006-01-02 15:04:05"))
				}

				if len(user.Roles) == 0 {
					fmt.Fprintln(out, "roles: none")
					return nil
				}
				names := make([]string, 0, len(user.Roles))
				for _, role := range user.Roles {
					names = append(names, role.Name)
				}
				fmt.Fprintf(out, "roles: %s\n", strings.Join(names, ", "))
				for _, perm := range access.Permissions(user) {
					fmt.Fprintf(out, "  %s:%s\n", perm.Resource, perm.Action)
				}
				return nil
			})
		},
	}
}

func newCanCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "can <resource> <action>",
		Short: "Check whether the current user holds a permission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}

				if access.Can(user, args[0], args[1]) {
					fmt.Fprintf(cmd.OutOrStdout(), "allowed: %s:%s\n", args[0], args[1])
					return nil
				}
				return fmt.Errorf("denied: %s:%s", args[0], args[1])
			})
		},
	}
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
