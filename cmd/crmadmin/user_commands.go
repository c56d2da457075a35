package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/badalot/crm-banking-insurance/internal/app"
	"github.com/badalot/crm-banking-insurance/internal/domain/model"
	"github.com/badalot/crm-banking-insurance/internal/repo/apihttp"
	"github.com/badalot/crm-banking-insurance/internal/services/access"
)

func newUsersCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User management",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newUsersListCommand(configPath))
	cmd.AddCommand(newUsersRegisterCommand(configPath))
	cmd.AddCommand(newUsersActivateCommand(configPath))
	cmd.AddCommand(newUsersDeactivateCommand(configPath))
	cmd.AddCommand(newUsersAssignRolesCommand(configPath))
	return cmd
}

func newUsersListCommand(configPath *string) *cobra.Command {
	var (
		skip  int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}
				if err := requirePermission(user, "users", "read"); err != nil {
					return err
				}

				users, err := a.Users().List(ctx, skip, limit)
				if err != nil {
					return err
				}
				printUsers(cmd, users)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Offset into the user list")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of users")
	return cmd
}

func newUsersRegisterCommand(configPath *string) *cobra.Command {
	var input apihttp.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}
				if err := requirePermission(user, "users", "create"); err != nil {
					return err
				}

				created, err := a.Auth().Register(ctx, input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", created.Email, created.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "Email")
	cmd.Flags().StringVar(&input.Username, "username", "", "Username")
	cmd.Flags().StringVar(&input.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&input.Phone, "phone", "", "Phone number")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUsersActivateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <user-id>",
		Short: "Re-activate a deactivated user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}
				if err := requirePermission(user, "users", "update"); err != nil {
					return err
				}

				updated, err := a.Users().Activate(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "activated %s\n", updated.Email)
				return nil
			})
		},
	}
}

func newUsersDeactivateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <user-id>",
		Short: "Deactivate a user (soft delete)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}
				if err := requirePermission(user, "users", "delete"); err != nil {
					return err
				}

				updated, err := a.Users().Deactivate(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deactivated %s\n", updated.Email)
				return nil
			})
		},
	}
}

func newUsersAssignRolesCommand(configPath *string) *cobra.Command {
	var roleIDs []string

	cmd := &cobra.Command{
		Use:   "assign-roles <user-id>",
		Short: "Replace a user's role assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}
				if err := requirePermission(user, "users", "update"); err != nil {
					return err
				}

				updated, err := a.Users().AssignRoles(ctx, args[0], roleIDs)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated roles for %s\n", updated.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&roleIDs, "role-id", nil, "Role id to assign (repeatable)")
	return cmd
}

// requirePermission is the local admin-affordance gate. The backend remains
// the final authority; this only avoids round-trips that are certain to be
// rejected.
func requirePermission(user *model.User, resource, action string) error {
	if access.Can(user, resource, action) {
		return nil
	}
	return fmt.Errorf("permission denied: %s:%s", resource, action)
}

func printUsers(cmd *cobra.Command, users []model.User) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tUSERNAME\tNAME\tACTIVE\tROLES")
	for i := range users {
		u := &users[i]
		names := make([]string, 0, len(u.Roles))
		for _, role := range u.Roles {
			names = append(names, role.Name)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", u.Email, u.Username, u.FullName(), u.IsActive, strings.Join(names, ","))
	}
	_ = w.Flush()
}
