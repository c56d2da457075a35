package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/badalot/crm-banking-insurance/internal/app"
	"github.com/badalot/crm-banking-insurance/internal/repo/apihttp"
)

func newRolesCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Role management",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newRolesListCommand(configPath))
	cmd.AddCommand(newRolesCreateCommand(configPath))
	cmd.AddCommand(newRolesDeleteCommand(configPath))
	cmd.AddCommand(newRolesGrantCommand(configPath))
	return cmd
}

func newRolesListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List roles and their permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				if _, err := requireUser(ctx, a); err != nil {
					return err
				}

				roles, err := a.Roles().List(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tPERMISSIONS")
				for i := range roles {
					role := &roles[i]
					pairs := make([]string, 0, len(role.Permissions))
					for _, perm := range role.Permissions {
						pairs = append(pairs, perm.Resource+":"+perm.Action)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", role.ID, role.Name, strings.Join(pairs, ","))
				}
				return w.Flush()
			})
		},
	}
}

func newRolesCreateCommand(configPath *string) *cobra.Command {
	var input apihttp.RoleInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a role",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}
				if err := requirePermission(user, "roles", "create"); err != nil {
					return err
				}

				role, err := a.Roles().Create(ctx, input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created role %s (%s)\n", role.Name, role.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "Role name")
	cmd.Flags().StringVar(&input.Description, "description", "", "Role description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newRolesDeleteCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <role-id>",
		Short: "Delete a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}
				if err := requirePermission(user, "roles", "delete"); err != nil {
					return err
				}

				if err := a.Roles().Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "deleted")
				return nil
			})
		},
	}
}

func newRolesGrantCommand(configPath *string) *cobra.Command {
	var permissionIDs []string

	cmd := &cobra.Command{
		Use:   "grant <role-id>",
		Short: "Replace a role's permission set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				user, err := requireUser(ctx, a)
				if err != nil {
					return err
				}
				if err := requirePermission(user, "roles", "update"); err != nil {
					return err
				}

				role, err := a.Roles().SetPermissions(ctx, args[0], permissionIDs)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "role %s now holds %d permissions\n", role.Name, len(role.Permissions))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&permissionIDs, "permission-id", nil, "Permission id to grant (repeatable)")
	return cmd
}

func newPermissionsCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "permissions",
		Short: "List the permission catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(ctx context.Context, a *app.App) error {
				if _, err := requireUser(ctx, a); err != nil {
					return err
				}

				permissions, err := a.Perms().List(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tRESOURCE\tACTION\tDESCRIPTION")
				for _, perm := range permissions {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", perm.ID, perm.Resource, perm.Action, perm.Description)
				}
				return w.Flush()
			})
		},
	}
}
