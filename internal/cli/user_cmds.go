package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xerpia/erp-console/internal/core/domain"
	"github.com/xerpia/erp-console/internal/guard"
)

// adminOnly restricts user administration to administrators.
var adminOnly = []domain.Role{domain.RoleAdmin}

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	list := &cobra.Command{
		Use:     "list",
		Short:   "List accounts",
		PreRunE: requireRoute(app, guard.Route{Path: "/users", Roles: adminOnly}),
	}
	page := paginationFlags(list)
	list.RunE = func(cmd *cobra.Command, args []string) error {
		users, err := app.Client.Users().List(cmd.Context(), page())
		if err != nil {
			return displayError(err)
		}
		return printJSON(users)
	}

	get := &cobra.Command{
		Use:     "get <id>",
		Short:   "Show one account",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireRoute(app, guard.Route{Path: "/users", Roles: adminOnly}),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.Client.Users().Get(cmd.Context(), args[0])
			if err != nil {
				return displayError(err)
			}
			return printJSON(user)
		},
	}

	var createReq domain.CreateUserRequest
	var role string
	create := &cobra.Command{
		Use:     "create",
		Short:   "Create an account",
		PreRunE: requireRoute(app, guard.Route{Path: "/users/new", Roles: adminOnly}),
		RunE: func(cmd *cobra.Command, args []string) error {
			createReq.Role = domain.Role(role)
			if !createReq.Role.Valid() {
				return fmt.Errorf("unknown role %q, valid roles: %v", role, domain.Roles)
			}
			if err := validate.Struct(&createReq); err != nil {
				return fmt.Errorf("invalid account data: %w", err)
			}
			user, err := app.Client.Users().Create(cmd.Context(), createReq)
			if err != nil {
				return displayError(err)
			}
			return printJSON(user)
		},
	}
	create.Flags().StringVar(&createReq.Username, "username", "", "account username")
	create.Flags().StringVar(&createReq.Password, "password", "", "account password")
	create.Flags().StringVar(&createReq.Email, "email", "", "account email")
	create.Flags().StringVar(&createReq.FirstName, "first-name", "", "first name")
	create.Flags().StringVar(&createReq.LastName, "last-name", "", "last name")
	create.Flags().StringVar(&role, "role", string(domain.RoleEmployee), "account role")

	del := &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete an account",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireRoute(app, guard.Route{Path: "/users/delete", Roles: adminOnly}),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Client.Users().Delete(cmd.Context(), args[0]); err != nil {
				return displayError(err)
			}
			fmt.Println("deleted")
			return nil
		},
	}

	profile := &cobra.Command{
		Use:     "profile",
		Short:   "Show the server-side profile of the current session",
		PreRunE: requireRoute(app, guard.Route{Path: "/users/profile", Roles: anyRole}),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.Client.Users().Profile(cmd.Context())
			if err != nil {
				return displayError(err)
			}
			return printJSON(user)
		},
	}

	cmd.AddCommand(list, get, create, del, profile)
	return cmd
}
