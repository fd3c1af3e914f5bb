package cli

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/xerpia/erp-console/internal/core/domain"
)

var validate = validator.New()

func newLoginCmd(app *App) *cobra.Command {
	var creds domain.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the ERP API and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.Struct(&creds); err != nil {
				return fmt.Errorf("username and password are required")
			}
			session, err := app.Auth.Login(cmd.Context(), creds)
			if err != nil {
				return displayError(err)
			}
			fmt.Printf("logged in as %s (%s)\n", session.User.Username, session.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "account password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Auth.Logout()
			fmt.Println("logged out")
			return nil
		},
	}
}

func newRegisterCmd(app *App) *cobra.Command {
	var req domain.RegisterRequest
	var role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Role = domain.Role(role)
			if !req.Role.Valid() {
				return fmt.Errorf("unknown role %q, valid roles: %v", role, domain.Roles)
			}
			if err := validate.Struct(&req); err != nil {
				return fmt.Errorf("invalid registration data: %w", err)
			}
			user, err := app.Auth.Register(cmd.Context(), req)
			if err != nil {
				return displayError(err)
			}
			return printJSON(user)
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "account username")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleEmployee), "account role")
	return cmd
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.Auth.State().Current()
			if !session.Authenticated {
				fmt.Println("not logged in")
				return nil
			}
			return printJSON(session.User)
		},
	}
}
