package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaeyoung-onebird/workproof/pkg/clients/workproof"
	"github.com/jaeyoung-onebird/workproof/pkg/core/format"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/core/services"
)

// LoginCmd creates the login command
func LoginCmd(app *AppContext) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				password, err = app.prompt("Password: ")
				if err != nil {
					return err
				}
			}

			user, err := services.Login(app.Ctx, app.API, app.Auth, app.Logger, args[0], password)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s\n", app.Translator.T("auth.welcome", map[string]any{"Name": user.Name}))
			fmt.Printf("Role: %s\n\n", user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

// SignupCmd creates the signup command
func SignupCmd(app *AppContext) *cobra.Command {
	var req workproof.SignupRequest
	var role string

	cmd := &cobra.Command{
		Use:   "signup <email>",
		Short: "Register a worker or organization account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Email = args[0]
			req.Role = model.Role(strings.ToLower(role))

			if req.Password == "" {
				var err error
				req.Password, err = app.prompt("Password: ")
				if err != nil {
					return err
				}
			}

			user, err := services.Signup(app.Ctx, app.API, app.Logger, req)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s\n", app.Translator.T("auth.signed_up", nil))
			fmt.Printf("Account: %s (%s)\n\n", user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().StringVar(&role, "role", string(model.RoleWorker), "Account type: worker or org")
	cmd.MarkFlagRequired("name")
	return cmd
}

// LogoutCmd creates the logout command
func LogoutCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.Logout(app.Ctx, app.API, app.Auth, app.Logger); err != nil {
				return err
			}

			fmt.Printf("\n✓ %s\n\n", app.Translator.T("auth.logged_out", nil))
			return nil
		},
	}
}

// WhoAmICmd creates the whoami command
func WhoAmICmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := services.WhoAmI(app.Ctx, app.API, app.Auth, app.Logger)
			if err != nil {
				return err
			}

			user := identity.User
			fmt.Printf("\n%s <%s>\n", user.Name, user.Email)
			fmt.Printf("User ID:  %d\n", user.ID)
			fmt.Printf("Roles:    %s\n", strings.Join(identity.Roles, ", "))
			if user.OrgID > 0 {
				fmt.Printf("Org ID:   %d\n", user.OrgID)
			}
			if identity.ExpiresAt != nil {
				fmt.Printf("Token expires: %s\n", format.DateTimeOf(*identity.ExpiresAt))
			}
			fmt.Println()
			return nil
		},
	}
}
