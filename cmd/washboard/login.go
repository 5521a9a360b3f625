package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/washboardhq/washboard/internal/api"
	"github.com/washboardhq/washboard/internal/auth"
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if password == "" {
				password = os.Getenv("WASHBOARD_PASSWORD")
			}
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required (use --password or WASHBOARD_PASSWORD)")
			}

			result, err := a.client.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			fmt.Printf("Logged in as %s (%s)\n", result.User.FullName(), result.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (or WASHBOARD_PASSWORD)")
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			user, err := a.client.Me(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			sess := auth.NewSession(user)
			fmt.Printf("%s (%s)\n", user.FullName(), user.Username)
			if sess.IsAdmin() {
				fmt.Println("Role: admin")
			} else {
				fmt.Printf("Role: %s\n", user.Role)
			}
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.client.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
