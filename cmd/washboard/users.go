package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/washboardhq/washboard/internal/api"
	"github.com/washboardhq/washboard/internal/validate"
	"github.com/washboardhq/washboard/internal/views"
	"github.com/washboardhq/washboard/pkg/models"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage dashboard user accounts",
	}
	cmd.AddCommand(newUsersListCmd(), newUsersCreateCmd(), newUsersDeleteCmd())
	return cmd
}

func newUsersListCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			v := views.NewUsersView(a.client)
			return runList(cmd.Context(), v, f,
				[]string{"ID", "USERNAME", "NAME", "EMAIL", "ROLE"},
				func(u models.User) []string {
					return []string{
						strconv.Itoa(u.ID), u.Username, u.FullName(), u.Email, string(u.Role),
					}
				})
		},
	}
	addListFlags(cmd, &f, false)
	return cmd
}

func newUsersCreateCmd() *cobra.Command {
	var form validate.UserForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := validate.Check(form); !errs.Ok() {
				return fieldErrorsError(errs)
			}
			a, err := newApp()
			if err != nil {
				return err
			}

			created, err := a.client.Users().Create(cmd.Context(), api.CreateUserInput{
				Username:  form.Username,
				Email:     form.Email,
				FirstName: form.FirstName,
				LastName:  form.LastName,
				Phone:     form.Phone,
				Role:      models.Role(form.Role),
				Password:  form.Password,
			})
			if err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			fmt.Printf("Created user %d (%s)\n", created.ID, created.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Username, "username", "", "login name")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&form.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&form.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&form.Role, "role", string(models.RoleStaff), "admin or staff")
	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.client.Users().Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			fmt.Printf("Deleted user %d\n", id)
			return nil
		},
	}
}

// fieldErrorsError flattens inline validation messages into a CLI error.
func fieldErrorsError(errs validate.FieldErrors) error {
	msg := "invalid input:"
	for field, m := range errs {
		msg += fmt.Sprintf("\n  %s: %s", field, m)
	}
	return fmt.Errorf("%s", msg)
}
