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

func newCustomersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Manage customers",
	}
	cmd.AddCommand(newCustomersListCmd(), newCustomersCreateCmd(), newCustomersDeleteCmd())
	return cmd
}

func newCustomersListCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			v := views.NewCustomersView(a.client)
			return runList(cmd.Context(), v, f,
				[]string{"ID", "NAME", "PHONE", "EMAIL", "SINCE"},
				func(c models.Customer) []string {
					return []string{
						strconv.Itoa(c.ID), c.FullName(), c.Phone, c.Email,
						c.CreatedAt.Format("2006-01-02"),
					}
				})
		},
	}
	addListFlags(cmd, &f, false)
	return cmd
}

func newCustomersCreateCmd() *cobra.Command {
	var form validate.CustomerForm
	var address string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := validate.Check(form); !errs.Ok() {
				return fieldErrorsError(errs)
			}
			a, err := newApp()
			if err != nil {
				return err
			}

			created, err := a.client.Customers().Create(cmd.Context(), models.Customer{
				FirstName: form.FirstName,
				LastName:  form.LastName,
				Phone:     form.Phone,
				Email:     form.Email,
				Address:   address,
			})
			if err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			fmt.Printf("Created customer %d (%s)\n", created.ID, created.FullName())
			return nil
		},
	}
	cmd.Flags().StringVar(&form.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&form.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&address, "address", "", "street address")
	return cmd
}

func newCustomersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a customer",
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
			if err := a.client.Customers().Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			fmt.Printf("Deleted customer %d\n", id)
			return nil
		},
	}
}
