package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/washboardhq/washboard/internal/api"
	"github.com/washboardhq/washboard/internal/views"
	"github.com/washboardhq/washboard/pkg/models"
)

func newServicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Manage the service catalog",
	}
	cmd.AddCommand(newServicesListCmd(), newServicesCreateCmd(), newServicesDeleteCmd())
	return cmd
}

func newServicesListCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List service offerings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			v := views.NewServicesView(a.client)
			return runList(cmd.Context(), v, f,
				[]string{"ID", "NAME", "PRICE", "UNIT", "ACTIVE"},
				func(s models.Service) []string {
					return []string{
						strconv.Itoa(s.ID), s.Name, fmt.Sprintf("%.2f", s.Price),
						string(s.Unit), strconv.FormatBool(s.Active),
					}
				})
		},
	}
	addListFlags(cmd, &f, false)
	return cmd
}

func newServicesCreateCmd() *cobra.Command {
	var (
		name  string
		price float64
		unit  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a service offering",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || price <= 0 {
				return fmt.Errorf("--name and a positive --price are required")
			}
			if unit != string(models.UnitKilogram) && unit != string(models.UnitItem) {
				return fmt.Errorf("--unit must be %q or %q", models.UnitKilogram, models.UnitItem)
			}
			a, err := newApp()
			if err != nil {
				return err
			}

			created, err := a.client.Services().Create(cmd.Context(), models.Service{
				Name:   name,
				Price:  price,
				Unit:   models.ServiceUnit(unit),
				Active: true,
			})
			if err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			fmt.Printf("Created service %d (%s)\n", created.ID, created.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "service name")
	cmd.Flags().Float64Var(&price, "price", 0, "unit price")
	cmd.Flags().StringVar(&unit, "unit", string(models.UnitKilogram), "pricing unit (kg or item)")
	return cmd
}

func newServicesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a service offering",
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
			if err := a.client.Services().Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			fmt.Printf("Deleted service %d\n", id)
			return nil
		},
	}
}
