package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xerpia/erp-console/internal/core/domain"
	"github.com/xerpia/erp-console/internal/guard"
)

func newProviderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Browse and manage suppliers",
	}

	list := &cobra.Command{
		Use:     "list",
		Short:   "List providers",
		PreRunE: requireRoute(app, guard.Route{Path: "/providers", Roles: anyRole}),
	}
	page := paginationFlags(list)
	list.RunE = func(cmd *cobra.Command, args []string) error {
		providers, err := app.Client.Providers().List(cmd.Context(), page())
		if err != nil {
			return displayError(err)
		}
		return printJSON(providers)
	}

	get := &cobra.Command{
		Use:     "get <id>",
		Short:   "Show one provider",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireRoute(app, guard.Route{Path: "/providers", Roles: anyRole}),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := app.Client.Providers().Get(cmd.Context(), args[0])
			if err != nil {
				return displayError(err)
			}
			return printJSON(provider)
		},
	}

	var searchQuery string
	search := &cobra.Command{
		Use:     "search",
		Short:   "Search providers by name or tax id",
		PreRunE: requireRoute(app, guard.Route{Path: "/providers", Roles: anyRole}),
	}
	searchPage := paginationFlags(search)
	search.Flags().StringVarP(&searchQuery, "query", "q", "", "search text")
	search.RunE = func(cmd *cobra.Command, args []string) error {
		providers, err := app.Client.Providers().Search(cmd.Context(), searchQuery, searchPage())
		if err != nil {
			return displayError(err)
		}
		return printJSON(providers)
	}

	var createReq domain.CreateProviderRequest
	create := &cobra.Command{
		Use:     "create",
		Short:   "Create a provider",
		PreRunE: requireRoute(app, guard.Route{Path: "/providers/new", Roles: writerRoles}),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.Struct(&createReq); err != nil {
				return fmt.Errorf("invalid provider data: %w", err)
			}
			provider, err := app.Client.Providers().Create(cmd.Context(), createReq)
			if err != nil {
				return displayError(err)
			}
			return printJSON(provider)
		},
	}
	create.Flags().StringVar(&createReq.Name, "name", "", "provider name")
	create.Flags().StringVar(&createReq.Email, "email", "", "contact email")
	create.Flags().StringVar(&createReq.Phone, "phone", "", "contact phone")
	create.Flags().StringVar(&createReq.TaxID, "tax-id", "", "tax id")
	create.Flags().StringVar(&createReq.ContactPerson, "contact", "", "contact person")
	create.Flags().StringVar(&createReq.Website, "website", "", "website")
	create.Flags().StringVar(&createReq.Address.Street, "street", "", "street address")
	create.Flags().StringVar(&createReq.Address.City, "city", "", "city")
	create.Flags().StringVar(&createReq.Address.State, "state", "", "state")
	create.Flags().StringVar(&createReq.Address.ZipCode, "zip", "", "zip code")
	create.Flags().StringVar(&createReq.Address.Country, "country", "", "country")

	del := &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a provider",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireRoute(app, guard.Route{Path: "/providers/delete", Roles: writerRoles}),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Client.Providers().Delete(cmd.Context(), args[0]); err != nil {
				return displayError(err)
			}
			fmt.Println("deleted")
			return nil
		},
	}

	cmd.AddCommand(list, get, search, create, del)
	return cmd
}
