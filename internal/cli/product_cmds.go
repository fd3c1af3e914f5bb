package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xerpia/erp-console/internal/api"
	"github.com/xerpia/erp-console/internal/core/domain"
	"github.com/xerpia/erp-console/internal/guard"
)

// anyRole admits every authenticated user.
var anyRole = []domain.Role{}

// writerRoles may create, update and delete catalogue data.
var writerRoles = []domain.Role{domain.RoleAdmin, domain.RoleManager}

// paginationFlags binds the standard list flags and builds the query block.
func paginationFlags(cmd *cobra.Command) func() *api.Pagination {
	p := &api.Pagination{}
	cmd.Flags().IntVar(&p.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&p.Limit, "limit", 0, "items per page")
	cmd.Flags().StringVar(&p.SortBy, "sort-by", "", "sort field")
	cmd.Flags().StringVar(&p.SortOrder, "sort-order", "", "sort order (asc|desc)")
	return func() *api.Pagination { return p }
}

func newProductCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Browse and manage the product catalogue",
	}

	list := &cobra.Command{
		Use:     "list",
		Short:   "List products",
		PreRunE: requireRoute(app, guard.Route{Path: "/products", Roles: anyRole}),
	}
	page := paginationFlags(list)
	list.RunE = func(cmd *cobra.Command, args []string) error {
		products, err := app.Client.Products().List(cmd.Context(), page())
		if err != nil {
			return displayError(err)
		}
		return printJSON(products)
	}

	get := &cobra.Command{
		Use:     "get <id>",
		Short:   "Show one product",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireRoute(app, guard.Route{Path: "/products", Roles: anyRole}),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := app.Client.Products().Get(cmd.Context(), args[0])
			if err != nil {
				return displayError(err)
			}
			return printJSON(product)
		},
	}

	var searchQuery string
	search := &cobra.Command{
		Use:     "search",
		Short:   "Search products by name or SKU",
		PreRunE: requireRoute(app, guard.Route{Path: "/products", Roles: anyRole}),
	}
	searchPage := paginationFlags(search)
	search.Flags().StringVarP(&searchQuery, "query", "q", "", "search text")
	search.RunE = func(cmd *cobra.Command, args []string) error {
		products, err := app.Client.Products().Search(cmd.Context(), searchQuery, searchPage())
		if err != nil {
			return displayError(err)
		}
		return printJSON(products)
	}

	lowStock := &cobra.Command{
		Use:     "low-stock",
		Short:   "List products at or below their minimum stock",
		PreRunE: requireRoute(app, guard.Route{Path: "/products", Roles: anyRole}),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := app.Client.Products().LowStock(cmd.Context(), nil)
			if err != nil {
				return displayError(err)
			}
			return printJSON(products)
		},
	}

	var createReq domain.CreateProductRequest
	create := &cobra.Command{
		Use:     "create",
		Short:   "Create a product",
		PreRunE: requireRoute(app, guard.Route{Path: "/products/new", Roles: writerRoles}),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.Struct(&createReq); err != nil {
				return fmt.Errorf("invalid product data: %w", err)
			}
			product, err := app.Client.Products().Create(cmd.Context(), createReq)
			if err != nil {
				return displayError(err)
			}
			return printJSON(product)
		},
	}
	create.Flags().StringVar(&createReq.Name, "name", "", "product name")
	create.Flags().StringVar(&createReq.SKU, "sku", "", "stock keeping unit")
	create.Flags().StringVar(&createReq.Description, "description", "", "description")
	create.Flags().Float64Var(&createReq.Price, "price", 0, "sale price")
	create.Flags().Float64Var(&createReq.Cost, "cost", 0, "unit cost")
	create.Flags().IntVar(&createReq.Stock, "stock", 0, "initial stock")
	create.Flags().IntVar(&createReq.MinStock, "min-stock", 0, "minimum stock level")
	create.Flags().StringVar(&createReq.CategoryID, "category", "", "category id")

	del := &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a product",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireRoute(app, guard.Route{Path: "/products/delete", Roles: writerRoles}),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Client.Products().Delete(cmd.Context(), args[0]); err != nil {
				return displayError(err)
			}
			fmt.Println("deleted")
			return nil
		},
	}

	var stock int
	updateStock := &cobra.Command{
		Use:     "stock <id>",
		Short:   "Set the absolute stock level of a product",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireRoute(app, guard.Route{Path: "/products/stock", Roles: writerRoles}),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := app.Client.Products().UpdateStock(cmd.Context(), args[0], stock)
			if err != nil {
				return displayError(err)
			}
			return printJSON(product)
		},
	}
	updateStock.Flags().IntVar(&stock, "set", 0, "new stock level")

	cmd.AddCommand(list, get, search, lowStock, create, del, updateStock)
	return cmd
}
