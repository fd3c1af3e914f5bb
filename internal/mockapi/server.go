// Package mockapi implements a self-contained Xerpia ERP API server used
// for local development and integration tests. It honours the remote API
// contract the console consumes: anonymous /login, /refresh and /register,
// bearer-protected CRUD resources, and 401 on expired access tokens.
package mockapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/xerpia/erp-console/internal/core/domain"
)

// Config controls token issuing. A short AccessTTL is the easiest way to
// exercise the client's refresh protocol end to end.
type Config struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewServer builds the Echo instance with all routes registered. The
// returned Store allows tests to inspect and seed state.
func NewServer(cfg Config, log zerolog.Logger) (*echo.Echo, *Store) {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret"
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}

	store := NewStore()

	e := echo.New()
	e.HideBanner = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = newHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	auth := &authHandler{
		store:      store,
		jwtSecret:  cfg.JWTSecret,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
	res := &resourceHandler{store: store}

	api := e.Group("/api")

	// Anonymous endpoints: the client never sends a bearer token here.
	api.POST("/login", auth.Login)
	api.POST("/refresh", auth.Refresh)
	api.POST("/register", auth.Register)

	// Bearer-protected resources.
	protected := api.Group("", bearerAuth(cfg.JWTSecret))

	protected.GET("/products", res.ListProducts)
	protected.GET("/products/search", res.SearchProducts)
	protected.GET("/products/low-stock", res.LowStockProducts)
	protected.GET("/products/sku/:sku", res.GetProductBySKU)
	protected.GET("/products/category/:id", res.ListProductsByCategory)
	protected.GET("/products/:id", res.GetProduct)
	protected.POST("/products", res.CreateProduct,
		requireRoles(domain.RoleAdmin, domain.RoleManager))
	protected.PUT("/products/:id", res.UpdateProduct,
		requireRoles(domain.RoleAdmin, domain.RoleManager))
	protected.DELETE("/products/:id", res.DeleteProduct,
		requireRoles(domain.RoleAdmin, domain.RoleManager))
	protected.PATCH("/products/:id/stock", res.UpdateProductStock,
		requireRoles(domain.RoleAdmin, domain.RoleManager))

	protected.GET("/product-categories", res.ListCategories)
	protected.POST("/product-categories", res.CreateCategory,
		requireRoles(domain.RoleAdmin, domain.RoleManager))

	protected.GET("/providers", res.ListProviders)
	protected.GET("/providers/search", res.SearchProviders)
	protected.GET("/providers/:id", res.GetProvider)
	protected.POST("/providers", res.CreateProvider,
		requireRoles(domain.RoleAdmin, domain.RoleManager))
	protected.DELETE("/providers/:id", res.DeleteProvider,
		requireRoles(domain.RoleAdmin, domain.RoleManager))

	protected.GET("/users/profile", res.Profile)
	protected.GET("/users", res.ListUsers,
		requireRoles(domain.RoleAdmin))
	protected.GET("/users/:id", res.GetUser,
		requireRoles(domain.RoleAdmin))
	protected.POST("/users", res.CreateUser,
		requireRoles(domain.RoleAdmin))
	protected.DELETE("/users/:id", res.DeleteUser,
		requireRoles(domain.RoleAdmin))

	protected.GET("/accounting/entries", res.ListEntries)
	protected.GET("/accounting/entries/:id", res.GetEntry)
	protected.POST("/accounting/entries", res.CreateEntry,
		requireRoles(domain.RoleAdmin, domain.RoleManager))
	protected.PATCH("/accounting/entries/:id/post", res.PostEntry,
		requireRoles(domain.RoleAdmin, domain.RoleManager))
	protected.GET("/accounting/accounts", res.ListAccounts)
	protected.GET("/accounting/accounts/:id", res.GetAccount)
	protected.POST("/accounting/accounts", res.CreateAccount,
		requireRoles(domain.RoleAdmin, domain.RoleManager))
	protected.GET("/accounting/reports/trial-balance", res.GetTrialBalance,
		requireRoles(domain.RoleAdmin, domain.RoleManager))

	// Liveness probe, no auth required.
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return e, store
}
