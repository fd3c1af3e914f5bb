// Package cli implements the xerpia console commands. Command dispatch
// plays the role a router plays in a graphical client: every data command
// declares a destination route with a required-role set, and the access
// policy decides allow or redirect before the command body runs.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/xerpia/erp-console/internal/api"
	"github.com/xerpia/erp-console/internal/auth"
	"github.com/xerpia/erp-console/internal/config"
	"github.com/xerpia/erp-console/internal/core/domain"
	"github.com/xerpia/erp-console/internal/core/ports"
	"github.com/xerpia/erp-console/internal/guard"
	"github.com/xerpia/erp-console/internal/tokenstore"
	"github.com/xerpia/erp-console/internal/transport"
	"github.com/xerpia/erp-console/pkg/logger"
)

// App carries the wired client stack shared by all commands.
type App struct {
	Config *config.Config
	Auth   *auth.Authenticator
	Client *api.Client
	Policy *guard.Policy

	closer func() error
}

// Execute wires the application and runs the root command.
func Execute(ctx context.Context) error {
	app := &App{}
	root := newRootCmd(app)
	defer func() {
		if app.closer != nil {
			_ = app.closer()
		}
	}()
	return root.ExecuteContext(ctx)
}

func newRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "xerpia",
		Short:         "Console client for the Xerpia ERP API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd.Context())
		},
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newRegisterCmd(app),
		newWhoamiCmd(app),
		newProductCmd(app),
		newProviderCmd(app),
		newUserCmd(app),
		newAccountingCmd(app),
	)
	return root
}

// init loads configuration and builds the authenticator, transport and
// API client. Runs once before any command body.
func (app *App) init(ctx context.Context) error {
	if app.Config != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.Config = cfg

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	var store ports.TokenStore
	switch cfg.Store.Backend {
	case "redis":
		redisStore, err := tokenstore.NewRedisStore(ctx, tokenstore.RedisConfig{
			Addr:   cfg.Store.Redis.Addr,
			DB:     cfg.Store.Redis.DB,
			Prefix: cfg.Store.Redis.Prefix,
		})
		if err != nil {
			return fmt.Errorf("connect token store: %w", err)
		}
		app.closer = redisStore.Close
		store = redisStore
	default:
		store = tokenstore.NewFileStore(cfg.Store.Path)
	}

	app.Auth = auth.New(cfg.APIURL, store,
		auth.WithLogger(log),
		auth.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)
	app.Auth.Initialize()

	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: transport.New(nil, app.Auth, log),
	}
	app.Client = api.NewClient(cfg.APIURL, httpClient, log)
	app.Policy = guard.New(app.Auth)
	return nil
}

// requireRoute returns a cobra pre-run enforcing the access policy for the
// given destination.
func requireRoute(app *App, route guard.Route) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		decision := app.Policy.CanActivate(route)
		if decision.Allowed {
			return nil
		}
		if decision.Redirect == guard.LoginPath {
			return fmt.Errorf("not logged in (run \"xerpia login\")")
		}
		return fmt.Errorf("access denied for %s (redirected to %s)", route.Path, decision.Redirect)
	}
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// displayError rewrites an APIError to its user-facing message.
func displayError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s", apiErr.Message)
	}
	return err
}
