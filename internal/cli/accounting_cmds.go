package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xerpia/erp-console/internal/core/domain"
	"github.com/xerpia/erp-console/internal/guard"
)

func newAccountingCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounting",
		Short: "Journal entries, chart of accounts and reports",
	}

	entries := &cobra.Command{
		Use:     "entries",
		Short:   "List journal entries",
		PreRunE: requireRoute(app, guard.Route{Path: "/accounting", Roles: anyRole}),
	}
	entriesPage := paginationFlags(entries)
	entries.RunE = func(cmd *cobra.Command, args []string) error {
		list, err := app.Client.Accounting().Entries(cmd.Context(), entriesPage())
		if err != nil {
			return displayError(err)
		}
		return printJSON(list)
	}

	entry := &cobra.Command{
		Use:     "entry <id>",
		Short:   "Show one journal entry",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireRoute(app, guard.Route{Path: "/accounting", Roles: anyRole}),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.Client.Accounting().Entry(cmd.Context(), args[0])
			if err != nil {
				return displayError(err)
			}
			return printJSON(e)
		},
	}

	var entryFile string
	createEntry := &cobra.Command{
		Use:     "create-entry",
		Short:   "Create a journal entry from a JSON file",
		PreRunE: requireRoute(app, guard.Route{Path: "/accounting/new", Roles: writerRoles}),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(entryFile)
			if err != nil {
				return fmt.Errorf("read entry file: %w", err)
			}
			var req domain.CreateEntryRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("parse entry file: %w", err)
			}
			if err := validate.Struct(&req); err != nil {
				return fmt.Errorf("invalid entry data: %w", err)
			}
			e, err := app.Client.Accounting().CreateEntry(cmd.Context(), req)
			if err != nil {
				return displayError(err)
			}
			return printJSON(e)
		},
	}
	createEntry.Flags().StringVarP(&entryFile, "file", "f", "", "path to a JSON entry payload")
	_ = createEntry.MarkFlagRequired("file")

	postEntry := &cobra.Command{
		Use:     "post <id>",
		Short:   "Post a journal entry, locking it into the books",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireRoute(app, guard.Route{Path: "/accounting/post", Roles: writerRoles}),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.Client.Accounting().PostEntry(cmd.Context(), args[0])
			if err != nil {
				return displayError(err)
			}
			return printJSON(e)
		},
	}

	accounts := &cobra.Command{
		Use:     "accounts",
		Short:   "List the chart of accounts",
		PreRunE: requireRoute(app, guard.Route{Path: "/accounting/accounts", Roles: anyRole}),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Client.Accounting().Accounts(cmd.Context())
			if err != nil {
				return displayError(err)
			}
			return printJSON(list)
		},
	}

	var accountReq domain.CreateAccountRequest
	var accountType string
	createAccount := &cobra.Command{
		Use:     "create-account",
		Short:   "Add an account to the chart",
		PreRunE: requireRoute(app, guard.Route{Path: "/accounting/accounts/new", Roles: writerRoles}),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountReq.Type = domain.AccountType(accountType)
			if err := validate.Struct(&accountReq); err != nil {
				return fmt.Errorf("invalid account data: %w", err)
			}
			a, err := app.Client.Accounting().CreateAccount(cmd.Context(), accountReq)
			if err != nil {
				return displayError(err)
			}
			return printJSON(a)
		},
	}
	createAccount.Flags().StringVar(&accountReq.Code, "code", "", "account code")
	createAccount.Flags().StringVar(&accountReq.Name, "name", "", "account name")
	createAccount.Flags().StringVar(&accountType, "type", "", "asset|liability|equity|revenue|expense")
	createAccount.Flags().StringVar(&accountReq.ParentID, "parent", "", "parent account id")

	var asOf string
	trialBalance := &cobra.Command{
		Use:     "trial-balance",
		Short:   "Show the trial balance over posted entries",
		PreRunE: requireRoute(app, guard.Route{Path: "/accounting/reports", Roles: writerRoles}),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cutoff time.Time
			if asOf != "" {
				var err error
				cutoff, err = time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of date, want YYYY-MM-DD: %w", err)
				}
			}
			tb, err := app.Client.Accounting().TrialBalance(cmd.Context(), cutoff)
			if err != nil {
				return displayError(err)
			}
			return printJSON(tb)
		},
	}
	trialBalance.Flags().StringVar(&asOf, "as-of", "", "report cutoff date (YYYY-MM-DD)")

	cmd.AddCommand(entries, entry, createEntry, postEntry, accounts, createAccount, trialBalance)
	return cmd
}
