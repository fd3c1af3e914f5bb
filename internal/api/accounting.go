package api

import (
	"context"
	"net/url"
	"time"

	"github.com/xerpia/erp-console/internal/core/domain"
)

// AccountingService wraps the /accounting endpoints.
type AccountingService struct {
	c *Client
}

func (s *AccountingService) Entries(ctx context.Context, p *Pagination) ([]domain.AccountingEntry, error) {
	return listJSON[domain.AccountingEntry](ctx, s.c, "/accounting/entries", p, nil)
}

func (s *AccountingService) Entry(ctx context.Context, id string) (*domain.AccountingEntry, error) {
	return getJSON[*domain.AccountingEntry](ctx, s.c, "/accounting/entries/"+url.PathEscape(id), nil)
}

func (s *AccountingService) CreateEntry(ctx context.Context, req domain.CreateEntryRequest) (*domain.AccountingEntry, error) {
	return postJSON[*domain.AccountingEntry](ctx, s.c, "/accounting/entries", req)
}

// PostEntry marks a journal entry as posted; posted entries become part of
// the trial balance and can no longer be edited.
func (s *AccountingService) PostEntry(ctx context.Context, id string) (*domain.AccountingEntry, error) {
	return patchJSON[*domain.AccountingEntry](ctx, s.c, "/accounting/entries/"+url.PathEscape(id)+"/post", nil)
}

func (s *AccountingService) Accounts(ctx context.Context) ([]domain.Account, error) {
	return getJSON[[]domain.Account](ctx, s.c, "/accounting/accounts", nil)
}

func (s *AccountingService) Account(ctx context.Context, id string) (*domain.Account, error) {
	return getJSON[*domain.Account](ctx, s.c, "/accounting/accounts/"+url.PathEscape(id), nil)
}

func (s *AccountingService) CreateAccount(ctx context.Context, req domain.CreateAccountRequest) (*domain.Account, error) {
	return postJSON[*domain.Account](ctx, s.c, "/accounting/accounts", req)
}

// TrialBalance fetches the debit/credit summary over posted entries up to
// the given date.
func (s *AccountingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	q := url.Values{}
	if !asOf.IsZero() {
		q.Set("asOf", asOf.Format(time.RFC3339))
	}
	return getJSON[*domain.TrialBalance](ctx, s.c, "/accounting/reports/trial-balance", q)
}
