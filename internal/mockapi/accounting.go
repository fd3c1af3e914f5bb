package mockapi

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/xerpia/erp-console/internal/core/domain"
)

// Accounts lists the chart of accounts ordered by code.
func (s *Store) Accounts() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Account fetches one account by id.
func (s *Store) Account(id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

// CreateAccount adds an account to the chart.
func (s *Store) CreateAccount(req domain.CreateAccountRequest) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ParentID != "" {
		if _, ok := s.accounts[req.ParentID]; !ok {
			return nil, domain.ErrAccountNotFound
		}
	}
	now := time.Now().UTC()
	a := &domain.Account{
		ID:        s.id("acc"),
		Code:      req.Code,
		Name:      req.Name,
		Type:      req.Type,
		ParentID:  req.ParentID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.accounts[a.ID] = a
	clone := *a
	return &clone, nil
}

// Entries lists journal entries, newest first.
func (s *Store) Entries() []domain.AccountingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AccountingEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Entry fetches one journal entry by id.
func (s *Store) Entry(id string) (*domain.AccountingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	clone := *e
	return &clone, nil
}

// CreateEntry records an unposted journal entry. Debits must equal credits
// and every referenced account must exist.
func (s *Store) CreateEntry(req domain.CreateEntryRequest, createdBy string) (*domain.AccountingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for i := range req.Entries {
		if _, ok := s.accounts[req.Entries[i].AccountID]; !ok {
			return nil, domain.ErrAccountNotFound
		}
		total += req.Entries[i].Debit
	}

	now := time.Now().UTC()
	e := &domain.AccountingEntry{
		ID:          s.id("jrn"),
		Date:        req.Date,
		Description: req.Description,
		Reference:   req.Reference,
		TotalAmount: total,
		Entries:     req.Entries,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i := range e.Entries {
		e.Entries[i].ID = s.id("dtl")
	}
	if !e.Balanced() {
		return nil, domain.ErrEntryUnbalanced
	}
	s.entries[e.ID] = e
	clone := *e
	return &clone, nil
}

// PostEntry locks an entry into the books and applies its lines to the
// account balances. Posting twice is a no-op.
func (s *Store) PostEntry(id string) (*domain.AccountingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	if !e.IsPosted {
		for _, d := range e.Entries {
			if a, ok := s.accounts[d.AccountID]; ok {
				a.Balance += balanceDelta(a.Type, d.Debit, d.Credit)
			}
		}
		e.IsPosted = true
		e.UpdatedAt = time.Now().UTC()
	}
	clone := *e
	return &clone, nil
}

// balanceDelta applies double-entry sign conventions: debits grow assets and
// expenses, credits grow liabilities, equity and revenue.
func balanceDelta(typ domain.AccountType, debit, credit float64) float64 {
	switch typ {
	case domain.AccountAsset, domain.AccountExpense:
		return debit - credit
	default:
		return credit - debit
	}
}

// TrialBalance sums posted entries per account up to the cutoff date. A zero
// cutoff means "now".
func (s *Store) TrialBalance(asOf time.Time) *domain.TrialBalance {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[string]*domain.TrialBalanceLine)
	for _, e := range s.entries {
		if !e.IsPosted || e.Date.After(asOf) {
			continue
		}
		for _, d := range e.Entries {
			line, ok := sums[d.AccountID]
			if !ok {
				a := s.accounts[d.AccountID]
				line = &domain.TrialBalanceLine{
					AccountID:   d.AccountID,
					AccountCode: a.Code,
					AccountName: a.Name,
				}
				sums[d.AccountID] = line
			}
			line.Debit += d.Debit
			line.Credit += d.Credit
		}
	}

	tb := &domain.TrialBalance{AsOf: asOf}
	for _, line := range sums {
		tb.Lines = append(tb.Lines, *line)
		tb.TotalDebit += line.Debit
		tb.TotalCredit += line.Credit
	}
	sort.Slice(tb.Lines, func(i, j int) bool { return tb.Lines[i].AccountCode < tb.Lines[j].AccountCode })
	return tb
}

func (h *resourceHandler) ListEntries(c echo.Context) error {
	return ok(c, http.StatusOK, h.store.Entries())
}

func (h *resourceHandler) GetEntry(c echo.Context) error {
	e, err := h.store.Entry(c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, e)
}

func (h *resourceHandler) CreateEntry(c echo.Context) error {
	var req domain.CreateEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	createdBy, _ := c.Get("username").(string)
	e, err := h.store.CreateEntry(req, createdBy)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, e)
}

func (h *resourceHandler) PostEntry(c echo.Context) error {
	e, err := h.store.PostEntry(c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, e)
}

func (h *resourceHandler) ListAccounts(c echo.Context) error {
	return ok(c, http.StatusOK, h.store.Accounts())
}

func (h *resourceHandler) GetAccount(c echo.Context) error {
	a, err := h.store.Account(c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, a)
}

func (h *resourceHandler) CreateAccount(c echo.Context) error {
	var req domain.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.store.CreateAccount(req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, a)
}

func (h *resourceHandler) GetTrialBalance(c echo.Context) error {
	var asOf time.Time
	if raw := c.QueryParam("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid asOf date")
		}
		asOf = parsed
	}
	return ok(c, http.StatusOK, h.store.TrialBalance(asOf))
}
