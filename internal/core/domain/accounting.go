package domain

import "time"

// AccountType classifies an account in the chart of accounts.
type AccountType string

const (
	AccountAsset     AccountType = "asset"
	AccountLiability AccountType = "liability"
	AccountEquity    AccountType = "equity"
	AccountRevenue   AccountType = "revenue"
	AccountExpense   AccountType = "expense"
)

// Account is a node in the chart of accounts.
type Account struct {
	ID        string      `json:"id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	ParentID  string      `json:"parentId,omitempty"`
	Balance   float64     `json:"balance"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt,omitempty"`
}

// EntryDetail is a single debit/credit line of a journal entry.
type EntryDetail struct {
	ID          string  `json:"id,omitempty"`
	AccountID   string  `json:"accountId"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
	Description string  `json:"description,omitempty"`
}

// AccountingEntry is a double-entry journal record.
type AccountingEntry struct {
	ID          string        `json:"id"`
	Date        time.Time     `json:"date"`
	Description string        `json:"description"`
	Reference   string        `json:"reference,omitempty"`
	TotalAmount float64       `json:"totalAmount"`
	Entries     []EntryDetail `json:"entries"`
	IsPosted    bool          `json:"isPosted"`
	CreatedBy   string        `json:"createdBy,omitempty"`
	CreatedAt   time.Time     `json:"createdAt,omitempty"`
	UpdatedAt   time.Time     `json:"updatedAt,omitempty"`
}

// Balanced reports whether total debits equal total credits.
func (e *AccountingEntry) Balanced() bool {
	var debit, credit float64
	for _, d := range e.Entries {
		debit += d.Debit
		credit += d.Credit
	}
	return debit == credit
}

// CreateEntryRequest is the payload for POST /accounting/entries.
type CreateEntryRequest struct {
	Date        time.Time     `json:"date" validate:"required"`
	Description string        `json:"description" validate:"required"`
	Reference   string        `json:"reference,omitempty"`
	Entries     []EntryDetail `json:"entries" validate:"required,min=2,dive"`
}

// CreateAccountRequest is the payload for POST /accounting/accounts.
type CreateAccountRequest struct {
	Code     string      `json:"code" validate:"required"`
	Name     string      `json:"name" validate:"required"`
	Type     AccountType `json:"type" validate:"required,oneof=asset liability equity revenue expense"`
	ParentID string      `json:"parentId,omitempty"`
}

// TrialBalanceLine is one account row of a trial balance report.
type TrialBalanceLine struct {
	AccountID   string  `json:"accountId"`
	AccountCode string  `json:"accountCode"`
	AccountName string  `json:"accountName"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

// TrialBalance is the summary report over posted entries.
type TrialBalance struct {
	AsOf        time.Time          `json:"asOf"`
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  float64            `json:"totalDebit"`
	TotalCredit float64            `json:"totalCredit"`
}
