package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

type (
	// TransactionType marks a transaction as money in or money out.
	TransactionType string

	// User anchors ownership of every other entity.
	User struct {
		ID           string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	// Category is a per-user label for transactions. Categories are never
	// hard-deleted; archiving keeps historical references intact.
	Category struct {
		ID         string
		UserID     string
		Name       string
		IsIncome   bool
		IsArchived bool
	}

	// Transaction is a dated monetary movement tied to a category.
	// OccurredOn is always stored in UTC.
	Transaction struct {
		ID         string
		UserID     string
		CategoryID string
		Type       TransactionType
		Amount     decimal.Decimal
		OccurredOn time.Time
		Note       string
	}

	// Budget is the planned spend for one (user, category, year, month).
	// At most one row exists per key; writes go through an upsert.
	Budget struct {
		ID         string
		UserID     string
		CategoryID string
		Year       int
		Month      int
		Amount     decimal.Decimal
	}
)

// ParseTransactionType parses a type name case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	default:
		return "", Invalidf("type must be 'Income' or 'Expense'")
	}
}

// IsIncome reports whether the type represents money in.
func (t TransactionType) IsIncome() bool {
	return t == Income
}

// Matches reports whether a transaction of this type may reference the
// category: an income category takes income transactions only, and vice
// versa. This invariant holds at creation and across every update.
func (t TransactionType) Matches(c Category) bool {
	return c.IsIncome == t.IsIncome()
}

// CategoryPatch is a partial category update; nil fields are left untouched.
type CategoryPatch struct {
	Name       *string
	IsIncome   *bool
	IsArchived *bool
}

// TransactionPatch is a partial transaction update; nil fields are left
// untouched.
type TransactionPatch struct {
	CategoryID *string
	Type       *TransactionType
	Amount     *decimal.Decimal
	OccurredOn *Instant
	Note       *string
}

// TransactionFilter narrows a ledger listing. From is inclusive, To is
// exclusive; both compare against the stored UTC timestamp.
type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	CategoryID string
	Type       *TransactionType
}

// Page is 1-based pagination.
type Page struct {
	Number int
	Size   int
}

// Validate rejects non-positive page parameters.
func (p Page) Validate() error {
	if p.Number < 1 || p.Size < 1 {
		return Invalidf("page and pageSize must be positive")
	}
	return nil
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ValidateCategoryName trims the name and rejects empty ones.
func ValidateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Invalidf("category name is required")
	}
	return name, nil
}

// Validate checks the budget key and amount.
func (b Budget) Validate() error {
	if b.Month < 1 || b.Month > 12 {
		return Invalidf("month must be 1..12")
	}
	if b.Amount.IsNegative() {
		return Invalidf("amount must not be negative")
	}
	return nil
}
