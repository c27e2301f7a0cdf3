// Package validate gates writes into the ledger. Validators inspect a
// whole form and report the first failing rule; they never panic and never
// return more than one active error.
package validate

import (
	"strings"
	"unicode/utf8"

	"famledger/format"
	"famledger/models"
)

// MaxDescriptionLen bounds free-text descriptions.
const MaxDescriptionLen = 60

// Verdict is the structured result of validating a form. A zero Field
// with OK=true means every rule passed.
type Verdict struct {
	OK      bool   `json:"ok"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

func fail(field, message string) Verdict {
	return Verdict{Field: field, Message: message}
}

var pass = Verdict{OK: true}

// TransactionForm carries the raw field values of the add/edit transaction
// screen before they become a record.
type TransactionForm struct {
	AmountText  string
	Description string
	Type        string
	CategoryID  string
	HasDate     bool
}

// Transaction checks the transaction form rules in screen order and stops
// at the first failure.
func Transaction(f TransactionForm) Verdict {
	if strings.TrimSpace(f.AmountText) == "" {
		return fail("amount", "Amount is required")
	}
	if _, err := format.ParseAmount(f.AmountText); err != nil {
		return fail("amount", "Enter a positive amount with at most 2 decimal places")
	}
	if strings.TrimSpace(f.Description) == "" {
		return fail("description", "Description is required")
	}
	if utf8.RuneCountInString(f.Description) > MaxDescriptionLen {
		return fail("description", "Description must be 60 characters or fewer")
	}
	if f.Type != models.TypeIncome && f.Type != models.TypeExpense {
		return fail("type", "Choose income or expense")
	}
	if strings.TrimSpace(f.CategoryID) == "" {
		return fail("category", "Choose a category")
	}
	if !f.HasDate {
		return fail("date", "Choose a date")
	}
	return pass
}

// AllocationForm carries the raw field values of the budget allocation
// screen.
type AllocationForm struct {
	AmountText  string
	Description string
	DateRange   models.Granularity
	SelectedUID string
}

// Allocation checks the budget form rules in screen order and stops at the
// first failure.
func Allocation(f AllocationForm) Verdict {
	if strings.TrimSpace(f.AmountText) == "" {
		return fail("amount", "Amount is required")
	}
	if _, err := format.ParseAmount(f.AmountText); err != nil {
		return fail("amount", "Enter a positive amount with at most 2 decimal places")
	}
	if strings.TrimSpace(f.Description) == "" {
		return fail("description", "Description is required")
	}
	if utf8.RuneCountInString(f.Description) > MaxDescriptionLen {
		return fail("description", "Description must be 60 characters or fewer")
	}
	if !f.DateRange.Valid() {
		return fail("dateRange", "Choose day, week, or month")
	}
	if strings.TrimSpace(f.SelectedUID) == "" {
		return fail("selectedUid", "Choose a family member")
	}
	return pass
}
