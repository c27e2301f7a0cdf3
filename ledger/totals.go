package ledger

import (
	"github.com/shopspring/decimal"

	"famledger/models"
)

// Totals are the derived figures for the active window. Balance may be
// negative; the sign only drives presentation.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// ComputeTotals sums the filtered records. A provider's income is the sum
// of income transactions; a member's income is the amount of the first
// matching allocation, or zero when none applies.
func ComputeTotals(txs []models.Transaction, allocs []models.BudgetAllocation, caller *models.AccountProfile) Totals {
	var income, expense decimal.Decimal
	for _, t := range txs {
		switch t.Type {
		case models.TypeExpense:
			expense = expense.Add(t.Amount)
		case models.TypeIncome:
			if caller.IsProvider() {
				income = income.Add(t.Amount)
			}
		}
	}
	if !caller.IsProvider() && len(allocs) > 0 {
		income = allocs[0].Amount
	}
	return Totals{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}
