package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"famledger/models"
)

func TestLedgerFromDocOrdersByCreation(t *testing.T) {
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	raw := ledgerDoc{
		Transactions: map[string]transactionDoc{
			"late":  {Amount: "1", Date: base, CreatedAt: base.Add(2 * time.Hour)},
			"early": {Amount: "1", Date: base, CreatedAt: base},
			"mid":   {Amount: "1", Date: base, CreatedAt: base.Add(time.Hour)},
		},
		Budgets: map[string]allocationDoc{},
	}

	doc := ledgerFromDoc("123456", raw)
	assert.Equal(t, []string{"early", "mid", "late"}, doc.TransactionOrder)
}

func TestLedgerFromDocTiesBreakOnID(t *testing.T) {
	stamp := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	raw := ledgerDoc{
		Transactions: map[string]transactionDoc{
			"b": {Amount: "1", CreatedAt: stamp},
			"a": {Amount: "1", CreatedAt: stamp},
		},
	}

	doc := ledgerFromDoc("123456", raw)
	assert.Equal(t, []string{"a", "b"}, doc.TransactionOrder)
}

func TestCorruptAmountBecomesZero(t *testing.T) {
	// The aggregation engine drops zero-amount records, so a corrupt
	// amount degrades to an excluded record instead of an error.
	got := transactionFromDoc("t1", transactionDoc{Amount: "not-a-number"})
	assert.True(t, got.Amount.Equal(decimal.Zero))
}

func TestTransactionRoundTrip(t *testing.T) {
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	in := models.Transaction{
		ID:          "t1",
		OwnerUID:    "u1",
		OwnerName:   "Dana",
		Date:        now,
		Amount:      decimal.RequireFromString("1234.56"),
		Description: "Groceries",
		AccountType: models.RoleProvider,
		Type:        models.TypeExpense,
		Category:    models.Category{ID: "food", Title: "Food & Groceries", Icon: "restaurant"},
	}

	out := transactionFromDoc("t1", transactionToDoc(in, now))
	require.True(t, out.Amount.Equal(in.Amount))
	out.Amount = in.Amount // decimal internals differ, value compared above
	assert.Equal(t, in, out)
}
