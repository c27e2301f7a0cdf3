package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"famledger/models"
)

func validTransactionForm() TransactionForm {
	return TransactionForm{
		AmountText:  "12.50",
		Description: "School lunch",
		Type:        models.TypeExpense,
		CategoryID:  "food",
		HasDate:     true,
	}
}

func TestTransactionValid(t *testing.T) {
	v := Transaction(validTransactionForm())
	assert.True(t, v.OK)
	assert.Empty(t, v.Field)
}

func TestTransactionFirstFailingRule(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*TransactionForm)
		wantField string
	}{
		{"missing amount", func(f *TransactionForm) { f.AmountText = " " }, "amount"},
		{"bad amount", func(f *TransactionForm) { f.AmountText = "12.345" }, "amount"},
		{"negative amount", func(f *TransactionForm) { f.AmountText = "-3" }, "amount"},
		{"missing description", func(f *TransactionForm) { f.Description = "" }, "description"},
		{"long description", func(f *TransactionForm) { f.Description = strings.Repeat("x", 61) }, "description"},
		{"bad type", func(f *TransactionForm) { f.Type = "transfer" }, "type"},
		{"missing category", func(f *TransactionForm) { f.CategoryID = "" }, "category"},
		{"missing date", func(f *TransactionForm) { f.HasDate = false }, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validTransactionForm()
			tt.mutate(&f)
			v := Transaction(f)
			assert.False(t, v.OK)
			assert.Equal(t, tt.wantField, v.Field)
			assert.NotEmpty(t, v.Message)
		})
	}
}

func TestTransactionReportsOnlyFirstFailure(t *testing.T) {
	// Amount and description both fail; only the amount rule is reported.
	v := Transaction(TransactionForm{})
	assert.False(t, v.OK)
	assert.Equal(t, "amount", v.Field)
}

func TestTransactionDescriptionBoundary(t *testing.T) {
	f := validTransactionForm()
	f.Description = strings.Repeat("x", MaxDescriptionLen)
	assert.True(t, Transaction(f).OK)
}

func TestAllocation(t *testing.T) {
	valid := AllocationForm{
		AmountText:  "300",
		Description: "Weekly budget",
		DateRange:   models.GranularityWeek,
		SelectedUID: "mem-1",
	}
	assert.True(t, Allocation(valid).OK)

	bad := valid
	bad.DateRange = "fortnight"
	v := Allocation(bad)
	assert.False(t, v.OK)
	assert.Equal(t, "dateRange", v.Field)

	bad = valid
	bad.SelectedUID = ""
	v = Allocation(bad)
	assert.False(t, v.OK)
	assert.Equal(t, "selectedUid", v.Field)
}
