package models

// LedgerDocument is the shared family document holding every transaction
// and budget allocation, keyed by the family code. The backend delivers it
// as full-document replacements; each delivery fully replaces the working
// copy.
//
// The order slices carry creation order alongside the id-keyed maps. Map
// iteration order is randomized in Go, but downstream consumers depend on
// insertion order (tie-breaking in the transaction sort, first-match
// semantics for allocations), so the store keeps the slices aligned with
// the maps.
type LedgerDocument struct {
	FamilyCode       string
	Transactions     map[string]Transaction
	TransactionOrder []string
	Budgets          map[string]BudgetAllocation
	BudgetOrder      []string
}

// NewLedgerDocument returns an empty ledger for the given family code.
func NewLedgerDocument(familyCode string) *LedgerDocument {
	return &LedgerDocument{
		FamilyCode:   familyCode,
		Transactions: make(map[string]Transaction),
		Budgets:      make(map[string]BudgetAllocation),
	}
}

// OrderedTransactions returns the transactions in creation order, with the
// map key attached as the ID field. Ids present in the order slice but
// missing from the map are skipped.
func (d *LedgerDocument) OrderedTransactions() []Transaction {
	out := make([]Transaction, 0, len(d.Transactions))
	for _, id := range d.TransactionOrder {
		t, ok := d.Transactions[id]
		if !ok {
			continue
		}
		t.ID = id
		out = append(out, t)
	}
	return out
}

// OrderedBudgets returns the budget allocations in creation order, with the
// map key attached as the ID field.
func (d *LedgerDocument) OrderedBudgets() []BudgetAllocation {
	out := make([]BudgetAllocation, 0, len(d.Budgets))
	for _, id := range d.BudgetOrder {
		b, ok := d.Budgets[id]
		if !ok {
			continue
		}
		b.ID = id
		out = append(out, b)
	}
	return out
}
