package ledger

import (
	"sort"

	"go.uber.org/zap"

	"famledger/logger"
	"famledger/models"
)

// FilterTransactions returns the transactions visible to the caller inside
// the window, most recent first. Providers see every record; members see
// only their own. Records with a missing date or non-positive amount come
// from corrupt or partially written documents and are dropped rather than
// failing the whole aggregation.
func FilterTransactions(doc *models.LedgerDocument, w Window, caller *models.AccountProfile) []models.Transaction {
	items := make([]models.Transaction, 0, len(doc.Transactions))
	for _, t := range doc.OrderedTransactions() {
		if t.Date.IsZero() || !t.Amount.IsPositive() {
			logger.Get().Debug("skipping malformed transaction",
				zap.String("id", t.ID),
				zap.String("familyCode", doc.FamilyCode))
			continue
		}
		if !w.Contains(t.Date) {
			continue
		}
		if !caller.IsProvider() && t.OwnerUID != caller.UID {
			continue
		}
		items = append(items, t)
	}
	// Stable so records sharing a date keep creation order.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items
}

// FilterAllocations returns the caller's budget allocations whose own
// granularity equals the window's and whose validity interval matches the
// window, in creation order. Only one allocation is expected to be active
// at a time per granularity, but every match is returned.
func FilterAllocations(doc *models.LedgerDocument, w Window, caller *models.AccountProfile) []models.BudgetAllocation {
	out := make([]models.BudgetAllocation, 0, 1)
	for _, b := range doc.OrderedBudgets() {
		if b.DateRange != w.Granularity {
			continue
		}
		if !w.MatchesRange(b.DateRangeStart, b.DateRangeEnd) {
			continue
		}
		if b.SelectedUID != caller.UID {
			continue
		}
		out = append(out, b)
	}
	return out
}
