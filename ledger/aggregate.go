package ledger

import (
	"time"

	"go.uber.org/zap"

	"famledger/logger"
	"famledger/models"
)

// ShownSet persists which allocation ids have already produced a one-time
// budget alert, so a relaunch does not alert again.
type ShownSet interface {
	Has(id string) bool
	Add(id string) error
	// Prune drops every remembered id for which live returns false.
	Prune(live func(id string) bool) error
}

// Input is everything one aggregation pass depends on. The caller profile
// is passed explicitly rather than read from ambient state so the engine
// stays a pure function of its arguments.
type Input struct {
	Doc         *models.LedgerDocument
	Caller      *models.AccountProfile
	Granularity models.Granularity
	Reference   time.Time
}

// Result is the derived view state for one period.
type Result struct {
	Window       Window                    `json:"window"`
	Transactions []models.Transaction      `json:"transactions"`
	Allocations  []models.BudgetAllocation `json:"allocations"`
	Totals       Totals                    `json:"totals"`
	// Alert is set at most once per allocation id across the process (and,
	// via the persisted shown set, across relaunches).
	Alert *models.BudgetAllocation `json:"alert,omitempty"`
}

// Aggregate derives the view state for one period from a ledger document.
// Re-running it on an unchanged document and period yields an identical
// result. The only side effect is the shown-set mutation behind the alert
// rule; pass a nil shown set to disable alerting entirely.
func Aggregate(in Input, shown ShownSet) Result {
	w := Resolve(in.Granularity, in.Reference)
	txs := FilterTransactions(in.Doc, w, in.Caller)
	allocs := FilterAllocations(in.Doc, w, in.Caller)
	return Result{
		Window:       w,
		Transactions: txs,
		Allocations:  allocs,
		Totals:       ComputeTotals(txs, allocs, in.Caller),
		Alert:        evaluateAlert(in.Doc, allocs, in.Granularity, shown),
	}
}

// evaluateAlert applies the at-most-once alert rule and garbage-collects
// shown ids whose allocations no longer exist in the document.
func evaluateAlert(doc *models.LedgerDocument, allocs []models.BudgetAllocation, g models.Granularity, shown ShownSet) *models.BudgetAllocation {
	if shown == nil {
		return nil
	}
	if err := shown.Prune(func(id string) bool {
		_, ok := doc.Budgets[id]
		return ok
	}); err != nil {
		logger.Get().Warn("pruning alert shown set failed", zap.Error(err))
	}
	if len(allocs) == 0 {
		return nil
	}
	first := allocs[0]
	if first.DateRange != g {
		return nil
	}
	if shown.Has(first.ID) {
		return nil
	}
	if err := shown.Add(first.ID); err != nil {
		logger.Get().Warn("persisting alert shown set failed",
			zap.String("id", first.ID), zap.Error(err))
	}
	return &first
}
