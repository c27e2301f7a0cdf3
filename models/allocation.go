package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetAllocation is a provider-issued budget for one member over one
// period. DateRange names the granularity the allocation applies to and the
// start/end instants bound its validity; the creator keeps the two
// consistent (a week allocation spans exactly seven days), the aggregation
// engine does not re-validate the span.
type BudgetAllocation struct {
	ID             string          `json:"id"`
	ProviderName   string          `json:"providerName"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	DateRange      Granularity     `json:"dateRange"`
	DateRangeStart time.Time       `json:"dateRangeStart"`
	DateRangeEnd   time.Time       `json:"dateRangeEnd"`
	SelectedUID    string          `json:"selectedUid"` // member the budget targets
}
