package models

// Account roles
const (
	RoleProvider = "provider"
	RoleMember   = "member"
)

// Transaction types
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Ledger document collections
const (
	CollectionTransactions = "transactions"
	CollectionBudgets      = "budgets"
)

// Granularity is the aggregation window unit.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Valid reports whether g is one of the three supported units.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}
