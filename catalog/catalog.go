package catalog

import "famledger/models"

// Static category metadata. Entries are copied into a transaction when it
// is created; editing this catalog never changes existing records.

var Expense = []models.Category{
	{ID: "food", Title: "Food & Groceries", Icon: "restaurant", Color: "#F4A261"},
	{ID: "transport", Title: "Transportation", Icon: "directions_bus", Color: "#2A9D8F"},
	{ID: "bills", Title: "Bills & Utilities", Icon: "receipt_long", Color: "#E76F51"},
	{ID: "education", Title: "Education", Icon: "school", Color: "#264653"},
	{ID: "health", Title: "Health", Icon: "medical_services", Color: "#E63946"},
	{ID: "shopping", Title: "Shopping", Icon: "shopping_bag", Color: "#9B5DE5"},
	{ID: "leisure", Title: "Leisure", Icon: "sports_esports", Color: "#00B4D8"},
	{ID: "other_expense", Title: "Others", Icon: "category", Color: "#8D99AE"},
}

var Income = []models.Category{
	{ID: "salary", Title: "Salary", Icon: "payments", Color: "#2A9D8F"},
	{ID: "allowance", Title: "Allowance", Icon: "savings", Color: "#E9C46A"},
	{ID: "gift", Title: "Gift", Icon: "card_giftcard", Color: "#F4A261"},
	{ID: "other_income", Title: "Others", Icon: "category", Color: "#8D99AE"},
}

// ByType returns the catalog for a transaction type, defaulting to the
// expense set for anything unrecognized.
func ByType(txType string) []models.Category {
	if txType == models.TypeIncome {
		return Income
	}
	return Expense
}

// Lookup finds a catalog entry by id across both sets.
func Lookup(id string) (models.Category, bool) {
	for _, set := range [][]models.Category{Expense, Income} {
		for _, c := range set {
			if c.ID == id {
				return c, true
			}
		}
	}
	return models.Category{}, false
}
