package store

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"famledger/models"
)

// Wire shapes for the backend documents. Amounts travel as strings so the
// decimal values survive the trip exactly; CreatedAt carries the creation
// order the source platform got for free from object key ordering.

type categoryDoc struct {
	ID    string `firestore:"id"`
	Title string `firestore:"title"`
	Icon  string `firestore:"icon"`
	Color string `firestore:"color,omitempty"`
}

type transactionDoc struct {
	OwnerUID    string      `firestore:"ownerUid"`
	OwnerName   string      `firestore:"ownerName"`
	Date        time.Time   `firestore:"date"`
	Amount      string      `firestore:"amount"`
	Description string      `firestore:"description"`
	AccountType string      `firestore:"accountType"`
	Type        string      `firestore:"type"`
	Category    categoryDoc `firestore:"category"`
	CreatedAt   time.Time   `firestore:"createdAt"`
}

type allocationDoc struct {
	ProviderName   string    `firestore:"providerName"`
	Amount         string    `firestore:"amount"`
	Description    string    `firestore:"description"`
	DateRange      string    `firestore:"dateRange"`
	DateRangeStart time.Time `firestore:"dateRangeStart"`
	DateRangeEnd   time.Time `firestore:"dateRangeEnd"`
	SelectedUID    string    `firestore:"selectedUid"`
	CreatedAt      time.Time `firestore:"createdAt"`
}

type ledgerDoc struct {
	Transactions map[string]transactionDoc `firestore:"transactions"`
	Budgets      map[string]allocationDoc  `firestore:"budgets"`
}

type profileDoc struct {
	Name         string `firestore:"name"`
	Email        string `firestore:"email"`
	Role         string `firestore:"role"`
	ProfileColor string `firestore:"profileColor,omitempty"`
	FamilyCode   string `firestore:"familyCode"`
}

// parseAmount tolerates corrupt documents: an unparseable amount becomes
// zero, which the aggregation engine then skips instead of crashing.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func transactionToDoc(t models.Transaction, createdAt time.Time) transactionDoc {
	return transactionDoc{
		OwnerUID:    t.OwnerUID,
		OwnerName:   t.OwnerName,
		Date:        t.Date,
		Amount:      t.Amount.String(),
		Description: t.Description,
		AccountType: t.AccountType,
		Type:        t.Type,
		Category: categoryDoc{
			ID:    t.Category.ID,
			Title: t.Category.Title,
			Icon:  t.Category.Icon,
			Color: t.Category.Color,
		},
		CreatedAt: createdAt,
	}
}

func transactionFromDoc(id string, d transactionDoc) models.Transaction {
	return models.Transaction{
		ID:          id,
		OwnerUID:    d.OwnerUID,
		OwnerName:   d.OwnerName,
		Date:        d.Date,
		Amount:      parseAmount(d.Amount),
		Description: d.Description,
		AccountType: d.AccountType,
		Type:        d.Type,
		Category: models.Category{
			ID:    d.Category.ID,
			Title: d.Category.Title,
			Icon:  d.Category.Icon,
			Color: d.Category.Color,
		},
	}
}

func allocationToDoc(a models.BudgetAllocation, createdAt time.Time) allocationDoc {
	return allocationDoc{
		ProviderName:   a.ProviderName,
		Amount:         a.Amount.String(),
		Description:    a.Description,
		DateRange:      string(a.DateRange),
		DateRangeStart: a.DateRangeStart,
		DateRangeEnd:   a.DateRangeEnd,
		SelectedUID:    a.SelectedUID,
		CreatedAt:      createdAt,
	}
}

func allocationFromDoc(id string, d allocationDoc) models.BudgetAllocation {
	return models.BudgetAllocation{
		ID:             id,
		ProviderName:   d.ProviderName,
		Amount:         parseAmount(d.Amount),
		Description:    d.Description,
		DateRange:      models.Granularity(d.DateRange),
		DateRangeStart: d.DateRangeStart,
		DateRangeEnd:   d.DateRangeEnd,
		SelectedUID:    d.SelectedUID,
	}
}

func ledgerFromDoc(familyCode string, raw ledgerDoc) *models.LedgerDocument {
	doc := models.NewLedgerDocument(familyCode)

	for id, td := range raw.Transactions {
		doc.Transactions[id] = transactionFromDoc(id, td)
		doc.TransactionOrder = append(doc.TransactionOrder, id)
	}
	sortByCreation(doc.TransactionOrder, func(id string) time.Time {
		return raw.Transactions[id].CreatedAt
	})

	for id, ad := range raw.Budgets {
		doc.Budgets[id] = allocationFromDoc(id, ad)
		doc.BudgetOrder = append(doc.BudgetOrder, id)
	}
	sortByCreation(doc.BudgetOrder, func(id string) time.Time {
		return raw.Budgets[id].CreatedAt
	})

	return doc
}

// sortByCreation orders ids by creation timestamp, ids as tie-breaker so
// the order is deterministic even for equal stamps.
func sortByCreation(ids []string, createdAt func(id string) time.Time) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := createdAt(ids[i]), createdAt(ids[j])
		if a.Equal(b) {
			return ids[i] < ids[j]
		}
		return a.Before(b)
	})
}

func profileToDoc(p *models.AccountProfile) profileDoc {
	return profileDoc{
		Name:         p.Name,
		Email:        p.Email,
		Role:         p.Role,
		ProfileColor: p.ProfileColor,
		FamilyCode:   p.FamilyCode,
	}
}

func profileFromDoc(uid string, d profileDoc) *models.AccountProfile {
	return &models.AccountProfile{
		UID:          uid,
		Name:         d.Name,
		Email:        d.Email,
		Role:         d.Role,
		ProfileColor: d.ProfileColor,
		FamilyCode:   d.FamilyCode,
	}
}
