package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense record in the family ledger.
// The ID field mirrors the record's key in the ledger document map and is
// attached when the record is read out of the document.
type Transaction struct {
	ID          string          `json:"id"`
	OwnerUID    string          `json:"ownerUid"`
	OwnerName   string          `json:"ownerName"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	AccountType string          `json:"accountType"` // provider or member
	Type        string          `json:"type"`        // income or expense
	Category    Category        `json:"category"`
}
