// Package store adapts the hosted document backend to the rest of the
// application. The ledger is one document per family, delivered as full
// replacements; writes are merge-style partial updates keyed by
// "<collection>.<id>" inside that document.
package store

import (
	"context"
	"errors"

	"famledger/models"
)

// ErrNotFound is returned when a profile or ledger document does not exist.
var ErrNotFound = errors.New("store: not found")

// Subscription delivers full-document snapshots of one family's ledger
// until closed. The channel is closed on teardown or unrecoverable error.
type Subscription interface {
	Snapshots() <-chan *models.LedgerDocument
	Close()
}

// DocumentStore is the contract with the backend. Every snapshot delivery
// and every Ledger read is authoritative and fully replaces the caller's
// working copy.
type DocumentStore interface {
	Profile(ctx context.Context, uid string) (*models.AccountProfile, error)
	SaveProfile(ctx context.Context, p *models.AccountProfile) error

	CreateLedger(ctx context.Context, familyCode string) error
	Ledger(ctx context.Context, familyCode string) (*models.LedgerDocument, error)
	SubscribeLedger(ctx context.Context, familyCode string) (Subscription, error)

	UpsertTransaction(ctx context.Context, familyCode string, t models.Transaction) error
	DeleteTransaction(ctx context.Context, familyCode, id string) error
	UpsertAllocation(ctx context.Context, familyCode string, a models.BudgetAllocation) error
	DeleteAllocation(ctx context.Context, familyCode, id string) error
}
