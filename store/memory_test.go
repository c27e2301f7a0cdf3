package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"famledger/models"
)

func TestMemoryProfileRoundTrip(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	_, err := s.Profile(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	p := &models.AccountProfile{UID: "u1", Name: "Dana", Role: models.RoleProvider, FamilyCode: "123456"}
	require.NoError(t, s.SaveProfile(ctx, p))

	got, err := s.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, *p, *got)
}

func TestMemoryLedgerWritesKeepOrder(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	require.NoError(t, s.CreateLedger(ctx, "123456"))

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.UpsertTransaction(ctx, "123456", models.Transaction{
			ID:     id,
			Amount: decimal.NewFromInt(1),
			Date:   time.Now(),
		}))
	}
	// Editing an existing record must not move it.
	require.NoError(t, s.UpsertTransaction(ctx, "123456", models.Transaction{
		ID:     "a",
		Amount: decimal.NewFromInt(2),
		Date:   time.Now(),
	}))

	doc, err := s.Ledger(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, doc.TransactionOrder)
	assert.True(t, doc.Transactions["a"].Amount.Equal(decimal.NewFromInt(2)))

	require.NoError(t, s.DeleteTransaction(ctx, "123456", "b"))
	doc, _ = s.Ledger(ctx, "123456")
	assert.Equal(t, []string{"a", "c"}, doc.TransactionOrder)
}

func TestMemorySubscriptionDeliversSnapshots(t *testing.T) {
	s := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.CreateLedger(ctx, "123456"))

	sub, err := s.SubscribeLedger(ctx, "123456")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, s.UpsertTransaction(ctx, "123456", models.Transaction{
		ID:     "t1",
		Amount: decimal.NewFromInt(5),
		Date:   time.Now(),
	}))

	select {
	case doc := <-sub.Snapshots():
		require.NotNil(t, doc)
		assert.Contains(t, doc.Transactions, "t1")
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestMemorySubscriptionClosesOnCancel(t *testing.T) {
	s := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.CreateLedger(ctx, "123456"))

	sub, err := s.SubscribeLedger(ctx, "123456")
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-sub.Snapshots():
		assert.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestMemorySnapshotsAreCopies(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	require.NoError(t, s.CreateLedger(ctx, "123456"))
	require.NoError(t, s.UpsertTransaction(ctx, "123456", models.Transaction{
		ID:     "t1",
		Amount: decimal.NewFromInt(5),
		Date:   time.Now(),
	}))

	doc, err := s.Ledger(ctx, "123456")
	require.NoError(t, err)
	delete(doc.Transactions, "t1")

	again, err := s.Ledger(ctx, "123456")
	require.NoError(t, err)
	assert.Contains(t, again.Transactions, "t1")
}
