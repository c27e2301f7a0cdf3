package session

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"famledger/cache"
	"famledger/ledger"
	"famledger/models"
	"famledger/store"
)

func testFixtures(t *testing.T) (*store.MemoryStore, *cache.Cache) {
	t.Helper()
	st := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, st.SaveProfile(ctx, &models.AccountProfile{
		UID: "prov-1", Name: "Dana", Role: models.RoleProvider, FamilyCode: "123456",
	}))
	require.NoError(t, st.CreateLedger(ctx, "123456"))

	c, err := cache.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return st, c
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSessionRecomputesOnSnapshot(t *testing.T) {
	st, c := testFixtures(t)
	s, err := Start(context.Background(), st, c, Identity{UID: "prov-1"})
	require.NoError(t, err)
	defer s.Close()

	res, ok := s.Result()
	require.True(t, ok)
	assert.Empty(t, res.Transactions)

	require.NoError(t, st.UpsertTransaction(context.Background(), "123456", models.Transaction{
		ID:     "t1",
		Amount: decimal.NewFromInt(50),
		Type:   models.TypeExpense,
		Date:   time.Now(),
	}))

	waitFor(t, func() bool {
		res, ok := s.Result()
		return ok && len(res.Transactions) == 1
	})
	res, _ = s.Result()
	assert.True(t, res.Totals.Expense.Equal(decimal.NewFromInt(50)))
}

func TestSessionGranularitySwitchResetsToNow(t *testing.T) {
	st, c := testFixtures(t)
	s, err := Start(context.Background(), st, c, Identity{UID: "prov-1"})
	require.NoError(t, err)
	defer s.Close()

	// Pin the clock so the reset is observable.
	fixed := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	s.mu.Lock()
	s.now = func() time.Time { return fixed }
	s.mu.Unlock()

	// Navigate away, then switch granularity: the window snaps back to the
	// one containing "now" instead of preserving the navigated instant.
	s.Shift(-3)
	require.NoError(t, s.SetGranularity(models.GranularityWeek))

	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), res.Window.Start)

	// The choice is cached for the next launch.
	g, ok := c.LastGranularity()
	require.True(t, ok)
	assert.Equal(t, models.GranularityWeek, g)
}

func TestSessionShift(t *testing.T) {
	st, c := testFixtures(t)
	s, err := Start(context.Background(), st, c, Identity{UID: "prov-1"})
	require.NoError(t, err)
	defer s.Close()

	fixed := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	s.mu.Lock()
	s.now = func() time.Time { return fixed }
	s.mu.Unlock()
	require.NoError(t, s.SetGranularity(models.GranularityDay))

	s.Shift(-1)
	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC), res.Window.Start)

	s.Shift(1)
	res, _ = s.Result()
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), res.Window.Start)
}

func TestSessionRestoresCachedGranularity(t *testing.T) {
	st, c := testFixtures(t)
	require.NoError(t, c.SetLastGranularity(models.GranularityMonth))

	s, err := Start(context.Background(), st, c, Identity{UID: "prov-1"})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, models.GranularityMonth, s.Granularity())
}

func TestSessionCloseStopsPublishing(t *testing.T) {
	st, c := testFixtures(t)
	s, err := Start(context.Background(), st, c, Identity{UID: "prov-1"})
	require.NoError(t, err)

	s.Close()
	_, ok := s.Result()
	assert.False(t, ok)

	// A write after teardown must not resurrect the session's output.
	require.NoError(t, st.UpsertTransaction(context.Background(), "123456", models.Transaction{
		ID:     "t1",
		Amount: decimal.NewFromInt(50),
		Type:   models.TypeExpense,
		Date:   time.Now(),
	}))
	time.Sleep(20 * time.Millisecond)
	_, ok = s.Result()
	assert.False(t, ok)

	// Closing twice is fine.
	s.Close()
}

func TestManagerLifecycle(t *testing.T) {
	st, c := testFixtures(t)
	m := NewManager(st, c)
	defer m.Shutdown()

	a, err := m.Get(context.Background(), Identity{UID: "prov-1"})
	require.NoError(t, err)
	b, err := m.Get(context.Background(), Identity{UID: "prov-1"})
	require.NoError(t, err)
	assert.Same(t, a, b)

	m.End("prov-1")
	_, ok := a.Result()
	assert.False(t, ok)

	// A fresh session replaces the ended one.
	fresh, err := m.Get(context.Background(), Identity{UID: "prov-1"})
	require.NoError(t, err)
	assert.NotSame(t, a, fresh)

	_, err = m.Get(context.Background(), Identity{UID: "nobody"})
	assert.Error(t, err)
}

func TestSessionAlertConsumedOnRead(t *testing.T) {
	st, c := testFixtures(t)
	ctx := context.Background()
	require.NoError(t, st.SaveProfile(ctx, &models.AccountProfile{
		UID: "mem-1", Name: "Sam", Role: models.RoleMember, FamilyCode: "123456",
	}))
	window := ledger.Resolve(models.GranularityDay, time.Now())
	require.NoError(t, st.UpsertAllocation(ctx, "123456", models.BudgetAllocation{
		ID:             "a1",
		Amount:         decimal.NewFromInt(300),
		DateRange:      models.GranularityDay,
		DateRangeStart: window.Start,
		DateRangeEnd:   window.End,
		SelectedUID:    "mem-1",
	}))

	s, err := Start(ctx, st, c, Identity{UID: "mem-1"})
	require.NoError(t, err)
	defer s.Close()

	res, ok := s.Result()
	require.True(t, ok)
	require.NotNil(t, res.Alert)
	assert.Equal(t, "a1", res.Alert.ID)

	// Re-reading the same result does not repeat the popup.
	res, ok = s.Result()
	require.True(t, ok)
	assert.Nil(t, res.Alert)

	// Neither does a later recomputation: the id is already marked shown.
	require.NoError(t, s.SetGranularity(models.GranularityDay))
	res, _ = s.Result()
	assert.Nil(t, res.Alert)
}
