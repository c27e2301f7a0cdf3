// Package session owns the per-account lifecycle: created on sign-in,
// torn down on sign-out. A session resolves the account profile, holds the
// latest ledger snapshot, and recomputes the aggregation whenever the
// document, the granularity, or the reference date changes.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"famledger/cache"
	"famledger/ledger"
	"famledger/logger"
	"famledger/models"
	"famledger/store"
)

// Identity is what the authentication layer knows about the signed-in
// account.
type Identity struct {
	UID   string
	Name  string
	Email string
}

// Session is the explicit, injected replacement for the ambient app state
// the screens used to read. All recomputation happens under one mutex;
// after Close nothing is published anymore.
type Session struct {
	identity Identity
	profile  *models.AccountProfile
	store    store.DocumentStore
	cache    *cache.Cache
	shown    ledger.ShownSet

	mu          sync.Mutex
	doc         *models.LedgerDocument
	granularity models.Granularity
	reference   time.Time
	result      *ledger.Result
	closed      bool

	now    func() time.Time
	cancel context.CancelFunc
	done   chan struct{}
}

// Start creates a session for a signed-in identity: it resolves the
// profile, restores the cached granularity, performs the initial ledger
// read, and subscribes to ongoing document replacements.
func Start(ctx context.Context, st store.DocumentStore, c *cache.Cache, id Identity) (*Session, error) {
	profile, err := st.Profile(ctx, id.UID)
	if err != nil {
		return nil, fmt.Errorf("resolve profile for %s: %w", id.UID, err)
	}

	s := &Session{
		identity:    id,
		profile:     profile,
		store:       st,
		cache:       c,
		shown:       c.ShownSet(id.UID),
		granularity: models.GranularityDay,
		now:         time.Now,
		done:        make(chan struct{}),
	}
	if g, ok := c.LastGranularity(); ok {
		s.granularity = g
	}
	s.reference = s.now()

	doc, err := st.Ledger(ctx, profile.FamilyCode)
	if err == store.ErrNotFound {
		doc = models.NewLedgerDocument(profile.FamilyCode)
	} else if err != nil {
		return nil, fmt.Errorf("initial ledger read: %w", err)
	}
	s.doc = doc
	s.recomputeLocked()

	subCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	sub, err := st.SubscribeLedger(subCtx, profile.FamilyCode)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe ledger: %w", err)
	}
	go s.run(sub)

	logger.Get().Info("session started",
		zap.String("uid", id.UID),
		zap.String("familyCode", profile.FamilyCode),
		zap.String("role", profile.Role))
	return s, nil
}

func (s *Session) run(sub store.Subscription) {
	defer close(s.done)
	defer sub.Close()
	for doc := range sub.Snapshots() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.doc = doc
		s.recomputeLocked()
		s.mu.Unlock()
	}
}

// recomputeLocked reruns the aggregation. Callers hold s.mu.
func (s *Session) recomputeLocked() {
	res := ledger.Aggregate(ledger.Input{
		Doc:         s.doc,
		Caller:      s.profile,
		Granularity: s.granularity,
		Reference:   s.reference,
	}, s.shown)
	s.result = &res
}

// Profile returns a copy of the resolved account profile.
func (s *Session) Profile() models.AccountProfile {
	return *s.profile
}

// Granularity returns the active granularity.
func (s *Session) Granularity() models.Granularity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.granularity
}

// Result returns the latest aggregation result, or false after teardown.
// A pending alert is delivered to exactly one caller: reading the result
// consumes it, so re-rendering the same state never repeats the popup.
func (s *Session) Result() (ledger.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.result == nil {
		return ledger.Result{}, false
	}
	res := *s.result
	s.result.Alert = nil
	return res, true
}

// SetGranularity switches the aggregation unit. The reference date resets
// to the window containing now; the previously selected instant is not
// preserved. The choice is cached for the next launch.
func (s *Session) SetGranularity(g models.Granularity) error {
	if !g.Valid() {
		return fmt.Errorf("invalid granularity %q", g)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.granularity = g
	s.reference = s.now()
	s.recomputeLocked()
	if err := s.cache.SetLastGranularity(g); err != nil {
		logger.Get().Warn("caching granularity failed", zap.Error(err))
	}
	return nil
}

// Shift moves the period by delta units of the active granularity
// (negative for previous, positive for next).
func (s *Session) Shift(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.reference = ledger.Shift(s.granularity, s.reference, delta)
	s.recomputeLocked()
}

// Close tears the session down: the subscription is canceled and no
// result is published afterwards. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	<-s.done
	logger.Get().Info("session ended", zap.String("uid", s.identity.UID))
}
