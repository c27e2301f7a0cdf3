package store

import (
	"context"
	"sync"

	"famledger/models"
)

// MemoryStore is the in-process DocumentStore used by dev mode and tests.
// Writes push a fresh full-document snapshot to every subscriber of the
// family, mirroring the backend's replace-not-delta delivery.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]*models.AccountProfile
	ledgers  map[string]*models.LedgerDocument
	subs     map[string][]*memorySubscription
}

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*models.AccountProfile),
		ledgers:  make(map[string]*models.LedgerDocument),
		subs:     make(map[string][]*memorySubscription),
	}
}

func (s *MemoryStore) Profile(_ context.Context, uid string) (*models.AccountProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[uid]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) SaveProfile(_ context.Context, p *models.AccountProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.profiles[p.UID] = &cp
	return nil
}

func (s *MemoryStore) CreateLedger(_ context.Context, familyCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ledgers[familyCode]; !ok {
		s.ledgers[familyCode] = models.NewLedgerDocument(familyCode)
	}
	return nil
}

func (s *MemoryStore) Ledger(_ context.Context, familyCode string) (*models.LedgerDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.ledgers[familyCode]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneLedger(doc), nil
}

func (s *MemoryStore) SubscribeLedger(ctx context.Context, familyCode string) (Subscription, error) {
	sub := &memorySubscription{
		store:      s,
		familyCode: familyCode,
		ch:         make(chan *models.LedgerDocument, 8),
	}
	s.mu.Lock()
	s.subs[familyCode] = append(s.subs[familyCode], sub)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		sub.Close()
	}()
	return sub, nil
}

func (s *MemoryStore) UpsertTransaction(_ context.Context, familyCode string, t models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.ledgers[familyCode]
	if !ok {
		return ErrNotFound
	}
	if _, exists := doc.Transactions[t.ID]; !exists {
		doc.TransactionOrder = append(doc.TransactionOrder, t.ID)
	}
	doc.Transactions[t.ID] = t
	s.broadcastLocked(familyCode)
	return nil
}

func (s *MemoryStore) DeleteTransaction(_ context.Context, familyCode, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.ledgers[familyCode]
	if !ok {
		return ErrNotFound
	}
	delete(doc.Transactions, id)
	doc.TransactionOrder = removeID(doc.TransactionOrder, id)
	s.broadcastLocked(familyCode)
	return nil
}

func (s *MemoryStore) UpsertAllocation(_ context.Context, familyCode string, a models.BudgetAllocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.ledgers[familyCode]
	if !ok {
		return ErrNotFound
	}
	if _, exists := doc.Budgets[a.ID]; !exists {
		doc.BudgetOrder = append(doc.BudgetOrder, a.ID)
	}
	doc.Budgets[a.ID] = a
	s.broadcastLocked(familyCode)
	return nil
}

func (s *MemoryStore) DeleteAllocation(_ context.Context, familyCode, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.ledgers[familyCode]
	if !ok {
		return ErrNotFound
	}
	delete(doc.Budgets, id)
	doc.BudgetOrder = removeID(doc.BudgetOrder, id)
	s.broadcastLocked(familyCode)
	return nil
}

func (s *MemoryStore) broadcastLocked(familyCode string) {
	doc, ok := s.ledgers[familyCode]
	if !ok {
		return
	}
	for _, sub := range s.subs[familyCode] {
		if sub.closed {
			continue
		}
		select {
		case sub.ch <- cloneLedger(doc):
		default:
			// Subscriber is not draining; it will catch up on the next write.
		}
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func cloneLedger(doc *models.LedgerDocument) *models.LedgerDocument {
	cp := models.NewLedgerDocument(doc.FamilyCode)
	for id, t := range doc.Transactions {
		cp.Transactions[id] = t
	}
	cp.TransactionOrder = append([]string(nil), doc.TransactionOrder...)
	for id, b := range doc.Budgets {
		cp.Budgets[id] = b
	}
	cp.BudgetOrder = append([]string(nil), doc.BudgetOrder...)
	return cp
}

type memorySubscription struct {
	store      *MemoryStore
	familyCode string
	ch         chan *models.LedgerDocument
	closed     bool
	closeOnce  sync.Once
}

func (s *memorySubscription) Snapshots() <-chan *models.LedgerDocument { return s.ch }

func (s *memorySubscription) Close() {
	s.closeOnce.Do(func() {
		s.store.mu.Lock()
		s.closed = true
		subs := s.store.subs[s.familyCode]
		for i, sub := range subs {
			if sub == s {
				s.store.subs[s.familyCode] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		s.store.mu.Unlock()
		close(s.ch)
	})
}
