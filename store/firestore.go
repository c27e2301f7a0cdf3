package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"famledger/logger"
	"famledger/models"
)

const (
	profilesCollection = "profiles"
	ledgersCollection  = "ledgers"
)

// FirestoreStore implements DocumentStore over Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestore wraps an initialized Firestore client.
func NewFirestore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) profileRef(uid string) *firestore.DocumentRef {
	return s.client.Collection(profilesCollection).Doc(uid)
}

func (s *FirestoreStore) ledgerRef(familyCode string) *firestore.DocumentRef {
	return s.client.Collection(ledgersCollection).Doc(familyCode)
}

func (s *FirestoreStore) Profile(ctx context.Context, uid string) (*models.AccountProfile, error) {
	snap, err := s.profileRef(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", uid, err)
	}
	var d profileDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", uid, err)
	}
	return profileFromDoc(uid, d), nil
}

func (s *FirestoreStore) SaveProfile(ctx context.Context, p *models.AccountProfile) error {
	if _, err := s.profileRef(p.UID).Set(ctx, profileToDoc(p)); err != nil {
		return fmt.Errorf("save profile %s: %w", p.UID, err)
	}
	return nil
}

func (s *FirestoreStore) CreateLedger(ctx context.Context, familyCode string) error {
	_, err := s.ledgerRef(familyCode).Set(ctx, ledgerDoc{
		Transactions: map[string]transactionDoc{},
		Budgets:      map[string]allocationDoc{},
	})
	if err != nil {
		return fmt.Errorf("create ledger %s: %w", familyCode, err)
	}
	return nil
}

func (s *FirestoreStore) Ledger(ctx context.Context, familyCode string) (*models.LedgerDocument, error) {
	snap, err := s.ledgerRef(familyCode).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ledger %s: %w", familyCode, err)
	}
	var raw ledgerDoc
	if err := snap.DataTo(&raw); err != nil {
		return nil, fmt.Errorf("decode ledger %s: %w", familyCode, err)
	}
	return ledgerFromDoc(familyCode, raw), nil
}

// SubscribeLedger pumps the document's snapshot listener into a channel.
// The channel closes when ctx is canceled, Close is called, or the
// listener fails.
func (s *FirestoreStore) SubscribeLedger(ctx context.Context, familyCode string) (Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	iter := s.ledgerRef(familyCode).Snapshots(ctx)
	ch := make(chan *models.LedgerDocument, 1)

	go func() {
		defer close(ch)
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() == nil {
					logger.Get().Warn("ledger snapshot listener stopped",
						zap.String("familyCode", familyCode), zap.Error(err))
				}
				return
			}
			if !snap.Exists() {
				continue
			}
			var raw ledgerDoc
			if err := snap.DataTo(&raw); err != nil {
				logger.Get().Warn("undecodable ledger snapshot",
					zap.String("familyCode", familyCode), zap.Error(err))
				continue
			}
			select {
			case ch <- ledgerFromDoc(familyCode, raw):
			case <-ctx.Done():
				return
			}
		}
	}()

	return &cancelSubscription{cancel: cancel, ch: ch}, nil
}

type cancelSubscription struct {
	cancel context.CancelFunc
	ch     chan *models.LedgerDocument
}

func (s *cancelSubscription) Snapshots() <-chan *models.LedgerDocument { return s.ch }
func (s *cancelSubscription) Close()                                  { s.cancel() }

// fieldCreatedAt returns the stored creation stamp for an existing record
// so edits keep their original position, or now for a new record.
func (s *FirestoreStore) fieldCreatedAt(ctx context.Context, familyCode, collection, id string) time.Time {
	snap, err := s.ledgerRef(familyCode).Get(ctx)
	if err != nil {
		return time.Now()
	}
	v, err := snap.DataAtPath(firestore.FieldPath{collection, id, "createdAt"})
	if err != nil {
		return time.Now()
	}
	if t, ok := v.(time.Time); ok {
		return t
	}
	return time.Now()
}

func (s *FirestoreStore) UpsertTransaction(ctx context.Context, familyCode string, t models.Transaction) error {
	createdAt := s.fieldCreatedAt(ctx, familyCode, models.CollectionTransactions, t.ID)
	_, err := s.ledgerRef(familyCode).Update(ctx, []firestore.Update{{
		FieldPath: firestore.FieldPath{models.CollectionTransactions, t.ID},
		Value:     transactionToDoc(t, createdAt),
	}})
	if err != nil {
		return fmt.Errorf("upsert transaction %s: %w", t.ID, err)
	}
	return nil
}

func (s *FirestoreStore) DeleteTransaction(ctx context.Context, familyCode, id string) error {
	_, err := s.ledgerRef(familyCode).Update(ctx, []firestore.Update{{
		FieldPath: firestore.FieldPath{models.CollectionTransactions, id},
		Value:     firestore.Delete,
	}})
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

func (s *FirestoreStore) UpsertAllocation(ctx context.Context, familyCode string, a models.BudgetAllocation) error {
	createdAt := s.fieldCreatedAt(ctx, familyCode, models.CollectionBudgets, a.ID)
	_, err := s.ledgerRef(familyCode).Update(ctx, []firestore.Update{{
		FieldPath: firestore.FieldPath{models.CollectionBudgets, a.ID},
		Value:     allocationToDoc(a, createdAt),
	}})
	if err != nil {
		return fmt.Errorf("upsert allocation %s: %w", a.ID, err)
	}
	return nil
}

func (s *FirestoreStore) DeleteAllocation(ctx context.Context, familyCode, id string) error {
	_, err := s.ledgerRef(familyCode).Update(ctx, []firestore.Update{{
		FieldPath: firestore.FieldPath{models.CollectionBudgets, id},
		Value:     firestore.Delete,
	}})
	if err != nil {
		return fmt.Errorf("delete allocation %s: %w", id, err)
	}
	return nil
}
