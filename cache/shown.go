package cache

import (
	"encoding/json"
	"sort"

	"go.uber.org/zap"

	"famledger/logger"
)

// ShownSet is the persisted set of allocation ids that have already
// produced a one-time budget alert, keyed per account. It satisfies
// ledger.ShownSet. A single session owns its set, so no locking.
type ShownSet struct {
	cache *Cache
	key   string
	ids   map[string]struct{}
}

// ShownSet loads the alert shown-set for uid. A corrupt stored value is
// treated as an empty set.
func (c *Cache) ShownSet(uid string) *ShownSet {
	s := &ShownSet{
		cache: c,
		key:   keyShownPrefix + uid,
		ids:   make(map[string]struct{}),
	}

	raw, ok, err := c.Get(s.key)
	if err != nil {
		logger.Get().Warn("reading alert shown set failed", zap.Error(err))
		return s
	}
	if !ok {
		return s
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		logger.Get().Warn("alert shown set is corrupt, resetting",
			zap.String("uid", uid), zap.Error(err))
		return s
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports whether an alert for id was already shown.
func (s *ShownSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add remembers id and persists the set.
func (s *ShownSet) Add(id string) error {
	if _, ok := s.ids[id]; ok {
		return nil
	}
	s.ids[id] = struct{}{}
	return s.persist()
}

// Prune drops every id for which live returns false and persists the set
// if anything changed.
func (s *ShownSet) Prune(live func(id string) bool) error {
	changed := false
	for id := range s.ids {
		if !live(id) {
			delete(s.ids, id)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.persist()
}

func (s *ShownSet) persist() error {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.cache.Set(s.key, string(raw))
}
