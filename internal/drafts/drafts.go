package drafts

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"easel/internal/logging"
)

// Draft is a named, timestamped snapshot of in-progress form state. The Data
// payload is opaque to the store: it is persisted and returned verbatim,
// never inspected.
type Draft[T any] struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
	Data      T      `json:"data"`
}

// Store manages the draft collection for one storage scope. All drafts of a
// scope are serialized together as a single JSON array under the scope key,
// so every save rewrites the whole collection; concurrent writers to the same
// scope resolve last-write-wins at collection granularity. That is accepted
// behavior, not something the store guards against.
//
// A Store is safe for concurrent use within one process.
type Store[T any] struct {
	kv     KV
	scope  string
	logger *slog.Logger

	mu       sync.Mutex
	drafts   []Draft[T]
	activeID string

	now   func() time.Time
	newID func() string
}

// StoreOption configures a Store.
type StoreOption[T any] func(*Store[T])

// WithClock overrides the store clock.
func WithClock[T any](now func() time.Time) StoreOption[T] {
	return func(s *Store[T]) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDSource overrides draft id generation.
func WithIDSource[T any](newID func() string) StoreOption[T] {
	return func(s *Store[T]) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewStore constructs a Store over the given backend and scope key, loading
// any persisted collection. An unreadable collection yields an empty store
// rather than an error: drafts are a convenience, not critical data.
func NewStore[T any](kv KV, scope string, logger *slog.Logger, opts ...StoreOption[T]) *Store[T] {
	s := &Store[T]{
		kv:     kv,
		scope:  scope,
		logger: logging.NewComponentLogger(logger, "drafts"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.drafts = s.load()
	return s
}

// Scope returns the storage scope key this store persists under.
func (s *Store[T]) Scope() string {
	return s.scope
}

// List returns the cached draft collection in storage order.
func (s *Store[T]) List() []Draft[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Draft[T], len(s.drafts))
	copy(out, s.drafts)
	return out
}

// Save persists a snapshot. When existingID matches a persisted draft, that
// draft's name, timestamp, and data are replaced in place and the active
// draft is left alone. Otherwise a new draft is appended and becomes the
// active draft. A blank name defaults to a timestamped placeholder.
//
// Persistence failures are absorbed: the returned draft has an empty ID and
// the cache is left unchanged.
func (s *Store[T]) Save(name string, data T, existingID string) Draft[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	draftName := strings.TrimSpace(name)
	if draftName == "" {
		draftName = "Draft " + s.now().Format("2006-01-02 15:04:05")
	}
	timestamp := s.now().UTC().Format(time.RFC3339)

	// Save works against the persisted collection, not the cache, so a
	// collection written by another party since load is not resurrected
	// piecemeal.
	persisted := s.load()

	if existingID != "" {
		for i := range persisted {
			if persisted[i].ID != existingID {
				continue
			}
			persisted[i].Name = draftName
			persisted[i].Timestamp = timestamp
			persisted[i].Data = data
			if !s.persist(persisted) {
				return Draft[T]{}
			}
			s.drafts = persisted
			return persisted[i]
		}
	}

	draft := Draft[T]{
		ID:        s.newID(),
		Name:      draftName,
		Timestamp: timestamp,
		Data:      data,
	}
	updated := append(persisted, draft)
	if !s.persist(updated) {
		return Draft[T]{}
	}
	s.drafts = updated
	s.activeID = draft.ID
	return draft
}

// Restore returns the data of the draft with the given id and marks it
// active. The draft itself is untouched. The second return is false when the
// id is unknown.
func (s *Store[T]) Restore(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, draft := range s.drafts {
		if draft.ID == id {
			s.activeID = id
			return draft.Data, true
		}
	}
	var zero T
	return zero, false
}

// Delete removes the draft with the given id from the collection. Deleting
// the active draft clears the active marker. Unknown ids are a no-op.
func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]Draft[T], 0, len(s.drafts))
	for _, draft := range s.drafts {
		if draft.ID != id {
			updated = append(updated, draft)
		}
	}
	if len(updated) == len(s.drafts) {
		return
	}
	if !s.persist(updated) {
		return
	}
	s.drafts = updated
	if s.activeID == id {
		s.activeID = ""
	}
}

// ActiveID returns the id of the draft most recently created or restored in
// this session, or empty when none is active.
func (s *Store[T]) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// SetActive overrides the active draft marker. An empty id clears it.
func (s *Store[T]) SetActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
}

func (s *Store[T]) load() []Draft[T] {
	raw, ok := s.kv.Get(s.scope)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var drafts []Draft[T]
	if err := json.Unmarshal([]byte(raw), &drafts); err != nil {
		s.logger.Warn("discarding unreadable draft collection",
			logging.String("scope", s.scope),
			logging.Error(err))
		return nil
	}
	return drafts
}

func (s *Store[T]) persist(drafts []Draft[T]) bool {
	payload, err := json.Marshal(drafts)
	if err != nil {
		s.logger.Warn("marshal draft collection", logging.String("scope", s.scope), logging.Error(err))
		return false
	}
	if err := s.kv.Set(s.scope, string(payload)); err != nil {
		s.logger.Warn("persist draft collection", logging.String("scope", s.scope), logging.Error(err))
		return false
	}
	return true
}
