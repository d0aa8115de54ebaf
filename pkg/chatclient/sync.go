package chatclient

import (
	"context"
	"sort"
	"sync"
	"time"
)

// FetchFunc retrieves messages newer than the given watermark; a nil since
// means a full retrieval.
type FetchFunc func(ctx context.Context, since *time.Time) ([]Message, error)

// Syncer maintains a local ordered view of the conversation through
// incremental polling. It tracks a watermark (the createdAt of the newest
// message it has seen) and merges each fetched batch by message id, so the
// same batch applied twice leaves the state unchanged.
type Syncer struct {
	fetch FetchFunc

	mu       sync.Mutex
	messages []Message
	seen     map[uint]struct{}
	lastAt   time.Time
}

// NewSyncer creates a syncer with an empty local state. Its first Sync
// performs a full retrieval.
func NewSyncer(fetch FetchFunc) *Syncer {
	return &Syncer{
		fetch: fetch,
		seen:  make(map[uint]struct{}),
	}
}

// Merge folds a batch into the local state: unseen messages are inserted,
// already-known ids are skipped, ordering is restored by createdAt with id
// as tie-break, and the watermark advances to the newest createdAt
// observed. It returns the messages that were actually new, in final order.
func (s *Syncer) Merge(batch []Message) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []Message
	for _, m := range batch {
		if m.CreatedAt.After(s.lastAt) {
			s.lastAt = m.CreatedAt
		}
		if _, ok := s.seen[m.ID]; ok {
			continue
		}
		s.seen[m.ID] = struct{}{}
		s.messages = append(s.messages, m)
		added = append(added, m)
	}

	if len(added) > 0 {
		sort.Slice(s.messages, func(i, j int) bool {
			if s.messages[i].CreatedAt.Equal(s.messages[j].CreatedAt) {
				return s.messages[i].ID < s.messages[j].ID
			}
			return s.messages[i].CreatedAt.Before(s.messages[j].CreatedAt)
		})
		sort.Slice(added, func(i, j int) bool {
			if added[i].CreatedAt.Equal(added[j].CreatedAt) {
				return added[i].ID < added[j].ID
			}
			return added[i].CreatedAt.Before(added[j].CreatedAt)
		})
	}

	return added
}

// Sync performs one poll-and-merge round and returns the newly seen
// messages.
func (s *Syncer) Sync(ctx context.Context) ([]Message, error) {
	s.mu.Lock()
	var since *time.Time
	if !s.lastAt.IsZero() {
		t := s.lastAt
		since = &t
	}
	s.mu.Unlock()

	batch, err := s.fetch(ctx, since)
	if err != nil {
		return nil, err
	}
	return s.Merge(batch), nil
}

// Run polls on the given interval until ctx is cancelled, invoking onNew
// for every round that produced new messages. Fetch errors are reported to
// onErr when it is non-nil and polling continues.
func (s *Syncer) Run(ctx context.Context, interval time.Duration, onNew func([]Message), onErr func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		added, err := s.Sync(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if onErr != nil {
				onErr(err)
			}
		} else if len(added) > 0 && onNew != nil {
			onNew(added)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Messages returns a copy of the local ordered state.
func (s *Syncer) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// LastAt returns the current watermark; zero means no message seen yet.
func (s *Syncer) LastAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAt
}
