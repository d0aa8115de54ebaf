package chatclient

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(id uint, at time.Time) Message {
	return Message{ID: id, Text: "m", Sentiment: "NEUTRAL", CreatedAt: at}
}

func ids(messages []Message) []uint {
	out := make([]uint, len(messages))
	for i, m := range messages {
		out[i] = m.ID
	}
	return out
}

func TestMergeOrdersByCreatedAtThenID(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSyncer(nil)

	// Out of order, with a createdAt tie between 2 and 3
	added := s.Merge([]Message{
		msg(3, base.Add(time.Second)),
		msg(1, base),
		msg(2, base.Add(time.Second)),
	})

	assert.Equal(t, []uint{1, 2, 3}, ids(added))
	assert.Equal(t, []uint{1, 2, 3}, ids(s.Messages()))
	assert.Equal(t, base.Add(time.Second), s.LastAt())
}

func TestMergeIsIdempotent(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	batch := []Message{msg(1, base), msg(2, base.Add(time.Second))}

	s := NewSyncer(nil)
	first := s.Merge(batch)
	second := s.Merge(batch)

	assert.Len(t, first, 2)
	assert.Empty(t, second)
	assert.Equal(t, []uint{1, 2}, ids(s.Messages()))
}

func TestMergeAdvancesWatermarkOverDuplicates(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s := NewSyncer(nil)
	s.Merge([]Message{msg(1, base)})

	// A batch of only already-known messages still moves the watermark
	added := s.Merge([]Message{msg(1, base.Add(time.Minute))})

	assert.Empty(t, added)
	assert.Equal(t, base.Add(time.Minute), s.LastAt())
}

func TestSyncFirstRoundFetchesEverything(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var gotSince []*time.Time
	fetch := func(ctx context.Context, since *time.Time) ([]Message, error) {
		gotSince = append(gotSince, since)
		if since == nil {
			return []Message{msg(1, base), msg(2, base.Add(time.Second))}, nil
		}
		return []Message{msg(3, base.Add(2 * time.Second))}, nil
	}

	s := NewSyncer(fetch)

	added, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Len(t, added, 2)

	added, err = s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, ids(added))

	// First round is a full retrieval, second carries the watermark
	require.Len(t, gotSince, 2)
	assert.Nil(t, gotSince[0])
	require.NotNil(t, gotSince[1])
	assert.Equal(t, base.Add(time.Second), *gotSince[1])
}

func TestSyncLocalEchoThenPoll(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	own := msg(5, base)

	fetch := func(ctx context.Context, since *time.Time) ([]Message, error) {
		// The server replays our own message alongside a new one
		return []Message{own, msg(6, base.Add(time.Second))}, nil
	}

	s := NewSyncer(fetch)

	// The sender merged its own message from the submit response already
	s.Merge([]Message{own})

	added, err := s.Sync(context.Background())
	require.NoError(t, err)

	// Only the other participant's message is new, no duplicate of our own
	assert.Equal(t, []uint{6}, ids(added))
	assert.Equal(t, []uint{5, 6}, ids(s.Messages()))
}

func TestSyncFetchError(t *testing.T) {
	fetchErr := errors.New("connection refused")
	s := NewSyncer(func(ctx context.Context, since *time.Time) ([]Message, error) {
		return nil, fetchErr
	})

	_, err := s.Sync(context.Background())
	assert.ErrorIs(t, err, fetchErr)
	assert.Empty(t, s.Messages())
}

func TestRunPollsUntilCancelled(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var round atomic.Int32
	fetch := func(ctx context.Context, since *time.Time) ([]Message, error) {
		n := round.Add(1)
		if n > 3 {
			return nil, nil
		}
		return []Message{msg(uint(n), base.Add(time.Duration(n) * time.Second))}, nil
	}

	s := NewSyncer(fetch)

	ctx, cancel := context.WithCancel(context.Background())
	notified := make(chan []Message, 10)
	done := make(chan struct{})

	go func() {
		s.Run(ctx, 5*time.Millisecond, func(added []Message) {
			notified <- added
		}, nil)
		close(done)
	}()

	var total int
	deadline := time.After(2 * time.Second)
	for total < 3 {
		select {
		case added := <-notified:
			total += len(added)
		case <-deadline:
			t.Fatal("timed out waiting for polled messages")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	assert.Equal(t, []uint{1, 2, 3}, ids(s.Messages()))
}

func TestRunReportsErrorsAndKeepsPolling(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var round atomic.Int32
	fetch := func(ctx context.Context, since *time.Time) ([]Message, error) {
		if round.Add(1) == 1 {
			return nil, errors.New("transient")
		}
		return []Message{msg(1, base)}, nil
	}

	s := NewSyncer(fetch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 1)
	notified := make(chan []Message, 1)
	go s.Run(ctx, 5*time.Millisecond, func(added []Message) {
		select {
		case notified <- added:
		default:
		}
	}, func(err error) {
		select {
		case errs <- err:
		default:
		}
	})

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fetch error")
	}

	select {
	case added := <-notified:
		assert.Equal(t, []uint{1}, ids(added))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for recovery")
	}
}
