package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/langtutor/internal/tutor"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(clock *fakeClock) *Store {
	ids := 0
	return NewStore(
		&sequencePicker{prompts: []string{"p1", "p2", "p3"}},
		time.Hour,
		WithClock(clock.Now),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("session-%d", ids)
		}),
	)
}

func TestStore_GetOrCreate(t *testing.T) {
	store := newTestStore(&fakeClock{now: time.Now()})

	first := store.GetOrCreate("")
	assert.Equal(t, "session-1", first.ID)
	assert.Equal(t, "p1", first.Exercise)

	again := store.GetOrCreate(first.ID)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "p1", again.Exercise)

	unknown := store.GetOrCreate("forged")
	assert.Equal(t, "session-2", unknown.ID)
	assert.Equal(t, 2, store.Len())
}

func TestStore_SubmitAndNext(t *testing.T) {
	store := newTestStore(&fakeClock{now: time.Now()})
	round := store.GetOrCreate("")

	_, err := store.Next(round.ID)
	assert.ErrorIs(t, err, ErrNotSubmitted)

	failed, err := store.Submit(context.Background(), round.ID, failingReviewer(&tutor.ParseError{Err: tutor.ErrNoChoices}), "I goed")
	require.Error(t, err)
	assert.False(t, failed.Submitted)
	assert.Equal(t, "Error parsing the response: reply has no choices", failed.Error)
	assert.Equal(t, "I goed", store.GetOrCreate(round.ID).Submission)

	submitted, err := store.Submit(context.Background(), round.ID, succeedingReviewer(), "I went")
	require.NoError(t, err)
	assert.True(t, submitted.Submitted)
	assert.Empty(t, submitted.Error)

	_, err = store.Submit(context.Background(), round.ID, succeedingReviewer(), "again")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	next, err := store.Next(round.ID)
	require.NoError(t, err)
	assert.Equal(t, "p2", next.Exercise)
	assert.False(t, next.Submitted)
	assert.Empty(t, next.Submission)
	assert.Nil(t, next.Review)
}

func TestStore_UnknownSession(t *testing.T) {
	store := newTestStore(&fakeClock{now: time.Now()})

	_, err := store.Submit(context.Background(), "missing", succeedingReviewer(), "x")
	assert.ErrorIs(t, err, ErrUnknownSession)
	_, err = store.Next("missing")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestStore_RejectsConcurrentSubmit(t *testing.T) {
	store := newTestStore(&fakeClock{now: time.Now()})
	round := store.GetOrCreate("")

	started := make(chan struct{})
	release := make(chan struct{})
	blocking := reviewerFunc(func(ctx context.Context, answer string) (tutor.Review, error) {
		close(started)
		<-release
		return tutor.Review{Answer: answer}, nil
	})

	done := make(chan error)
	go func() {
		_, err := store.Submit(context.Background(), round.ID, blocking, "first")
		done <- err
	}()
	<-started

	_, err := store.Submit(context.Background(), round.ID, succeedingReviewer(), "second")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	_, err = store.Next(round.ID)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
	got := store.GetOrCreate(round.ID)
	assert.True(t, got.Submitted)
	assert.Equal(t, "first", got.Submission)
}

func TestStore_Prune(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	store := newTestStore(clock)

	stale := store.GetOrCreate("")
	clock.Advance(40 * time.Minute)
	fresh := store.GetOrCreate("")
	clock.Advance(30 * time.Minute)

	assert.Equal(t, 1, store.Prune())
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, fresh.ID, store.GetOrCreate(fresh.ID).ID)
	assert.NotEqual(t, stale.ID, store.GetOrCreate(stale.ID).ID)
}

func TestStore_Sessions_AreIndependent(t *testing.T) {
	store := newTestStore(&fakeClock{now: time.Now()})
	a := store.GetOrCreate("")
	b := store.GetOrCreate("")

	_, err := store.Submit(context.Background(), a.ID, succeedingReviewer(), "answer a")
	require.NoError(t, err)

	assert.True(t, store.GetOrCreate(a.ID).Submitted)
	assert.False(t, store.GetOrCreate(b.ID).Submitted)
}
