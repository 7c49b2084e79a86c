package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 5 * time.Millisecond
)

func newTestBus() *Bus {
	return NewBus(zerolog.Nop())
}

func TestPublishBuildsEnvelope(t *testing.T) {
	bus := newTestBus()
	bus.now = func() time.Time { return time.UnixMilli(1700000000123) }

	got := make(chan Event, 1)
	bus.Subscribe(UserFollowed, "probe", func(_ context.Context, evt Event) error {
		got <- evt
		return nil
	})

	evt := bus.Publish(context.Background(), UserFollowed, FollowPayload{FollowerID: "b"})
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, UserFollowed, evt.Name)
	assert.Equal(t, int64(1700000000123), evt.Timestamp)

	select {
	case delivered := <-got:
		assert.Equal(t, evt, delivered)
	case <-time.After(testEventuallyTimeout):
		t.Fatal("handler never ran")
	}
}

func TestPublishDoesNotWaitForHandlers(t *testing.T) {
	bus := newTestBus()
	release := make(chan struct{})
	var finished atomic.Bool
	bus.Subscribe(PostLiked, "slow", func(context.Context, Event) error {
		<-release
		finished.Store(true)
		return nil
	})

	bus.Publish(context.Background(), PostLiked, LikedPayload{})
	assert.False(t, finished.Load())

	close(release)
	require.NoError(t, bus.Wait(context.Background()))
	assert.True(t, finished.Load())
}

func TestHandlerFailuresAreIsolated(t *testing.T) {
	bus := newTestBus()
	var calls atomic.Int32
	bus.Subscribe(CommentCreated, "errors", func(context.Context, Event) error {
		calls.Add(1)
		return errors.New("store down")
	})
	bus.Subscribe(CommentCreated, "panics", func(context.Context, Event) error {
		calls.Add(1)
		panic("boom")
	})
	bus.Subscribe(CommentCreated, "healthy", func(context.Context, Event) error {
		calls.Add(1)
		return nil
	})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), CommentCreated, CommentCreatedPayload{})
	})
	require.NoError(t, bus.Wait(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestHandlersOnlySeeTheirEvent(t *testing.T) {
	bus := newTestBus()
	var mu sync.Mutex
	var seen []string
	record := func(_ context.Context, evt Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, evt.Name)
		return nil
	}
	bus.Subscribe(UserFollowed, "a", record)
	bus.Subscribe(StoryLiked, "b", record)

	bus.Publish(context.Background(), UserFollowed, FollowPayload{})
	bus.Publish(context.Background(), "Unknown", nil)
	require.NoError(t, bus.Wait(context.Background()))

	assert.Equal(t, []string{UserFollowed}, seen)
}

func TestHandlerContextSurvivesCancellation(t *testing.T) {
	bus := newTestBus()
	errs := make(chan error, 1)
	bus.Subscribe(UserFollowed, "ctx", func(ctx context.Context, _ Event) error {
		time.Sleep(10 * time.Millisecond)
		errs <- ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, UserFollowed, FollowPayload{})
	cancel()

	assert.NoError(t, <-errs)
}

func TestWaitHonoursContext(t *testing.T) {
	bus := newTestBus()
	block := make(chan struct{})
	defer close(block)
	bus.Subscribe(UserFollowed, "stuck", func(context.Context, Event) error {
		<-block
		return nil
	})
	bus.Publish(context.Background(), UserFollowed, FollowPayload{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Wait(ctx), context.DeadlineExceeded)
}

func TestTyped(t *testing.T) {
	var got FollowPayload
	h := Typed(func(_ context.Context, _ Event, p FollowPayload) error {
		got = p
		return nil
	})

	require.NoError(t, h(context.Background(), Event{Name: UserFollowed, Payload: FollowPayload{FollowerID: "x"}}))
	assert.Equal(t, "x", got.FollowerID)

	err := h(context.Background(), Event{Name: UserFollowed, Payload: LikedPayload{}})
	assert.ErrorContains(t, err, "unexpected payload type")
}

func TestHandlersRunIndependently(t *testing.T) {
	bus := newTestBus()
	var mu sync.Mutex
	var order []string
	gate := make(chan struct{})
	for _, name := range []string{"first", "second"} {
		name := name
		bus.Subscribe(PostLiked, name, func(context.Context, Event) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			<-gate
			return nil
		})
	}

	bus.Publish(context.Background(), PostLiked, LikedPayload{})
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 2
	}, testEventuallyTimeout, testPollInterval)
	close(gate)
	require.NoError(t, bus.Wait(context.Background()))
	assert.ElementsMatch(t, []string{"first", "second"}, order)
}
