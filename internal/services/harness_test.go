package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/anonto42/nano-midea/engagement/internal/events"
	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/realtime"
	"github.com/anonto42/nano-midea/engagement/internal/repositories"
	"github.com/anonto42/nano-midea/engagement/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var allEvents = []string{
	events.UserFollowRequested,
	events.UserFollowed,
	events.FollowRequestAccepted,
	events.PostLiked,
	events.CommentLiked,
	events.StoryLiked,
	events.CommentCreated,
	events.CommentReplied,
	events.NotificationCreated,
}

// eventRecorder keeps every event seen on the bus in arrival order.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) handle(_ context.Context, evt events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *eventRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name)
	}
	return out
}

func (r *eventRecorder) byName(name string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type harness struct {
	t             *testing.T
	store         *repositories.Store
	bus           *events.Bus
	hub           *realtime.Hub
	recorder      *eventRecorder
	follows       *FollowService
	likes         *LikeService
	comments      *CommentService
	bookmarks     *BookmarkService
	notifications *NotificationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, _ := testutil.NewStore(t)
	return newHarnessWithStore(t, store)
}

func newHarnessWithStore(t *testing.T, store *repositories.Store) *harness {
	t.Helper()
	bus := events.NewBus(zerolog.Nop())
	hub := realtime.NewHub(zerolog.Nop(), 4)
	rec := &eventRecorder{}
	for _, name := range allEvents {
		bus.Subscribe(name, "test-recorder", rec.handle)
	}

	h := &harness{
		t:             t,
		store:         store,
		bus:           bus,
		hub:           hub,
		recorder:      rec,
		follows:       NewFollowService(store, bus, PageLimits{}),
		likes:         NewLikeService(store, DefaultResourceRegistry(store), bus),
		comments:      NewCommentService(store, bus),
		bookmarks:     NewBookmarkService(store),
		notifications: NewNotificationService(store, bus, PageLimits{}),
	}
	h.notifications.Subscribe(bus)
	realtime.NewFanout(hub).Subscribe(bus)
	return h
}

// settle waits for every handler, including ones started by handlers.
func (h *harness) settle() {
	h.t.Helper()
	require.NoError(h.t, h.bus.Wait(context.Background()))
}

func (h *harness) user(username string, private bool) *models.User {
	return testutil.CreateUser(h.t, h.store, username, private)
}

// connect opens a channel for u without a network connection.
func (h *harness) connect(u *models.User) *realtime.Client {
	h.t.Helper()
	c, err := h.hub.Register(u.ID, nil)
	require.NoError(h.t, err)
	return c
}

// drain returns every message queued on c so far.
func drain(t *testing.T, c *realtime.Client) []realtime.Message {
	t.Helper()
	var out []realtime.Message
	for {
		select {
		case raw := <-c.Send:
			var msg realtime.Message
			require.NoError(t, json.Unmarshal(raw, &msg))
			out = append(out, msg)
		default:
			return out
		}
	}
}

func messageTypes(msgs []realtime.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Type)
	}
	return out
}

func (h *harness) notificationsFor(u *models.User) []models.Notification {
	h.t.Helper()
	items, _, err := h.store.Notifications.GetByRecipientID(context.Background(), u.ID, 1, 100)
	require.NoError(h.t, err)
	return items
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, appErr.Message)
}

// failingTx aborts every unit of work without running it.
type failingTx struct{}

func (failingTx) WithinTransaction(context.Context, func(context.Context) error) error {
	return models.NewTransactionAbortedError(errors.New("storage unavailable"))
}
