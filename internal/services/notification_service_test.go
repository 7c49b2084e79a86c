package services

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/events"
	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_SkipsSelf(t *testing.T) {
	h := newHarness(t)
	alice := h.user("alice", false)

	h.bus.Publish(context.Background(), events.CommentCreated, events.CommentCreatedPayload{
		CommentID: models.NewID(), PostID: models.NewID(),
		PostAuthorID: alice.ID, CommentAuthorID: alice.ID, CommentAuthorUsername: "alice",
		Content: "talking to myself",
	})
	h.settle()

	assert.Empty(t, h.notificationsFor(alice))
	assert.Empty(t, h.recorder.byName(events.NotificationCreated))
}

func TestNotify_ResolvesSenderProfile(t *testing.T) {
	h := newHarness(t)
	alice := h.user("alice", false)
	bob := &models.User{Username: "bob", FullName: "Bob", ProfilePhoto: "https://cdn.example/bob.png"}
	require.NoError(t, h.store.Users.CreateUser(context.Background(), bob))

	// A stale username in the payload is replaced by the stored profile.
	h.bus.Publish(context.Background(), events.UserFollowed, events.FollowPayload{
		FollowID: models.NewID(), FollowerID: bob.ID, FollowerUsername: "bob_old", FollowedUserID: alice.ID,
	})
	h.settle()

	notes := h.notificationsFor(alice)
	require.Len(t, notes, 1)
	assert.Equal(t, "bob started following you.", notes[0].Content)

	created := h.recorder.byName(events.NotificationCreated)
	require.Len(t, created, 1)
	p := created[0].Payload.(events.NotificationCreatedPayload)
	assert.Equal(t, notes[0].ID, p.NotificationID)
	assert.Equal(t, "https://cdn.example/bob.png", p.SenderProfilePhoto)
	assert.Equal(t, models.EntityUser, p.EntityType)
}

func TestNotify_UnknownSenderFallsBackToPayload(t *testing.T) {
	h := newHarness(t)
	alice := h.user("alice", false)

	h.bus.Publish(context.Background(), events.PostLiked, events.LikedPayload{
		ResourceType: models.ResourcePost, ResourceID: models.NewID(), OwnerID: alice.ID,
		LikedByUserID: models.NewID(), LikedByUsername: "ghost",
	})
	h.settle()

	notes := h.notificationsFor(alice)
	require.Len(t, notes, 1)
	assert.Equal(t, "ghost liked your post.", notes[0].Content)
}

func TestNotificationOperations(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user("alice", false)
	bob := h.user("bob", false)
	carol := h.user("carol", false)
	post := testutil.CreatePost(t, h.store, alice)

	_, err := h.likes.Toggle(ctx, testutil.Actor(bob), "post", post.ID)
	require.NoError(t, err)
	_, err = h.likes.Toggle(ctx, testutil.Actor(carol), "post", post.ID)
	require.NoError(t, err)
	_, err = h.follows.SendFollowRequest(ctx, testutil.Actor(bob), "alice")
	require.NoError(t, err)
	h.settle()

	res, err := h.notifications.List(ctx, testutil.Actor(alice), 1, 2)
	require.NoError(t, err)
	page := res.Data.(NotificationsPage)
	assert.Len(t, page.Notifications, 2)
	assert.Equal(t, int64(3), page.UnreadCount)
	assert.Equal(t, models.Pagination{Total: 3, Page: 1, Limit: 2, TotalPages: 2}, page.Pagination)

	target := page.Notifications[0]

	_, err = h.notifications.MarkAsRead(ctx, testutil.Actor(bob), target.ID)
	requireCode(t, err, models.CodeUnauthorized)

	fixed := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	h.notifications.now = func() time.Time { return fixed }
	res, err = h.notifications.MarkAsRead(ctx, testutil.Actor(alice), target.ID)
	require.NoError(t, err)
	read := res.Data.(*models.Notification)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)
	assert.True(t, fixed.Equal(*read.ReadAt))

	res, err = h.notifications.UnreadCount(ctx, testutil.Actor(alice))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"count": 2}, res.Data)

	res, err = h.notifications.MarkAllAsRead(ctx, testutil.Actor(alice))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"updated": 2}, res.Data)

	_, err = h.notifications.Delete(ctx, testutil.Actor(carol), target.ID)
	requireCode(t, err, models.CodeUnauthorized)
	_, err = h.notifications.Delete(ctx, testutil.Actor(alice), target.ID)
	require.NoError(t, err)
	_, err = h.notifications.Delete(ctx, testutil.Actor(alice), target.ID)
	requireCode(t, err, models.CodeNotFound)

	res, err = h.notifications.List(ctx, testutil.Actor(alice), 0, 0)
	require.NoError(t, err)
	page = res.Data.(NotificationsPage)
	assert.Len(t, page.Notifications, 2)
	assert.Equal(t, int64(0), page.UnreadCount)
	assert.Equal(t, 10, page.Pagination.Limit)
}

func TestNotificationList_Empty(t *testing.T) {
	h := newHarness(t)
	alice := h.user("alice", false)

	res, err := h.notifications.List(context.Background(), testutil.Actor(alice), 1, 10)
	require.NoError(t, err)
	page := res.Data.(NotificationsPage)
	assert.NotNil(t, page.Notifications)
	assert.Empty(t, page.Notifications)
}
