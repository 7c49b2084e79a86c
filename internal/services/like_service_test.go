package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/anonto42/nano-midea/engagement/internal/events"
	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_TwiceRestoresState(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user("alice", false)
	bob := h.user("bob", false)
	post := testutil.CreatePost(t, h.store, alice)

	res, err := h.likes.Toggle(ctx, testutil.Actor(bob), "post", post.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Liked: true, LikesCount: 1}, res.Data)
	assert.Equal(t, 1, testutil.ReloadPost(t, h.store, post.ID).LikesCount)

	res, err = h.likes.Toggle(ctx, testutil.Actor(bob), "post", post.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Liked: false, LikesCount: 0}, res.Data)
	assert.Equal(t, 0, testutil.ReloadPost(t, h.store, post.ID).LikesCount)

	liked, err := h.store.Likes.HasUserLiked(ctx, models.ResourcePost, post.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	h.settle()
	assert.Len(t, h.recorder.byName(events.PostLiked), 1, "only the like publishes")
}

func TestToggle_LikeNotifiesOwner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user("alice", false)
	bob := h.user("bob", false)
	post := testutil.CreatePost(t, h.store, alice)
	aliceConn := h.connect(alice)

	_, err := h.likes.Toggle(ctx, testutil.Actor(bob), "post", post.ID)
	require.NoError(t, err)
	h.settle()

	notes := h.notificationsFor(alice)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationLike, notes[0].Type)
	assert.Equal(t, "bob liked your post.", notes[0].Content)
	assert.Equal(t, "/posts/"+post.ID, *notes[0].Link)

	types := messageTypes(drain(t, aliceConn))
	assert.ElementsMatch(t, []string{events.PostLiked, events.NotificationCreated}, types)
}

func TestToggle_SelfLikeCountsButDoesNotNotify(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user("alice", false)
	post := testutil.CreatePost(t, h.store, alice)
	aliceConn := h.connect(alice)

	_, err := h.likes.Toggle(ctx, testutil.Actor(alice), "post", post.ID)
	require.NoError(t, err)
	h.settle()

	assert.Equal(t, 1, testutil.ReloadPost(t, h.store, post.ID).LikesCount)
	assert.Len(t, h.recorder.byName(events.PostLiked), 1)
	assert.Empty(t, h.notificationsFor(alice))
	assert.Empty(t, drain(t, aliceConn))
}

func TestToggle_CommentAndStory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user("alice", false)
	bob := h.user("bob", false)
	post := testutil.CreatePost(t, h.store, alice)
	story := testutil.CreateStory(t, h.store, alice)

	created, err := h.comments.CreateComment(ctx, testutil.Actor(alice), CreateCommentInput{PostID: post.ID, Content: "first"})
	require.NoError(t, err)
	comment := created.Data.(*models.Comment)

	_, err = h.likes.Toggle(ctx, testutil.Actor(bob), "comment", comment.ID)
	require.NoError(t, err)
	_, err = h.likes.Toggle(ctx, testutil.Actor(bob), "story", story.ID)
	require.NoError(t, err)
	h.settle()

	assert.Equal(t, 1, testutil.ReloadComment(t, h.store, comment.ID).LikesCount)
	reloaded, err := h.store.Stories.GetStoryByID(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.LikesCount)

	commentLiked := h.recorder.byName(events.CommentLiked)
	require.Len(t, commentLiked, 1)
	assert.Equal(t, post.ID, commentLiked[0].Payload.(events.LikedPayload).PostID)
	assert.Len(t, h.recorder.byName(events.StoryLiked), 1)

	var contents []string
	for _, n := range h.notificationsFor(alice) {
		contents = append(contents, n.Content)
	}
	assert.ElementsMatch(t, []string{"bob liked your comment.", "bob liked your story."}, contents)
}

func TestToggle_Errors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user("alice", false)

	_, err := h.likes.Toggle(ctx, testutil.Actor(alice), "reel", models.NewID())
	requireCode(t, err, models.CodeValidation)

	_, err = h.likes.Toggle(ctx, testutil.Actor(alice), "post", models.NewID())
	requireCode(t, err, models.CodeNotFound)

	_, err = h.likes.Toggle(ctx, testutil.Actor(alice), "post", "not-an-id")
	requireCode(t, err, models.CodeNotFound)

	h.settle()
	assert.Empty(t, h.recorder.names())
}

func TestToggle_DeletedCommentIsNotFound(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user("alice", false)
	post := testutil.CreatePost(t, h.store, alice)

	created, err := h.comments.CreateComment(ctx, testutil.Actor(alice), CreateCommentInput{PostID: post.ID, Content: "bye"})
	require.NoError(t, err)
	comment := created.Data.(*models.Comment)
	_, err = h.comments.DeleteComment(ctx, testutil.Actor(alice), post.ID, comment.ID)
	require.NoError(t, err)

	_, err = h.likes.Toggle(ctx, testutil.Actor(alice), "comment", comment.ID)
	requireCode(t, err, models.CodeNotFound)
}

func TestToggle_ConcurrentDistinctUsers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user("alice", false)
	post := testutil.CreatePost(t, h.store, alice)

	const n = 8
	likers := make([]*models.User, n)
	for i := range likers {
		likers[i] = h.user(fmt.Sprintf("liker%d", i), false)
	}

	type outcome struct {
		count int
		err   error
	}
	var wg sync.WaitGroup
	results := make(chan outcome, n)
	for _, u := range likers {
		wg.Add(1)
		go func(actor models.Actor) {
			defer wg.Done()
			res, err := h.likes.Toggle(ctx, actor, "post", post.ID)
			if err != nil {
				results <- outcome{err: err}
				return
			}
			results <- outcome{count: res.Data.(ToggleResult).LikesCount}
		}(testutil.Actor(u))
	}
	wg.Wait()
	close(results)
	var counts []int
	for r := range results {
		require.NoError(t, r.err)
		counts = append(counts, r.count)
	}

	// Each response reports the counter as it stood after its own change.
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, counts)
	assert.Equal(t, n, testutil.ReloadPost(t, h.store, post.ID).LikesCount)
	h.settle()
}

func TestToggle_ConcurrentSameUserConverges(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user("alice", false)
	bob := h.user("bob", false)
	post := testutil.CreatePost(t, h.store, alice)

	const n = 6
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.likes.Toggle(ctx, testutil.Actor(bob), "post", post.ID)
		}()
	}
	wg.Wait()
	h.settle()

	count := testutil.ReloadPost(t, h.store, post.ID).LikesCount
	liked, err := h.store.Likes.HasUserLiked(ctx, models.ResourcePost, post.ID, bob.ID)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, count, 0)
	assert.LessOrEqual(t, count, 1)
	if liked {
		assert.Equal(t, 1, count)
	} else {
		assert.Equal(t, 0, count)
	}
}

func TestToggle_ReportsCountAfterOtherLikes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user("alice", false)
	bob := h.user("bob", false)
	carol := h.user("carol", false)
	post := testutil.CreatePost(t, h.store, alice)

	_, err := h.likes.Toggle(ctx, testutil.Actor(carol), "post", post.ID)
	require.NoError(t, err)

	res, err := h.likes.Toggle(ctx, testutil.Actor(bob), "post", post.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Liked: true, LikesCount: 2}, res.Data)

	res, err = h.likes.Toggle(ctx, testutil.Actor(carol), "post", post.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Liked: false, LikesCount: 1}, res.Data)
}

func TestToggle_NoEventWhenTransactionAborts(t *testing.T) {
	store, _ := testutil.NewStore(t)
	h := newHarnessWithStore(t, store)
	alice := h.user("alice", false)
	bob := h.user("bob", false)
	post := testutil.CreatePost(t, h.store, alice)

	broken := *store
	broken.Tx = failingTx{}
	likes := NewLikeService(&broken, DefaultResourceRegistry(&broken), h.bus)

	_, err := likes.Toggle(context.Background(), testutil.Actor(bob), "post", post.ID)
	requireCode(t, err, models.CodeTransactionAborted)
	h.settle()

	assert.Empty(t, h.recorder.names())
	assert.Empty(t, h.notificationsFor(alice))
	assert.Equal(t, 0, testutil.ReloadPost(t, h.store, post.ID).LikesCount)
}

func TestLikeStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user("alice", false)
	bob := h.user("bob", false)
	post := testutil.CreatePost(t, h.store, alice)

	res, err := h.likes.LikeStatus(ctx, testutil.Actor(bob), "post", post.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Liked: false, LikesCount: 0}, res.Data)

	_, err = h.likes.Toggle(ctx, testutil.Actor(bob), "post", post.ID)
	require.NoError(t, err)

	res, err = h.likes.LikeStatus(ctx, testutil.Actor(bob), "post", post.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Liked: true, LikesCount: 1}, res.Data)

	res, err = h.likes.LikeStatus(ctx, testutil.Actor(alice), "post", post.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Liked: false, LikesCount: 1}, res.Data)

	_, err = h.likes.LikeStatus(ctx, testutil.Actor(bob), "reel", post.ID)
	requireCode(t, err, models.CodeValidation)
	_, err = h.likes.LikeStatus(ctx, testutil.Actor(bob), "story", models.NewID())
	requireCode(t, err, models.CodeNotFound)
}
