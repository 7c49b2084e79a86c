// Package testutil builds SQLite-backed stores and seed data for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/repositories"
	"github.com/anonto42/nano-midea/engagement/pkg/config"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewStore opens a migrated SQLite database in a temp dir and closes it
// when the test ends.
func NewStore(t *testing.T) (*repositories.Store, *gorm.DB) {
	t.Helper()
	db, err := config.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repositories.NewGormStore(db), db
}

func CreateUser(t *testing.T, store *repositories.Store, username string, private bool) *models.User {
	t.Helper()
	u := &models.User{Username: username, FullName: username, Role: "user", IsPrivate: private}
	require.NoError(t, store.Users.CreateUser(context.Background(), u))
	return u
}

func CreatePost(t *testing.T, store *repositories.Store, owner *models.User) *models.Post {
	t.Helper()
	p := &models.Post{UserID: owner.ID, Content: "post by " + owner.Username}
	require.NoError(t, store.Posts.CreatePost(context.Background(), p))
	return p
}

func CreateStory(t *testing.T, store *repositories.Store, owner *models.User) *models.Story {
	t.Helper()
	s := &models.Story{UserID: owner.ID, MediaURL: "https://cdn.example/s.jpg", Type: "image"}
	require.NoError(t, store.Stories.CreateStory(context.Background(), s))
	return s
}

func Actor(u *models.User) models.Actor {
	return models.Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func ReloadUser(t *testing.T, store *repositories.Store, id string) *models.User {
	t.Helper()
	u, err := store.Users.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func ReloadPost(t *testing.T, store *repositories.Store, id string) *models.Post {
	t.Helper()
	p, err := store.Posts.GetPostByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func ReloadComment(t *testing.T, store *repositories.Store, id string) *models.Comment {
	t.Helper()
	c, err := store.Comments.GetCommentByID(context.Background(), id)
	require.NoError(t, err)
	return c
}
