package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/events"
	"github.com/anonto42/nano-midea/engagement/internal/middleware"
	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/realtime"
	"github.com/anonto42/nano-midea/engagement/internal/repositories"
	"github.com/anonto42/nano-midea/engagement/internal/testutil"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t        *testing.T
	e        *echo.Echo
	store    *repositories.Store
	bus      *events.Bus
	hub      *realtime.Hub
	verifier *middleware.JWTVerifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, _ := testutil.NewStore(t)
	bus := events.NewBus(zerolog.Nop())
	hub := realtime.NewHub(zerolog.Nop(), 4)
	verifier := middleware.NewJWTVerifier("test-secret")

	e := echo.New()
	SetupRoutes(e, Deps{Store: store, Bus: bus, Hub: hub, Verifier: verifier})
	t.Cleanup(func() { _ = hub.Shutdown(context.Background()) })
	return &testServer{t: t, e: e, store: store, bus: bus, hub: hub, verifier: verifier}
}

func (s *testServer) token(u *models.User) string {
	s.t.Helper()
	tok, err := s.verifier.Sign(testutil.Actor(u), time.Hour)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path string, as *models.User, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if as != nil {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(as))
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec, body := s.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestAPIRequiresToken(t *testing.T) {
	s := newTestServer(t)
	rec, body := s.do(http.MethodGet, "/api/v1/notifications", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, float64(http.StatusUnauthorized), body["statusCode"])
	assert.Nil(t, body["data"])
}

func TestFollowFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	alice := testutil.CreateUser(t, s.store, "alice", true)
	bob := testutil.CreateUser(t, s.store, "bob", false)

	rec, body := s.do(http.MethodPut, "/api/v1/users/alice/follow", bob, nil)
	require.Equal(t, http.StatusCreated, rec.Code, body)
	followID := body["data"].(map[string]any)["id"].(string)

	rec, body = s.do(http.MethodGet, "/api/v1/follow/requests", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	requests := body["data"].(map[string]any)["requests"].([]any)
	require.Len(t, requests, 1)

	rec, _ = s.do(http.MethodPut, "/api/v1/follow/"+followID+"/respond", alice, map[string]string{"status": "MAYBE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPut, "/api/v1/follow/"+followID+"/respond", alice, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = s.do(http.MethodPut, "/api/v1/follow/"+followID+"/respond", alice, map[string]string{"status": "ACCEPTED"})
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Equal(t, "ACCEPTED", body["data"].(map[string]any)["status"])

	require.NoError(t, s.bus.Wait(context.Background()))
	rec, body = s.do(http.MethodGet, "/api/v1/notifications?page=1&limit=5", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["unreadCount"])
}

func TestLikeCommentBookmarkOverHTTP(t *testing.T) {
	s := newTestServer(t)
	alice := testutil.CreateUser(t, s.store, "alice", false)
	bob := testutil.CreateUser(t, s.store, "bob", false)
	post := testutil.CreatePost(t, s.store, alice)

	rec, body := s.do(http.MethodPost, "/api/v1/likes/post/"+post.ID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Equal(t, true, body["data"].(map[string]any)["liked"])

	rec, _ = s.do(http.MethodPost, "/api/v1/likes/reel/"+post.ID, bob, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = s.do(http.MethodGet, "/api/v1/likes/post/"+post.ID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Equal(t, true, body["data"].(map[string]any)["liked"])
	assert.Equal(t, float64(1), body["data"].(map[string]any)["likesCount"])

	rec, _ = s.do(http.MethodPost, "/api/v1/posts/"+post.ID+"/comments", bob, map[string]string{"content": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = s.do(http.MethodPost, "/api/v1/posts/"+post.ID+"/comments", bob, map[string]string{"content": "hello"})
	require.Equal(t, http.StatusCreated, rec.Code, body)
	commentID := body["data"].(map[string]any)["id"].(string)

	rec, _ = s.do(http.MethodPatch, "/api/v1/posts/"+post.ID+"/comments/"+commentID, alice, map[string]string{"content": "mine now"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = s.do(http.MethodPatch, "/api/v1/posts/"+post.ID+"/comments/"+commentID, bob, map[string]string{"content": "edited"})
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Equal(t, "edited", body["data"].(map[string]any)["content"])

	rec, _ = s.do(http.MethodDelete, "/api/v1/posts/"+post.ID+"/comments/"+commentID, bob, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodDelete, "/api/v1/posts/"+post.ID+"/comments/"+commentID, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/posts/"+post.ID+"/bookmark", bob, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = s.do(http.MethodPost, "/api/v1/posts/"+post.ID+"/bookmark", bob, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec, body = s.do(http.MethodGet, "/api/v1/posts/"+post.ID+"/bookmark", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Equal(t, true, body["data"].(map[string]any)["bookmarked"])
	rec, _ = s.do(http.MethodDelete, "/api/v1/posts/"+post.ID+"/bookmark", bob, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, s.bus.Wait(context.Background()))
	reloaded := testutil.ReloadPost(t, s.store, post.ID)
	assert.Equal(t, 1, reloaded.LikesCount)
	assert.Equal(t, 0, reloaded.CommentsCount)
	assert.Equal(t, 0, reloaded.BookmarksCount)
}

func TestNotificationRoutes(t *testing.T) {
	s := newTestServer(t)
	alice := testutil.CreateUser(t, s.store, "alice", false)
	bob := testutil.CreateUser(t, s.store, "bob", false)
	post := testutil.CreatePost(t, s.store, alice)

	s.do(http.MethodPost, "/api/v1/likes/post/"+post.ID, bob, nil)
	require.NoError(t, s.bus.Wait(context.Background()))

	_, body := s.do(http.MethodGet, "/api/v1/notifications", alice, nil)
	items := body["data"].(map[string]any)["notifications"].([]any)
	require.Len(t, items, 1)
	id := items[0].(map[string]any)["id"].(string)

	rec, _ := s.do(http.MethodPut, "/api/v1/notifications/"+id+"/read", bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = s.do(http.MethodPut, "/api/v1/notifications/"+id+"/read", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["data"].(map[string]any)["is_read"])

	_, body = s.do(http.MethodGet, "/api/v1/notifications/unread-count", alice, nil)
	assert.Equal(t, float64(0), body["data"].(map[string]any)["count"])

	rec, _ = s.do(http.MethodPut, "/api/v1/notifications/read-all", alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/api/v1/notifications/"+id, alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodDelete, "/api/v1/notifications/"+id, alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebSocketReceivesFollow(t *testing.T) {
	s := newTestServer(t)
	alice := testutil.CreateUser(t, s.store, "alice", false)
	bob := testutil.CreateUser(t, s.store, "bob", false)

	srv := httptest.NewServer(s.e)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + s.token(alice)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws?token=bad", nil)
	assert.Error(t, err)

	// Registration completes after the handshake response.
	require.Eventually(t, func() bool { return s.hub.IsOnline(alice.ID) }, time.Second, 10*time.Millisecond)

	rec, _ := s.do(http.MethodPut, "/api/v1/users/alice/follow", bob, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	seen := map[string]bool{}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for !(seen[events.UserFollowed] && seen[events.NotificationCreated]) {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg realtime.Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		seen[msg.Type] = true
	}
}
