package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testActor = models.Actor{UserID: models.NewID(), Username: "alice", Role: "user"}

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	tok, err = BearerToken("bearer   xyz ")
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok)

	_, err = BearerToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
	_, err = BearerToken("Basic dXNlcg==")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = BearerToken("Bearer")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTVerifier_RoundTrip(t *testing.T) {
	v := NewJWTVerifier("secret")
	token, err := v.Sign(testActor, time.Hour)
	require.NoError(t, err)

	actor, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, testActor, actor)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := NewJWTVerifier("secret")

	other, err := NewJWTVerifier("other").Sign(testActor, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := v.Sign(testActor, -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JwtCustomClaims{Username: "x"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), noUser)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthMiddleware(t *testing.T) {
	v := NewJWTVerifier("secret")
	token, err := v.Sign(testActor, time.Hour)
	require.NoError(t, err)

	e := echo.New()
	handler := Auth(v)(func(c echo.Context) error {
		actor, ok := ActorFromContext(c)
		require.True(t, ok)
		return c.String(http.StatusOK, actor.Username)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, "alice", rec.Body.String())

	for _, header := range []string{"", "Bearer nope", "Token " + token} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		err := handler(e.NewContext(req, httptest.NewRecorder()))
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he, header)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	}
}

func TestActorFromContext_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := ActorFromContext(c)
	assert.False(t, ok)
}
