package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewNotFoundError("Post", "abc"), http.StatusNotFound},
		{NewConflictError("already bookmarked"), http.StatusConflict},
		{NewUnauthorizedError("not the author"), http.StatusForbidden},
		{NewValidationError("bad decision"), http.StatusBadRequest},
		{NewTransactionAbortedError(errors.New("write conflict")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NewConflictError("dup")), http.StatusConflict},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	root := errors.New("socket closed")
	err := NewInternalError(root)

	assert.ErrorIs(t, err, root)
	assert.Equal(t, "Internal server error: socket closed", err.Error())
	assert.Equal(t, CodeInternal, ErrorCode(err))
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Total: 21, Page: 2, Limit: 10, TotalPages: 3}, NewPagination(21, 2, 10))
	assert.Equal(t, 0, NewPagination(0, 1, 10).TotalPages)
}

func TestNewIDIsValid(t *testing.T) {
	id := NewID()
	assert.True(t, ValidID(id))
	assert.False(t, ValidID("not-an-id"))
}
