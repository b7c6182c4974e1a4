package pkg

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := E(KindNotFound, "Unable to find requested set")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrBadRequest))

	wrapped := fmt.Errorf("edit set: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestMessage_HidesInternalCause(t *testing.T) {
	cause := errors.New("database is locked")

	assert.Equal(t, internalMessage, Message(cause))
	assert.Equal(t, internalMessage, Message(Wrap(KindInternal, "list sets", cause)))
	assert.Equal(t, "User Name already taken", Message(Wrap(KindAlreadyExists, "User Name already taken", cause)))
	assert.Equal(t, "", Message(nil))
}

func TestError_ErrorIncludesCause(t *testing.T) {
	err := Wrap(KindInternal, "failed to list sets", errors.New("boom"))
	assert.Equal(t, "failed to list sets: boom", err.Error())
	assert.ErrorIs(t, err, err.(*Error).Err)
}

func TestStatus(t *testing.T) {
	cases := map[error]int{
		ErrNotFound:                    http.StatusNotFound,
		E(KindUnauthorized, "no"):      http.StatusUnauthorized,
		ErrAlreadyExists:               http.StatusConflict,
		ErrBadRequest:                  http.StatusBadRequest,
		E(KindTooManyRequests, "slow"): http.StatusTooManyRequests,
		errors.New("plain"):            http.StatusInternalServerError,
		E(KindInternal, "oops"):        http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, Status(err), err.Error())
	}
}

func TestPlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	PlainError(rec, http.StatusInternalServerError, E(KindBadRequest, "no sets table"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no sets table", rec.Body.String())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "internal", Kind(99).String())
}
