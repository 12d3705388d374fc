package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindPersistence, http.StatusInternalServerError},
		{Kind("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestKind_ClientCaused(t *testing.T) {
	assert.True(t, KindValidation.ClientCaused())
	assert.True(t, KindForbidden.ClientCaused())
	assert.True(t, KindConflict.ClientCaused())
	assert.True(t, KindNotFound.ClientCaused())
	assert.False(t, KindPersistence.ClientCaused())
}

func TestError_Is(t *testing.T) {
	err := NotFound("Review not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))

	wrapped := fmt.Errorf("update review: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestPersistence_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Persistence("Failed to add book", cause)

	assert.Equal(t, "Failed to add book: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Cause())
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
}

func TestWithCauseAndDetails_Copy(t *testing.T) {
	base := Validation("Invalid input")
	withDetails := base.WithDetails(map[string]string{"rating": "is required"})
	withCause := withDetails.WithCause(errors.New("boom"))

	assert.Nil(t, base.Details)
	assert.NotNil(t, withDetails.Details)
	assert.Equal(t, withDetails.Details, withCause.Details)
	assert.Nil(t, withDetails.Cause())
	assert.EqualError(t, withCause, "Invalid input: boom")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(Conflict("dup")))
	assert.Equal(t, KindForbidden, KindOf(fmt.Errorf("wrap: %w", Forbidden("no"))))
	assert.Equal(t, KindPersistence, KindOf(errors.New("plain")))
}

func TestFrom(t *testing.T) {
	classified := Forbidden("nope")
	assert.Same(t, classified, From(classified, "ignored"))

	plain := errors.New("disk full")
	got := From(plain, "Failed to fetch books")
	assert.Equal(t, KindPersistence, got.Kind)
	assert.Equal(t, "Failed to fetch books", got.Message)
	assert.ErrorIs(t, got, plain)
}
