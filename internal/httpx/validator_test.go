package httpx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreviews/internal/platform/apperr"
)

type sampleReview struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=10"`
	BookID  string `json:"bookId" validate:"required"`
}

func TestValidateStruct_Valid(t *testing.T) {
	assert.NoError(t, ValidateStruct(sampleReview{Rating: 5, BookID: "b"}))
}

func TestValidateStruct_FieldDetailsUseJSONNames(t *testing.T) {
	err := ValidateStruct(sampleReview{Rating: 9, Comment: "way too long comment"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var e *apperr.Error
	require.True(t, errors.As(err, &e))
	details, ok := e.Details.([]ErrorDetail)
	require.True(t, ok)

	fields := map[string]string{}
	for _, d := range details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "rating must be less than or equal to 5", fields["rating"])
	assert.Equal(t, "comment must be at most 10", fields["comment"])
	assert.Equal(t, "bookId is required", fields["bookId"])
}
