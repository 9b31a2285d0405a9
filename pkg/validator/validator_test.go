package validator

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewPayload struct {
	Content  string   `validate:"required,min=1,max=4000"`
	Rating   int      `validate:"required,gte=1,lte=5"`
	PhotoIDs []string `validate:"dive,required"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(reviewPayload{Content: "great food", Rating: 5})
	assert.NoError(t, err)
}

func TestValidate_RatingOutOfRange(t *testing.T) {
	err := Validate(reviewPayload{Content: "meh", Rating: 6})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Fields(), "Rating")
	assert.Equal(t, "must be less than or equal to 5", valErr.Fields()["Rating"])
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(reviewPayload{Rating: 3})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "is required", valErr.Fields()["Content"])
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"Content":"tasty","Rating":4}`))

	var payload reviewPayload
	require.NoError(t, DecodeAndValidate(r, &payload))
	assert.Equal(t, 4, payload.Rating)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{`))

	var payload reviewPayload
	err := DecodeAndValidate(r, &payload)
	assert.Error(t, err)
}
