package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "failed to create profile")

	require.Error(t, err)
	assert.True(t, HasCode(err, CodeInternal))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to create profile: connection reset", err.Error())
	assert.Equal(t, "failed to create profile", MessageOf(err))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "unused"))
}

func TestHasCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeConflict, "email already registered"))

	assert.True(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.Equal(t, CodeConflict, CodeOf(err))
}

func TestCodeOfUncodedError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.False(t, HasCode(errors.New("boom"), CodeInternal))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeConflict, http.StatusConflict},
		{CodeTooManyRequests, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{Code("something_new"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.code))
		})
	}
}
