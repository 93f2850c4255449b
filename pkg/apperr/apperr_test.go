package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/vypar/pkg/apperr"
)

func TestKindMapping(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.Internal:     http.StatusInternalServerError,
		apperr.NotFound:     http.StatusNotFound,
		apperr.Conflict:     http.StatusConflict,
		apperr.Validation:   http.StatusUnprocessableEntity,
		apperr.BusinessRule: http.StatusBadRequest,
		apperr.Unauthorized: http.StatusUnauthorized,
		apperr.Forbidden:    http.StatusForbidden,
		apperr.Unavailable:  http.StatusServiceUnavailable,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, apperr.Internal, apperr.KindOf(errors.New("boom")))
	assert.Equal(t, apperr.NotFound, apperr.KindOf(apperr.New(apperr.NotFound, "gone")))

	wrapped := fmt.Errorf("outer: %w", apperr.New(apperr.Conflict, "dup"))
	assert.Equal(t, apperr.Conflict, apperr.KindOf(wrapped))
}

func TestInternalMessageNeverLeaksCause(t *testing.T) {
	err := apperr.Wrap(apperr.Internal, errors.New("password=hunter2"), "db exploded")
	assert.Equal(t, "Internal Server Error", apperr.MessageOf(err))

	visible := apperr.New(apperr.BusinessRule, "Insufficient stock for Pen")
	assert.Equal(t, "Insufficient stock for Pen", apperr.MessageOf(visible))
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("root")
	err := apperr.Wrap(apperr.Internal, cause, "wrapped")
	assert.True(t, errors.Is(err, cause))
}
