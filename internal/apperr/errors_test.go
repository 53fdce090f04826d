package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Validation("identifier is required"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("create: %w", MissingFields("email")), http.StatusBadRequest},
		{"not found", NotFound("model", "occupancy"), http.StatusNotFound},
		{"unauthorized", &UnauthorizedError{Msg: "missing token"}, http.StatusUnauthorized},
		{"forbidden", &ForbiddenError{Msg: "admin role required"}, http.StatusForbidden},
		{"upstream", Upstream("buffr-pay", "find users", errors.New("conn refused")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestPublicMessage_HidesInternalDetail(t *testing.T) {
	err := Upstream("buffr-pay", "create user", errors.New("pq: password authentication failed"))
	assert.Equal(t, InternalMessage, PublicMessage(err))
	assert.Contains(t, err.Error(), "buffr-pay")

	assert.Equal(t, "Missing required fields: email, country", PublicMessage(MissingFields("email", "country")))
}

func TestUpstreamError_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := Upstream("buffr-lend", "sync user", cause)
	assert.ErrorIs(t, err, cause)
}
