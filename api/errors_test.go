package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", fmt.Errorf("%w: token expired", domain.ErrUnauthenticated), http.StatusUnauthorized, CodeUnauthenticated},
		{"not found", domain.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"aircraft missing", domain.ErrAircraftMissing, http.StatusNotFound, CodeNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, CodeForbidden},
		{"invalid state", &domain.StateError{Current: domain.BookingStatusComplete, Op: "cancel"}, http.StatusBadRequest, CodeInvalidState},
		{"validation", &domain.ValidationError{Field: "reason", Reason: "too long"}, http.StatusBadRequest, CodeValidation},
		{"persistence", &domain.PersistenceError{Op: "cancel booking", Err: errors.New("deadlock")}, http.StatusInternalServerError, CodePersistence},
		{"reload after commit", &domain.PersistenceError{Op: "reload booking", Err: domain.ErrNotFound}, http.StatusInternalServerError, CodePersistence},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := statusOf(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}
