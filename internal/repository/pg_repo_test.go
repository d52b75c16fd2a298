package repository

import (
	"errors"
	"testing"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewAircraftRepository(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAircraftRepository(mock)
	assert.NotNil(t, repo)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify("op", nil))
	assert.Equal(t, domain.ErrNotFound, classify("op", domain.ErrNotFound))

	stateErr := &domain.StateError{Current: domain.BookingStatusConfirmed, Op: "uncancel"}
	assert.Equal(t, error(stateErr), classify("op", stateErr))

	err := classify("uncancel booking", errors.New("deadlock detected"))
	assert.True(t, errors.Is(err, domain.ErrPersistence))
	assert.Equal(t, "uncancel booking: deadlock detected", err.Error())
}
