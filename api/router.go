package api

import (
	"time"

	"github.com/Domenick1991/flightdesk/internal/identity"
	"github.com/Domenick1991/flightdesk/internal/service/aircraft"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Bookings       booking.BookingUseCase
	Aircraft       aircraft.AircraftUseCase
	Identity       identity.Provider
	RequestTimeout time.Duration
}

// NewRouter builds the /api/v1 surface. Every route under it requires a
// bearer token.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Logger(), Metrics())

	v1 := router.Group("/api/v1", Timeout(deps.RequestTimeout), Authenticate(deps.Identity))
	NewBookingHandler(deps.Bookings).Register(v1.Group("/bookings"))
	NewAircraftHandler(deps.Aircraft).Register(v1.Group("/aircraft"))

	return router
}
