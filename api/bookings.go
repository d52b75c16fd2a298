package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type cancelBookingRequest struct {
	CategoryID *uuid.UUID `json:"cancellation_category_id"`
	Reason     string     `json:"reason"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

type instructorResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

type aircraftSummaryResponse struct {
	ID           uuid.UUID `json:"id"`
	Registration string    `json:"registration"`
	Type         string    `json:"type"`
}

type bookingResponse struct {
	ID                     uuid.UUID                `json:"id"`
	OrganizationID         uuid.UUID                `json:"organization_id"`
	AircraftID             uuid.UUID                `json:"aircraft_id"`
	UserID                 uuid.UUID                `json:"user_id"`
	InstructorID           *uuid.UUID               `json:"instructor_id"`
	StartTime              string                   `json:"start_time"`
	EndTime                string                   `json:"end_time"`
	Status                 string                   `json:"status"`
	Stage                  int                      `json:"stage"`
	StageName              string                   `json:"stage_name"`
	Purpose                string                   `json:"purpose"`
	Remarks                *string                  `json:"remarks"`
	LessonID               *uuid.UUID               `json:"lesson_id"`
	FlightTypeID           *uuid.UUID               `json:"flight_type_id"`
	BookingType            string                   `json:"booking_type"`
	CancellationCategoryID *uuid.UUID               `json:"cancellation_category_id"`
	CancellationReason     *string                  `json:"cancellation_reason"`
	CancelledBy            *uuid.UUID               `json:"cancelled_by"`
	CancelledAt            *string                  `json:"cancelled_at"`
	CreatedAt              string                   `json:"created_at"`
	UpdatedAt              string                   `json:"updated_at"`
	User                   *userResponse            `json:"user"`
	Instructor             *instructorResponse      `json:"instructor"`
	Aircraft               *aircraftSummaryResponse `json:"aircraft"`
}

type bookingEnvelope struct {
	Booking bookingResponse `json:"booking"`
	Message string          `json:"message,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id", h.get)
	router.POST("/:id/cancel", h.cancel)
	router.POST("/:id/uncancel", h.uncancel)
}

func (h *BookingHandler) get(c *gin.Context) {
	actor, id, ok := bookingRequest(c)
	if !ok {
		return
	}
	view, err := h.service.GetBooking(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingEnvelope{Booking: toBookingResponse(view)})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	actor, id, ok := bookingRequest(c)
	if !ok {
		return
	}

	var req cancelBookingRequest
	// an empty body cancels without category or reason
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	view, err := h.service.CancelBooking(c.Request.Context(), actor, id, booking.CancelBookingInput{
		CategoryID: req.CategoryID,
		Reason:     req.Reason,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingEnvelope{Booking: toBookingResponse(view), Message: "Booking cancelled successfully"})
}

func (h *BookingHandler) uncancel(c *gin.Context) {
	actor, id, ok := bookingRequest(c)
	if !ok {
		return
	}
	view, err := h.service.UncancelBooking(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingEnvelope{Booking: toBookingResponse(view), Message: "Booking uncancelled successfully"})
}

// bookingRequest extracts the authenticated actor and the booking id. It
// writes the error response itself when either is unusable.
func bookingRequest(c *gin.Context) (domain.Actor, uuid.UUID, bool) {
	actor, ok := actorFrom(c)
	if !ok {
		writeError(c, domain.ErrUnauthenticated)
		return domain.Actor{}, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid booking id")
		return domain.Actor{}, uuid.Nil, false
	}
	return actor, id, true
}

func toBookingResponse(v *domain.BookingView) bookingResponse {
	stage := domain.StageOf(string(v.Status))
	resp := bookingResponse{
		ID:                     v.ID,
		OrganizationID:         v.OrganizationID,
		AircraftID:             v.AircraftID,
		UserID:                 v.UserID,
		InstructorID:           v.InstructorID,
		StartTime:              v.StartTime.Format(time.RFC3339),
		EndTime:                v.EndTime.Format(time.RFC3339),
		Status:                 string(v.Status),
		Stage:                  int(stage),
		StageName:              stage.Name(),
		Purpose:                v.Purpose,
		Remarks:                v.Remarks,
		LessonID:               v.LessonID,
		FlightTypeID:           v.FlightTypeID,
		BookingType:            v.BookingType,
		CancellationCategoryID: v.CancellationCategoryID,
		CancellationReason:     v.CancellationReason,
		CancelledBy:            v.CancelledBy,
		CreatedAt:              v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              v.UpdatedAt.Format(time.RFC3339),
	}
	if v.CancelledAt != nil {
		at := v.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &at
	}
	if v.User != nil {
		resp.User = &userResponse{ID: v.User.ID, FirstName: v.User.FirstName, LastName: v.User.LastName, Email: v.User.Email}
	}
	if v.Instructor != nil {
		resp.Instructor = &instructorResponse{
			ID:        v.Instructor.ID,
			UserID:    v.Instructor.UserID,
			FirstName: v.Instructor.FirstName,
			LastName:  v.Instructor.LastName,
			Email:     v.Instructor.Email,
		}
	}
	if v.Aircraft != nil {
		resp.Aircraft = &aircraftSummaryResponse{ID: v.Aircraft.ID, Registration: v.Aircraft.Registration, Type: v.Aircraft.Type}
	}
	return resp
}
