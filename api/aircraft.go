package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/aircraft"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AircraftHandler struct {
	service aircraft.AircraftUseCase
}

type aircraftResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Registration   string    `json:"registration"`
	Type           string    `json:"type"`
	Model          string    `json:"model"`
	OnLine         bool      `json:"on_line"`
	CreatedAt      string    `json:"created_at"`
	UpdatedAt      string    `json:"updated_at"`
}

func NewAircraftHandler(service aircraft.AircraftUseCase) *AircraftHandler {
	return &AircraftHandler{service: service}
}

func (h *AircraftHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *AircraftHandler) list(c *gin.Context) {
	fleet, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]aircraftResponse, 0, len(fleet))
	for i := range fleet {
		out = append(out, toAircraftResponse(&fleet[i]))
	}
	c.JSON(http.StatusOK, gin.H{"aircraft": out})
}

func (h *AircraftHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid aircraft id")
		return
	}
	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"aircraft": toAircraftResponse(a)})
}

func toAircraftResponse(a *domain.Aircraft) aircraftResponse {
	return aircraftResponse{
		ID:             a.ID,
		OrganizationID: a.OrganizationID,
		Registration:   a.Registration,
		Type:           a.Type,
		Model:          a.Model,
		OnLine:         a.OnLine,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.Format(time.RFC3339),
	}
}
