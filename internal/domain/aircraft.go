package domain

import (
	"time"

	"github.com/google/uuid"
)

type Aircraft struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Registration   string
	Type           string
	Model          string
	OnLine         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
