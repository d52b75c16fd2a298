package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightdesk/internal/db"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AircraftRepository interface {
	List(ctx context.Context) ([]domain.Aircraft, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Aircraft, error)
}

type PGAircraftRepository struct {
	db db.DBTX
}

func NewAircraftRepository(conn db.DBTX) AircraftRepository {
	return &PGAircraftRepository{db: conn}
}

func (r *PGAircraftRepository) List(ctx context.Context) ([]domain.Aircraft, error) {
	rows, err := r.db.Query(ctx, `SELECT id, organization_id, registration, type, model, on_line, created_at, updated_at FROM aircraft ORDER BY registration`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list aircraft", Err: err}
	}
	defer rows.Close()

	fleet := make([]domain.Aircraft, 0)
	for rows.Next() {
		var a domain.Aircraft
		if err := rows.Scan(&a.ID, &a.OrganizationID, &a.Registration, &a.Type, &a.Model, &a.OnLine, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, &domain.PersistenceError{Op: "list aircraft", Err: err}
		}
		fleet = append(fleet, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "list aircraft", Err: err}
	}
	return fleet, nil
}

func (r *PGAircraftRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Aircraft, error) {
	row := r.db.QueryRow(ctx, `SELECT id, organization_id, registration, type, model, on_line, created_at, updated_at FROM aircraft WHERE id=$1`, id)
	var a domain.Aircraft
	if err := row.Scan(&a.ID, &a.OrganizationID, &a.Registration, &a.Type, &a.Model, &a.OnLine, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAircraftMissing
		}
		return nil, &domain.PersistenceError{Op: "get aircraft", Err: err}
	}
	return &a, nil
}

var _ AircraftRepository = (*PGAircraftRepository)(nil)
