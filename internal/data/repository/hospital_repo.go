package repository

import (
	"context"
	"fmt"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type HospitalRepository interface {
	Create(ctx context.Context, hospital *entity.Hospital) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Hospital, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Hospital, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, hospital *entity.Hospital) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type hospitalRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHospitalRepository(db database.PgxIface, log *zap.Logger) HospitalRepository {
	return &hospitalRepository{
		db:  db,
		log: log.With(zap.String("repository", "hospital")),
	}
}

func (r *hospitalRepository) Create(ctx context.Context, hospital *entity.Hospital) error {
	query := `
		INSERT INTO hospitals (id, name, location, phone, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		hospital.ID,
		hospital.Name,
		hospital.Location,
		hospital.Phone,
		hospital.Email,
		hospital.IsActive,
		hospital.CreatedAt,
		hospital.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create hospital",
			zap.Error(err),
			zap.String("name", hospital.Name),
		)
		return fmt.Errorf("create hospital %s: %w", hospital.Name, err)
	}

	return nil
}

func (r *hospitalRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hospital, error) {
	query := `
		SELECT id, name, location, phone, email, is_active, created_at, updated_at, deleted_at
		FROM hospitals
		WHERE id = $1 AND deleted_at IS NULL
	`

	var hospital entity.Hospital
	err := r.db.QueryRow(ctx, query, id).Scan(
		&hospital.ID,
		&hospital.Name,
		&hospital.Location,
		&hospital.Phone,
		&hospital.Email,
		&hospital.IsActive,
		&hospital.CreatedAt,
		&hospital.UpdatedAt,
		&hospital.DeletedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find hospital by ID",
			zap.Error(err),
			zap.String("hospital_id", id.String()),
		)
		return nil, fmt.Errorf("find hospital by ID %s: %w", id.String(), err)
	}

	return &hospital, nil
}

func (r *hospitalRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Hospital, error) {
	query := `
		SELECT id, name, location, phone, email, is_active, created_at, updated_at
		FROM hospitals
		WHERE deleted_at IS NULL AND is_active = TRUE
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to get hospitals",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all hospitals limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var hospitals []*entity.Hospital
	for rows.Next() {
		var hospital entity.Hospital
		err := rows.Scan(
			&hospital.ID,
			&hospital.Name,
			&hospital.Location,
			&hospital.Phone,
			&hospital.Email,
			&hospital.IsActive,
			&hospital.CreatedAt,
			&hospital.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan hospital row", zap.Error(err))
			return nil, fmt.Errorf("scan hospital row: %w", err)
		}
		hospitals = append(hospitals, &hospital)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate hospital rows: %w", err)
	}

	return hospitals, nil
}

func (r *hospitalRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM hospitals WHERE deleted_at IS NULL AND is_active = TRUE`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Database error counting hospitals", zap.Error(err))
		return 0, fmt.Errorf("count all hospitals: %w", err)
	}

	return count, nil
}

func (r *hospitalRepository) Update(ctx context.Context, hospital *entity.Hospital) error {
	query := `
		UPDATE hospitals
		SET name = $2, location = $3, phone = $4, email = $5, is_active = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		hospital.ID,
		hospital.Name,
		hospital.Location,
		hospital.Phone,
		hospital.Email,
		hospital.IsActive,
		hospital.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update hospital",
			zap.Error(err),
			zap.String("hospital_id", hospital.ID.String()),
		)
		return fmt.Errorf("update hospital %s: %w", hospital.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("hospital %s not found", hospital.ID.String())
	}

	return nil
}

func (r *hospitalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE hospitals SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete hospital",
			zap.Error(err),
			zap.String("hospital_id", id.String()),
		)
		return fmt.Errorf("delete hospital %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("hospital %s not found", id.String())
	}

	r.log.Info("Hospital deleted", zap.String("hospital_id", id.String()))
	return nil
}
