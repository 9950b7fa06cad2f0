package repository

import (
	"context"
	"fmt"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AvailabilityRepository interface {
	Upsert(ctx context.Context, availability *entity.DoctorAvailability) error
	FindByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) (*entity.DoctorAvailability, error)
}

type availabilityRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAvailabilityRepository(db database.PgxIface, log *zap.Logger) AvailabilityRepository {
	return &availabilityRepository{
		db:  db,
		log: log.With(zap.String("repository", "availability")),
	}
}

func (r *availabilityRepository) Upsert(ctx context.Context, availability *entity.DoctorAvailability) error {
	query := `
		INSERT INTO doctor_availabilities (id, doctor_id, date, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (doctor_id, date)
		DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time
	`

	_, err := r.db.Exec(ctx, query,
		availability.ID,
		availability.DoctorID,
		availability.Date,
		availability.StartTime,
		availability.EndTime,
		availability.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to upsert availability",
			zap.Error(err),
			zap.String("doctor_id", availability.DoctorID.String()),
			zap.Time("date", availability.Date),
		)
		return fmt.Errorf("upsert availability for doctor %s: %w", availability.DoctorID.String(), err)
	}

	return nil
}

func (r *availabilityRepository) FindByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) (*entity.DoctorAvailability, error) {
	query := `
		SELECT id, doctor_id, date, start_time, end_time, created_at
		FROM doctor_availabilities
		WHERE doctor_id = $1 AND date = $2
	`

	var availability entity.DoctorAvailability
	err := r.db.QueryRow(ctx, query, doctorID, date).Scan(
		&availability.ID,
		&availability.DoctorID,
		&availability.Date,
		&availability.StartTime,
		&availability.EndTime,
		&availability.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find availability",
			zap.Error(err),
			zap.String("doctor_id", doctorID.String()),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("find availability for doctor %s: %w", doctorID.String(), err)
	}

	return &availability, nil
}
