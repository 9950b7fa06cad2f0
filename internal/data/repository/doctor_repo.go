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

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Doctor, error)
	CountAll(ctx context.Context) (int64, error)
	FindBySpecialization(ctx context.Context, specialization string) ([]*entity.Doctor, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type doctorRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDoctorRepository(db database.PgxIface, log *zap.Logger) DoctorRepository {
	return &doctorRepository{
		db:  db,
		log: log.With(zap.String("repository", "doctor")),
	}
}

const doctorColumns = `id, name, email, phone, specialization, experience_years,
	consultation_fee, hospital_id, approved, is_active, created_at, updated_at`

func scanDoctor(row pgx.Row) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := row.Scan(
		&doctor.ID,
		&doctor.Name,
		&doctor.Email,
		&doctor.Phone,
		&doctor.Specialization,
		&doctor.ExperienceYears,
		&doctor.ConsultationFee,
		&doctor.HospitalID,
		&doctor.Approved,
		&doctor.IsActive,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	query := `
		INSERT INTO doctors (id, name, email, phone, specialization, experience_years,
		                     consultation_fee, hospital_id, approved, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Email,
		doctor.Phone,
		doctor.Specialization,
		doctor.ExperienceYears,
		doctor.ConsultationFee,
		doctor.HospitalID,
		doctor.Approved,
		doctor.IsActive,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create doctor",
			zap.Error(err),
			zap.String("name", doctor.Name),
			zap.String("specialization", doctor.Specialization),
		)
		return fmt.Errorf("create doctor %s: %w", doctor.Name, err)
	}

	return nil
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1 AND deleted_at IS NULL`

	doctor, err := scanDoctor(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find doctor by ID",
			zap.Error(err),
			zap.String("doctor_id", id.String()),
		)
		return nil, fmt.Errorf("find doctor by ID %s: %w", id.String(), err)
	}

	return doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors
		WHERE deleted_at IS NULL AND approved = TRUE AND is_active = TRUE
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to get doctors",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all doctors limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var doctors []*entity.Doctor
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			r.log.Error("Failed to scan doctor row", zap.Error(err))
			return nil, fmt.Errorf("scan doctor row: %w", err)
		}
		doctors = append(doctors, doctor)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate doctor rows: %w", err)
	}

	return doctors, nil
}

func (r *doctorRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM doctors WHERE deleted_at IS NULL AND approved = TRUE AND is_active = TRUE`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Database error counting doctors", zap.Error(err))
		return 0, fmt.Errorf("count all doctors: %w", err)
	}

	return count, nil
}

func (r *doctorRepository) FindBySpecialization(ctx context.Context, specialization string) ([]*entity.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors
		WHERE specialization = $1 AND deleted_at IS NULL AND approved = TRUE AND is_active = TRUE
		ORDER BY experience_years DESC
	`

	rows, err := r.db.Query(ctx, query, specialization)
	if err != nil {
		r.log.Error("Failed to find doctors by specialization",
			zap.Error(err),
			zap.String("specialization", specialization),
		)
		return nil, fmt.Errorf("find doctors by specialization %s: %w", specialization, err)
	}
	defer rows.Close()

	var doctors []*entity.Doctor
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			r.log.Error("Failed to scan doctor row", zap.Error(err))
			return nil, fmt.Errorf("scan doctor row: %w", err)
		}
		doctors = append(doctors, doctor)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate doctor rows: %w", err)
	}

	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	query := `
		UPDATE doctors
		SET name = $2, email = $3, phone = $4, specialization = $5, experience_years = $6,
		    consultation_fee = $7, hospital_id = $8, approved = $9, is_active = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Email,
		doctor.Phone,
		doctor.Specialization,
		doctor.ExperienceYears,
		doctor.ConsultationFee,
		doctor.HospitalID,
		doctor.Approved,
		doctor.IsActive,
		doctor.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update doctor",
			zap.Error(err),
			zap.String("doctor_id", doctor.ID.String()),
		)
		return fmt.Errorf("update doctor %s: %w", doctor.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("doctor %s not found", doctor.ID.String())
	}

	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE doctors SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete doctor",
			zap.Error(err),
			zap.String("doctor_id", id.String()),
		)
		return fmt.Errorf("delete doctor %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("doctor %s not found", id.String())
	}

	r.log.Info("Doctor deleted", zap.String("doctor_id", id.String()))
	return nil
}
