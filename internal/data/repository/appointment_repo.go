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

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*entity.Appointment, error)
	CountByPatientID(ctx context.Context, patientID uuid.UUID) (int64, error)
	Update(ctx context.Context, appointment *entity.Appointment) error

	// Business queries
	FindBookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error)
	ExistsForDoctorOnDate(ctx context.Context, patientID, doctorID uuid.UUID, date time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus, paymentStatus entity.AppointmentPaymentStatus) error
}

type appointmentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAppointmentRepository(db database.PgxIface, log *zap.Logger) AppointmentRepository {
	return &appointmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "appointment")),
	}
}

const appointmentColumns = `id, patient_id, doctor_id, hospital_id, appointment_date, time_slot,
	mode, health_issue, status, payment_status, created_at, updated_at`

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := row.Scan(
		&appointment.ID,
		&appointment.PatientID,
		&appointment.DoctorID,
		&appointment.HospitalID,
		&appointment.Date,
		&appointment.TimeSlot,
		&appointment.Mode,
		&appointment.HealthIssue,
		&appointment.Status,
		&appointment.PaymentStatus,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	query := `
		INSERT INTO appointments (id, patient_id, doctor_id, hospital_id, appointment_date, time_slot,
		                          mode, health_issue, status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.HospitalID,
		appointment.Date,
		appointment.TimeSlot,
		appointment.Mode,
		appointment.HealthIssue,
		appointment.Status,
		appointment.PaymentStatus,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create appointment",
			zap.Error(err),
			zap.String("patient_id", appointment.PatientID.String()),
			zap.String("doctor_id", appointment.DoctorID.String()),
		)
		return fmt.Errorf("create appointment for patient %s: %w", appointment.PatientID.String(), err)
	}

	return nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 AND deleted_at IS NULL`

	appointment, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find appointment by ID",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return nil, fmt.Errorf("find appointment by ID %s: %w", id.String(), err)
	}

	return appointment, nil
}

func (r *appointmentRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*entity.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1 AND deleted_at IS NULL
		ORDER BY appointment_date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, patientID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find appointments by patient",
			zap.Error(err),
			zap.String("patient_id", patientID.String()),
		)
		return nil, fmt.Errorf("find appointments for patient %s: %w", patientID.String(), err)
	}
	defer rows.Close()

	var appointments []*entity.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			r.log.Error("Failed to scan appointment row", zap.Error(err))
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate appointment rows: %w", err)
	}

	return appointments, nil
}

func (r *appointmentRepository) CountByPatientID(ctx context.Context, patientID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE patient_id = $1 AND deleted_at IS NULL`

	var count int64
	if err := r.db.QueryRow(ctx, query, patientID).Scan(&count); err != nil {
		r.log.Error("Database error counting appointments",
			zap.Error(err),
			zap.String("patient_id", patientID.String()),
		)
		return 0, fmt.Errorf("count appointments for patient %s: %w", patientID.String(), err)
	}

	return count, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	query := `
		UPDATE appointments
		SET hospital_id = $2, appointment_date = $3, time_slot = $4, mode = $5,
		    health_issue = $6, status = $7, payment_status = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		appointment.ID,
		appointment.HospitalID,
		appointment.Date,
		appointment.TimeSlot,
		appointment.Mode,
		appointment.HealthIssue,
		appointment.Status,
		appointment.PaymentStatus,
		appointment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update appointment",
			zap.Error(err),
			zap.String("appointment_id", appointment.ID.String()),
		)
		return fmt.Errorf("update appointment %s: %w", appointment.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("appointment %s not found", appointment.ID.String())
	}

	return nil
}

// FindBookedSlots returns the time slots already taken for a doctor on a date.
// Cancelled and failed bookings do not block a slot.
func (r *appointmentRepository) FindBookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	query := `
		SELECT time_slot
		FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2 AND deleted_at IS NULL
		  AND status IN ('pending_payment', 'scheduled', 'confirmed', 'completed')
	`

	rows, err := r.db.Query(ctx, query, doctorID, date)
	if err != nil {
		r.log.Error("Failed to find booked slots",
			zap.Error(err),
			zap.String("doctor_id", doctorID.String()),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("find booked slots for doctor %s: %w", doctorID.String(), err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			r.log.Error("Failed to scan slot row", zap.Error(err))
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate slot rows: %w", err)
	}

	return slots, nil
}

func (r *appointmentRepository) ExistsForDoctorOnDate(ctx context.Context, patientID, doctorID uuid.UUID, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE patient_id = $1 AND doctor_id = $2 AND appointment_date = $3
			  AND deleted_at IS NULL
			  AND status IN ('pending_payment', 'scheduled', 'confirmed')
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, patientID, doctorID, date).Scan(&exists); err != nil {
		r.log.Error("Failed to check duplicate appointment",
			zap.Error(err),
			zap.String("patient_id", patientID.String()),
			zap.String("doctor_id", doctorID.String()),
		)
		return false, fmt.Errorf("check duplicate appointment: %w", err)
	}

	return exists, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus, paymentStatus entity.AppointmentPaymentStatus) error {
	query := `
		UPDATE appointments
		SET status = $2, payment_status = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, status, paymentStatus)
	if err != nil {
		r.log.Error("Failed to update appointment status",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update appointment %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("appointment %s not found", id.String())
	}

	return nil
}
