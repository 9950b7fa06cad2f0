package usecase

import (
	"context"
	"fmt"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AppointmentService interface {
	// Public endpoints (butuh auth)
	BookAppointment(ctx context.Context, userID string, req *request.BookAppointmentRequest) (*response.AppointmentResponse, error)
	GetUserAppointments(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.AppointmentResponse], error)
	GetAppointmentByID(ctx context.Context, userID string, appointmentID string) (*response.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, userID string, appointmentID string) error
}

type appointmentService struct {
	repo *repository.Repository // grouping semua appointment-related repos
	log  *zap.Logger
}

func NewAppointmentService(repo *repository.Repository, log *zap.Logger) AppointmentService {
	return &appointmentService{
		repo: repo,
		log:  log.With(zap.String("service", "appointment")),
	}
}

func (s *appointmentService) BookAppointment(ctx context.Context, userID string, req *request.BookAppointmentRequest) (*response.AppointmentResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Book appointment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// Parse IDs
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	doctorUUID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("invalid doctor ID format %s: %w", req.DoctorID, err)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date format %s: %w", req.Date, err)
	}

	today := time.Now().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, fmt.Errorf("cannot book for a past date")
	}

	// Validate doctor
	doctor, err := s.repo.Doctor.FindByID(ctx, doctorUUID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || !doctor.IsActive {
		return nil, fmt.Errorf("doctor %s not found", req.DoctorID)
	}
	if !doctor.Approved {
		return nil, fmt.Errorf("doctor %s is not accepting appointments", req.DoctorID)
	}

	// In-person consultations need a hospital; remote ones never carry one.
	mode := entity.ConsultationMode(req.Mode)
	var hospital *entity.Hospital
	var hospitalID *uuid.UUID
	if mode == entity.ConsultationInPerson {
		hospitalUUID := doctor.HospitalID
		if req.HospitalID != nil {
			parsed, err := uuid.Parse(*req.HospitalID)
			if err != nil {
				return nil, fmt.Errorf("invalid hospital ID format %s: %w", *req.HospitalID, err)
			}
			hospitalUUID = &parsed
		}
		if hospitalUUID == nil {
			return nil, fmt.Errorf("hospital is required for in-person consultation")
		}

		hospital, err = s.repo.Hospital.FindByID(ctx, *hospitalUUID)
		if err != nil {
			return nil, err
		}
		if hospital == nil || !hospital.IsActive {
			return nil, fmt.Errorf("hospital %s not found", hospitalUUID.String())
		}
		hospitalID = hospitalUUID
	}

	// Check doctor availability for the date
	availability, err := s.repo.Availability.FindByDoctorAndDate(ctx, doctorUUID, date)
	if err != nil {
		return nil, err
	}
	if availability == nil {
		return nil, fmt.Errorf("doctor is not available on %s", req.Date)
	}

	if !containsSlot(divideSlots(availability.StartTime, availability.EndTime, slotDuration), req.TimeSlot) {
		return nil, fmt.Errorf("time slot %s is outside doctor availability", req.TimeSlot)
	}

	// Check slot not taken
	bookedSlots, err := s.repo.Appointment.FindBookedSlots(ctx, doctorUUID, date)
	if err != nil {
		s.log.Error("Failed to check booked slots", zap.Error(err))
		return nil, fmt.Errorf("check slot availability: %w", err)
	}
	if containsSlot(bookedSlots, req.TimeSlot) {
		return nil, fmt.Errorf("time slot %s is already booked", req.TimeSlot)
	}

	// One appointment per patient per doctor per day
	exists, err := s.repo.Appointment.ExistsForDoctorOnDate(ctx, userUUID, doctorUUID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("you already have an appointment with this doctor on %s", req.Date)
	}

	// Create appointment entity
	now := time.Now()
	appointment := &entity.Appointment{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID:     userUUID,
		DoctorID:      doctorUUID,
		HospitalID:    hospitalID,
		Date:          date,
		TimeSlot:      req.TimeSlot,
		Mode:          mode,
		HealthIssue:   req.HealthIssue,
		Status:        entity.AppointmentStatusPendingPayment,
		PaymentStatus: entity.AppointmentPaymentPending,
	}

	if err := s.repo.Appointment.Create(ctx, appointment); err != nil {
		s.log.Error("Failed to create appointment",
			zap.Error(err),
			zap.String("patient_id", userID),
			zap.String("doctor_id", req.DoctorID),
		)
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.log.Info("Appointment booked",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("patient_id", userID),
		zap.String("doctor_id", req.DoctorID),
		zap.String("date", req.Date),
		zap.String("time_slot", req.TimeSlot),
	)

	resp := response.AppointmentToResponse(appointment, doctor, hospital)
	return &resp, nil
}

func (s *appointmentService) GetUserAppointments(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.AppointmentResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	limit := req.Limit()
	offset := req.Offset()

	appointments, err := s.repo.Appointment.FindByPatientID(ctx, userUUID, limit, offset)
	if err != nil {
		s.log.Error("Failed to get user appointments",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get user appointments: %w", err)
	}

	total, err := s.repo.Appointment.CountByPatientID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to count user appointments", zap.Error(err))
		return nil, fmt.Errorf("count user appointments: %w", err)
	}

	appointmentResponses := make([]response.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		appointmentResponses[i] = s.buildAppointmentResponse(ctx, appointment)
	}

	return response.NewPaginatedResponse(appointmentResponses, req.Page, req.PerPage, total), nil
}

func (s *appointmentService) GetAppointmentByID(ctx context.Context, userID string, appointmentID string) (*response.AppointmentResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	appointmentUUID, err := uuid.Parse(appointmentID)
	if err != nil {
		return nil, fmt.Errorf("invalid appointment ID format %s: %w", appointmentID, err)
	}

	appointment, err := s.repo.Appointment.FindByID(ctx, appointmentUUID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != userUUID {
		return nil, ErrNotOwner
	}

	resp := s.buildAppointmentResponse(ctx, appointment)
	return &resp, nil
}

func (s *appointmentService) CancelAppointment(ctx context.Context, userID string, appointmentID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	appointmentUUID, err := uuid.Parse(appointmentID)
	if err != nil {
		return fmt.Errorf("invalid appointment ID format %s: %w", appointmentID, err)
	}

	appointment, err := s.repo.Appointment.FindByID(ctx, appointmentUUID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if appointment.PatientID != userUUID {
		return ErrNotOwner
	}

	switch appointment.Status {
	case entity.AppointmentStatusCancelled:
		return fmt.Errorf("appointment is already cancelled")
	case entity.AppointmentStatusCompleted, entity.AppointmentStatusNoShow:
		return fmt.Errorf("appointment can no longer be cancelled")
	}

	// Payment status is untouched; a paid cancellation shows up in admin views
	// for manual refund handling.
	if err := s.repo.Appointment.UpdateStatus(ctx, appointment.ID, entity.AppointmentStatusCancelled, appointment.PaymentStatus); err != nil {
		return err
	}

	s.log.Info("Appointment cancelled",
		zap.String("appointment_id", appointmentID),
		zap.String("patient_id", userID),
	)

	return nil
}

func (s *appointmentService) buildAppointmentResponse(ctx context.Context, appointment *entity.Appointment) response.AppointmentResponse {
	doctor, _ := s.repo.Doctor.FindByID(ctx, appointment.DoctorID)

	var hospital *entity.Hospital
	if appointment.HospitalID != nil {
		hospital, _ = s.repo.Hospital.FindByID(ctx, *appointment.HospitalID)
	}

	resp := response.AppointmentToResponse(appointment, doctor, hospital)

	if payment, _ := s.repo.Payment.FindByAppointmentID(ctx, appointment.ID); payment != nil {
		paymentResp := response.PaymentToResponse(payment)
		resp.Payment = &paymentResp
	}

	return resp
}

func containsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
