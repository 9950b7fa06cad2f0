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

// slotDuration is the consultation slot length the availability window is
// divided into.
const slotDuration = 30 * time.Minute

type DoctorService interface {
	// Public endpoints
	GetAllDoctors(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.DoctorResponse], error)
	GetDoctorByID(ctx context.Context, doctorID string) (*response.DoctorResponse, error)
	SearchBySpecialization(ctx context.Context, specialization string) ([]response.DoctorResponse, error)
	GetAvailableSlots(ctx context.Context, doctorID string, date string) (*response.AvailableSlotsResponse, error)

	// Admin endpoints
	CreateDoctor(ctx context.Context, req *request.CreateDoctorRequest) (*response.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, doctorID string, req *request.UpdateDoctorRequest) (*response.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID string) error
	SetAvailability(ctx context.Context, doctorID string, req *request.SetAvailabilityRequest) error
}

type doctorService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewDoctorService(repo *repository.Repository, log *zap.Logger) DoctorService {
	return &doctorService{
		repo: repo,
		log:  log.With(zap.String("service", "doctor")),
	}
}

func (s *doctorService) GetAllDoctors(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.DoctorResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	doctors, err := s.repo.Doctor.FindAll(ctx, limit, offset)
	if err != nil {
		s.log.Error("Failed to get doctors", zap.Error(err))
		return nil, fmt.Errorf("get doctors: %w", err)
	}

	total, err := s.repo.Doctor.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count doctors", zap.Error(err))
		return nil, fmt.Errorf("count doctors: %w", err)
	}

	doctorResponses := make([]response.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		doctorResponses[i] = s.buildDoctorResponse(ctx, doctor)
	}

	return response.NewPaginatedResponse(doctorResponses, req.Page, req.PerPage, total), nil
}

func (s *doctorService) GetDoctorByID(ctx context.Context, doctorID string) (*response.DoctorResponse, error) {
	doctorUUID, err := uuid.Parse(doctorID)
	if err != nil {
		return nil, fmt.Errorf("invalid doctor ID format %s: %w", doctorID, err)
	}

	doctor, err := s.repo.Doctor.FindByID(ctx, doctorUUID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, fmt.Errorf("doctor %s not found", doctorID)
	}

	resp := s.buildDoctorResponse(ctx, doctor)
	return &resp, nil
}

func (s *doctorService) SearchBySpecialization(ctx context.Context, specialization string) ([]response.DoctorResponse, error) {
	if specialization == "" {
		return nil, fmt.Errorf("specialization is required")
	}

	doctors, err := s.repo.Doctor.FindBySpecialization(ctx, specialization)
	if err != nil {
		s.log.Error("Failed to search doctors",
			zap.Error(err),
			zap.String("specialization", specialization),
		)
		return nil, fmt.Errorf("search doctors by specialization: %w", err)
	}

	doctorResponses := make([]response.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		doctorResponses[i] = s.buildDoctorResponse(ctx, doctor)
	}

	return doctorResponses, nil
}

func (s *doctorService) GetAvailableSlots(ctx context.Context, doctorID string, dateStr string) (*response.AvailableSlotsResponse, error) {
	doctorUUID, err := uuid.Parse(doctorID)
	if err != nil {
		return nil, fmt.Errorf("invalid doctor ID format %s: %w", doctorID, err)
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date format %s: %w", dateStr, err)
	}

	doctor, err := s.repo.Doctor.FindByID(ctx, doctorUUID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || !doctor.IsActive {
		return nil, fmt.Errorf("doctor %s not found", doctorID)
	}

	resp := &response.AvailableSlotsResponse{
		DoctorID: doctorID,
		Date:     dateStr,
		Slots:    []string{},
	}

	availability, err := s.repo.Availability.FindByDoctorAndDate(ctx, doctorUUID, date)
	if err != nil {
		return nil, err
	}
	if availability == nil {
		// No availability set for the date means no slots, not an error.
		return resp, nil
	}

	booked, err := s.repo.Appointment.FindBookedSlots(ctx, doctorUUID, date)
	if err != nil {
		return nil, err
	}

	for _, slot := range divideSlots(availability.StartTime, availability.EndTime, slotDuration) {
		if !containsSlot(booked, slot) {
			resp.Slots = append(resp.Slots, slot)
		}
	}

	return resp, nil
}

func (s *doctorService) CreateDoctor(ctx context.Context, req *request.CreateDoctorRequest) (*response.DoctorResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create doctor validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	var hospitalID *uuid.UUID
	if req.HospitalID != nil {
		parsed, err := uuid.Parse(*req.HospitalID)
		if err != nil {
			return nil, fmt.Errorf("invalid hospital ID format %s: %w", *req.HospitalID, err)
		}

		hospital, err := s.repo.Hospital.FindByID(ctx, parsed)
		if err != nil {
			return nil, err
		}
		if hospital == nil {
			return nil, fmt.Errorf("hospital %s not found", *req.HospitalID)
		}
		hospitalID = &parsed
	}

	now := time.Now()
	doctor := &entity.Doctor{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Specialization:  req.Specialization,
		ExperienceYears: req.ExperienceYears,
		ConsultationFee: req.ConsultationFee,
		HospitalID:      hospitalID,
		Approved:        true, // admin-created doctors are approved immediately
		IsActive:        true,
	}

	if err := s.repo.Doctor.Create(ctx, doctor); err != nil {
		return nil, err
	}

	s.log.Info("Doctor created",
		zap.String("doctor_id", doctor.ID.String()),
		zap.String("specialization", doctor.Specialization),
	)

	resp := s.buildDoctorResponse(ctx, doctor)
	return &resp, nil
}

func (s *doctorService) UpdateDoctor(ctx context.Context, doctorID string, req *request.UpdateDoctorRequest) (*response.DoctorResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update doctor validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	doctorUUID, err := uuid.Parse(doctorID)
	if err != nil {
		return nil, fmt.Errorf("invalid doctor ID format %s: %w", doctorID, err)
	}

	doctor, err := s.repo.Doctor.FindByID(ctx, doctorUUID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, fmt.Errorf("doctor %s not found", doctorID)
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Phone != nil {
		doctor.Phone = req.Phone
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.ExperienceYears != nil {
		doctor.ExperienceYears = *req.ExperienceYears
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.Approved != nil {
		doctor.Approved = *req.Approved
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}
	doctor.UpdatedAt = time.Now()

	if err := s.repo.Doctor.Update(ctx, doctor); err != nil {
		return nil, err
	}

	s.log.Info("Doctor updated", zap.String("doctor_id", doctorID))

	resp := s.buildDoctorResponse(ctx, doctor)
	return &resp, nil
}

func (s *doctorService) DeleteDoctor(ctx context.Context, doctorID string) error {
	doctorUUID, err := uuid.Parse(doctorID)
	if err != nil {
		return fmt.Errorf("invalid doctor ID format %s: %w", doctorID, err)
	}

	if err := s.repo.Doctor.Delete(ctx, doctorUUID); err != nil {
		return err
	}

	s.log.Info("Doctor deleted", zap.String("doctor_id", doctorID))
	return nil
}

func (s *doctorService) SetAvailability(ctx context.Context, doctorID string, req *request.SetAvailabilityRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Set availability validation failed", zap.Any("errors", errs))
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	doctorUUID, err := uuid.Parse(doctorID)
	if err != nil {
		return fmt.Errorf("invalid doctor ID format %s: %w", doctorID, err)
	}

	doctor, err := s.repo.Doctor.FindByID(ctx, doctorUUID)
	if err != nil {
		return err
	}
	if doctor == nil {
		return fmt.Errorf("doctor %s not found", doctorID)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return fmt.Errorf("invalid date format %s: %w", req.Date, err)
	}

	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start time %s: %w", req.StartTime, err)
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end time %s: %w", req.EndTime, err)
	}
	if !start.Before(end) {
		return fmt.Errorf("start time must be before end time")
	}

	availability := &entity.DoctorAvailability{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: time.Now(),
		},
		DoctorID:  doctorUUID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}

	if err := s.repo.Availability.Upsert(ctx, availability); err != nil {
		return err
	}

	s.log.Info("Availability set",
		zap.String("doctor_id", doctorID),
		zap.String("date", req.Date),
		zap.String("window", req.StartTime+"-"+req.EndTime),
	)

	return nil
}

func (s *doctorService) buildDoctorResponse(ctx context.Context, doctor *entity.Doctor) response.DoctorResponse {
	var hospital *entity.Hospital
	if doctor.HospitalID != nil {
		hospital, _ = s.repo.Hospital.FindByID(ctx, *doctor.HospitalID)
	}
	return response.DoctorToResponse(doctor, hospital)
}

// divideSlots splits a working window into fixed-length "15:04" start times.
// A slot is only emitted if the full duration fits before the end time.
func divideSlots(startTime, endTime string, step time.Duration) []string {
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return nil
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return nil
	}

	var slots []string
	for t := start; !t.Add(step).After(end); t = t.Add(step) {
		slots = append(slots, t.Format("15:04"))
	}
	return slots
}
