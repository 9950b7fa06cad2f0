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

type HospitalService interface {
	// Public endpoints
	GetAllHospitals(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.HospitalResponse], error)
	GetHospitalByID(ctx context.Context, hospitalID string) (*response.HospitalResponse, error)

	// Admin endpoints
	CreateHospital(ctx context.Context, req *request.CreateHospitalRequest) (*response.HospitalResponse, error)
	UpdateHospital(ctx context.Context, hospitalID string, req *request.UpdateHospitalRequest) (*response.HospitalResponse, error)
	DeleteHospital(ctx context.Context, hospitalID string) error
}

type hospitalService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewHospitalService(repo *repository.Repository, log *zap.Logger) HospitalService {
	return &hospitalService{
		repo: repo,
		log:  log.With(zap.String("service", "hospital")),
	}
}

func (s *hospitalService) GetAllHospitals(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.HospitalResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	hospitals, err := s.repo.Hospital.FindAll(ctx, limit, offset)
	if err != nil {
		s.log.Error("Failed to get hospitals", zap.Error(err))
		return nil, fmt.Errorf("get hospitals: %w", err)
	}

	total, err := s.repo.Hospital.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count hospitals", zap.Error(err))
		return nil, fmt.Errorf("count hospitals: %w", err)
	}

	hospitalResponses := make([]response.HospitalResponse, len(hospitals))
	for i, hospital := range hospitals {
		hospitalResponses[i] = response.HospitalToResponse(hospital)
	}

	return response.NewPaginatedResponse(hospitalResponses, req.Page, req.PerPage, total), nil
}

func (s *hospitalService) GetHospitalByID(ctx context.Context, hospitalID string) (*response.HospitalResponse, error) {
	hospitalUUID, err := uuid.Parse(hospitalID)
	if err != nil {
		return nil, fmt.Errorf("invalid hospital ID format %s: %w", hospitalID, err)
	}

	hospital, err := s.repo.Hospital.FindByID(ctx, hospitalUUID)
	if err != nil {
		return nil, err
	}
	if hospital == nil {
		return nil, fmt.Errorf("hospital %s not found", hospitalID)
	}

	resp := response.HospitalToResponse(hospital)
	return &resp, nil
}

func (s *hospitalService) CreateHospital(ctx context.Context, req *request.CreateHospitalRequest) (*response.HospitalResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create hospital validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	hospital := &entity.Hospital{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:     req.Name,
		Location: req.Location,
		Phone:    req.Phone,
		Email:    req.Email,
		IsActive: true,
	}

	if err := s.repo.Hospital.Create(ctx, hospital); err != nil {
		return nil, err
	}

	s.log.Info("Hospital created",
		zap.String("hospital_id", hospital.ID.String()),
		zap.String("name", hospital.Name),
	)

	resp := response.HospitalToResponse(hospital)
	return &resp, nil
}

func (s *hospitalService) UpdateHospital(ctx context.Context, hospitalID string, req *request.UpdateHospitalRequest) (*response.HospitalResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update hospital validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	hospitalUUID, err := uuid.Parse(hospitalID)
	if err != nil {
		return nil, fmt.Errorf("invalid hospital ID format %s: %w", hospitalID, err)
	}

	hospital, err := s.repo.Hospital.FindByID(ctx, hospitalUUID)
	if err != nil {
		return nil, err
	}
	if hospital == nil {
		return nil, fmt.Errorf("hospital %s not found", hospitalID)
	}

	if req.Name != nil {
		hospital.Name = *req.Name
	}
	if req.Location != nil {
		hospital.Location = *req.Location
	}
	if req.Phone != nil {
		hospital.Phone = req.Phone
	}
	if req.Email != nil {
		hospital.Email = req.Email
	}
	if req.IsActive != nil {
		hospital.IsActive = *req.IsActive
	}
	hospital.UpdatedAt = time.Now()

	if err := s.repo.Hospital.Update(ctx, hospital); err != nil {
		return nil, err
	}

	s.log.Info("Hospital updated", zap.String("hospital_id", hospitalID))

	resp := response.HospitalToResponse(hospital)
	return &resp, nil
}

func (s *hospitalService) DeleteHospital(ctx context.Context, hospitalID string) error {
	hospitalUUID, err := uuid.Parse(hospitalID)
	if err != nil {
		return fmt.Errorf("invalid hospital ID format %s: %w", hospitalID, err)
	}

	if err := s.repo.Hospital.Delete(ctx, hospitalUUID); err != nil {
		return err
	}

	s.log.Info("Hospital deleted", zap.String("hospital_id", hospitalID))
	return nil
}
