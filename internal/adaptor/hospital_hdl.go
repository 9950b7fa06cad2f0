package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type HospitalHandler struct {
	service usecase.HospitalService
	log     *zap.Logger
}

func NewHospitalHandler(service usecase.HospitalService, log *zap.Logger) *HospitalHandler {
	return &HospitalHandler{
		service: service,
		log:     log.With(zap.String("handler", "hospital")),
	}
}

// GetAllHospitals handles GET /api/hospitals (public)
func (h *HospitalHandler) GetAllHospitals(w http.ResponseWriter, r *http.Request) {
	req := &request.PaginatedRequest{
		Page:    1,
		PerPage: 10,
	}

	query := r.URL.Query()
	req.Page = utils.ParseInt(query.Get("page"), 1)
	req.PerPage = utils.ParseInt(query.Get("per_page"), 10)

	hospitals, err := h.service.GetAllHospitals(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "get hospitals")
		return
	}

	utils.ResponseSuccess(w, "success", hospitals)
}

// GetHospitalByID handles GET /api/hospitals/{id} (public)
func (h *HospitalHandler) GetHospitalByID(w http.ResponseWriter, r *http.Request) {
	hospitalID := chi.URLParam(r, "id")
	if hospitalID == "" {
		utils.ResponseBadRequest(w, "Hospital ID is required", nil)
		return
	}

	hospital, err := h.service.GetHospitalByID(r.Context(), hospitalID)
	if err != nil {
		h.handleServiceError(w, err, "get hospital by ID")
		return
	}

	utils.ResponseSuccess(w, "success", hospital)
}

// ==================== ADMIN METHODS ====================

// CreateHospital handles POST /api/admin/hospitals (admin only)
func (h *HospitalHandler) CreateHospital(w http.ResponseWriter, r *http.Request) {
	var req request.CreateHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	hospital, err := h.service.CreateHospital(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create hospital")
		return
	}

	utils.ResponseCreated(w, "success", hospital)
}

// UpdateHospital handles PUT /api/admin/hospitals/{id} (admin only)
func (h *HospitalHandler) UpdateHospital(w http.ResponseWriter, r *http.Request) {
	hospitalID := chi.URLParam(r, "id")
	if hospitalID == "" {
		utils.ResponseBadRequest(w, "Hospital ID is required", nil)
		return
	}

	var req request.UpdateHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	hospital, err := h.service.UpdateHospital(r.Context(), hospitalID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update hospital")
		return
	}

	utils.ResponseSuccess(w, "success", hospital)
}

// DeleteHospital handles DELETE /api/admin/hospitals/{id} (admin only)
func (h *HospitalHandler) DeleteHospital(w http.ResponseWriter, r *http.Request) {
	hospitalID := chi.URLParam(r, "id")
	if hospitalID == "" {
		utils.ResponseBadRequest(w, "Hospital ID is required", nil)
		return
	}

	if err := h.service.DeleteHospital(r.Context(), hospitalID); err != nil {
		h.handleServiceError(w, err, "delete hospital")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// handleServiceError handles errors untuk hospital operations
func (h *HospitalHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"), strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
