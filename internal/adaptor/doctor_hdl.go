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

type DoctorHandler struct {
	service usecase.DoctorService
	log     *zap.Logger
}

func NewDoctorHandler(service usecase.DoctorService, log *zap.Logger) *DoctorHandler {
	return &DoctorHandler{
		service: service,
		log:     log.With(zap.String("handler", "doctor")),
	}
}

// GetAllDoctors handles GET /api/doctors (public)
func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	req := &request.PaginatedRequest{
		Page:    1,
		PerPage: 10,
	}

	query := r.URL.Query()
	req.Page = utils.ParseInt(query.Get("page"), 1)
	req.PerPage = utils.ParseInt(query.Get("per_page"), 10)

	// Optional specialization filter
	if specialization := query.Get("specialization"); specialization != "" {
		doctors, err := h.service.SearchBySpecialization(r.Context(), specialization)
		if err != nil {
			h.handleServiceError(w, err, "search doctors")
			return
		}
		utils.ResponseSuccess(w, "success", doctors)
		return
	}

	doctors, err := h.service.GetAllDoctors(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "get doctors")
		return
	}

	utils.ResponseSuccess(w, "success", doctors)
}

// GetDoctorByID handles GET /api/doctors/{id} (public)
func (h *DoctorHandler) GetDoctorByID(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "id")
	if doctorID == "" {
		utils.ResponseBadRequest(w, "Doctor ID is required", nil)
		return
	}

	doctor, err := h.service.GetDoctorByID(r.Context(), doctorID)
	if err != nil {
		h.handleServiceError(w, err, "get doctor by ID")
		return
	}

	utils.ResponseSuccess(w, "success", doctor)
}

// GetAvailableSlots handles GET /api/doctors/{id}/slots?date=YYYY-MM-DD (public)
func (h *DoctorHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "id")
	if doctorID == "" {
		utils.ResponseBadRequest(w, "Doctor ID is required", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "date query parameter is required", nil)
		return
	}

	slots, err := h.service.GetAvailableSlots(r.Context(), doctorID, date)
	if err != nil {
		h.handleServiceError(w, err, "get available slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// ==================== ADMIN METHODS ====================

// CreateDoctor handles POST /api/admin/doctors (admin only)
func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req request.CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	doctor, err := h.service.CreateDoctor(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create doctor")
		return
	}

	utils.ResponseCreated(w, "success", doctor)
}

// UpdateDoctor handles PUT /api/admin/doctors/{id} (admin only)
func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "id")
	if doctorID == "" {
		utils.ResponseBadRequest(w, "Doctor ID is required", nil)
		return
	}

	var req request.UpdateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	doctor, err := h.service.UpdateDoctor(r.Context(), doctorID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update doctor")
		return
	}

	utils.ResponseSuccess(w, "success", doctor)
}

// DeleteDoctor handles DELETE /api/admin/doctors/{id} (admin only)
func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "id")
	if doctorID == "" {
		utils.ResponseBadRequest(w, "Doctor ID is required", nil)
		return
	}

	if err := h.service.DeleteDoctor(r.Context(), doctorID); err != nil {
		h.handleServiceError(w, err, "delete doctor")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// SetAvailability handles POST /api/admin/doctors/{id}/availability (admin only)
func (h *DoctorHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "id")
	if doctorID == "" {
		utils.ResponseBadRequest(w, "Doctor ID is required", nil)
		return
	}

	var req request.SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.SetAvailability(r.Context(), doctorID, &req); err != nil {
		h.handleServiceError(w, err, "set availability")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// handleServiceError handles errors untuk doctor operations
func (h *DoctorHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"),
		strings.Contains(errMsg, "invalid"),
		strings.Contains(errMsg, "required"),
		strings.Contains(errMsg, "must be"):
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
