package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/payhere"
	redisclient "clinic-booking/pkg/redis"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// InitiatePayment handles POST /api/payments/initiate (protected)
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	checkout, err := h.service.InitiatePayment(r.Context(), userID.String(), &req)
	if err != nil {
		h.handleServiceError(w, err, "initiate payment")
		return
	}

	utils.ResponseCreated(w, "success", checkout)
}

// Notify handles POST /api/payments/notify (public, no auth).
//
// This is the gateway webhook. The gateway expects a plain-text body, not the
// JSON envelope the rest of the API uses: anything other than 200 makes it
// retry the delivery.
func (h *PaymentHandler) Notify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.log.Warn("Notification form parse failed", zap.Error(err))
		writePlain(w, http.StatusBadRequest, "Bad Request")
		return
	}

	notif := payhere.ParseNotification(r.PostForm)
	rawPayload := r.PostForm.Encode()

	err := h.service.HandleNotification(r.Context(), notif, rawPayload)
	switch {
	case err == nil:
		writePlain(w, http.StatusOK, "OK")

	case errors.Is(err, usecase.ErrInvalidNotification), errors.Is(err, usecase.ErrInvalidSignature):
		h.log.Warn("Notification rejected",
			zap.Error(err),
			zap.String("order_id", notif.OrderID),
		)
		writePlain(w, http.StatusBadRequest, "Bad Request")

	case errors.Is(err, usecase.ErrPaymentNotFound):
		h.log.Warn("Notification for unknown payment",
			zap.Error(err),
			zap.String("order_id", notif.OrderID),
		)
		writePlain(w, http.StatusNotFound, "Not Found")

	case errors.Is(err, redisclient.ErrLockNotAcquired):
		// Another delivery for the same payment holds the lock; a 500 makes
		// the gateway redeliver once it is released.
		h.log.Info("Notification deferred, payment locked",
			zap.String("order_id", notif.OrderID),
		)
		writePlain(w, http.StatusInternalServerError, "Locked")

	default:
		h.log.Error("Failed to process notification",
			zap.Error(err),
			zap.String("order_id", notif.OrderID),
		)
		writePlain(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// VerifyPayment handles GET /api/payments/verify/{orderId} (protected)
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		utils.ResponseBadRequest(w, "Order ID is required", nil)
		return
	}

	result, err := h.service.VerifyPayment(r.Context(), userID.String(), orderID)
	if err != nil {
		h.handleServiceError(w, err, "verify payment")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// ==================== ADMIN METHODS ====================

// FixPendingPayments handles POST /api/admin/payments/fix-pending (admin only)
func (h *PaymentHandler) FixPendingPayments(w http.ResponseWriter, r *http.Request) {
	var req request.FixPendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	olderThan := time.Duration(req.OlderThanMinutes) * time.Minute

	result, err := h.service.FixPendingPayments(r.Context(), olderThan)
	if err != nil {
		h.handleServiceError(w, err, "fix pending payments")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// handleServiceError handles errors untuk payment operations
func (h *PaymentHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, usecase.ErrPaymentNotFound), errors.Is(err, usecase.ErrAppointmentNotFound):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, usecase.ErrNotOwner):
		h.log.Warn(operation+" failed - not owner",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseForbidden(w, errMsg)

	case errors.Is(err, usecase.ErrAlreadyPaid):
		h.log.Warn(operation+" failed - already paid",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "validation failed"), strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "cancelled"):
		h.log.Warn(operation+" failed - invalid state",
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

func writePlain(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(body))
}
