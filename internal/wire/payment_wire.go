package wire

import (
	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/middleware"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/payments/notify - Gateway webhook. No auth: the gateway
	// authenticates itself through the md5sig field, not a session.
	r.Post("/api/payments/notify", paymentHandler.Notify)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/payments/initiate - Start checkout for an appointment
		r.Post("/api/payments/initiate", paymentHandler.InitiatePayment)

		// GET /api/payments/verify/{orderId} - Poll payment status after return
		r.Get("/api/payments/verify/{orderId}", paymentHandler.VerifyPayment)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/payments", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		// POST /api/admin/payments/fix-pending - Settle stale pending payments
		r.Post("/fix-pending", paymentHandler.FixPendingPayments)
	})
}
