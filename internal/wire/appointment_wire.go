package wire

import (
	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/middleware"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAppointment(
	r chi.Router,
	appointmentHandler *adaptor.AppointmentHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/appointments - Book a new appointment
		r.Post("/api/appointments", appointmentHandler.BookAppointment)

		// GET /api/appointments - View own appointment history
		r.Get("/api/appointments", appointmentHandler.GetUserAppointments)

		// GET /api/appointments/{id} - View one appointment with payment state
		r.Get("/api/appointments/{id}", appointmentHandler.GetAppointmentByID)

		// PUT /api/appointments/{id}/cancel - Cancel own appointment
		r.Put("/api/appointments/{id}/cancel", appointmentHandler.CancelAppointment)
	})
}
