package wire

import (
	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/middleware"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireDoctor(
	r chi.Router,
	doctorHandler *adaptor.DoctorHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/doctors?specialization=... - Browse doctors
	r.Get("/api/doctors", doctorHandler.GetAllDoctors)

	// GET /api/doctors/{id} - Doctor details
	r.Get("/api/doctors/{id}", doctorHandler.GetDoctorByID)

	// GET /api/doctors/{id}/slots?date=YYYY-MM-DD - Free time slots
	r.Get("/api/doctors/{id}/slots", doctorHandler.GetAvailableSlots)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/doctors", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/", doctorHandler.CreateDoctor)
		r.Put("/{id}", doctorHandler.UpdateDoctor)
		r.Delete("/{id}", doctorHandler.DeleteDoctor)
		r.Post("/{id}/availability", doctorHandler.SetAvailability)
	})
}
