package wire

import (
	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/middleware"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireHospital(
	r chi.Router,
	hospitalHandler *adaptor.HospitalHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/hospitals", hospitalHandler.GetAllHospitals)
	r.Get("/api/hospitals/{id}", hospitalHandler.GetHospitalByID)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/hospitals", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/", hospitalHandler.CreateHospital)
		r.Put("/{id}", hospitalHandler.UpdateHospital)
		r.Delete("/{id}", hospitalHandler.DeleteHospital)
	})
}
