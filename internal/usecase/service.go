package usecase

import (
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/mailer"
	"clinic-booking/pkg/receipt"
	redisclient "clinic-booking/pkg/redis"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Hospital    HospitalService
	Doctor      DoctorService
	Appointment AppointmentService
	Payment     PaymentService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	mail mailer.Mailer,
	receipts receipt.Renderer,
	locker redisclient.Locker,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:        NewAuthService(repo, config, mail, log),
		User:        NewUserService(repo.User, log),
		Hospital:    NewHospitalService(repo, log),
		Doctor:      NewDoctorService(repo, log),
		Appointment: NewAppointmentService(repo, log),
		Payment:     NewPaymentService(repo, config, mail, receipts, locker, log),
	}
}
