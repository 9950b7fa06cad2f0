package repository

import (
	"clinic-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	OTP          OTPRepository
	Hospital     HospitalRepository
	Doctor       DoctorRepository
	Availability AvailabilityRepository
	Appointment  AppointmentRepository
	Payment      PaymentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		OTP:          NewOTPRepository(db, log),
		Hospital:     NewHospitalRepository(db, log),
		Doctor:       NewDoctorRepository(db, log),
		Availability: NewAvailabilityRepository(db, log),
		Appointment:  NewAppointmentRepository(db, log),
		Payment:      NewPaymentRepository(db, log),
	}
}
