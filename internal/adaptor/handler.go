package adaptor

import (
	"clinic-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Hospital    *HospitalHandler
	Doctor      *DoctorHandler
	Appointment *AppointmentHandler
	Payment     *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Auth, log),
		User:        NewUserHandler(service.User, log),
		Hospital:    NewHospitalHandler(service.Hospital, log),
		Doctor:      NewDoctorHandler(service.Doctor, log),
		Appointment: NewAppointmentHandler(service.Appointment, log),
		Payment:     NewPaymentHandler(service.Payment, log),
	}
}
