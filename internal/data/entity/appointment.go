package entity

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPendingPayment AppointmentStatus = "pending_payment"
	AppointmentStatusScheduled      AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed      AppointmentStatus = "confirmed"
	AppointmentStatusCancelled      AppointmentStatus = "cancelled"
	AppointmentStatusCompleted      AppointmentStatus = "completed"
	AppointmentStatusNoShow         AppointmentStatus = "no_show"
)

type AppointmentPaymentStatus string

const (
	AppointmentPaymentPending     AppointmentPaymentStatus = "pending"
	AppointmentPaymentPaid        AppointmentPaymentStatus = "paid"
	AppointmentPaymentFailed      AppointmentPaymentStatus = "failed"
	AppointmentPaymentRefunded    AppointmentPaymentStatus = "refunded"
	AppointmentPaymentNotRequired AppointmentPaymentStatus = "not_required"
)

type ConsultationMode string

const (
	ConsultationInPerson ConsultationMode = "in_person"
	ConsultationRemote   ConsultationMode = "remote"
)

// Appointment is confirmed only through the payment flow, never directly.
type Appointment struct {
	Base
	PatientID     uuid.UUID                `db:"patient_id"`
	DoctorID      uuid.UUID                `db:"doctor_id"`
	HospitalID    *uuid.UUID               `db:"hospital_id"`
	Date          time.Time                `db:"appointment_date"`
	TimeSlot      string                   `db:"time_slot"`
	Mode          ConsultationMode         `db:"mode"`
	HealthIssue   *string                  `db:"health_issue"`
	Status        AppointmentStatus        `db:"status"`
	PaymentStatus AppointmentPaymentStatus `db:"payment_status"`
}
