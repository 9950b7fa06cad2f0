package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusUnknown   PaymentStatus = "unknown"
)

// IsTerminal reports whether a status is a final gateway outcome. Terminal
// payments never regress; a conflicting late notification is ignored.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

type Payment struct {
	Base
	AppointmentID  uuid.UUID     `db:"appointment_id"`
	PatientID      uuid.UUID     `db:"patient_id"`
	DoctorID       uuid.UUID     `db:"doctor_id"`
	Amount         float64       `db:"amount"`
	Currency       string        `db:"currency"`
	Status         PaymentStatus `db:"status"`
	ExternalRef    *string       `db:"external_ref"`
	PaymentDate    *time.Time    `db:"payment_date"`
	GatewayPayload *string       `db:"gateway_payload"`
}
