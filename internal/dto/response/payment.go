package response

import (
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/payhere"
)

type PaymentResponse struct {
	ID            string               `json:"id"`
	OrderID       string               `json:"order_id"`
	AppointmentID string               `json:"appointment_id"`
	Amount        float64              `json:"amount"`
	Currency      string               `json:"currency"`
	Status        entity.PaymentStatus `json:"status"`
	ExternalRef   *string              `json:"external_ref,omitempty"`
	PaymentDate   *time.Time           `json:"payment_date,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// CheckoutResponse carries the gateway form payload the client posts to the
// hosted checkout page.
type CheckoutResponse struct {
	PaymentID string            `json:"payment_id"`
	Checkout  *payhere.Checkout `json:"checkout"`
}

// VerifyPaymentResponse is the poll endpoint view: current payment state and,
// once completed, the reconciled appointment.
type VerifyPaymentResponse struct {
	Payment     PaymentResponse      `json:"payment"`
	Appointment *AppointmentResponse `json:"appointment,omitempty"`
}

type FixPendingResult struct {
	PaymentID     string `json:"payment_id"`
	AppointmentID string `json:"appointment_id"`
	Fixed         bool   `json:"fixed"`
	Error         string `json:"error,omitempty"`
}

type FixPendingResponse struct {
	FixedCount int                `json:"fixed_count"`
	Results    []FixPendingResult `json:"results"`
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            payment.ID.String(),
		OrderID:       payhere.BuildOrderID(payment.ID.String()),
		AppointmentID: payment.AppointmentID.String(),
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Status:        payment.Status,
		ExternalRef:   payment.ExternalRef,
		PaymentDate:   payment.PaymentDate,
		CreatedAt:     payment.CreatedAt,
	}
}
