package request

type InitiatePaymentRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required,uuid4"`
}

type FixPendingRequest struct {
	OlderThanMinutes int `json:"older_than_minutes" validate:"omitempty,min=1,max=1440"`
}
