package response

import (
	"time"

	"clinic-booking/internal/data/entity"
)

type AppointmentResponse struct {
	ID            string                          `json:"id"`
	PatientID     string                          `json:"patient_id"`
	DoctorID      string                          `json:"doctor_id"`
	DoctorName    string                          `json:"doctor_name,omitempty"`
	HospitalID    *string                         `json:"hospital_id,omitempty"`
	HospitalName  string                          `json:"hospital_name,omitempty"`
	Date          string                          `json:"date"`
	TimeSlot      string                          `json:"time_slot"`
	Mode          entity.ConsultationMode         `json:"mode"`
	HealthIssue   *string                         `json:"health_issue,omitempty"`
	Status        entity.AppointmentStatus        `json:"status"`
	PaymentStatus entity.AppointmentPaymentStatus `json:"payment_status"`
	Payment       *PaymentResponse                `json:"payment,omitempty"`
	CreatedAt     time.Time                       `json:"created_at"`
}

func AppointmentToResponse(appointment *entity.Appointment, doctor *entity.Doctor, hospital *entity.Hospital) AppointmentResponse {
	resp := AppointmentResponse{
		ID:            appointment.ID.String(),
		PatientID:     appointment.PatientID.String(),
		DoctorID:      appointment.DoctorID.String(),
		Date:          appointment.Date.Format("2006-01-02"),
		TimeSlot:      appointment.TimeSlot,
		Mode:          appointment.Mode,
		HealthIssue:   appointment.HealthIssue,
		Status:        appointment.Status,
		PaymentStatus: appointment.PaymentStatus,
		CreatedAt:     appointment.CreatedAt,
	}

	if appointment.HospitalID != nil {
		id := appointment.HospitalID.String()
		resp.HospitalID = &id
	}
	if doctor != nil {
		resp.DoctorName = doctor.Name
	}
	if hospital != nil {
		resp.HospitalName = hospital.Name
	}

	return resp
}
