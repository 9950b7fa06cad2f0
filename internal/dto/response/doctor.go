package response

import (
	"time"

	"clinic-booking/internal/data/entity"
)

type DoctorResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           *string   `json:"phone,omitempty"`
	Specialization  string    `json:"specialization"`
	ExperienceYears int       `json:"experience_years"`
	ConsultationFee float64   `json:"consultation_fee"`
	HospitalID      *string   `json:"hospital_id,omitempty"`
	HospitalName    string    `json:"hospital_name,omitempty"`
	Approved        bool      `json:"approved"`
	CreatedAt       time.Time `json:"created_at"`
}

type AvailableSlotsResponse struct {
	DoctorID string   `json:"doctor_id"`
	Date     string   `json:"date"`
	Slots    []string `json:"available_time_slots"`
}

func DoctorToResponse(doctor *entity.Doctor, hospital *entity.Hospital) DoctorResponse {
	resp := DoctorResponse{
		ID:              doctor.ID.String(),
		Name:            doctor.Name,
		Email:           doctor.Email,
		Phone:           doctor.Phone,
		Specialization:  doctor.Specialization,
		ExperienceYears: doctor.ExperienceYears,
		ConsultationFee: doctor.ConsultationFee,
		Approved:        doctor.Approved,
		CreatedAt:       doctor.CreatedAt,
	}

	if doctor.HospitalID != nil {
		id := doctor.HospitalID.String()
		resp.HospitalID = &id
	}
	if hospital != nil {
		resp.HospitalName = hospital.Name
	}

	return resp
}
