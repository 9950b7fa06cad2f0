package response

import (
	"time"

	"clinic-booking/internal/data/entity"
)

type HospitalResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func HospitalToResponse(hospital *entity.Hospital) HospitalResponse {
	return HospitalResponse{
		ID:        hospital.ID.String(),
		Name:      hospital.Name,
		Location:  hospital.Location,
		Phone:     hospital.Phone,
		Email:     hospital.Email,
		IsActive:  hospital.IsActive,
		CreatedAt: hospital.CreatedAt,
	}
}
