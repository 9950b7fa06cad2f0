package request

type CreateHospitalRequest struct {
	Name     string  `json:"name" validate:"required,min=3,max=150"`
	Location string  `json:"location" validate:"required,min=3,max=200"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

type UpdateHospitalRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=3,max=150"`
	Location *string `json:"location,omitempty" validate:"omitempty,min=3,max=200"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	IsActive *bool   `json:"is_active,omitempty"`
}
