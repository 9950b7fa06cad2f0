package request

type CreateDoctorRequest struct {
	Name            string  `json:"name" validate:"required,min=3,max=100"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Specialization  string  `json:"specialization" validate:"required,min=3,max=100"`
	ExperienceYears int     `json:"experience_years" validate:"min=0,max=70"`
	ConsultationFee float64 `json:"consultation_fee" validate:"required,gt=0"`
	HospitalID      *string `json:"hospital_id,omitempty" validate:"omitempty,uuid4"`
}

type UpdateDoctorRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Phone           *string  `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Specialization  *string  `json:"specialization,omitempty" validate:"omitempty,min=3,max=100"`
	ExperienceYears *int     `json:"experience_years,omitempty" validate:"omitempty,min=0,max=70"`
	ConsultationFee *float64 `json:"consultation_fee,omitempty" validate:"omitempty,gt=0"`
	Approved        *bool    `json:"approved,omitempty"`
	IsActive        *bool    `json:"is_active,omitempty"`
}

type SetAvailabilityRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}
