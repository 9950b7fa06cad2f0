package request

type BookAppointmentRequest struct {
	DoctorID    string  `json:"doctor_id" validate:"required,uuid4"`
	HospitalID  *string `json:"hospital_id,omitempty" validate:"omitempty,uuid4"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot    string  `json:"time_slot" validate:"required"`
	Mode        string  `json:"mode" validate:"required,oneof=in_person remote"`
	HealthIssue *string `json:"health_issue,omitempty" validate:"omitempty,max=500"`
}
