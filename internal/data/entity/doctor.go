package entity

import (
	"github.com/google/uuid"
)

type Doctor struct {
	Base
	Name            string     `db:"name"`
	Email           string     `db:"email"`
	Phone           *string    `db:"phone"`
	Specialization  string     `db:"specialization"`
	ExperienceYears int        `db:"experience_years"`
	ConsultationFee float64    `db:"consultation_fee"`
	HospitalID      *uuid.UUID `db:"hospital_id"`
	Approved        bool       `db:"approved"`
	IsActive        bool       `db:"is_active"`
}
