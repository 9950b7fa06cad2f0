package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorAvailability holds the working window of a doctor for a single date.
// StartTime/EndTime use the "15:04" clock format; the window is divided into
// fixed-length slots when patients ask for free times.
type DoctorAvailability struct {
	BaseSimple
	DoctorID  uuid.UUID `db:"doctor_id"`
	Date      time.Time `db:"date"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
}
