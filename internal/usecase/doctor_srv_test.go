package usecase

import (
	"context"
	"reflect"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestDivideSlots(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  []string
	}{
		{
			name:  "even window",
			start: "09:00",
			end:   "11:00",
			want:  []string{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name:  "partial slot at end dropped",
			start: "09:00",
			end:   "10:15",
			want:  []string{"09:00", "09:30"},
		},
		{
			name:  "window shorter than slot",
			start: "09:00",
			end:   "09:15",
			want:  nil,
		},
		{
			name:  "exact single slot",
			start: "09:00",
			end:   "09:30",
			want:  []string{"09:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := divideSlots(tt.start, tt.end, slotDuration)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("divideSlots(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestGetAvailableSlotsExcludesBooked(t *testing.T) {
	repo := newFakeRepository()
	now := time.Now()
	date := now.AddDate(0, 0, 1).Truncate(24 * time.Hour)

	doctor := &entity.Doctor{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:           "Dr. Silva",
		Email:          "silva@clinic.test",
		Specialization: "Cardiology",
		Approved:       true,
		IsActive:       true,
	}
	repo.Doctor.Create(context.Background(), doctor)

	repo.Availability.Upsert(context.Background(), &entity.DoctorAvailability{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		DoctorID:   doctor.ID,
		Date:       date,
		StartTime:  "09:00",
		EndTime:    "11:00",
	})

	// Take the 09:30 slot
	repo.Appointment.Create(context.Background(), &entity.Appointment{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		PatientID:     uuid.New(),
		DoctorID:      doctor.ID,
		Date:          date,
		TimeSlot:      "09:30",
		Mode:          entity.ConsultationRemote,
		Status:        entity.AppointmentStatusConfirmed,
		PaymentStatus: entity.AppointmentPaymentPaid,
	})

	svc := NewDoctorService(repo, zap.NewNop())

	resp, err := svc.GetAvailableSlots(context.Background(), doctor.ID.String(), date.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}

	want := []string{"09:00", "10:00", "10:30"}
	if !reflect.DeepEqual(resp.Slots, want) {
		t.Errorf("slots = %v, want %v", resp.Slots, want)
	}
}

func TestGetAvailableSlotsNoAvailability(t *testing.T) {
	repo := newFakeRepository()
	now := time.Now()

	doctor := &entity.Doctor{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:           "Dr. Silva",
		Email:          "silva@clinic.test",
		Specialization: "Cardiology",
		Approved:       true,
		IsActive:       true,
	}
	repo.Doctor.Create(context.Background(), doctor)

	svc := NewDoctorService(repo, zap.NewNop())

	resp, err := svc.GetAvailableSlots(context.Background(), doctor.ID.String(), "2026-09-15")
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	if len(resp.Slots) != 0 {
		t.Errorf("slots = %v, want empty", resp.Slots)
	}
}
