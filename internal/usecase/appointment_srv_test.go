package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type bookingFixture struct {
	svc      AppointmentService
	repo     *repository.Repository
	patient  *entity.User
	doctor   *entity.Doctor
	hospital *entity.Hospital
	date     time.Time
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	repo := newFakeRepository()
	now := time.Now()
	date := now.AddDate(0, 0, 2).Truncate(24 * time.Hour)

	patient := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: "kamala",
		FullName: "Kamala Fernando",
		Email:    "kamala@example.com",
		Role:     entity.RolePatient,
		IsActive: true,
	}
	repo.User.Create(context.Background(), patient)

	hospital := &entity.Hospital{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:     "Central Hospital",
		Location: "Colombo",
		IsActive: true,
	}
	repo.Hospital.Create(context.Background(), hospital)

	doctor := &entity.Doctor{
		Base:            entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:            "Dr. Silva",
		Email:           "silva@clinic.test",
		Specialization:  "Cardiology",
		ConsultationFee: 1800,
		HospitalID:      &hospital.ID,
		Approved:        true,
		IsActive:        true,
	}
	repo.Doctor.Create(context.Background(), doctor)

	repo.Availability.Upsert(context.Background(), &entity.DoctorAvailability{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		DoctorID:   doctor.ID,
		Date:       date,
		StartTime:  "09:00",
		EndTime:    "12:00",
	})

	return &bookingFixture{
		svc:      NewAppointmentService(repo, zap.NewNop()),
		repo:     repo,
		patient:  patient,
		doctor:   doctor,
		hospital: hospital,
		date:     date,
	}
}

func (f *bookingFixture) bookRequest(slot string) *request.BookAppointmentRequest {
	return &request.BookAppointmentRequest{
		DoctorID: f.doctor.ID.String(),
		Date:     f.date.Format("2006-01-02"),
		TimeSlot: slot,
		Mode:     "remote",
	}
}

func TestBookAppointmentStartsPendingPayment(t *testing.T) {
	f := newBookingFixture(t)

	resp, err := f.svc.BookAppointment(context.Background(), f.patient.ID.String(), f.bookRequest("09:30"))
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}

	if resp.Status != entity.AppointmentStatusPendingPayment {
		t.Errorf("status = %s, want pending_payment", resp.Status)
	}
	if resp.PaymentStatus != entity.AppointmentPaymentPending {
		t.Errorf("payment status = %s, want pending", resp.PaymentStatus)
	}
	if resp.DoctorName != f.doctor.Name {
		t.Errorf("doctor name = %q", resp.DoctorName)
	}
}

func TestBookAppointmentInPersonNeedsHospital(t *testing.T) {
	f := newBookingFixture(t)

	req := f.bookRequest("09:30")
	req.Mode = "in_person"

	// Falls back to the doctor's hospital
	resp, err := f.svc.BookAppointment(context.Background(), f.patient.ID.String(), req)
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}
	if resp.HospitalID == nil || *resp.HospitalID != f.hospital.ID.String() {
		t.Errorf("hospital not attached: %v", resp.HospitalID)
	}
	if resp.HospitalName != f.hospital.Name {
		t.Errorf("hospital name = %q", resp.HospitalName)
	}
}

func TestBookAppointmentSlotOutsideAvailability(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.BookAppointment(context.Background(), f.patient.ID.String(), f.bookRequest("14:00"))
	if err == nil || !strings.Contains(err.Error(), "outside doctor availability") {
		t.Fatalf("err = %v, want availability error", err)
	}
}

func TestBookAppointmentSlotTaken(t *testing.T) {
	f := newBookingFixture(t)

	other := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Username: "sunil",
		FullName: "Sunil Perera",
		Email:    "sunil@example.com",
		Role:     entity.RolePatient,
		IsActive: true,
	}
	f.repo.User.Create(context.Background(), other)

	if _, err := f.svc.BookAppointment(context.Background(), other.ID.String(), f.bookRequest("10:00")); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := f.svc.BookAppointment(context.Background(), f.patient.ID.String(), f.bookRequest("10:00"))
	if err == nil || !strings.Contains(err.Error(), "already booked") {
		t.Fatalf("err = %v, want already booked", err)
	}
}

func TestBookAppointmentDuplicateSameDay(t *testing.T) {
	f := newBookingFixture(t)

	if _, err := f.svc.BookAppointment(context.Background(), f.patient.ID.String(), f.bookRequest("09:00")); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := f.svc.BookAppointment(context.Background(), f.patient.ID.String(), f.bookRequest("10:30"))
	if err == nil || !strings.Contains(err.Error(), "already have an appointment") {
		t.Fatalf("err = %v, want duplicate error", err)
	}
}

func TestCancelAppointmentOwnerOnly(t *testing.T) {
	f := newBookingFixture(t)

	resp, err := f.svc.BookAppointment(context.Background(), f.patient.ID.String(), f.bookRequest("09:30"))
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}

	if err := f.svc.CancelAppointment(context.Background(), uuid.NewString(), resp.ID); err != ErrNotOwner {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}

	if err := f.svc.CancelAppointment(context.Background(), f.patient.ID.String(), resp.ID); err != nil {
		t.Fatalf("CancelAppointment: %v", err)
	}

	// Cancelled twice is rejected
	err = f.svc.CancelAppointment(context.Background(), f.patient.ID.String(), resp.ID)
	if err == nil || !strings.Contains(err.Error(), "already cancelled") {
		t.Fatalf("err = %v, want already cancelled", err)
	}
}

func TestCancelledSlotBecomesBookable(t *testing.T) {
	f := newBookingFixture(t)

	resp, err := f.svc.BookAppointment(context.Background(), f.patient.ID.String(), f.bookRequest("09:30"))
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}
	if err := f.svc.CancelAppointment(context.Background(), f.patient.ID.String(), resp.ID); err != nil {
		t.Fatalf("CancelAppointment: %v", err)
	}

	other := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Username: "sunil",
		FullName: "Sunil Perera",
		Email:    "sunil@example.com",
		Role:     entity.RolePatient,
		IsActive: true,
	}
	f.repo.User.Create(context.Background(), other)

	if _, err := f.svc.BookAppointment(context.Background(), other.ID.String(), f.bookRequest("09:30")); err != nil {
		t.Fatalf("rebooking cancelled slot: %v", err)
	}
}
