package usecase

import (
	"context"
	"sync"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"

	"github.com/google/uuid"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

type fakeHospitalRepo struct {
	hospitals map[uuid.UUID]*entity.Hospital
}

func newFakeHospitalRepo() *fakeHospitalRepo {
	return &fakeHospitalRepo{hospitals: make(map[uuid.UUID]*entity.Hospital)}
}

func (f *fakeHospitalRepo) Create(_ context.Context, hospital *entity.Hospital) error {
	f.hospitals[hospital.ID] = hospital
	return nil
}

func (f *fakeHospitalRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Hospital, error) {
	return f.hospitals[id], nil
}

func (f *fakeHospitalRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Hospital, error) {
	var out []*entity.Hospital
	for _, h := range f.hospitals {
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeHospitalRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.hospitals)), nil
}

func (f *fakeHospitalRepo) Update(_ context.Context, hospital *entity.Hospital) error {
	f.hospitals[hospital.ID] = hospital
	return nil
}

func (f *fakeHospitalRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.hospitals, id)
	return nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*entity.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*entity.Doctor)}
}

func (f *fakeDoctorRepo) Create(_ context.Context, doctor *entity.Doctor) error {
	f.doctors[doctor.ID] = doctor
	return nil
}

func (f *fakeDoctorRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Doctor, error) {
	return f.doctors[id], nil
}

func (f *fakeDoctorRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Doctor, error) {
	var out []*entity.Doctor
	for _, d := range f.doctors {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDoctorRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.doctors)), nil
}

func (f *fakeDoctorRepo) FindBySpecialization(_ context.Context, specialization string) ([]*entity.Doctor, error) {
	var out []*entity.Doctor
	for _, d := range f.doctors {
		if d.Specialization == specialization {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDoctorRepo) Update(_ context.Context, doctor *entity.Doctor) error {
	f.doctors[doctor.ID] = doctor
	return nil
}

func (f *fakeDoctorRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.doctors, id)
	return nil
}

type fakeAvailabilityRepo struct {
	byDoctorDate map[string]*entity.DoctorAvailability
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{byDoctorDate: make(map[string]*entity.DoctorAvailability)}
}

func availabilityKey(doctorID uuid.UUID, date time.Time) string {
	return doctorID.String() + "|" + date.Format("2006-01-02")
}

func (f *fakeAvailabilityRepo) Upsert(_ context.Context, availability *entity.DoctorAvailability) error {
	f.byDoctorDate[availabilityKey(availability.DoctorID, availability.Date)] = availability
	return nil
}

func (f *fakeAvailabilityRepo) FindByDoctorAndDate(_ context.Context, doctorID uuid.UUID, date time.Time) (*entity.DoctorAvailability, error) {
	return f.byDoctorDate[availabilityKey(doctorID, date)], nil
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*entity.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appointment *entity.Appointment) error {
	cp := *appointment
	f.appointments[appointment.ID] = &cp
	return nil
}

func (f *fakeAppointmentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppointmentRepo) FindByPatientID(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*entity.Appointment, error) {
	var out []*entity.Appointment
	for _, a := range f.appointments {
		if a.PatientID == patientID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) CountByPatientID(_ context.Context, patientID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range f.appointments {
		if a.PatientID == patientID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, appointment *entity.Appointment) error {
	cp := *appointment
	f.appointments[appointment.ID] = &cp
	return nil
}

func (f *fakeAppointmentRepo) FindBookedSlots(_ context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	var slots []string
	for _, a := range f.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Status != entity.AppointmentStatusCancelled {
			slots = append(slots, a.TimeSlot)
		}
	}
	return slots, nil
}

func (f *fakeAppointmentRepo) ExistsForDoctorOnDate(_ context.Context, patientID, doctorID uuid.UUID, date time.Time) (bool, error) {
	for _, a := range f.appointments {
		if a.PatientID == patientID && a.DoctorID == doctorID && a.Date.Equal(date) && a.Status != entity.AppointmentStatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.AppointmentStatus, paymentStatus entity.AppointmentPaymentStatus) error {
	a, ok := f.appointments[id]
	if !ok {
		return nil
	}
	a.Status = status
	a.PaymentStatus = paymentStatus
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entity.Payment
	updates  int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*entity.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *payment
	f.payments[payment.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) FindByAppointmentID(_ context.Context, appointmentID uuid.UUID) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.AppointmentID == appointmentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) Update(_ context.Context, payment *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *payment
	f.payments[payment.ID] = &cp
	f.updates++
	return nil
}

func (f *fakePaymentRepo) FindPendingOlderThan(_ context.Context, cutoff time.Time) ([]*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Payment
	for _, p := range f.payments {
		if p.Status == entity.PaymentStatusPending && p.CreatedAt.Before(cutoff) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func newFakeRepository() *repository.Repository {
	return &repository.Repository{
		User:         newFakeUserRepo(),
		Hospital:     newFakeHospitalRepo(),
		Doctor:       newFakeDoctorRepo(),
		Availability: newFakeAvailabilityRepo(),
		Appointment:  newFakeAppointmentRepo(),
		Payment:      newFakePaymentRepo(),
	}
}

// fakeMailer records sends instead of dialing SMTP.
type fakeMailer struct {
	mu    sync.Mutex
	sends []fakeSend
}

type fakeSend struct {
	To             string
	Subject        string
	AttachmentName string
}

func (f *fakeMailer) Send(to, subject, body string, attachmentName string, attachment []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, fakeSend{To: to, Subject: subject, AttachmentName: attachmentName})
	return nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sends)
}

// fakeReceipts returns a fixed payload without touching gofpdf.
type fakeReceipts struct{}

func (fakeReceipts) Render(*entity.Payment, *entity.Appointment, *entity.Doctor, *entity.User) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}
