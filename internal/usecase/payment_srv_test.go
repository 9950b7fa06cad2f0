package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/pkg/payhere"
	redisclient "clinic-booking/pkg/redis"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type paymentFixture struct {
	svc         *paymentService
	repo        *repository.Repository
	mail        *fakeMailer
	config      *utils.Config
	patient     *entity.User
	doctor      *entity.Doctor
	appointment *entity.Appointment
	payment     *entity.Payment
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	config := &utils.Config{
		PayHere: utils.PayHereConfig{
			MerchantID:     "M1234",
			MerchantSecret: "testsecret",
			Currency:       "LKR",
			ReturnURL:      "https://clinic.test/return",
			CancelURL:      "https://clinic.test/cancel",
			NotifyURL:      "https://clinic.test/api/payments/notify",
		},
	}

	repo := newFakeRepository()
	mail := &fakeMailer{}
	now := time.Now()

	patient := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: "nimal",
		FullName: "Nimal Perera",
		Email:    "nimal@example.com",
		Role:     entity.RolePatient,
		IsActive: true,
	}
	repo.User.Create(context.Background(), patient)

	doctor := &entity.Doctor{
		Base:            entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:            "Dr. Silva",
		Email:           "silva@clinic.test",
		Specialization:  "Cardiology",
		ConsultationFee: 1800,
		Approved:        true,
		IsActive:        true,
	}
	repo.Doctor.Create(context.Background(), doctor)

	appointment := &entity.Appointment{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		PatientID:     patient.ID,
		DoctorID:      doctor.ID,
		Date:          now.AddDate(0, 0, 3).Truncate(24 * time.Hour),
		TimeSlot:      "10:30",
		Mode:          entity.ConsultationRemote,
		Status:        entity.AppointmentStatusPendingPayment,
		PaymentStatus: entity.AppointmentPaymentPending,
	}
	repo.Appointment.Create(context.Background(), appointment)

	payment := &entity.Payment{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		AppointmentID: appointment.ID,
		PatientID:     patient.ID,
		DoctorID:      doctor.ID,
		Amount:        1800,
		Currency:      "LKR",
		Status:        entity.PaymentStatusPending,
	}
	repo.Payment.Create(context.Background(), payment)

	svc := NewPaymentService(repo, config, mail, fakeReceipts{}, redisclient.NoopLocker{}, zap.NewNop()).(*paymentService)

	return &paymentFixture{
		svc:         svc,
		repo:        repo,
		mail:        mail,
		config:      config,
		patient:     patient,
		doctor:      doctor,
		appointment: appointment,
		payment:     payment,
	}
}

// signedNotification builds a notification with a valid md5sig for the
// fixture's merchant credentials.
func (f *paymentFixture) signedNotification(statusCode string) *payhere.Notification {
	orderID := payhere.BuildOrderID(f.payment.ID.String())
	amount := payhere.FormatAmount(f.payment.Amount)

	return &payhere.Notification{
		MerchantID: f.config.PayHere.MerchantID,
		OrderID:    orderID,
		PaymentID:  "PH-998877",
		Amount:     amount,
		Currency:   f.payment.Currency,
		StatusCode: statusCode,
		MD5Sig: payhere.ComputeNotificationHash(
			f.config.PayHere.MerchantID, orderID, amount, f.payment.Currency, statusCode,
			f.config.PayHere.MerchantSecret,
		),
	}
}

func (f *paymentFixture) currentPayment(t *testing.T) *entity.Payment {
	t.Helper()
	p, err := f.repo.Payment.FindByID(context.Background(), f.payment.ID)
	if err != nil || p == nil {
		t.Fatalf("payment lookup failed: %v", err)
	}
	return p
}

func (f *paymentFixture) currentAppointment(t *testing.T) *entity.Appointment {
	t.Helper()
	a, err := f.repo.Appointment.FindByID(context.Background(), f.appointment.ID)
	if err != nil || a == nil {
		t.Fatalf("appointment lookup failed: %v", err)
	}
	return a
}

func TestHandleNotificationCompletesPayment(t *testing.T) {
	f := newPaymentFixture(t)
	notif := f.signedNotification(payhere.StatusCodeSuccess)

	if err := f.svc.HandleNotification(context.Background(), notif, "raw=payload"); err != nil {
		t.Fatalf("HandleNotification returned error: %v", err)
	}
	f.svc.wg.Wait()

	payment := f.currentPayment(t)
	if payment.Status != entity.PaymentStatusCompleted {
		t.Errorf("payment status = %s, want completed", payment.Status)
	}
	if payment.ExternalRef == nil || *payment.ExternalRef != "PH-998877" {
		t.Errorf("external ref not recorded: %v", payment.ExternalRef)
	}
	if payment.PaymentDate == nil {
		t.Error("payment date not set")
	}
	if payment.GatewayPayload == nil || *payment.GatewayPayload != "raw=payload" {
		t.Error("gateway payload not stored")
	}

	appointment := f.currentAppointment(t)
	if appointment.Status != entity.AppointmentStatusConfirmed {
		t.Errorf("appointment status = %s, want confirmed", appointment.Status)
	}
	if appointment.PaymentStatus != entity.AppointmentPaymentPaid {
		t.Errorf("appointment payment status = %s, want paid", appointment.PaymentStatus)
	}

	if f.mail.count() != 1 {
		t.Errorf("confirmation emails sent = %d, want 1", f.mail.count())
	}
	if f.mail.sends[0].To != f.patient.Email {
		t.Errorf("email sent to %s, want %s", f.mail.sends[0].To, f.patient.Email)
	}
	if f.mail.sends[0].AttachmentName == "" {
		t.Error("confirmation email has no receipt attachment")
	}
}

func TestHandleNotificationDuplicateCompletedIsIdempotent(t *testing.T) {
	f := newPaymentFixture(t)
	notif := f.signedNotification(payhere.StatusCodeSuccess)

	if err := f.svc.HandleNotification(context.Background(), notif, "raw=1"); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	f.svc.wg.Wait()
	firstDate := *f.currentPayment(t).PaymentDate

	// Gateway redelivers the same outcome
	if err := f.svc.HandleNotification(context.Background(), notif, "raw=2"); err != nil {
		t.Fatalf("duplicate delivery: %v", err)
	}
	f.svc.wg.Wait()

	payment := f.currentPayment(t)
	if !payment.PaymentDate.Equal(firstDate) {
		t.Errorf("payment date changed on duplicate: %v -> %v", firstDate, payment.PaymentDate)
	}
	if f.mail.count() != 1 {
		t.Errorf("emails after duplicate = %d, want 1", f.mail.count())
	}
}

func TestHandleNotificationDuplicateRepairsAppointment(t *testing.T) {
	f := newPaymentFixture(t)
	notif := f.signedNotification(payhere.StatusCodeSuccess)

	if err := f.svc.HandleNotification(context.Background(), notif, "raw"); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	f.svc.wg.Wait()

	// Simulate the appointment write being lost after the payment write.
	f.repo.Appointment.UpdateStatus(context.Background(), f.appointment.ID,
		entity.AppointmentStatusPendingPayment, entity.AppointmentPaymentPending)

	if err := f.svc.HandleNotification(context.Background(), notif, "raw"); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	f.svc.wg.Wait()

	appointment := f.currentAppointment(t)
	if appointment.Status != entity.AppointmentStatusConfirmed {
		t.Errorf("redelivery did not repair appointment: %s", appointment.Status)
	}
	if f.mail.count() != 1 {
		t.Errorf("emails = %d, want 1 (no second email on repair)", f.mail.count())
	}
}

func TestHandleNotificationRejectsBadHash(t *testing.T) {
	f := newPaymentFixture(t)
	notif := f.signedNotification(payhere.StatusCodeSuccess)
	notif.MD5Sig = "0000000000000000000000000000000F"

	err := f.svc.HandleNotification(context.Background(), notif, "raw")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}

	if f.currentPayment(t).Status != entity.PaymentStatusPending {
		t.Error("payment mutated despite bad hash")
	}
	if f.currentAppointment(t).Status != entity.AppointmentStatusPendingPayment {
		t.Error("appointment mutated despite bad hash")
	}
	if f.mail.count() != 0 {
		t.Error("email sent despite bad hash")
	}
}

func TestHandleNotificationTamperedAmountRejected(t *testing.T) {
	f := newPaymentFixture(t)
	notif := f.signedNotification(payhere.StatusCodeSuccess)
	notif.Amount = "1.00" // signed for 1800.00

	if err := f.svc.HandleNotification(context.Background(), notif, "raw"); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestHandleNotificationMissingFields(t *testing.T) {
	f := newPaymentFixture(t)
	notif := f.signedNotification(payhere.StatusCodeSuccess)
	notif.OrderID = ""

	if err := f.svc.HandleNotification(context.Background(), notif, "raw"); !errors.Is(err, ErrInvalidNotification) {
		t.Fatalf("err = %v, want ErrInvalidNotification", err)
	}
}

func TestHandleNotificationUnknownPayment(t *testing.T) {
	f := newPaymentFixture(t)
	notif := f.signedNotification(payhere.StatusCodeSuccess)

	// Re-sign for an order id that has no payment behind it
	orderID := payhere.BuildOrderID(uuid.NewString())
	notif.OrderID = orderID
	notif.MD5Sig = payhere.ComputeNotificationHash(
		f.config.PayHere.MerchantID, orderID, notif.Amount, notif.Currency, notif.StatusCode,
		f.config.PayHere.MerchantSecret,
	)

	if err := f.svc.HandleNotification(context.Background(), notif, "raw"); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("err = %v, want ErrPaymentNotFound", err)
	}
}

func TestHandleNotificationFailedOutcome(t *testing.T) {
	f := newPaymentFixture(t)
	notif := f.signedNotification(payhere.StatusCodeFailed)

	if err := f.svc.HandleNotification(context.Background(), notif, "raw"); err != nil {
		t.Fatalf("HandleNotification returned error: %v", err)
	}
	f.svc.wg.Wait()

	if f.currentPayment(t).Status != entity.PaymentStatusFailed {
		t.Errorf("payment status = %s, want failed", f.currentPayment(t).Status)
	}

	// Failed attempt leaves the appointment waiting for a new payment
	appointment := f.currentAppointment(t)
	if appointment.Status != entity.AppointmentStatusPendingPayment {
		t.Errorf("appointment status = %s, want pending_payment", appointment.Status)
	}
	if f.mail.count() != 0 {
		t.Error("email sent for failed payment")
	}
}

func TestHandleNotificationTerminalNeverRegresses(t *testing.T) {
	f := newPaymentFixture(t)

	if err := f.svc.HandleNotification(context.Background(), f.signedNotification(payhere.StatusCodeSuccess), "raw"); err != nil {
		t.Fatalf("success delivery: %v", err)
	}
	f.svc.wg.Wait()

	// A conflicting late "failed" must be acknowledged but ignored
	if err := f.svc.HandleNotification(context.Background(), f.signedNotification(payhere.StatusCodeFailed), "raw"); err != nil {
		t.Fatalf("conflicting delivery should be acked, got: %v", err)
	}
	f.svc.wg.Wait()

	if f.currentPayment(t).Status != entity.PaymentStatusCompleted {
		t.Errorf("payment regressed to %s", f.currentPayment(t).Status)
	}
	if f.currentAppointment(t).Status != entity.AppointmentStatusConfirmed {
		t.Errorf("appointment regressed to %s", f.currentAppointment(t).Status)
	}
}

func TestVerifyPaymentReconcilesDrift(t *testing.T) {
	f := newPaymentFixture(t)

	// Payment settled but the appointment write never happened (lost webhook)
	now := time.Now()
	payment := f.currentPayment(t)
	payment.Status = entity.PaymentStatusCompleted
	payment.PaymentDate = &now
	f.repo.Payment.Update(context.Background(), payment)

	resp, err := f.svc.VerifyPayment(context.Background(), f.patient.ID.String(), payhere.BuildOrderID(f.payment.ID.String()))
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}

	if resp.Payment.Status != entity.PaymentStatusCompleted {
		t.Errorf("response payment status = %s", resp.Payment.Status)
	}
	if resp.Appointment == nil {
		t.Fatal("response missing appointment after completion")
	}
	if resp.Appointment.Status != entity.AppointmentStatusConfirmed {
		t.Errorf("response appointment status = %s, want confirmed", resp.Appointment.Status)
	}
	if f.currentAppointment(t).Status != entity.AppointmentStatusConfirmed {
		t.Error("appointment not repaired in store")
	}
}

func TestVerifyPaymentOwnerOnly(t *testing.T) {
	f := newPaymentFixture(t)

	other := uuid.New()
	if _, err := f.svc.VerifyPayment(context.Background(), other.String(), payhere.BuildOrderID(f.payment.ID.String())); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
}

func TestFixPendingPaymentsPromotesOnlyStale(t *testing.T) {
	f := newPaymentFixture(t)

	// Make the fixture payment stale
	stale := f.currentPayment(t)
	stale.CreatedAt = time.Now().Add(-2 * time.Hour)
	f.repo.Payment.Update(context.Background(), stale)

	// A fresh pending payment must be left alone
	freshAppointment := &entity.Appointment{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		PatientID:     f.patient.ID,
		DoctorID:      f.doctor.ID,
		Date:          time.Now().AddDate(0, 0, 5),
		TimeSlot:      "11:00",
		Mode:          entity.ConsultationRemote,
		Status:        entity.AppointmentStatusPendingPayment,
		PaymentStatus: entity.AppointmentPaymentPending,
	}
	f.repo.Appointment.Create(context.Background(), freshAppointment)
	fresh := &entity.Payment{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		AppointmentID: freshAppointment.ID,
		PatientID:     f.patient.ID,
		DoctorID:      f.doctor.ID,
		Amount:        1800,
		Currency:      "LKR",
		Status:        entity.PaymentStatusPending,
	}
	f.repo.Payment.Create(context.Background(), fresh)

	resp, err := f.svc.FixPendingPayments(context.Background(), 30*time.Minute)
	if err != nil {
		t.Fatalf("FixPendingPayments: %v", err)
	}

	if resp.FixedCount != 1 {
		t.Errorf("fixed count = %d, want 1", resp.FixedCount)
	}
	if f.currentPayment(t).Status != entity.PaymentStatusCompleted {
		t.Error("stale payment not settled")
	}
	if f.currentAppointment(t).Status != entity.AppointmentStatusConfirmed {
		t.Error("stale payment's appointment not confirmed")
	}

	freshAfter, _ := f.repo.Payment.FindByID(context.Background(), fresh.ID)
	if freshAfter.Status != entity.PaymentStatusPending {
		t.Errorf("fresh payment settled too early: %s", freshAfter.Status)
	}
}

func TestInitiatePaymentBuildsSignedCheckout(t *testing.T) {
	f := newPaymentFixture(t)

	// Start from an appointment with no payment yet
	repo := newFakeRepository()
	repo.User.Create(context.Background(), f.patient)
	repo.Doctor.Create(context.Background(), f.doctor)
	repo.Appointment.Create(context.Background(), f.appointment)
	mail := &fakeMailer{}
	svc := NewPaymentService(repo, f.config, mail, fakeReceipts{}, redisclient.NoopLocker{}, zap.NewNop()).(*paymentService)

	resp, err := svc.InitiatePayment(context.Background(), f.patient.ID.String(), &request.InitiatePaymentRequest{
		AppointmentID: f.appointment.ID.String(),
	})
	if err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}

	checkout := resp.Checkout
	if checkout.OrderID != payhere.BuildOrderID(resp.PaymentID) {
		t.Errorf("order id %s does not match payment id %s", checkout.OrderID, resp.PaymentID)
	}
	if checkout.Amount != "1800.00" {
		t.Errorf("checkout amount = %s, want 1800.00", checkout.Amount)
	}

	wantHash := payhere.ComputeHash(f.config.PayHere.MerchantID, checkout.OrderID, 1800, "LKR", f.config.PayHere.MerchantSecret)
	if checkout.Hash != wantHash {
		t.Errorf("checkout hash = %s, want %s", checkout.Hash, wantHash)
	}

	// Second initiation reuses the pending payment
	again, err := svc.InitiatePayment(context.Background(), f.patient.ID.String(), &request.InitiatePaymentRequest{
		AppointmentID: f.appointment.ID.String(),
	})
	if err != nil {
		t.Fatalf("second InitiatePayment: %v", err)
	}
	if again.PaymentID != resp.PaymentID {
		t.Errorf("second initiation created a new payment: %s != %s", again.PaymentID, resp.PaymentID)
	}
}

func TestInitiatePaymentRejectsPaidAppointment(t *testing.T) {
	f := newPaymentFixture(t)

	f.repo.Appointment.UpdateStatus(context.Background(), f.appointment.ID,
		entity.AppointmentStatusConfirmed, entity.AppointmentPaymentPaid)

	_, err := f.svc.InitiatePayment(context.Background(), f.patient.ID.String(), &request.InitiatePaymentRequest{
		AppointmentID: f.appointment.ID.String(),
	})
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("err = %v, want ErrAlreadyPaid", err)
	}
}

func TestInitiatePaymentOwnerOnly(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.InitiatePayment(context.Background(), uuid.NewString(), &request.InitiatePaymentRequest{
		AppointmentID: f.appointment.ID.String(),
	})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
}
