package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/mailer"
	"clinic-booking/pkg/payhere"
	"clinic-booking/pkg/receipt"
	redisclient "clinic-booking/pkg/redis"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	// Public endpoints (butuh auth)
	InitiatePayment(ctx context.Context, userID string, req *request.InitiatePaymentRequest) (*response.CheckoutResponse, error)
	VerifyPayment(ctx context.Context, userID string, orderID string) (*response.VerifyPaymentResponse, error)

	// Gateway webhook (no auth, hash-verified)
	HandleNotification(ctx context.Context, notif *payhere.Notification, rawPayload string) error

	// Admin endpoints
	FixPendingPayments(ctx context.Context, olderThan time.Duration) (*response.FixPendingResponse, error)
}

type paymentService struct {
	repo     *repository.Repository // grouping semua payment-related repos
	config   *utils.Config
	mail     mailer.Mailer
	receipts receipt.Renderer
	locker   redisclient.Locker
	log      *zap.Logger

	// tracks in-flight confirmation emails so shutdown and tests can drain them
	wg sync.WaitGroup
}

func NewPaymentService(repo *repository.Repository, config *utils.Config, mail mailer.Mailer, receipts receipt.Renderer, locker redisclient.Locker, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:     repo,
		config:   config,
		mail:     mail,
		receipts: receipts,
		locker:   locker,
		log:      log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, userID string, req *request.InitiatePaymentRequest) (*response.CheckoutResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Initiate payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	appointmentUUID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return nil, fmt.Errorf("invalid appointment ID format %s: %w", req.AppointmentID, err)
	}

	appointment, err := s.repo.Appointment.FindByID(ctx, appointmentUUID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != userUUID {
		return nil, ErrNotOwner
	}
	if appointment.Status == entity.AppointmentStatusCancelled {
		return nil, fmt.Errorf("appointment %s is cancelled", appointment.ID.String())
	}
	if appointment.PaymentStatus == entity.AppointmentPaymentPaid {
		return nil, ErrAlreadyPaid
	}

	// Re-initiating for the same appointment reuses the pending payment so the
	// gateway keeps seeing one order id per appointment.
	payment, err := s.repo.Payment.FindByAppointmentID(ctx, appointmentUUID)
	if err != nil {
		return nil, err
	}
	if payment != nil && payment.Status == entity.PaymentStatusCompleted {
		return nil, ErrAlreadyPaid
	}

	doctor, err := s.repo.Doctor.FindByID(ctx, appointment.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, fmt.Errorf("doctor %s not found for appointment %s", appointment.DoctorID.String(), appointment.ID.String())
	}

	patient, err := s.repo.User.FindByID(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, fmt.Errorf("patient %s not found", userUUID.String())
	}

	if payment == nil || payment.Status.IsTerminal() {
		now := time.Now()
		payment = &entity.Payment{
			Base: entity.Base{
				ID:        utils.GenerateUUID(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			AppointmentID: appointment.ID,
			PatientID:     appointment.PatientID,
			DoctorID:      appointment.DoctorID,
			Amount:        doctor.ConsultationFee,
			Currency:      s.config.PayHere.Currency,
			Status:        entity.PaymentStatusPending,
		}

		if err := s.repo.Payment.Create(ctx, payment); err != nil {
			return nil, err
		}

		s.log.Info("Payment initiated",
			zap.String("payment_id", payment.ID.String()),
			zap.String("appointment_id", appointment.ID.String()),
			zap.Float64("amount", payment.Amount),
		)
	}

	firstName, lastName := splitName(patient.FullName)
	checkout := payhere.BuildCheckout(payhere.CheckoutParams{
		MerchantID: s.config.PayHere.MerchantID,
		OrderID:    payhere.BuildOrderID(payment.ID.String()),
		Items:      fmt.Sprintf("Consultation - %s (%s %s)", doctor.Name, appointment.Date.Format("2006-01-02"), appointment.TimeSlot),
		Amount:     payment.Amount,
		Currency:   payment.Currency,
		ReturnURL:  s.config.PayHere.ReturnURL,
		CancelURL:  s.config.PayHere.CancelURL,
		NotifyURL:  s.config.PayHere.NotifyURL,
		FirstName:  firstName,
		LastName:   lastName,
		Email:      patient.Email,
		Phone:      derefString(patient.Phone),
		Address:    derefString(patient.Address),
		City:       derefString(patient.City),
	}, s.config.PayHere.MerchantSecret)

	return &response.CheckoutResponse{
		PaymentID: payment.ID.String(),
		Checkout:  checkout,
	}, nil
}

// HandleNotification is the webhook entry point. The notification is only
// trusted after its md5sig checks out against the merchant secret; after that
// the status transition is applied under a per-payment lock so concurrent
// retries for the same payment serialize.
func (s *paymentService) HandleNotification(ctx context.Context, notif *payhere.Notification, rawPayload string) error {
	if errs := utils.ValidateStruct(notif); len(errs) > 0 {
		s.log.Warn("Notification validation failed", zap.Any("errors", errs))
		return fmt.Errorf("%w: %s", ErrInvalidNotification, utils.FormatValidationErrors(errs))
	}

	if !notif.Verify(s.config.PayHere.MerchantSecret) {
		s.log.Warn("Notification hash mismatch",
			zap.String("order_id", notif.OrderID),
			zap.String("merchant_id", notif.MerchantID),
			zap.String("status_code", notif.StatusCode),
		)
		return ErrInvalidSignature
	}

	localID, err := notif.LocalPaymentID()
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPaymentNotFound, err.Error())
	}

	paymentUUID, err := uuid.Parse(localID)
	if err != nil {
		return fmt.Errorf("%w: order id %s does not carry a payment id", ErrPaymentNotFound, notif.OrderID)
	}

	return s.locker.WithPaymentLock(ctx, paymentUUID, func(ctx context.Context) error {
		return s.applyNotification(ctx, paymentUUID, notif, rawPayload)
	})
}

func (s *paymentService) applyNotification(ctx context.Context, paymentID uuid.UUID, notif *payhere.Notification, rawPayload string) error {
	payment, err := s.repo.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrPaymentNotFound
	}

	newStatus := statusFromCode(notif.StatusCode)

	if payment.Status == newStatus {
		// Gateway retry of an outcome already applied. Re-run the appointment
		// reconciliation in case the first delivery died between the payment
		// write and the appointment write, but send no second email.
		s.log.Info("Duplicate notification ignored",
			zap.String("payment_id", payment.ID.String()),
			zap.String("status", string(payment.Status)),
		)
		if payment.Status == entity.PaymentStatusCompleted {
			if _, err := s.confirmAppointment(ctx, payment); err != nil {
				return err
			}
		}
		return nil
	}

	if payment.Status.IsTerminal() {
		// Terminal outcomes never regress; acknowledge so the gateway stops
		// retrying, but flag the conflict for operators.
		s.log.Warn("Conflicting notification for settled payment ignored",
			zap.String("payment_id", payment.ID.String()),
			zap.String("current_status", string(payment.Status)),
			zap.String("incoming_code", notif.StatusCode),
		)
		return nil
	}

	now := time.Now()
	payment.Status = newStatus
	payment.GatewayPayload = &rawPayload
	payment.UpdatedAt = now
	if newStatus == entity.PaymentStatusCompleted {
		payment.PaymentDate = &now
		externalRef := notif.PaymentID
		payment.ExternalRef = &externalRef
	}

	if err := s.repo.Payment.Update(ctx, payment); err != nil {
		return err
	}

	s.log.Info("Payment status updated from notification",
		zap.String("payment_id", payment.ID.String()),
		zap.String("status", string(payment.Status)),
		zap.String("external_ref", notif.PaymentID),
	)

	if newStatus != entity.PaymentStatusCompleted {
		// Failed or cancelled attempts leave the appointment waiting for a new
		// payment attempt.
		return nil
	}

	appointment, err := s.confirmAppointment(ctx, payment)
	if err != nil {
		return err
	}

	// Email and receipt are best effort and must never hold up the webhook
	// acknowledgment.
	s.dispatchConfirmation(payment, appointment)

	return nil
}

// confirmAppointment moves the appointment to confirmed/paid once its payment
// completed. Safe to call repeatedly; an already confirmed appointment is left
// alone. A cancelled appointment keeps its status but is still marked paid so
// the refund shows up in admin views.
func (s *paymentService) confirmAppointment(ctx context.Context, payment *entity.Payment) (*entity.Appointment, error) {
	appointment, err := s.repo.Appointment.FindByID(ctx, payment.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, fmt.Errorf("appointment %s not found for payment %s", payment.AppointmentID.String(), payment.ID.String())
	}

	if appointment.Status == entity.AppointmentStatusConfirmed && appointment.PaymentStatus == entity.AppointmentPaymentPaid {
		return appointment, nil
	}

	newStatus := entity.AppointmentStatusConfirmed
	if appointment.Status == entity.AppointmentStatusCancelled {
		s.log.Warn("Payment completed for cancelled appointment",
			zap.String("appointment_id", appointment.ID.String()),
			zap.String("payment_id", payment.ID.String()),
		)
		newStatus = appointment.Status
	}

	if err := s.repo.Appointment.UpdateStatus(ctx, appointment.ID, newStatus, entity.AppointmentPaymentPaid); err != nil {
		return nil, err
	}

	appointment.Status = newStatus
	appointment.PaymentStatus = entity.AppointmentPaymentPaid

	s.log.Info("Appointment confirmed",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("payment_id", payment.ID.String()),
	)

	return appointment, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, userID string, orderID string) (*response.VerifyPaymentResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	paymentUUID, err := uuid.Parse(strings.TrimPrefix(orderID, payhere.OrderIDPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: order id %s does not carry a payment id", ErrPaymentNotFound, orderID)
	}

	payment, err := s.repo.Payment.FindByID(ctx, paymentUUID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.PatientID != userUUID {
		return nil, ErrNotOwner
	}

	resp := &response.VerifyPaymentResponse{
		Payment: response.PaymentToResponse(payment),
	}

	if payment.Status == entity.PaymentStatusCompleted {
		// Polling doubles as reconciliation: a webhook that got lost or died
		// halfway leaves the appointment unconfirmed, and this repairs it.
		appointment, err := s.confirmAppointment(ctx, payment)
		if err != nil {
			return nil, err
		}

		doctor, err := s.repo.Doctor.FindByID(ctx, appointment.DoctorID)
		if err != nil {
			s.log.Warn("Failed to load doctor for verify response", zap.Error(err))
		}

		appointmentResp := response.AppointmentToResponse(appointment, doctor, nil)
		resp.Appointment = &appointmentResp
	}

	return resp, nil
}

// FixPendingPayments sweeps payments stuck in pending past the cutoff and
// settles them as completed, confirming their appointments. Meant for the
// admin panel after a gateway outage where notifications were dropped.
func (s *paymentService) FixPendingPayments(ctx context.Context, olderThan time.Duration) (*response.FixPendingResponse, error) {
	if olderThan <= 0 {
		olderThan = 30 * time.Minute
	}
	cutoff := time.Now().Add(-olderThan)

	payments, err := s.repo.Payment.FindPendingOlderThan(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	resp := &response.FixPendingResponse{Results: []response.FixPendingResult{}}

	for _, payment := range payments {
		result := response.FixPendingResult{
			PaymentID:     payment.ID.String(),
			AppointmentID: payment.AppointmentID.String(),
		}

		err := s.locker.WithPaymentLock(ctx, payment.ID, func(ctx context.Context) error {
			return s.settlePending(ctx, payment.ID)
		})
		if err != nil {
			if errors.Is(err, redisclient.ErrLockNotAcquired) {
				// A live webhook is settling this payment right now.
				result.Error = "payment is being processed"
			} else {
				result.Error = err.Error()
			}
			s.log.Warn("Failed to fix pending payment",
				zap.Error(err),
				zap.String("payment_id", payment.ID.String()),
			)
		} else {
			result.Fixed = true
			resp.FixedCount++
		}

		resp.Results = append(resp.Results, result)
	}

	s.log.Info("Fix pending sweep finished",
		zap.Int("candidates", len(payments)),
		zap.Int("fixed", resp.FixedCount),
		zap.Duration("older_than", olderThan),
	)

	return resp, nil
}

func (s *paymentService) settlePending(ctx context.Context, paymentID uuid.UUID) error {
	// Re-read under the lock; a webhook may have settled it meanwhile.
	payment, err := s.repo.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrPaymentNotFound
	}
	if payment.Status != entity.PaymentStatusPending {
		return nil
	}

	now := time.Now()
	payment.Status = entity.PaymentStatusCompleted
	payment.PaymentDate = &now
	payment.UpdatedAt = now

	if err := s.repo.Payment.Update(ctx, payment); err != nil {
		return err
	}

	_, err = s.confirmAppointment(ctx, payment)
	return err
}

// dispatchConfirmation sends the confirmation email with the PDF receipt in
// the background.
func (s *paymentService) dispatchConfirmation(payment *entity.Payment, appointment *entity.Appointment) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sendConfirmation(payment, appointment)
	}()
}

func (s *paymentService) sendConfirmation(payment *entity.Payment, appointment *entity.Appointment) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	patient, err := s.repo.User.FindByID(ctx, payment.PatientID)
	if err != nil || patient == nil {
		s.log.Warn("Skipping confirmation email, patient lookup failed",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
		)
		return
	}

	doctor, err := s.repo.Doctor.FindByID(ctx, payment.DoctorID)
	if err != nil || doctor == nil {
		s.log.Warn("Skipping confirmation email, doctor lookup failed",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
		)
		return
	}

	var attachment []byte
	attachmentName := ""
	if pdf, err := s.receipts.Render(payment, appointment, doctor, patient); err != nil {
		s.log.Warn("Failed to render receipt, sending email without attachment",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
		)
	} else {
		attachment = pdf
		attachmentName = fmt.Sprintf("receipt-%s.pdf", payment.ID.String())
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour payment of %.2f %s was received and your appointment is confirmed.\n\nDoctor: %s\nDate: %s\nTime: %s\nMode: %s\n\nYour receipt is attached.\n",
		patient.FullName,
		payment.Amount,
		payment.Currency,
		doctor.Name,
		appointment.Date.Format("2006-01-02"),
		appointment.TimeSlot,
		appointment.Mode,
	)

	if err := s.mail.Send(patient.Email, "Appointment Confirmed", body, attachmentName, attachment); err != nil {
		s.log.Warn("Failed to send confirmation email",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
			zap.String("to", patient.Email),
		)
	}
}

func statusFromCode(code string) entity.PaymentStatus {
	switch code {
	case payhere.StatusCodeSuccess:
		return entity.PaymentStatusCompleted
	case payhere.StatusCodePending:
		return entity.PaymentStatusPending
	case payhere.StatusCodeCancelled:
		return entity.PaymentStatusCancelled
	case payhere.StatusCodeFailed:
		return entity.PaymentStatusFailed
	default:
		return entity.PaymentStatusUnknown
	}
}

func splitName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
