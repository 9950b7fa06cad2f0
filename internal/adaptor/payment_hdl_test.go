package adaptor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/payhere"

	"go.uber.org/zap"
)

// fakePaymentService scripts HandleNotification outcomes and records what the
// handler passed in.
type fakePaymentService struct {
	notifyErr error
	gotNotif  *payhere.Notification
	gotRaw    string
}

func (f *fakePaymentService) InitiatePayment(context.Context, string, *request.InitiatePaymentRequest) (*response.CheckoutResponse, error) {
	return nil, nil
}

func (f *fakePaymentService) VerifyPayment(context.Context, string, string) (*response.VerifyPaymentResponse, error) {
	return nil, nil
}

func (f *fakePaymentService) HandleNotification(_ context.Context, notif *payhere.Notification, raw string) error {
	f.gotNotif = notif
	f.gotRaw = raw
	return f.notifyErr
}

func (f *fakePaymentService) FixPendingPayments(context.Context, time.Duration) (*response.FixPendingResponse, error) {
	return nil, nil
}

func postNotification(t *testing.T, svc usecase.PaymentService, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewPaymentHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/payments/notify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handler.Notify(rec, req)
	return rec
}

func notificationForm() url.Values {
	return url.Values{
		"merchant_id":      {"M1234"},
		"order_id":         {"PAY-7b0c2a9e-8a52-4a0e-9d21-1db1f7a2b3c4"},
		"payment_id":       {"PH-1"},
		"payhere_amount":   {"1800.00"},
		"payhere_currency": {"LKR"},
		"status_code":      {"2"},
		"md5sig":           {"ABCDEF0123456789ABCDEF0123456789"},
	}
}

func TestNotifyAcksWithPlainOK(t *testing.T) {
	svc := &fakePaymentService{}
	rec := postNotification(t, svc, notificationForm())

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "OK" {
		t.Errorf("body = %q, want OK", body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q, want text/plain", ct)
	}

	// Handler must hand the decoded form to the service
	if svc.gotNotif == nil || svc.gotNotif.OrderID != "PAY-7b0c2a9e-8a52-4a0e-9d21-1db1f7a2b3c4" {
		t.Errorf("service did not receive parsed notification: %+v", svc.gotNotif)
	}
	if svc.gotNotif.StatusCode != "2" || svc.gotNotif.Amount != "1800.00" {
		t.Errorf("notification fields wrong: %+v", svc.gotNotif)
	}
	if svc.gotRaw == "" {
		t.Error("raw payload not forwarded")
	}
}

func TestNotifyBadHashIs400(t *testing.T) {
	svc := &fakePaymentService{notifyErr: usecase.ErrInvalidSignature}
	rec := postNotification(t, svc, notificationForm())

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestNotifyMissingFieldIs400(t *testing.T) {
	svc := &fakePaymentService{notifyErr: usecase.ErrInvalidNotification}
	form := notificationForm()
	form.Del("md5sig")
	rec := postNotification(t, svc, form)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestNotifyUnknownPaymentIs404(t *testing.T) {
	svc := &fakePaymentService{notifyErr: usecase.ErrPaymentNotFound}
	rec := postNotification(t, svc, notificationForm())

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestNotifyInternalErrorIs500(t *testing.T) {
	svc := &fakePaymentService{notifyErr: context.DeadlineExceeded}
	rec := postNotification(t, svc, notificationForm())

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
