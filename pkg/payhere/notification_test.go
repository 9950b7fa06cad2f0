package payhere

import (
	"net/url"
	"testing"
)

func notificationForm(amount, statusCode, secret string) url.Values {
	normalized, _ := NormalizeAmount(amount)
	sig := ComputeNotificationHash("M1234", "PAY-p1", normalized, "LKR", statusCode, secret)

	form := url.Values{}
	form.Set("merchant_id", "M1234")
	form.Set("order_id", "PAY-p1")
	form.Set("payment_id", "320025")
	form.Set("payhere_amount", amount)
	form.Set("payhere_currency", "LKR")
	form.Set("status_code", statusCode)
	form.Set("md5sig", sig)
	form.Set("status_message", "Successfully completed")
	return form
}

func TestParseNotification(t *testing.T) {
	n := ParseNotification(notificationForm("2500.00", "2", "s3cret"))

	if n.MerchantID != "M1234" || n.OrderID != "PAY-p1" || n.PaymentID != "320025" {
		t.Errorf("unexpected identity fields: %+v", n)
	}
	if n.Amount != "2500.00" || n.Currency != "LKR" || n.StatusCode != "2" {
		t.Errorf("unexpected amount fields: %+v", n)
	}
	if n.StatusMessage != "Successfully completed" {
		t.Errorf("unexpected status message %q", n.StatusMessage)
	}
}

func TestNotificationVerify(t *testing.T) {
	n := ParseNotification(notificationForm("2500.00", "2", "s3cret"))
	if !n.Verify("s3cret") {
		t.Error("authentic notification failed verification")
	}
	if n.Verify("wrong-secret") {
		t.Error("notification verified against the wrong secret")
	}

	tampered := *n
	tampered.Amount = "9999.00"
	if tampered.Verify("s3cret") {
		t.Error("tampered amount passed verification")
	}
}

func TestNotificationVerify_AmountNormalization(t *testing.T) {
	// gateway sends "2500.00", a replayed integer form of the same amount
	// must verify identically
	n := ParseNotification(notificationForm("2500", "2", "s3cret"))
	if !n.Verify("s3cret") {
		t.Error("integer-formatted amount failed verification after normalization")
	}
}

func TestNotificationVerify_MalformedAmount(t *testing.T) {
	n := ParseNotification(notificationForm("2500.00", "2", "s3cret"))
	n.Amount = "twenty-five"
	if n.Verify("s3cret") {
		t.Error("malformed amount must never verify")
	}
}

func TestLocalPaymentID(t *testing.T) {
	n := &Notification{OrderID: "PAY-8c2f4a"}
	id, err := n.LocalPaymentID()
	if err != nil {
		t.Fatalf("LocalPaymentID: %v", err)
	}
	if id != "8c2f4a" {
		t.Errorf("LocalPaymentID = %q, want %q", id, "8c2f4a")
	}

	bad := &Notification{OrderID: "ORDER-8c2f4a"}
	if _, err := bad.LocalPaymentID(); err == nil {
		t.Error("expected error for foreign order id prefix")
	}
}

func TestBuildOrderID(t *testing.T) {
	if got := BuildOrderID("8c2f4a"); got != "PAY-8c2f4a" {
		t.Errorf("BuildOrderID = %q", got)
	}
}

func TestBuildCheckout(t *testing.T) {
	c := BuildCheckout(CheckoutParams{
		MerchantID: "M1234",
		OrderID:    "PAY-p1",
		Items:      "Consultation - Dr. Perera",
		Amount:     2500,
		Currency:   "LKR",
		NotifyURL:  "https://clinic.example/api/payments/notify",
		FirstName:  "Nimal",
		LastName:   "Silva",
		Email:      "nimal@example.com",
	}, "s3cret")

	if c.Amount != "2500.00" {
		t.Errorf("checkout amount = %q, want normalized %q", c.Amount, "2500.00")
	}
	want := ComputeHash("M1234", "PAY-p1", 2500, "LKR", "s3cret")
	if c.Hash != want {
		t.Errorf("checkout hash = %s, want %s", c.Hash, want)
	}
}
