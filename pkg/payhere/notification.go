package payhere

import (
	"fmt"
	"net/url"
	"strings"
)

// Gateway status codes carried in the status_code field.
const (
	StatusCodeSuccess   = "2"
	StatusCodePending   = "0"
	StatusCodeCancelled = "-1"
	StatusCodeFailed    = "-2"
)

// OrderIDPrefix prefixes every order id this system hands to the gateway;
// the payment id is recovered by stripping it.
const OrderIDPrefix = "PAY-"

// Notification is the form payload the gateway POSTs to the notify URL.
type Notification struct {
	MerchantID    string `json:"merchant_id" validate:"required"`
	OrderID       string `json:"order_id" validate:"required"`
	PaymentID     string `json:"payment_id" validate:"required"`
	Amount        string `json:"payhere_amount" validate:"required"`
	Currency      string `json:"payhere_currency" validate:"required"`
	StatusCode    string `json:"status_code" validate:"required,oneof=2 0 -1 -2"`
	MD5Sig        string `json:"md5sig" validate:"required"`
	StatusMessage string `json:"status_message"`
}

// ParseNotification reads a notification from decoded form values.
func ParseNotification(form url.Values) *Notification {
	return &Notification{
		MerchantID:    form.Get("merchant_id"),
		OrderID:       form.Get("order_id"),
		PaymentID:     form.Get("payment_id"),
		Amount:        form.Get("payhere_amount"),
		Currency:      form.Get("payhere_currency"),
		StatusCode:    form.Get("status_code"),
		MD5Sig:        form.Get("md5sig"),
		StatusMessage: form.Get("status_message"),
	}
}

// Verify recomputes the notification digest and compares it byte-exact
// against md5sig. A false result means the notification is not authentic and
// must be rejected before any state mutation.
func (n *Notification) Verify(secret string) bool {
	amount, err := NormalizeAmount(n.Amount)
	if err != nil {
		return false
	}
	expected := ComputeNotificationHash(n.MerchantID, n.OrderID, amount, n.Currency, n.StatusCode, secret)
	return expected == n.MD5Sig
}

// LocalPaymentID strips the order id prefix and returns the payment id the
// order was created under.
func (n *Notification) LocalPaymentID() (string, error) {
	if !strings.HasPrefix(n.OrderID, OrderIDPrefix) {
		return "", fmt.Errorf("order id %q does not carry prefix %q", n.OrderID, OrderIDPrefix)
	}
	return strings.TrimPrefix(n.OrderID, OrderIDPrefix), nil
}

// BuildOrderID renders the gateway order id for a local payment id.
func BuildOrderID(paymentID string) string {
	return OrderIDPrefix + paymentID
}
