package payhere

// CheckoutParams collects everything needed to assemble a hosted-checkout
// request for one payment.
type CheckoutParams struct {
	MerchantID string
	OrderID    string
	Items      string
	Amount     float64
	Currency   string
	ReturnURL  string
	CancelURL  string
	NotifyURL  string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	City       string
}

// Checkout is the redirect/form payload handed to the client. Field names
// follow the gateway's checkout form contract.
type Checkout struct {
	MerchantID string `json:"merchant_id"`
	ReturnURL  string `json:"return_url"`
	CancelURL  string `json:"cancel_url"`
	NotifyURL  string `json:"notify_url"`
	OrderID    string `json:"order_id"`
	Items      string `json:"items"`
	Currency   string `json:"currency"`
	Amount     string `json:"amount"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Hash       string `json:"hash"`
}

// BuildCheckout computes the request digest and assembles the checkout
// payload. The secret only participates in hash computation and is not part
// of the result.
func BuildCheckout(p CheckoutParams, secret string) *Checkout {
	return &Checkout{
		MerchantID: p.MerchantID,
		ReturnURL:  p.ReturnURL,
		CancelURL:  p.CancelURL,
		NotifyURL:  p.NotifyURL,
		OrderID:    p.OrderID,
		Items:      p.Items,
		Currency:   p.Currency,
		Amount:     FormatAmount(p.Amount),
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
		Address:    p.Address,
		City:       p.City,
		Hash:       ComputeHash(p.MerchantID, p.OrderID, p.Amount, p.Currency, secret),
	}
}
