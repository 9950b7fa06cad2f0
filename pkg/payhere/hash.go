package payhere

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// The gateway authenticates checkout requests and webhook notifications with
// an MD5 digest over the request fields and the merchant secret:
//
//	UPPER(HEX(MD5(merchantID + orderID + amount + currency [+ statusCode] + UPPER(HEX(MD5(secret))))))
//
// Amounts are always normalized to exactly two decimal places before hashing,
// so the numeric 1800 and the string "1800.00" produce the same digest. The
// inner hash of the secret is computed per call and never leaves this package.

func md5Upper(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// FormatAmount renders an amount with fixed two-decimal semantics.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// NormalizeAmount parses an amount string as received on the wire and
// re-renders it with two decimals.
func NormalizeAmount(amount string) (string, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return "", fmt.Errorf("parse amount %q: %w", amount, err)
	}
	return FormatAmount(f), nil
}

// ComputeHash returns the digest sent along with a checkout request.
func ComputeHash(merchantID, orderID string, amount float64, currency, secret string) string {
	return md5Upper(merchantID + orderID + FormatAmount(amount) + currency + md5Upper(secret))
}

// ComputeNotificationHash returns the digest expected on an inbound
// notification. The amount must already be normalized.
func ComputeNotificationHash(merchantID, orderID, amount, currency, statusCode, secret string) string {
	return md5Upper(merchantID + orderID + amount + currency + statusCode + md5Upper(secret))
}
