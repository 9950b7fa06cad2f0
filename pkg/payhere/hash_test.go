package payhere

import (
	"testing"
)

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		1800:    "1800.00",
		1800.5:  "1800.50",
		2500.75: "2500.75",
		0:       "0.00",
	}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Errorf("FormatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeAmount(t *testing.T) {
	// integer string and pre-formatted string normalize identically
	a, err := NormalizeAmount("1800")
	if err != nil {
		t.Fatalf("NormalizeAmount(1800): %v", err)
	}
	b, err := NormalizeAmount("1800.00")
	if err != nil {
		t.Fatalf("NormalizeAmount(1800.00): %v", err)
	}
	if a != b || a != "1800.00" {
		t.Errorf("normalized amounts differ: %q vs %q", a, b)
	}

	if _, err := NormalizeAmount("not-a-number"); err == nil {
		t.Error("expected error for malformed amount")
	}
}

func TestComputeHash_KnownVector(t *testing.T) {
	got := ComputeHash("M1234", "PAY-abc123", 1800, "LKR", "testsecret")
	want := "9548C68F0C455E8C1CB71985277C8868"
	if got != want {
		t.Errorf("ComputeHash = %s, want %s", got, want)
	}
}

func TestComputeNotificationHash_KnownVector(t *testing.T) {
	got := ComputeNotificationHash("M1234", "PAY-abc123", "1800.00", "LKR", "2", "testsecret")
	want := "601B03A9F21B688A716DE3BE94C2A5B6"
	if got != want {
		t.Errorf("ComputeNotificationHash = %s, want %s", got, want)
	}
}

func TestComputeHash_Deterministic(t *testing.T) {
	first := ComputeHash("M1234", "PAY-1", 2500, "LKR", "s3cret")
	for i := 0; i < 5; i++ {
		if got := ComputeHash("M1234", "PAY-1", 2500, "LKR", "s3cret"); got != first {
			t.Fatalf("hash not deterministic: %s vs %s", got, first)
		}
	}
}

func TestComputeNotificationHash_InputSensitivity(t *testing.T) {
	base := ComputeNotificationHash("M1234", "PAY-1", "2500.00", "LKR", "2", "s3cret")

	variants := []struct {
		name                                           string
		merchant, order, amount, currency, code, secret string
	}{
		{"merchant", "M1235", "PAY-1", "2500.00", "LKR", "2", "s3cret"},
		{"order", "M1234", "PAY-2", "2500.00", "LKR", "2", "s3cret"},
		{"amount", "M1234", "PAY-1", "2500.01", "LKR", "2", "s3cret"},
		{"currency", "M1234", "PAY-1", "2500.00", "USD", "2", "s3cret"},
		{"status", "M1234", "PAY-1", "2500.00", "LKR", "-2", "s3cret"},
		{"secret", "M1234", "PAY-1", "2500.00", "LKR", "2", "s3creT"},
	}
	for _, v := range variants {
		got := ComputeNotificationHash(v.merchant, v.order, v.amount, v.currency, v.code, v.secret)
		if got == base {
			t.Errorf("changing %s did not change the digest", v.name)
		}
	}
}
