package totp_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mshiomi/portalauth/totp"
)

// rfcSecret is the RFC 6238 test secret ("12345678901234567890") in base32.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestGenerate_RFCVector(t *testing.T) {
	code, err := totp.Generate(rfcSecret, time.Unix(59, 0))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if code != "287082" {
		t.Errorf("t=59: got %q, want 287082", code)
	}
}

func TestGenerate_SixDigits(t *testing.T) {
	code, err := totp.Generate(rfcSecret, time.Unix(1111111109, 0))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(code) != 6 {
		t.Errorf("got %d digits (%q), want 6", len(code), code)
	}
}

func TestGenerate_DeterministicWithinWindow(t *testing.T) {
	// Same 30-second window, same code.
	a, err := totp.Generate(rfcSecret, time.Unix(30, 0))
	if err != nil {
		t.Fatal(err)
	}
	b, err := totp.Generate(rfcSecret, time.Unix(59, 0))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("codes differ within one window: %q vs %q", a, b)
	}
}

func TestGenerate_DiffersAcrossWindows(t *testing.T) {
	a, err := totp.Generate(rfcSecret, time.Unix(59, 0))
	if err != nil {
		t.Fatal(err)
	}
	b, err := totp.Generate(rfcSecret, time.Unix(60, 0))
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("codes identical across windows: %q", a)
	}
}

func TestGenerate_InvalidSecret(t *testing.T) {
	_, err := totp.Generate("not base32 !!!", time.Unix(59, 0))
	if !errors.Is(err, totp.ErrInvalidSecret) {
		t.Errorf("got %v, want ErrInvalidSecret", err)
	}
}

func TestNow_ProducesCode(t *testing.T) {
	code, err := totp.Now(rfcSecret)
	if err != nil {
		t.Fatalf("Now error: %v", err)
	}
	if len(code) != 6 {
		t.Errorf("got %q, want a six-digit code", code)
	}
}
