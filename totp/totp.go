// Package totp computes the time-based one-time codes the portal's TOTP
// branch expects: 30-second windows, six digits, HMAC-SHA1 dynamic
// truncation per RFC 6238.
package totp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	potp "github.com/pquerna/otp"
	ptotp "github.com/pquerna/otp/totp"
)

// ErrInvalidSecret indicates a shared secret that is not valid base32.
// Compare with errors.Is.
var ErrInvalidSecret = errors.New("totp: invalid base32 secret")

// Period is the code window in seconds. The portal uses the RFC default.
const Period = 30

// Digits is the code length. The portal uses the RFC default.
const Digits = 6

// Generate returns the zero-padded six-digit code for secret at time t.
// The result is deterministic for a fixed secret and 30-second window.
func Generate(secret string, t time.Time) (string, error) {
	code, err := ptotp.GenerateCodeCustom(strings.TrimSpace(secret), t, ptotp.ValidateOpts{
		Period:    Period,
		Digits:    potp.DigitsSix,
		Algorithm: potp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	return code, nil
}

// Now returns the code for the current window.
func Now(secret string) (string, error) {
	return Generate(secret, time.Now().UTC())
}
