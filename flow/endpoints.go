package flow

// The portal's fixed endpoint set, relative to the configured base URL.
// Portal discovery is out of scope: these paths are the contract.
const (
	pathLogin           = "/login"
	pathUsernameCheck   = "/login/identifier"
	pathPasswordSubmit  = "/login/password"
	pathMethodSelection = "/login/mfa"
	pathEmailDispatch   = "/login/mfa/email"
	pathEmailVerify     = "/login/mfa/email/verify"
	pathTOTPVerify      = "/login/mfa/totp"
	pathResourceList    = "/resources"

	pathFIDO2Settings = "/settings/fido2"
	pathFIDO2Options  = "/settings/fido2/attestation/options"
	pathFIDO2Result   = "/settings/fido2/attestation/result"
)

// Anti-forgery token plumbing. The standard pages and the FIDO2 relay use
// distinct meta names and header names; both pairs are threaded explicitly
// through page.CSRFHeader rather than inferred per step.
const (
	metaCSRFToken   = "csrf-token"
	headerCSRFToken = "X-CSRF-Token"

	metaFIDO2Token   = "fido2-token"
	headerFIDO2Token = "X-Fido2-Token"
)

// Fragment selectors for the form regions each step extracts inputs from.
const (
	selIdentifierField = "#identifier-field"
	selLoginForm       = "#login-form"
	selEmailOTPForm    = "#email-otp-form"
	selTOTPForm        = "#totp-form"
)
