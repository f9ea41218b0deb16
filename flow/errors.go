package flow

import "errors"

// The error taxonomy of a login attempt. Every validation failure aborts
// the attempt immediately and surfaces verbatim: no local recovery, no
// automatic retry, no cached partial state. Callers compare with errors.Is.
var (
	// ErrAlreadyLoggedIn is a non-error short circuit: the very first
	// fetched page already showed an authenticated session, so no further
	// network step was taken. Callers must distinguish it from genuine
	// failures.
	ErrAlreadyLoggedIn = errors.New("flow: session already authenticated")

	// ErrInvalidUsernamePage covers both a first page without the username
	// marker and a username-check response that rejected or mismatched the
	// identifier.
	ErrInvalidUsernamePage = errors.New("flow: unexpected username page")

	// ErrInvalidPasswordPage means the password submission was not answered
	// with the browser-redirect script: wrong credentials or a changed
	// portal UI.
	ErrInvalidPasswordPage = errors.New("flow: unexpected password response")

	// ErrInvalidMethodSelectionPage means the method-selection page did not
	// carry its marker.
	ErrInvalidMethodSelectionPage = errors.New("flow: unexpected method-selection page")

	// ErrInvalidEmailSending means the email-dispatch endpoint did not echo
	// success.
	ErrInvalidEmailSending = errors.New("flow: email one-time password was not dispatched")

	// ErrInvalidEmailOTPPage means the email one-time password submission
	// was not answered with the browser-redirect script.
	ErrInvalidEmailOTPPage = errors.New("flow: unexpected email one-time password response")

	// ErrInvalidTOTPPage means the TOTP submission was not answered with
	// the browser-redirect script.
	ErrInvalidTOTPPage = errors.New("flow: unexpected TOTP response")

	// ErrInvalidWaitingPage means the page behind the script redirect was
	// not the waiting page.
	ErrInvalidWaitingPage = errors.New("flow: unexpected waiting page")

	// ErrInvalidResourceListPage means the final fetch did not land on the
	// resource list.
	ErrInvalidResourceListPage = errors.New("flow: unexpected resource-list page")

	// ErrMissingTOTPSecret means the TOTP branch was requested for an
	// account with no stored shared secret. Raised before any network call
	// of the branch.
	ErrMissingTOTPSecret = errors.New("flow: account has no TOTP secret")

	// ErrAttemptInProgress means a public entry point was called on an
	// orchestrator whose state machine already advanced past Start. The
	// orchestrator carries one attempt; restart with a fresh one.
	ErrAttemptInProgress = errors.New("flow: attempt already in progress")
)
