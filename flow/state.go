package flow

// SessionState is the position of the login state machine. It is owned
// exclusively by the Orchestrator and advances only after the response of
// the prior step validated successfully.
type SessionState int

const (
	// StateStart is the initial state; nothing has been validated yet.
	StateStart SessionState = iota
	// StateUsernameEntered means the username check accepted the account
	// identifier.
	StateUsernameEntered
	// StatePasswordEntered means the password submission was answered with
	// the redirect script.
	StatePasswordEntered
	// StateMethodSelected means the method-selection page validated and a
	// second-factor branch may begin.
	StateMethodSelected
	// StateEmailChallengeIssued means the email one-time password was
	// dispatched and the flow waits for the caller to supply it.
	StateEmailChallengeIssued
	// StateTOTPChallengeIssued means the TOTP code was accepted and the
	// redirect chain is running.
	StateTOTPChallengeIssued
	// StateWaiting means the interstitial waiting page validated.
	StateWaiting
	// StateResourceListReached is the terminal success state.
	StateResourceListReached
)

// String returns the state name for logs.
func (s SessionState) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateUsernameEntered:
		return "UsernameEntered"
	case StatePasswordEntered:
		return "PasswordEntered"
	case StateMethodSelected:
		return "MethodSelected"
	case StateEmailChallengeIssued:
		return "EmailChallengeIssued"
	case StateTOTPChallengeIssued:
		return "TOTPChallengeIssued"
	case StateWaiting:
		return "Waiting"
	case StateResourceListReached:
		return "ResourceListReached"
	default:
		return "Unknown"
	}
}

// Account holds the caller-supplied credentials for one portal account.
// The value is immutable from the orchestrator's point of view and is never
// persisted anywhere.
type Account struct {
	// Username is the account identifier the portal's username check
	// echoes back.
	Username string

	// Password is the account password.
	Password string

	// TOTPSecret is the base32 shared secret for the TOTP branch. Empty
	// when the account has no authenticator app enrolled; the TOTP branch
	// then fails with ErrMissingTOTPSecret.
	TOTPSecret string
}
