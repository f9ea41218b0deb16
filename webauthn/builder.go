// Package webauthn converts the portal's relay-party challenge into a
// credential-creation response, or determines that none can be produced.
//
// The authenticator itself is a capability that may be entirely absent:
// declining to create a credential is a valid, explicitly branched outcome,
// not an error. Server-side acceptance of the registration branch is
// unreliable, so callers must treat every outcome as best-effort.
package webauthn

import "fmt"

// Outcome classifies how the FIDO2 registration branch ended.
type Outcome int

const (
	// OutcomeNoCredential means the capability was absent or declined, so
	// registration stopped before the final relay step.
	OutcomeNoCredential Outcome = iota
	// OutcomeCreated means a credential response was produced and the final
	// relay step did not observably reject it.
	OutcomeCreated
	// OutcomeServerRejected means the final relay step observably rejected
	// the credential response.
	OutcomeServerRejected
)

// String returns a short human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeServerRejected:
		return "server-rejected"
	default:
		return "no-credential"
	}
}

// Authenticator is the device-bound credential-creation capability. Given
// the relay-party creation options as JSON, it returns the credential
// response as JSON. Returning (nil, nil) means the capability declined;
// errors are reserved for malformed challenges or signing failures.
type Authenticator interface {
	MakeCredential(optionsJSON []byte) ([]byte, error)
}

// Builder drives one credential creation against an Authenticator, which
// may be nil when no capability is available at all.
type Builder struct {
	auth Authenticator
}

// NewBuilder wraps auth. A nil auth is valid and always yields
// OutcomeNoCredential.
func NewBuilder(auth Authenticator) *Builder {
	return &Builder{auth: auth}
}

// Build invokes the authenticator with the relay-party challenge. The
// returned outcome is OutcomeCreated with the response JSON, or
// OutcomeNoCredential with a nil response when the capability is absent or
// declined.
func (b *Builder) Build(challengeJSON []byte) ([]byte, Outcome, error) {
	if b == nil || b.auth == nil {
		return nil, OutcomeNoCredential, nil
	}
	resp, err := b.auth.MakeCredential(challengeJSON)
	if err != nil {
		return nil, OutcomeNoCredential, fmt.Errorf("webauthn: create credential: %w", err)
	}
	if resp == nil {
		return nil, OutcomeNoCredential, nil
	}
	return resp, OutcomeCreated, nil
}
