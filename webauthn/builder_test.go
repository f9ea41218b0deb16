package webauthn_test

import (
	"errors"
	"testing"

	"github.com/mshiomi/portalauth/webauthn"
)

// fakeAuth is a scripted Authenticator.
type fakeAuth struct {
	resp []byte
	err  error
	got  []byte
}

func (f *fakeAuth) MakeCredential(optionsJSON []byte) ([]byte, error) {
	f.got = optionsJSON
	return f.resp, f.err
}

func TestBuild_NilAuthenticator(t *testing.T) {
	b := webauthn.NewBuilder(nil)
	resp, outcome, err := b.Build([]byte(`{}`))
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if outcome != webauthn.OutcomeNoCredential {
		t.Errorf("outcome %s, want no-credential", outcome)
	}
	if resp != nil {
		t.Errorf("unexpected response %q", resp)
	}
}

func TestBuild_Created(t *testing.T) {
	auth := &fakeAuth{resp: []byte(`{"id":"cred"}`)}
	b := webauthn.NewBuilder(auth)

	challenge := []byte(`{"publicKey":{"challenge":"abc"}}`)
	resp, outcome, err := b.Build(challenge)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if outcome != webauthn.OutcomeCreated {
		t.Errorf("outcome %s, want created", outcome)
	}
	if string(resp) != `{"id":"cred"}` {
		t.Errorf("response %q", resp)
	}
	if string(auth.got) != string(challenge) {
		t.Errorf("challenge not forwarded verbatim: %q", auth.got)
	}
}

func TestBuild_Declined(t *testing.T) {
	b := webauthn.NewBuilder(&fakeAuth{})
	resp, outcome, err := b.Build([]byte(`{}`))
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if outcome != webauthn.OutcomeNoCredential || resp != nil {
		t.Errorf("got (%q, %s), want declined outcome", resp, outcome)
	}
}

func TestBuild_AuthenticatorError(t *testing.T) {
	boom := errors.New("boom")
	b := webauthn.NewBuilder(&fakeAuth{err: boom})
	_, outcome, err := b.Build([]byte(`{}`))
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped boom", err)
	}
	if outcome != webauthn.OutcomeNoCredential {
		t.Errorf("outcome %s, want no-credential on error", outcome)
	}
}

func TestOutcome_String(t *testing.T) {
	cases := map[webauthn.Outcome]string{
		webauthn.OutcomeNoCredential:   "no-credential",
		webauthn.OutcomeCreated:        "created",
		webauthn.OutcomeServerRejected: "server-rejected",
	}
	for outcome, want := range cases {
		if got := outcome.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(outcome), got, want)
		}
	}
}
