package flow

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mshiomi/portalauth/client"
	"github.com/mshiomi/portalauth/page"
	"github.com/mshiomi/portalauth/webauthn"
)

// RegisterFIDO2 runs the security-key enrollment ceremony on an already
// authenticated session: fetch the FIDO2 settings page, arm it with its own
// form fields, request a creation challenge, hand the challenge to the
// configured authenticator, and relay the credential back.
//
// The branch sits outside the login state machine. The portal gives its
// relay endpoints no page markers, so the absence of a transport error plus
// the result body are the only signals; a result body reporting an error
// maps to OutcomeServerRejected rather than a Go error.
func (o *Orchestrator) RegisterFIDO2(ctx context.Context) (webauthn.Outcome, error) {
	body, err := o.send(ctx, client.Request{
		Method: http.MethodGet,
		URL:    o.url(pathFIDO2Settings),
	})
	if err != nil {
		return webauthn.OutcomeNoCredential, err
	}
	doc, err := page.Parse(body)
	if err != nil {
		return webauthn.OutcomeNoCredential, fmt.Errorf("flow: parse FIDO2 settings page: %w", err)
	}
	fields := page.Inputs(doc)
	metas := page.Metas(doc)

	// Arm the settings page. The portal requires this echo before it will
	// issue a creation challenge.
	if _, err := o.send(ctx, client.Request{
		Method:  http.MethodPost,
		URL:     o.url(pathFIDO2Settings),
		Header:  page.CSRFHeader(metas, metaCSRFToken, headerCSRFToken),
		Form:    page.FormValues(fields),
		Referer: o.url(pathFIDO2Settings),
	}); err != nil {
		return webauthn.OutcomeNoCredential, err
	}

	challenge, err := o.send(ctx, client.Request{
		Method:  http.MethodPost,
		URL:     o.url(pathFIDO2Options),
		Header:  page.CSRFHeader(metas, metaFIDO2Token, headerFIDO2Token),
		JSON:    []byte(`{}`),
		Referer: o.url(pathFIDO2Settings),
	})
	if err != nil {
		return webauthn.OutcomeNoCredential, err
	}

	resp, outcome, err := o.builder.Build([]byte(challenge))
	if err != nil {
		return webauthn.OutcomeNoCredential, err
	}
	if outcome == webauthn.OutcomeNoCredential {
		o.log.Info("authenticator produced no credential; skipping relay")
		return outcome, nil
	}

	result, err := o.send(ctx, client.Request{
		Method:  http.MethodPost,
		URL:     o.url(pathFIDO2Result),
		Header:  page.CSRFHeader(metas, metaFIDO2Token, headerFIDO2Token),
		JSON:    resp,
		Referer: o.url(pathFIDO2Settings),
	})
	if err != nil {
		return webauthn.OutcomeNoCredential, err
	}
	if fido2Rejected(result) {
		o.log.Errorf("portal rejected the credential: %s", strings.TrimSpace(result))
		return webauthn.OutcomeServerRejected, nil
	}

	o.log.Info("security key registered")
	return webauthn.OutcomeCreated, nil
}

// fido2Rejected reports whether the relay result body carries an error
// indication. The endpoint answers JSON without a fixed schema, so this is
// a substring check.
func fido2Rejected(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, `"status":"failed"`) || strings.Contains(lower, "error")
}
