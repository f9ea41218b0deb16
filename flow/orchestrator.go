// Package flow implements the login state machine for the portal: the
// step-by-step sequence of username check, password submission,
// second-factor selection, email or TOTP verification, and the final
// resource-list fetch, with per-step response validation and anti-forgery
// token propagation in between.
//
// One Orchestrator carries exactly one attempt. Every step validates the
// previous response before issuing the next request, so at most one request
// is logically in flight; a validation failure is terminal and the caller
// restarts with a fresh Orchestrator. Concurrent use of one Orchestrator is
// unsupported: the portal session is a single cookie-backed conversation.
package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mshiomi/portalauth/client"
	"github.com/mshiomi/portalauth/logger"
	"github.com/mshiomi/portalauth/metrics"
	"github.com/mshiomi/portalauth/page"
	"github.com/mshiomi/portalauth/script"
	"github.com/mshiomi/portalauth/totp"
	"github.com/mshiomi/portalauth/webauthn"
)

// Orchestrator drives one login attempt against the portal.
type Orchestrator struct {
	transport *client.Client
	parser    *script.Parser
	builder   *webauthn.Builder
	log       *logger.Logger
	met       *metrics.Metrics

	baseURL string
	account Account
	state   SessionState

	// usernameDoc is the original username page. The password step
	// extracts its login form region from here, not from the identifier
	// check's JSON response.
	usernameDoc   *goquery.Document
	usernameMetas []page.MetaToken

	methodDoc   *goquery.Document
	methodMetas []page.MetaToken
}

// EmailChallenge is the intermediate state of the email branch: the
// dispatched form's fields and the page tokens the completion call must
// echo. The caller collects the one-time password from the user and passes
// the challenge back to CompleteEmailLogin.
type EmailChallenge struct {
	Fields []page.FormField
	Tokens []page.MetaToken
}

// New creates an Orchestrator for one attempt. baseURL is the portal
// origin; log and met may be nil, in which case a default logger and a
// private metrics instance are used.
func New(transport *client.Client, baseURL string, account Account, log *logger.Logger, met *metrics.Metrics) (*Orchestrator, error) {
	parser, err := script.NewParser()
	if err != nil {
		return nil, fmt.Errorf("flow: create script parser: %w", err)
	}
	if log == nil {
		log = logger.New(logger.LevelInfo)
	}
	if met == nil {
		met = metrics.NewMetrics()
	}
	return &Orchestrator{
		transport: transport,
		parser:    parser,
		builder:   webauthn.NewBuilder(nil),
		log:       log.WithTag("flow"),
		met:       met,
		baseURL:   strings.TrimRight(baseURL, "/"),
		account:   account,
		state:     StateStart,
	}, nil
}

// UseAuthenticator wires a credential-creation capability into the FIDO2
// registration branch. Without one, RegisterFIDO2 stops at the
// no-credential outcome.
func (o *Orchestrator) UseAuthenticator(a webauthn.Authenticator) {
	o.builder = webauthn.NewBuilder(a)
}

// State returns the current position of the state machine.
func (o *Orchestrator) State() SessionState {
	return o.state
}

func (o *Orchestrator) url(path string) string {
	return o.baseURL + path
}

func (o *Orchestrator) send(ctx context.Context, r client.Request) (string, error) {
	o.met.IncrementRoundTrip()
	return o.transport.Send(ctx, r)
}

// reject records a validation failure and returns err unchanged.
func (o *Orchestrator) reject(err error) error {
	o.met.IncrementValidationFailure()
	o.log.Errorf("validation failed at state %s: %v", o.state, err)
	return err
}

// begin fetches the login page and validates the entry conditions: an
// already-authenticated session short-circuits with ErrAlreadyLoggedIn
// before any further network step, and anything that is not the username
// page fails the attempt.
func (o *Orchestrator) begin(ctx context.Context) error {
	if o.state != StateStart {
		return ErrAttemptInProgress
	}
	o.met.IncrementAttempt()

	body, err := o.send(ctx, client.Request{Method: http.MethodGet, URL: o.url(pathLogin)})
	if err != nil {
		return err
	}
	doc, err := page.Parse(body)
	if err != nil {
		return fmt.Errorf("flow: parse login page: %w", err)
	}

	if page.AlreadyAuthenticated(doc) {
		// Not a validation failure: the session is simply already live.
		// State remains Start.
		o.log.Info("session already authenticated; aborting before username step")
		return ErrAlreadyLoggedIn
	}
	if !page.IsUsernamePage(doc) {
		return o.reject(ErrInvalidUsernamePage)
	}

	o.usernameDoc = doc
	o.usernameMetas = page.Metas(doc)
	return nil
}

// submitUsername posts the account identifier and validates the portal's
// JSON verdict: the account must exist with a password, and the echoed
// identifier must match exactly.
func (o *Orchestrator) submitUsername(ctx context.Context) error {
	fields, err := o.fragmentInputs(o.usernameDoc, selIdentifierField)
	if err != nil {
		return err
	}
	fields = page.Inject(fields, o.account.Username, "")

	body, err := o.send(ctx, client.Request{
		Method:  http.MethodPost,
		URL:     o.url(pathUsernameCheck),
		Header:  page.CSRFHeader(o.usernameMetas, metaCSRFToken, headerCSRFToken),
		Form:    page.FormValues(fields),
		Referer: o.url(pathLogin),
	})
	if err != nil {
		return err
	}

	var verdict struct {
		Password   bool   `json:"password"`
		Identifier string `json:"identifier"`
	}
	if err := json.Unmarshal([]byte(body), &verdict); err != nil {
		return o.reject(fmt.Errorf("%w: malformed identifier verdict: %v", ErrInvalidUsernamePage, err))
	}
	if !verdict.Password || verdict.Identifier != o.account.Username {
		return o.reject(ErrInvalidUsernamePage)
	}

	o.state = StateUsernameEntered
	o.log.Debugf("username accepted, state %s", o.state)
	return nil
}

// submitPassword posts the credentials extracted from the original username
// page's login form region and returns the raw response body. Validation of
// the redirect marker is left to the caller: the probe entry point wants
// the boolean outcome rather than an error.
func (o *Orchestrator) submitPassword(ctx context.Context) (string, error) {
	fields, err := o.fragmentInputs(o.usernameDoc, selLoginForm)
	if err != nil {
		return "", err
	}
	fields = page.Inject(fields, o.account.Username, o.account.Password)

	return o.send(ctx, client.Request{
		Method:  http.MethodPost,
		URL:     o.url(pathPasswordSubmit),
		Header:  page.CSRFHeader(o.usernameMetas, metaCSRFToken, headerCSRFToken),
		Form:    page.FormValues(fields),
		Referer: o.url(pathLogin),
	})
}

// authenticate runs Start through MethodSelected: login page, username
// check, password submission, method-selection fetch.
func (o *Orchestrator) authenticate(ctx context.Context) error {
	if err := o.begin(ctx); err != nil {
		return err
	}
	if err := o.submitUsername(ctx); err != nil {
		return err
	}

	body, err := o.submitPassword(ctx)
	if err != nil {
		return err
	}
	if !page.HasRedirectScript(body) {
		return o.reject(ErrInvalidPasswordPage)
	}
	o.state = StatePasswordEntered

	mbody, err := o.send(ctx, client.Request{
		Method:  http.MethodGet,
		URL:     o.url(pathMethodSelection),
		Referer: o.url(pathLogin),
	})
	if err != nil {
		return err
	}
	doc, err := page.Parse(mbody)
	if err != nil {
		return fmt.Errorf("flow: parse method-selection page: %w", err)
	}
	if !page.IsMethodSelectionPage(doc) {
		return o.reject(ErrInvalidMethodSelectionPage)
	}

	o.methodDoc = doc
	o.methodMetas = page.Metas(doc)
	o.state = StateMethodSelected
	o.log.Debugf("second-factor selection reached, state %s", o.state)
	return nil
}

// LoginWithTOTP runs the full attempt through the TOTP branch and returns
// the resource-list body. The account must carry a TOTP secret; without one
// the branch fails before any network call.
func (o *Orchestrator) LoginWithTOTP(ctx context.Context) (string, error) {
	if o.account.TOTPSecret == "" {
		return "", ErrMissingTOTPSecret
	}
	if err := o.authenticate(ctx); err != nil {
		return "", err
	}

	fields, err := o.fragmentInputs(o.methodDoc, selTOTPForm)
	if err != nil {
		return "", err
	}
	code, err := totp.Generate(o.account.TOTPSecret, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("flow: compute TOTP code: %w", err)
	}
	fields = page.Inject(fields, code, "")

	body, err := o.send(ctx, client.Request{
		Method:  http.MethodPost,
		URL:     o.url(pathTOTPVerify),
		Header:  page.CSRFHeader(o.methodMetas, metaCSRFToken, headerCSRFToken),
		Form:    page.FormValues(fields),
		Referer: o.url(pathMethodSelection),
	})
	if err != nil {
		return "", err
	}
	if !page.HasRedirectScript(body) {
		return "", o.reject(ErrInvalidTOTPPage)
	}
	o.state = StateTOTPChallengeIssued

	return o.completeRedirectChain(ctx, body)
}

// StartEmailLogin runs the attempt through the email branch up to the
// one-time password dispatch and returns the challenge the caller must pass
// back, with the user-entered code, to CompleteEmailLogin.
func (o *Orchestrator) StartEmailLogin(ctx context.Context) (*EmailChallenge, error) {
	if err := o.authenticate(ctx); err != nil {
		return nil, err
	}

	body, err := o.send(ctx, client.Request{
		Method:  http.MethodPost,
		URL:     o.url(pathEmailDispatch),
		Header:  page.CSRFHeader(o.methodMetas, metaCSRFToken, headerCSRFToken),
		Referer: o.url(pathMethodSelection),
	})
	if err != nil {
		return nil, err
	}
	if !page.IsEmailDispatched(body) {
		return nil, o.reject(ErrInvalidEmailSending)
	}

	fields, err := o.fragmentInputs(o.methodDoc, selEmailOTPForm)
	if err != nil {
		return nil, err
	}

	o.state = StateEmailChallengeIssued
	o.log.Info("email one-time password dispatched")
	return &EmailChallenge{Fields: fields, Tokens: o.methodMetas}, nil
}

// CompleteEmailLogin submits the user-entered one-time password with the
// fields and tokens of a previously started email challenge, then finishes
// the redirect chain to the resource list.
func (o *Orchestrator) CompleteEmailLogin(ctx context.Context, ch *EmailChallenge, otpCode string) (string, error) {
	if o.state != StateEmailChallengeIssued {
		return "", fmt.Errorf("flow: email completion requires a dispatched challenge, state is %s", o.state)
	}

	fields := page.Inject(ch.Fields, otpCode, "")
	body, err := o.send(ctx, client.Request{
		Method:  http.MethodPost,
		URL:     o.url(pathEmailVerify),
		Header:  page.CSRFHeader(ch.Tokens, metaCSRFToken, headerCSRFToken),
		Form:    page.FormValues(fields),
		Referer: o.url(pathMethodSelection),
	})
	if err != nil {
		return "", err
	}
	if !page.HasRedirectScript(body) {
		return "", o.reject(ErrInvalidEmailOTPPage)
	}

	return o.completeRedirectChain(ctx, body)
}

// ProbeCredentials runs Start through the password submission and returns
// the boolean outcome of the redirect-marker validation instead of raising,
// for credential-only testing without continuing the multi-factor chain.
// Errors before the password step (including ErrAlreadyLoggedIn) still
// surface as errors.
func (o *Orchestrator) ProbeCredentials(ctx context.Context) (bool, error) {
	if err := o.begin(ctx); err != nil {
		return false, err
	}
	if err := o.submitUsername(ctx); err != nil {
		return false, err
	}
	body, err := o.submitPassword(ctx)
	if err != nil {
		return false, err
	}
	ok := page.HasRedirectScript(body)
	if ok {
		o.state = StatePasswordEntered
	}
	return ok, nil
}

// completeRedirectChain finishes any second-factor branch: parse the
// redirect URL out of the submission response's inline script, fetch and
// validate the waiting page, then fetch the resource list with the waiting
// page's inputs and URL as referer.
func (o *Orchestrator) completeRedirectChain(ctx context.Context, submissionBody string) (string, error) {
	next, err := o.parser.RedirectURL(submissionBody)
	if err != nil {
		return "", fmt.Errorf("flow: parse redirect script: %w", err)
	}
	if strings.HasPrefix(next, "/") {
		next = o.url(next)
	}

	waitBody, err := o.send(ctx, client.Request{Method: http.MethodGet, URL: next})
	if err != nil {
		return "", err
	}
	waitDoc, err := page.Parse(waitBody)
	if err != nil {
		return "", fmt.Errorf("flow: parse waiting page: %w", err)
	}
	if !page.IsWaitingPage(waitDoc) {
		return "", o.reject(ErrInvalidWaitingPage)
	}
	o.state = StateWaiting

	resBody, err := o.send(ctx, client.Request{
		Method:  http.MethodPost,
		URL:     o.url(pathResourceList),
		Form:    page.FormValues(page.Inputs(waitDoc)),
		Referer: next,
	})
	if err != nil {
		return "", err
	}
	resDoc, err := page.Parse(resBody)
	if err != nil {
		return "", fmt.Errorf("flow: parse resource-list page: %w", err)
	}
	if !page.IsResourceListPage(resDoc) {
		return "", o.reject(ErrInvalidResourceListPage)
	}

	o.state = StateResourceListReached
	o.met.IncrementCompleted()
	o.log.Info("resource list reached")
	return resBody, nil
}

// fragmentInputs extracts the inner markup of selector from doc and returns
// the form fields found inside it.
func (o *Orchestrator) fragmentInputs(doc *goquery.Document, selector string) ([]page.FormField, error) {
	frag := page.Fragment(doc, selector)
	fragDoc, err := page.Parse(frag)
	if err != nil {
		return nil, fmt.Errorf("flow: parse fragment %q: %w", selector, err)
	}
	return page.Inputs(fragDoc), nil
}
