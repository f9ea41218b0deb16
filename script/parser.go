// Package script extracts the redirect URL the portal embeds in inline
// script responses.
//
// Accepted submissions are not answered with an HTTP redirect: the portal
// returns a small script that assigns the next URL to window.location and
// lets the browser navigate. This package evaluates that payload in-process
// with the otto pure-Go JavaScript interpreter, requiring no headless
// browser, and reads the assigned location back out of a stub window.
//
// A quoted-segment fallback handles payloads that are not executable on
// their own (truncated fragments); callers are expected to have validated
// the response beforehand, so a payload with no quoted URL at all is a
// contract violation and surfaces as an error.
package script

import (
	"fmt"
	"strings"
	"sync"

	"github.com/robertkrimen/otto"
)

// Parser evaluates portal redirect scripts. It is safe for concurrent use:
// a mutex serialises access to the shared VM, which is reset between
// payloads so one attempt's location never leaks into the next.
type Parser struct {
	vm *otto.Otto
	mu sync.Mutex
}

// NewParser creates a Parser with a browser-stub environment pre-loaded.
// The stub defines window, window.location and document so the portal's
// redirect snippets run without ReferenceError.
func NewParser() (*Parser, error) {
	vm := otto.New()

	bootstrap := `
var window = this;
window.location = { href: "" };
var document = { cookie: "" };
`
	if _, err := vm.Run(bootstrap); err != nil {
		return nil, fmt.Errorf("script: bootstrap JS globals: %w", err)
	}
	return &Parser{vm: vm}, nil
}

// RedirectURL returns the URL the payload navigates to. The payload is
// evaluated in the stub environment and the value assigned to
// window.location (or window.location.href) is returned. If evaluation
// yields no location, the second double-quoted segment of the raw payload
// is returned instead; fewer than two quoted segments is an error.
func (p *Parser) RedirectURL(payload string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Reset the stub location so a previous payload's URL cannot satisfy
	// this call.
	if _, err := p.vm.Run(`window.location = { href: "" };`); err != nil {
		return "", fmt.Errorf("script: reset window.location: %w", err)
	}

	if _, err := p.vm.Run(payload); err != nil {
		return quotedSegment(payload)
	}

	val, err := p.vm.Run(`
(function () {
	var loc = window.location;
	if (typeof loc === "string") { return loc; }
	if (loc && typeof loc.href === "string") { return loc.href; }
	return "";
})()`)
	if err != nil {
		return quotedSegment(payload)
	}
	u, err := val.ToString()
	if err != nil || u == "" || u == "undefined" {
		return quotedSegment(payload)
	}
	return u, nil
}

// quotedSegment splits payload on the double-quote character and returns the
// second element, the position the portal's redirect snippets keep the URL
// in.
func quotedSegment(payload string) (string, error) {
	parts := strings.Split(payload, `"`)
	if len(parts) < 3 {
		return "", fmt.Errorf("script: no quoted redirect URL in payload")
	}
	return parts[1], nil
}
