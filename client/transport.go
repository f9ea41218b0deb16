package client

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	utls "github.com/refraction-networking/utls"

	"github.com/mshiomi/portalauth/config"
)

// buildTransport creates an *http.Transport sized for one sequential session
// against a single origin. When cfg.ImpersonateTLS is set, TLS handshakes go
// through the uTLS Chrome-parroting dialer instead of crypto/tls.
func buildTransport(cfg *config.Config) (*http.Transport, error) {
	t := &http.Transport{
		// Keep-alives are on by default; making this explicit documents
		// intent: the whole flow reuses one connection to the portal.
		DisableKeepAlives: false,

		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,

		// Evict idle connections after 90 s so we do not hold dead sockets
		// across a long email-OTP wait.
		IdleConnTimeout: 90 * time.Second,

		// TLS handshakes that stall for more than 10 s are aborted.
		TLSHandshakeTimeout: 10 * time.Second,

		ExpectContinueTimeout: 1 * time.Second,

		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, // #nosec G402 – test portals only
		},
	}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("client: parse proxy URL %q: %w", cfg.ProxyURL, err)
		}
		t.Proxy = http.ProxyURL(proxyURL)
	}

	if cfg.ImpersonateTLS {
		// The fingerprinted dialer negotiates HTTP/1.1 only, so the
		// transport must not attempt an h2 upgrade on top of it.
		t.DialTLSContext = FingerprintedDialer(utls.HelloChrome_Auto, cfg.InsecureSkipVerify)
		t.ForceAttemptHTTP2 = false
	}

	return t, nil
}
