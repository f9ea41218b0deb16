package client

import (
	"context"
	"fmt"
	"net"

	utls "github.com/refraction-networking/utls"
)

// FingerprintedDialer returns a function compatible with
// http.Transport.DialTLSContext that performs the TLS handshake with the
// uTLS library, impersonating the browser fingerprint described by helloID.
//
// The returned dialer applies the full ClientHelloSpec associated with
// helloID, including GREASE values, cipher-suite ordering, and extension
// ordering, so the handshake matches a real Chrome browser. The ALPN list is
// restricted to http/1.1 because the caller's http.Transport speaks HTTP/1.1
// over custom TLS connections.
//
// Supported Chrome HelloIDs (use the utls package constants):
//
//	utls.HelloChrome_120  – parrots Google Chrome 120
//	utls.HelloChrome_131  – parrots Google Chrome 131
//	utls.HelloChrome_Auto – parrots the latest supported Chrome version
func FingerprintedDialer(helloID utls.ClientHelloID, insecureSkipVerify bool) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("utls dialer: parse addr %q: %w", addr, err)
		}

		// Establish the raw TCP connection, honouring the context deadline
		// and cancellation.
		var d net.Dialer
		rawConn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, fmt.Errorf("utls dialer: dial %s: %w", addr, err)
		}

		uCfg := &utls.Config{
			ServerName:         host,
			InsecureSkipVerify: insecureSkipVerify, // #nosec G402 – caller-controlled
			NextProtos:         []string{"http/1.1"},
		}
		uConn := utls.UClient(rawConn, uCfg, utls.HelloCustom)

		// UTLSIdToSpec returns the full parrot spec – GREASE placeholders,
		// exact cipher-suite list, and the browser's extension ordering – so
		// nothing needs to be built by hand. Only the ALPN extension is
		// edited, to drop h2.
		spec, err := utls.UTLSIdToSpec(helloID)
		if err != nil {
			_ = rawConn.Close()
			return nil, fmt.Errorf("utls dialer: spec for %s: %w", helloID.Str(), err)
		}
		for i, ext := range spec.Extensions {
			if alpn, ok := ext.(*utls.ALPNExtension); ok {
				alpn.AlpnProtocols = []string{"http/1.1"}
				spec.Extensions[i] = alpn
			}
		}
		if err := uConn.ApplyPreset(&spec); err != nil {
			_ = rawConn.Close()
			return nil, fmt.Errorf("utls dialer: apply preset for %s: %w", helloID.Str(), err)
		}

		if err := uConn.HandshakeContext(ctx); err != nil {
			_ = uConn.Close()
			return nil, fmt.Errorf("utls dialer: TLS handshake with %s: %w", addr, err)
		}

		return uConn, nil
	}
}
