package client

import "net/http"

// headerEntry stores a single header key/value pair with its original casing.
type headerEntry struct {
	key   string
	value string
}

// browserHeaders is an ordered header set that preserves the exact
// capitalisation and insertion order of HTTP headers.
//
// Unlike http.Header (a map, therefore unordered), entries live in a slice
// so they are written to the wire in the order a real browser sends them.
// Portals fronted by fingerprinting filters inspect both the casing (e.g.
// "sec-ch-ua-platform") and the ordering of headers, so the base browser
// header set must not be normalised by net/http.
//
// browserHeaders is not safe for concurrent mutation; the Client builds its
// set once at construction and only reads it afterwards.
type browserHeaders struct {
	entries []headerEntry
}

// Set replaces the first entry whose key matches key (case-insensitively)
// and removes any subsequent duplicates. If no entry with that key exists,
// the pair is appended.
func (h *browserHeaders) Set(key, value string) {
	canonKey := http.CanonicalHeaderKey(key)
	replaced := false
	out := h.entries[:0]
	for _, e := range h.entries {
		if http.CanonicalHeaderKey(e.key) == canonKey {
			if !replaced {
				out = append(out, headerEntry{key: key, value: value})
				replaced = true
			}
			// Skip duplicates.
		} else {
			out = append(out, e)
		}
	}
	if !replaced {
		out = append(out, headerEntry{key: key, value: value})
	}
	h.entries = out
}

// applyTo writes every entry into req.Header, preserving the exact key
// casing and insertion order. net/http's http.Header is keyed by
// CanonicalHeaderKey, so entries are written directly into the underlying
// map to keep the original capitalisation on the wire. Existing headers are
// replaced.
func (h *browserHeaders) applyTo(req *http.Request) {
	req.Header = make(http.Header, len(h.entries))
	for _, e := range h.entries {
		req.Header[e.key] = append(req.Header[e.key], e.value)
	}
}

// defaultBrowserHeaders returns the standard Chrome navigation headers in
// the exact order and casing a real Windows Chrome client sends them.
func defaultBrowserHeaders() *browserHeaders {
	h := &browserHeaders{}
	add := func(k, v string) { h.entries = append(h.entries, headerEntry{key: k, value: v}) }
	add("sec-ch-ua", `"Google Chrome";v="131", "Chromium";v="131", "Not_A Brand";v="24"`)
	add("sec-ch-ua-mobile", "?0")
	add("sec-ch-ua-platform", `"Windows"`)
	add("Upgrade-Insecure-Requests", "1")
	add("User-Agent", chromeUserAgent)
	add("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7")
	add("sec-fetch-site", "same-origin")
	add("sec-fetch-mode", "navigate")
	add("sec-fetch-dest", "document")
	add("accept-language", "ja,en-US;q=0.9,en;q=0.8")
	return h
}
