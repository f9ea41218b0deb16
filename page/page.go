// Package page handles the markup side of the login flow: parsing portal
// responses into selector-queryable documents, extracting form fields and
// meta tokens, injecting credential values, propagating anti-forgery tokens,
// and validating that each response is the page the flow expects.
package page

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrParse indicates a response body that could not be parsed into a
// document tree. Compare with errors.Is.
var ErrParse = errors.New("page: malformed document")

// Parse builds a selector-queryable document from a response body.
func Parse(body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return doc, nil
}

// Fragment returns the inner markup of the first element matching selector,
// or an empty string if no element matches.
func Fragment(doc *goquery.Document, selector string) string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	h, err := sel.Html()
	if err != nil {
		return ""
	}
	return h
}
