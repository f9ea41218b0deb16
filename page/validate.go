package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The portal serves every page in English or Japanese depending on the
// session locale, so each predicate accepts either marker. Validation is
// marker-substring-only over the text of the body element: a page carrying
// only the Japanese marker validates exactly like its English counterpart.
const (
	markerUsernameEN = "set your e-mail address for password reissue"
	markerUsernameJA = "パスワード再発行用メールアドレス"

	markerMethodEN = "select an authentication method"
	markerMethodJA = "認証方法を選択してください"

	markerWaitingEN = "wait for a moment"
	markerWaitingJA = "しばらくお待ちください"

	markerResourceEN = "Account"
	markerResourceJA = "アカウント"

	// markerRedirect is the literal the portal embeds in the inline script
	// of every accepted submission response.
	markerRedirect = "window.location"

	// markerEmailSent is echoed by the email-dispatch endpoint.
	markerEmailSent = "succeeded"
)

// contentText returns the text of the body's content region, or an empty
// string when the document has none.
func contentText(doc *goquery.Document) string {
	return doc.Find("body").Text()
}

func containsEither(doc *goquery.Document, en, ja string) bool {
	t := contentText(doc)
	return strings.Contains(t, en) || strings.Contains(t, ja)
}

// IsUsernamePage reports whether doc is the initial username page. The
// portal shows the password-reissue notice there and nowhere else.
func IsUsernamePage(doc *goquery.Document) bool {
	return containsEither(doc, markerUsernameEN, markerUsernameJA)
}

// IsMethodSelectionPage reports whether doc is the second-factor method
// selection page.
func IsMethodSelectionPage(doc *goquery.Document) bool {
	return containsEither(doc, markerMethodEN, markerMethodJA)
}

// IsWaitingPage reports whether doc is the interstitial waiting page the
// portal serves between factor verification and the resource list.
func IsWaitingPage(doc *goquery.Document) bool {
	return containsEither(doc, markerWaitingEN, markerWaitingJA)
}

// IsResourceListPage reports whether doc is the resource-list page, the
// terminal page of a successful login.
func IsResourceListPage(doc *goquery.Document) bool {
	return containsEither(doc, markerResourceEN, markerResourceJA)
}

// AlreadyAuthenticated reports whether doc shows an already-established
// session. The portal redirects authenticated sessions straight to the
// resource list, so this reuses the resource-list markers. Callers must
// check it on the very first fetched page, before the username-page check.
func AlreadyAuthenticated(doc *goquery.Document) bool {
	return IsResourceListPage(doc)
}

// HasRedirectScript reports whether a submission response carries the
// browser-redirect script the portal returns on acceptance. Absence means
// the submission was rejected.
func HasRedirectScript(body string) bool {
	return strings.Contains(body, markerRedirect)
}

// IsEmailDispatched reports whether the email-dispatch response confirms the
// one-time password was sent.
func IsEmailDispatched(body string) bool {
	return strings.Contains(body, markerEmailSent)
}
