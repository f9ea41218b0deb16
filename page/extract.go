package page

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// FieldKind classifies a form input by its type attribute.
type FieldKind int

const (
	// KindOther covers every input that is not explicitly text or password
	// (hidden tokens, submit buttons, checkboxes, …).
	KindOther FieldKind = iota
	// KindText is an input with type="text".
	KindText
	// KindPassword is an input with type="password".
	KindPassword
)

// String returns the kind's type-attribute spelling.
func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPassword:
		return "password"
	default:
		return "other"
	}
}

// FormField is one input element of a portal form. Two fields are equal when
// name, kind and value all match.
type FormField struct {
	Name  string
	Kind  FieldKind
	Value string
}

// MetaToken is one meta element of a portal page. The anti-forgery tokens
// the flow propagates travel as metas.
type MetaToken struct {
	Name    string
	Content string
}

// SelectGroup is one select element with its option values in document
// order. The described flow never submits a select, but the extractor
// reports them so callers can inspect complete forms.
type SelectGroup struct {
	Name    string
	Options []string
}

// Inputs returns a FormField for every input element of doc, in document
// order. The kind is derived from the type attribute; missing name or value
// attributes become empty strings.
func Inputs(doc *goquery.Document) []FormField {
	var fields []FormField
	doc.Find("input").Each(func(_ int, s *goquery.Selection) {
		kind := KindOther
		switch s.AttrOr("type", "") {
		case "text":
			kind = KindText
		case "password":
			kind = KindPassword
		}
		fields = append(fields, FormField{
			Name:  s.AttrOr("name", ""),
			Kind:  kind,
			Value: s.AttrOr("value", ""),
		})
	})
	return fields
}

// Metas returns a MetaToken for every meta element of doc, in document
// order. Missing attributes become empty strings.
func Metas(doc *goquery.Document) []MetaToken {
	var metas []MetaToken
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		metas = append(metas, MetaToken{
			Name:    s.AttrOr("name", ""),
			Content: s.AttrOr("content", ""),
		})
	})
	return metas
}

// SelectGroups returns a SelectGroup for every select element of doc, in
// document order.
func SelectGroups(doc *goquery.Document) []SelectGroup {
	var groups []SelectGroup
	doc.Find("select").Each(func(_ int, s *goquery.Selection) {
		g := SelectGroup{Name: s.AttrOr("name", "")}
		s.Find("option").Each(func(_ int, o *goquery.Selection) {
			g.Options = append(g.Options, o.AttrOr("value", ""))
		})
		groups = append(groups, g)
	})
	return groups
}

// FormValues converts extracted fields into a URL-encoded form body.
// Unnamed fields are dropped; the portal ignores them anyway.
func FormValues(fields []FormField) url.Values {
	v := url.Values{}
	for _, f := range fields {
		if f.Name == "" {
			continue
		}
		v.Add(f.Name, f.Value)
	}
	return v
}
