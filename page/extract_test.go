package page_test

import (
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/mshiomi/portalauth/page"
)

const loginPageHTML = `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<meta name="csrf-token" content="tok-abc">
	<meta name="fido2-token" content="tok-fido">
</head>
<body>
	<form id="login-form">
		<input type="hidden" name="authenticity_token" value="hidden-1">
		<input type="text" name="account" value="">
		<input type="password" name="secret" value="">
		<input type="checkbox" name="remember" value="1">
		<select name="locale">
			<option value="en">English</option>
			<option value="ja">Japanese</option>
		</select>
	</form>
</body>
</html>`

func mustParse(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := page.Parse(body)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestParse_EmptyBody(t *testing.T) {
	// goquery parses the empty document without error; validators then
	// reject it by marker absence.
	if _, err := page.Parse(""); err != nil {
		t.Fatalf("Parse empty body: %v", err)
	}
}

func TestInputs_KindsAndOrder(t *testing.T) {
	doc := mustParse(t, loginPageHTML)
	fields := page.Inputs(doc)
	if len(fields) != 4 {
		t.Fatalf("got %d fields, want 4", len(fields))
	}

	want := []struct {
		name string
		kind page.FieldKind
	}{
		{"authenticity_token", page.KindOther},
		{"account", page.KindText},
		{"secret", page.KindPassword},
		{"remember", page.KindOther},
	}
	for i, w := range want {
		if fields[i].Name != w.name {
			t.Errorf("field %d: name %q, want %q", i, fields[i].Name, w.name)
		}
		if fields[i].Kind != w.kind {
			t.Errorf("field %d (%s): kind %s, want %s", i, w.name, fields[i].Kind, w.kind)
		}
	}
	if fields[0].Value != "hidden-1" {
		t.Errorf("hidden field value %q, want hidden-1", fields[0].Value)
	}
}

func TestMetas_AllNamed(t *testing.T) {
	doc := mustParse(t, loginPageHTML)
	metas := page.Metas(doc)

	byName := map[string]string{}
	for _, m := range metas {
		byName[m.Name] = m.Content
	}
	if byName["csrf-token"] != "tok-abc" {
		t.Errorf("csrf-token content %q, want tok-abc", byName["csrf-token"])
	}
	if byName["fido2-token"] != "tok-fido" {
		t.Errorf("fido2-token content %q, want tok-fido", byName["fido2-token"])
	}
}

func TestSelectGroups_Options(t *testing.T) {
	doc := mustParse(t, loginPageHTML)
	groups := page.SelectGroups(doc)
	if len(groups) != 1 {
		t.Fatalf("got %d select groups, want 1", len(groups))
	}
	if groups[0].Name != "locale" {
		t.Errorf("group name %q, want locale", groups[0].Name)
	}
	if len(groups[0].Options) != 2 || groups[0].Options[0] != "en" || groups[0].Options[1] != "ja" {
		t.Errorf("options %v, want [en ja]", groups[0].Options)
	}
}

func TestFormValues_SkipsUnnamed(t *testing.T) {
	fields := []page.FormField{
		{Name: "a", Kind: page.KindText, Value: "1"},
		{Name: "", Kind: page.KindOther, Value: "dropped"},
		{Name: "b", Kind: page.KindOther, Value: "2"},
	}
	values := page.FormValues(fields)
	if got := values.Get("a"); got != "1" {
		t.Errorf("a=%q, want 1", got)
	}
	if got := values.Get("b"); got != "2" {
		t.Errorf("b=%q, want 2", got)
	}
	if len(values) != 2 {
		t.Errorf("got %d keys, want 2", len(values))
	}
}

func TestFragment_FirstMatch(t *testing.T) {
	doc := mustParse(t, `<div id="target"><input type="text" name="x"></div><div id="target"><p>dup</p></div>`)
	frag := page.Fragment(doc, "#target")
	if frag == "" {
		t.Fatal("expected a fragment")
	}
	fragDoc := mustParse(t, frag)
	fields := page.Inputs(fragDoc)
	if len(fields) != 1 || fields[0].Name != "x" {
		t.Errorf("fragment fields %v, want single field x", fields)
	}
}

func TestFragment_NoMatch(t *testing.T) {
	doc := mustParse(t, loginPageHTML)
	if frag := page.Fragment(doc, "#does-not-exist"); frag != "" {
		t.Errorf("got %q, want empty fragment", frag)
	}
}
