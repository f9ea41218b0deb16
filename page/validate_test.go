package page_test

import (
	"testing"

	"github.com/mshiomi/portalauth/page"
)

func TestIsUsernamePage_English(t *testing.T) {
	doc := mustParse(t, `<html><body><p>Please set your e-mail address for password reissue.</p></body></html>`)
	if !page.IsUsernamePage(doc) {
		t.Error("English marker not recognised")
	}
}

func TestIsUsernamePage_Japanese(t *testing.T) {
	doc := mustParse(t, `<html><body><p>パスワード再発行用メールアドレスを設定してください。</p></body></html>`)
	if !page.IsUsernamePage(doc) {
		t.Error("Japanese marker not recognised")
	}
}

func TestIsUsernamePage_Absent(t *testing.T) {
	doc := mustParse(t, `<html><body><p>Welcome</p></body></html>`)
	if page.IsUsernamePage(doc) {
		t.Error("marker-less page accepted")
	}
}

func TestIsMethodSelectionPage(t *testing.T) {
	en := mustParse(t, `<html><body>Please select an authentication method to continue.</body></html>`)
	if !page.IsMethodSelectionPage(en) {
		t.Error("English marker not recognised")
	}
	ja := mustParse(t, `<html><body>認証方法を選択してください</body></html>`)
	if !page.IsMethodSelectionPage(ja) {
		t.Error("Japanese marker not recognised")
	}
	other := mustParse(t, `<html><body>何か別のページ</body></html>`)
	if page.IsMethodSelectionPage(other) {
		t.Error("marker-less page accepted")
	}
}

func TestIsWaitingPage(t *testing.T) {
	en := mustParse(t, `<html><body>Please wait for a moment...</body></html>`)
	if !page.IsWaitingPage(en) {
		t.Error("English marker not recognised")
	}
	ja := mustParse(t, `<html><body>しばらくお待ちください</body></html>`)
	if !page.IsWaitingPage(ja) {
		t.Error("Japanese marker not recognised")
	}
}

func TestIsResourceListPage(t *testing.T) {
	en := mustParse(t, `<html><body><nav>Account settings</nav></body></html>`)
	if !page.IsResourceListPage(en) {
		t.Error("English marker not recognised")
	}
	ja := mustParse(t, `<html><body><nav>アカウント設定</nav></body></html>`)
	if !page.IsResourceListPage(ja) {
		t.Error("Japanese marker not recognised")
	}
	other := mustParse(t, `<html><body>ログイン</body></html>`)
	if page.IsResourceListPage(other) {
		t.Error("marker-less page accepted")
	}
}

func TestAlreadyAuthenticated_MatchesResourceList(t *testing.T) {
	doc := mustParse(t, `<html><body><nav>アカウント</nav></body></html>`)
	if !page.AlreadyAuthenticated(doc) {
		t.Error("authenticated landing page not recognised")
	}
}

func TestHasRedirectScript(t *testing.T) {
	body := `<script>window.location="https://portal/next";</script>`
	if !page.HasRedirectScript(body) {
		t.Error("redirect marker not recognised")
	}
	if page.HasRedirectScript(`<html><body>no script here</body></html>`) {
		t.Error("marker-less body accepted")
	}
}

func TestIsEmailDispatched(t *testing.T) {
	if !page.IsEmailDispatched(`{"result":"sending succeeded"}`) {
		t.Error("dispatch marker not recognised")
	}
	if page.IsEmailDispatched(`{"result":"limit exceeded"}`) {
		t.Error("failure body accepted")
	}
}
