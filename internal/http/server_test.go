package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"asceta/portal/internal/auth"
	"asceta/portal/internal/config"
	"asceta/portal/internal/crypto"
	"asceta/portal/internal/identity"
	"asceta/portal/internal/model"
	"asceta/portal/internal/repository/memory"
)

type testApp struct {
	*httptest.Server
	store *memory.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Config{
		HTTPAddr:       ":0",
		Env:            config.EnvDevelopment,
		JWTSecret:      "server-test-secret-server-test-secret",
		JWTIssuer:      "test-issuer",
		TokenTTL:       time.Hour,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	store := memory.New()
	svc := identity.NewService(store, codec, crypto.NewHasher(4), auth.NewMemoryDenylist())
	app := httptest.NewServer(NewServer(cfg, store, svc).Router())
	t.Cleanup(app.Close)
	return &testApp{Server: app, store: store}
}

type session struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

func (a *testApp) register(t *testing.T, email, role string) session {
	t.Helper()
	body := map[string]string{
		"email":     email,
		"password":  "secret1",
		"firstName": "Test",
		"lastName":  "User",
	}
	if role != "" {
		body["role"] = role
	}
	resp := doReq(t, http.MethodPost, a.URL+"/auth/register", "", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", email, resp.StatusCode)
	}
	var out session
	decodeBody(t, resp, &out)
	return out
}

func TestLecturerNewsScenario(t *testing.T) {
	app := newTestApp(t)

	registered := app.register(t, "Lecturer.One@example.com", "lecturer")
	if registered.Account.Email != "lecturer.one@example.com" || registered.Account.Role != "lecturer" {
		t.Fatalf("unexpected account: %+v", registered.Account)
	}

	resp := doReq(t, http.MethodPost, app.URL+"/auth/login", "", map[string]string{
		"email": "lecturer.one@example.com", "password": "secret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var login session
	decodeBody(t, resp, &login)

	resp = doReq(t, http.MethodGet, app.URL+"/auth/profile", login.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", resp.StatusCode)
	}
	raw := readBody(t, resp)
	if strings.Contains(strings.ToLower(raw), "password") {
		t.Fatalf("profile leaked password field: %s", raw)
	}

	resp = doReq(t, http.MethodPost, app.URL+"/news", login.Token, map[string]string{
		"title": "Convocation", "content": "Details soon", "status": "published",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create news: expected 201, got %d", resp.StatusCode)
	}
	var news newsResponse
	decodeBody(t, resp, &news)
	if news.AuthorID != registered.Account.ID || news.PublishDate == nil {
		t.Fatalf("unexpected news: %+v", news)
	}

	// Another lecturer may not delete it.
	other := app.register(t, "lecturer.two@example.com", "lecturer")
	resp = doReq(t, http.MethodDelete, app.URL+"/news/"+news.ID, other.Token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	expectError(t, resp, "permission_denied")

	// Students cannot create at all.
	student := app.register(t, "student@example.com", "")
	resp = doReq(t, http.MethodPost, app.URL+"/news", student.Token, map[string]string{"title": "x", "content": "y"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for student create, got %d", resp.StatusCode)
	}

	// An admin may delete anyone's news.
	admin := app.register(t, "admin@example.com", "admin")
	resp = doReq(t, http.MethodDelete, app.URL+"/news/"+news.ID, admin.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected admin delete 204, got %d", resp.StatusCode)
	}
}

func TestAuthFailures(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "known@example.com", "")

	resp := doReq(t, http.MethodGet, app.URL+"/auth/profile", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	expectError(t, resp, "invalid_token")

	resp = doReq(t, http.MethodGet, app.URL+"/auth/profile", "not-a-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	wrong := doReq(t, http.MethodPost, app.URL+"/auth/login", "", map[string]string{"email": "known@example.com", "password": "nope-nope"})
	unknown := doReq(t, http.MethodPost, app.URL+"/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "secret1"})
	if wrong.StatusCode != http.StatusUnauthorized || unknown.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401s, got %d and %d", wrong.StatusCode, unknown.StatusCode)
	}
	if a, b := readBody(t, wrong), readBody(t, unknown); a != b {
		t.Fatalf("expected identical bodies, got %q and %q", a, b)
	}

	resp = doReq(t, http.MethodPost, app.URL+"/auth/register", "", map[string]string{
		"email": "KNOWN@example.com", "password": "secret1", "firstName": "A", "lastName": "B",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate, got %d", resp.StatusCode)
	}
	expectError(t, resp, "user_already_exists")

	resp = doReq(t, http.MethodPost, app.URL+"/auth/register", "", map[string]string{
		"email": "bad", "password": "1", "firstName": "A", "lastName": "B",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid input, got %d", resp.StatusCode)
	}
	var body errorResponse
	decodeBody(t, resp, &body)
	if body.Fields["email"] == "" || body.Fields["password"] == "" {
		t.Fatalf("expected field errors, got %+v", body)
	}
}

func TestLogoutAndDeactivate(t *testing.T) {
	app := newTestApp(t)
	first := app.register(t, "first@example.com", "")

	resp := doReq(t, http.MethodPost, app.URL+"/auth/logout", first.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", resp.StatusCode)
	}
	resp = doReq(t, http.MethodGet, app.URL+"/auth/profile", first.Token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected revoked token rejected, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	second := app.register(t, "second@example.com", "")
	admin := app.register(t, "root@example.com", "admin")

	resp = doReq(t, http.MethodPost, app.URL+"/users/"+admin.Account.ID+"/deactivate", second.Token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected student deactivate 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodPost, app.URL+"/users/"+second.Account.ID+"/deactivate", admin.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected deactivate 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodGet, app.URL+"/auth/profile", second.Token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected deactivated account rejected, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestProfileUpdate(t *testing.T) {
	app := newTestApp(t)
	user := app.register(t, "edit@example.com", "")

	resp := doReq(t, http.MethodPut, app.URL+"/auth/profile", user.Token, map[string]string{"department": "Agric Engineering"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var account accountResponse
	decodeBody(t, resp, &account)
	if account.Department == nil || *account.Department != "Agric Engineering" {
		t.Fatalf("unexpected account: %+v", account)
	}

	resp = doReq(t, http.MethodPut, app.URL+"/auth/profile", user.Token, map[string]string{"role": "admin"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected role change rejected, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAdmissionApply(t *testing.T) {
	app := newTestApp(t)
	resp := doReq(t, http.MethodPost, app.URL+"/admission/apply", "", map[string]string{
		"email": "applicant@example.com", "password": "secret1", "firstName": "A", "lastName": "B",
		"examType": "jamb",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without jambRegNo, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodPost, app.URL+"/admission/apply", "", map[string]string{
		"email": "applicant@example.com", "password": "secret1", "firstName": "A", "lastName": "B",
		"examType": "jamb", "jambRegNo": "JAMB-001",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var out session
	decodeBody(t, resp, &out)
	if out.Token == "" || out.Account.Role != "student" || out.Account.JambRegNo == nil {
		t.Fatalf("unexpected applicant: %+v", out)
	}
}

func TestNewsVisibility(t *testing.T) {
	app := newTestApp(t)
	lecturer := app.register(t, "writer@example.com", "lecturer")

	var draft newsResponse
	resp := doReq(t, http.MethodPost, app.URL+"/news", lecturer.Token, map[string]string{"title": "Draft", "content": "wip"})
	decodeBody(t, resp, &draft)
	if draft.Status != "draft" || draft.PublishDate != nil {
		t.Fatalf("expected unpublished draft, got %+v", draft)
	}
	resp = doReq(t, http.MethodPost, app.URL+"/news", lecturer.Token, map[string]string{"title": "Live", "content": "out", "status": "published"})
	resp.Body.Close()

	var list newsListResponse
	resp = doReq(t, http.MethodGet, app.URL+"/news?status=draft", "", nil)
	decodeBody(t, resp, &list)
	if list.Pagination.Total != 1 || list.News[0].Title != "Live" {
		t.Fatalf("anonymous list should only see published, got %+v", list)
	}

	resp = doReq(t, http.MethodGet, app.URL+"/news", lecturer.Token, nil)
	decodeBody(t, resp, &list)
	if list.Pagination.Total != 2 || list.Pagination.Limit != 10 || list.Pagination.Pages != 1 {
		t.Fatalf("unexpected pagination: %+v", list.Pagination)
	}

	resp = doReq(t, http.MethodGet, app.URL+"/news/"+draft.ID, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected draft hidden from anonymous, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodGet, app.URL+"/news?limit=500", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected limit rejected, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodPut, app.URL+"/news/"+draft.ID, lecturer.Token, map[string]string{"status": "published"})
	var published newsResponse
	decodeBody(t, resp, &published)
	if published.PublishDate == nil {
		t.Fatalf("expected publish date on first publish")
	}
}

func TestEventsOrderedAndOwned(t *testing.T) {
	app := newTestApp(t)
	owner := app.register(t, "events@example.com", "lecturer")
	other := app.register(t, "other@example.com", "lecturer")

	for _, date := range []string{"2026-12-01T10:00:00Z", "2026-11-01T10:00:00Z"} {
		resp := doReq(t, http.MethodPost, app.URL+"/events", owner.Token, map[string]string{
			"title": "Event " + date, "description": "d", "eventDate": date,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create event: expected 201, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	}
	resp := doReq(t, http.MethodPost, app.URL+"/events", owner.Token, map[string]string{
		"title": "Bad", "description": "d", "eventDate": "tomorrow",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad date rejected, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	var list eventListResponse
	decodeBody(t, doReq(t, http.MethodGet, app.URL+"/events", "", nil), &list)
	if len(list.Events) != 2 || !list.Events[0].EventDate.Before(list.Events[1].EventDate) {
		t.Fatalf("expected ascending dates, got %+v", list.Events)
	}

	resp = doReq(t, http.MethodPut, app.URL+"/events/"+list.Events[0].ID, other.Token, map[string]string{"title": "Mine now"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPages(t *testing.T) {
	app := newTestApp(t)
	lecturer := app.register(t, "pages@example.com", "lecturer")
	admin := app.register(t, "boss@example.com", "admin")

	resp := doReq(t, http.MethodPost, app.URL+"/pages", lecturer.Token, map[string]string{"slug": "About Us", "title": "About", "content": "c"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad slug rejected, got %d", resp.StatusCode)
	}
	var body errorResponse
	decodeBody(t, resp, &body)
	if body.Fields["slug"] != "slug" {
		t.Fatalf("expected slug field error, got %+v", body)
	}

	resp = doReq(t, http.MethodPost, app.URL+"/pages", lecturer.Token, map[string]string{"slug": "about-us", "title": "About", "content": "c"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var page pageResponse
	decodeBody(t, resp, &page)

	resp = doReq(t, http.MethodPost, app.URL+"/pages", lecturer.Token, map[string]string{"slug": "about-us", "title": "Again", "content": "c"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected duplicate slug 400, got %d", resp.StatusCode)
	}
	expectError(t, resp, "slug_already_exists")

	resp = doReq(t, http.MethodGet, app.URL+"/pages/about-us", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected public page, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodDelete, app.URL+"/pages/"+page.ID, lecturer.Token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected lecturer delete 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodDelete, app.URL+"/pages/"+page.ID, admin.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected admin delete 204, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAccaddRegisterIsIdempotent(t *testing.T) {
	app := newTestApp(t)
	body := map[string]string{"externalUserId": "ext-1", "email": "Diploma@example.com", "fullName": "Dip Loma"}

	resp := doReq(t, http.MethodPost, app.URL+"/accadd/auth/register", "", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created accaddRegisterResponse
	decodeBody(t, resp, &created)
	if !created.User.IsEmailVerified || created.User.Email != "diploma@example.com" {
		t.Fatalf("unexpected user: %+v", created.User)
	}

	resp = doReq(t, http.MethodPost, app.URL+"/accadd/auth/register", "", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on repeat, got %d", resp.StatusCode)
	}
	var repeat accaddRegisterResponse
	decodeBody(t, resp, &repeat)
	if repeat.User.ID != created.User.ID {
		t.Fatalf("expected same user, got %s", repeat.User.ID)
	}

	resp = doReq(t, http.MethodGet, app.URL+"/accadd/auth/status/diploma@example.com", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	resp = doReq(t, http.MethodGet, app.URL+"/accadd/auth/status/nobody@example.com", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestHealthAndUnavailableStore(t *testing.T) {
	app := newTestApp(t)
	resp := doReq(t, http.MethodGet, app.URL+"/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	app.store.SetUnavailable(true)
	resp = doReq(t, http.MethodGet, app.URL+"/health", "", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	var health healthResponse
	decodeBody(t, resp, &health)
	if health.Status != "degraded" {
		t.Fatalf("expected degraded, got %+v", health)
	}

	resp = doReq(t, http.MethodPost, app.URL+"/auth/login", "", map[string]string{"email": "a@example.com", "password": "secret1"})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected login 503, got %d", resp.StatusCode)
	}
	expectError(t, resp, "service_unavailable")
}

func TestRoleChangeAppliesToExistingToken(t *testing.T) {
	app := newTestApp(t)
	user := app.register(t, "promoted@example.com", "")
	news := map[string]string{"title": "Notice", "content": "c"}

	resp := doReq(t, http.MethodPost, app.URL+"/news", user.Token, news)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected student create 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	if err := app.store.SetRole(user.Account.ID, model.RoleLecturer); err != nil {
		t.Fatalf("set role: %v", err)
	}
	resp = doReq(t, http.MethodPost, app.URL+"/news", user.Token, news)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected promoted create 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	if err := app.store.SetRole(user.Account.ID, model.RoleStudent); err != nil {
		t.Fatalf("set role: %v", err)
	}
	resp = doReq(t, http.MethodPost, app.URL+"/news", user.Token, news)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected demoted create 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMalformedInputRejected(t *testing.T) {
	app := newTestApp(t)
	lecturer := app.register(t, "input@example.com", "lecturer")
	admin := app.register(t, "input-admin@example.com", "admin")

	notFound := []struct {
		method, path, token, code string
	}{
		{http.MethodGet, "/news/abc", "", "news_not_found"},
		{http.MethodPut, "/news/abc", lecturer.Token, "news_not_found"},
		{http.MethodGet, "/events/abc", "", "event_not_found"},
		{http.MethodDelete, "/events/abc", lecturer.Token, "event_not_found"},
		{http.MethodPut, "/pages/abc", lecturer.Token, "page_not_found"},
		{http.MethodDelete, "/pages/abc", admin.Token, "page_not_found"},
		{http.MethodPost, "/users/abc/deactivate", admin.Token, "user_not_found"},
	}
	for _, tc := range notFound {
		resp := doReq(t, tc.method, app.URL+tc.path, tc.token, map[string]string{"title": "t"})
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", tc.method, tc.path, resp.StatusCode)
		}
		expectError(t, resp, tc.code)
	}

	for _, path := range []string{"/news?page=9223372036854775807&limit=100", "/events?page=9223372036854775807"} {
		resp := doReq(t, http.MethodGet, app.URL+path, "", nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, resp.StatusCode)
		}
		expectError(t, resp, "validation_failed")
	}

	resp := doReq(t, http.MethodPost, app.URL+"/auth/register", "", map[string]string{
		"email": "long@example.com", "password": strings.Repeat("a", 80), "firstName": "A", "lastName": "B",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected overlong password 400, got %d", resp.StatusCode)
	}
	expectError(t, resp, "validation_failed")

	blank := []struct {
		method, path, field string
		body                map[string]string
	}{
		{http.MethodPost, "/news", "title", map[string]string{"title": "   ", "content": "c"}},
		{http.MethodPost, "/news", "content", map[string]string{"title": "t", "content": " \t "}},
		{http.MethodPost, "/events", "description", map[string]string{"title": "t", "description": "  ", "eventDate": "2026-12-01T10:00:00Z"}},
		{http.MethodPost, "/pages", "title", map[string]string{"slug": "blank", "title": "  ", "content": "c"}},
	}
	for _, tc := range blank {
		resp := doReq(t, tc.method, app.URL+tc.path, lecturer.Token, tc.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s %s: expected 400, got %d", tc.method, tc.path, resp.StatusCode)
		}
		var body errorResponse
		decodeBody(t, resp, &body)
		if body.Fields[tc.field] != "notblank" {
			t.Fatalf("%s: expected notblank on %s, got %+v", tc.path, tc.field, body)
		}
	}

	var news newsResponse
	decodeBody(t, doReq(t, http.MethodPost, app.URL+"/news", lecturer.Token, map[string]string{"title": "Kept", "content": "c"}), &news)
	resp = doReq(t, http.MethodPut, app.URL+"/news/"+news.ID, lecturer.Token, map[string]string{"title": "   "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected blank title update 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	var kept newsResponse
	decodeBody(t, doReq(t, http.MethodGet, app.URL+"/news/"+news.ID, lecturer.Token, nil), &kept)
	if kept.Title != "Kept" {
		t.Fatalf("expected title unchanged, got %q", kept.Title)
	}
}

func TestMetricsExposed(t *testing.T) {
	app := newTestApp(t)
	doReq(t, http.MethodGet, app.URL+"/health", "", nil).Body.Close()
	resp := doReq(t, http.MethodGet, app.URL+"/metrics", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if raw := readBody(t, resp); !strings.Contains(raw, "portal_http_requests_total") {
		t.Fatalf("expected request counter in exposition")
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"Bearer abc":      "abc",
		"bearer abc ":     "abc",
		"Basic abc":       "",
		"Bearer":          "",
		"Token abc def":   "",
		"BEARER  spaced ": "spaced",
	}
	for header, want := range cases {
		if got := bearerToken(header); got != want {
			t.Fatalf("bearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func doReq(t *testing.T, method, url, token string, body interface{}) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode error: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http error: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	return string(raw)
}

func expectError(t *testing.T, resp *http.Response, code string) {
	t.Helper()
	var body errorResponse
	decodeBody(t, resp, &body)
	if body.Error != code {
		t.Fatalf("expected error %q, got %q", code, body.Error)
	}
}
