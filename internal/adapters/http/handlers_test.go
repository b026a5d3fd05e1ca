package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"carelink/internal/adapters/http/middleware"
	"carelink/internal/adapters/servicenow"
	"carelink/internal/domain/checkin"
	"carelink/internal/domain/elder"
	translationDomain "carelink/internal/domain/translation"
)

// --- Fake gateway ---

type fakeGateway struct {
	elders   []elder.Elder
	logs     []checkin.Entry
	appended []servicenow.NewEntry
	failAll  bool
}

func (f *fakeGateway) ListElders(_ context.Context) ([]elder.Elder, error) {
	if f.failAll {
		return nil, errors.New("remote down")
	}
	return f.elders, nil
}

func (f *fakeGateway) ListTodaysCheckins(_ context.Context) ([]checkin.Entry, error) {
	if f.failAll {
		return nil, errors.New("remote down")
	}
	return f.logs, nil
}

func (f *fakeGateway) AppendCheckin(_ context.Context, entry servicenow.NewEntry) error {
	if f.failAll {
		return errors.New("remote down")
	}
	f.appended = append(f.appended, entry)
	return nil
}

func (f *fakeGateway) GetElderByUsername(_ context.Context, username string) (elder.Elder, bool, error) {
	if f.failAll {
		return elder.Elder{}, false, errors.New("remote down")
	}
	for _, e := range f.elders {
		if e.Username == username {
			return e, true, nil
		}
	}
	return elder.Elder{}, false, nil
}

// --- Fake translation store ---

type fakeTranslationStore struct {
	byLocale map[string][]translationDomain.Translation
}

func (f *fakeTranslationStore) Get(_ context.Context, locale, key string) (translationDomain.Translation, error) {
	for _, t := range f.byLocale[locale] {
		if t.Key == key {
			return t, nil
		}
	}
	return translationDomain.Translation{}, errors.New("not found")
}

func (f *fakeTranslationStore) ListByLocale(_ context.Context, locale string) ([]translationDomain.Translation, error) {
	return f.byLocale[locale], nil
}

func (f *fakeTranslationStore) Save(_ context.Context, value translationDomain.Translation) error {
	if f.byLocale == nil {
		f.byLocale = make(map[string][]translationDomain.Translation)
	}
	f.byLocale[value.Locale] = append(f.byLocale[value.Locale], value)
	return nil
}

func (f *fakeTranslationStore) Delete(_ context.Context, id string) error { return nil }

func setupHandlers(t *testing.T, gw *fakeGateway) {
	t.Helper()
	gateways = &Gateways{Records: gw, Translations: &fakeTranslationStore{}}
	sessions = middleware.NewSessionStore()
}

func bcryptHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(hash)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

// TestHandleLogin_Success sets the session and convenience cookies.
func TestHandleLogin_Success(t *testing.T) {
	gw := &fakeGateway{elders: []elder.Elder{
		{SysID: "sys-1", Name: "Alice", Username: "alice01", PasswordHash: bcryptHash(t, "pw")},
	}}
	setupHandlers(t, gw)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"Username":"alice01","Password":"pw"}`))
	rec := httptest.NewRecorder()
	handleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["success"] != true {
		t.Errorf("body = %v", body)
	}

	names := make(map[string]string)
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = c.Value
	}
	if names[middleware.SessionCookieName] == "" {
		t.Error("session cookie missing")
	}
	if names["elderlyId"] != "sys-1" || names["elderlyName"] != "Alice" {
		t.Errorf("convenience cookies = %v", names)
	}
}

// TestHandleLogin_BadCredentials returns 401 without cookies.
func TestHandleLogin_BadCredentials(t *testing.T) {
	gw := &fakeGateway{elders: []elder.Elder{
		{SysID: "sys-1", Name: "Alice", Username: "alice01", PasswordHash: bcryptHash(t, "pw")},
	}}
	setupHandlers(t, gw)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"Username":"alice01","Password":"wrong"}`))
	rec := httptest.NewRecorder()
	handleLogin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("failed login must not set cookies")
	}
}

// TestHandleLogin_GatewayDown returns 500.
func TestHandleLogin_GatewayDown(t *testing.T) {
	setupHandlers(t, &fakeGateway{failAll: true})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"Username":"alice01","Password":"pw"}`))
	rec := httptest.NewRecorder()
	handleLogin(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

// TestHandleCheckin_RequiresSession — no session context means 401 through
// RequireAuth; with a session the entry is appended.
func TestHandleCheckin_RequiresSession(t *testing.T) {
	gw := &fakeGateway{}
	setupHandlers(t, gw)
	handler := middleware.RequireAuth(http.HandlerFunc(handleCheckin))

	req := httptest.NewRequest(http.MethodPost, "/checkin", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", rec.Code)
	}
	if len(gw.appended) != 0 {
		t.Error("unauthenticated request appended an entry")
	}

	token, err := sessions.Create("sys-1", "Alice")
	if err != nil {
		t.Fatal(err)
	}
	req = httptest.NewRequest(http.MethodPost, "/checkin", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	rec = httptest.NewRecorder()
	middleware.Chain(handler, middleware.Auth(sessions)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(gw.appended) != 1 || gw.appended[0].Status != "Checked In" {
		t.Errorf("appended = %+v", gw.appended)
	}
}

// TestHandleCaregiverElderly normalizes records with NA fallbacks and
// renders condition markdown.
func TestHandleCaregiverElderly(t *testing.T) {
	gw := &fakeGateway{elders: []elder.Elder{
		{SysID: "sys-1", Name: "Alice", Username: "alice01", Condition: "Needs **daily** meds", Caregiver: "Mei"},
		{SysID: "sys-2", Name: "Bob"},
	}}
	setupHandlers(t, gw)

	req := httptest.NewRequest(http.MethodGet, "/api/caregiver/elderly", nil)
	rec := httptest.NewRecorder()
	handleCaregiverElderly(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	list, ok := body["elderly"].([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("elderly = %v", body["elderly"])
	}
	first := list[0].(map[string]any)
	if !strings.Contains(first["condition_html"].(string), "<strong>daily</strong>") {
		t.Errorf("condition_html = %v", first["condition_html"])
	}
	second := list[1].(map[string]any)
	if second["caregiver"] != "NA" || second["condition"] != "NA" {
		t.Errorf("NA fallbacks missing: %v", second)
	}
}

// TestHandleCaregiverCheckins returns normalized log entries.
func TestHandleCaregiverCheckins(t *testing.T) {
	gw := &fakeGateway{logs: []checkin.Entry{
		{
			ElderName: "Alice",
			Status:    checkin.ParseStatus("Checked In", []string{"morning"}),
			Timestamp: "2024-01-01 09:15:00",
		},
		{
			ElderName: "Bob",
			Status:    checkin.ParseStatus("missed (morning)", []string{"morning"}),
			CreatedAt: "2024-01-01 12:20:00",
		},
	}}
	setupHandlers(t, gw)

	req := httptest.NewRequest(http.MethodGet, "/api/caregiver/checkins", nil)
	rec := httptest.NewRecorder()
	handleCaregiverCheckins(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	list := body["checkins"].([]any)
	if len(list) != 2 {
		t.Fatalf("checkins = %v", list)
	}
	second := list[1].(map[string]any)
	if second["status"] != "missed (morning)" || second["timestamp"] != "2024-01-01 12:20:00" {
		t.Errorf("entry = %v", second)
	}
}

// TestHandleTranslations serves cached strings for a locale.
func TestHandleTranslations(t *testing.T) {
	setupHandlers(t, &fakeGateway{})
	store := gateways.Translations.(*fakeTranslationStore)
	store.Save(context.Background(), translationDomain.Translation{ID: "1", Locale: "zh", Key: "checkin.button", Value: "签到"})

	req := httptest.NewRequest(http.MethodGet, "/api/translations?locale=zh", nil)
	rec := httptest.NewRecorder()
	handleTranslations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	strs := body["strings"].(map[string]any)
	if strs["checkin.button"] != "签到" {
		t.Errorf("strings = %v", strs)
	}
}

// TestHandleLogout clears cookies even without a valid session.
func TestHandleLogout(t *testing.T) {
	setupHandlers(t, &fakeGateway{})

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	handleLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	cleared := 0
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared++
		}
	}
	if cleared < 3 {
		t.Errorf("cleared %d cookies, want session + 2 convenience", cleared)
	}
}
