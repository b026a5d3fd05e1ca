package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"carelink/internal/adapters/http/middleware"
	"carelink/internal/application/orchestrators"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), so a
// caregiver note cannot inject markup into the dashboard.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts care-note markdown to sanitized HTML, falling back
// to escaped text when conversion fails.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTMLEscapeString(md)
	}
	return buf.String()
}

// internalError logs the real error and returns a generic JSON failure to
// the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false})
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write_json_failed", "error", err.Error())
	}
}

// handleHealthz handles GET /healthz
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// handleLogin handles POST /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.LoginInput
	if err := strictDecode(r, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false})
		return
	}

	deps := orchestrators.LoginDeps{Gateway: gateways.Records}
	result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
	if errors.Is(err, orchestrators.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	token, err := sessions.Create(result.SysID, result.Name)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	// Convenience cookies the check-in pages read client-side; the session
	// cookie alone carries authentication.
	const oneYear = 365 * 24 * 60 * 60
	http.SetCookie(w, &http.Cookie{Name: "elderlyId", Value: result.SysID, Path: "/", MaxAge: oneYear})
	http.SetCookie(w, &http.Cookie{Name: "elderlyName", Value: result.Name, Path: "/", MaxAge: oneYear})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	http.SetCookie(w, &http.Cookie{Name: "elderlyId", Value: "", Path: "/", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: "elderlyName", Value: "", Path: "/", MaxAge: -1})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleCheckin handles POST /checkin (auth required)
func handleCheckin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	session, _ := middleware.GetSessionFromContext(r.Context())
	input := orchestrators.CheckinInput{SysID: session.SysID, Name: session.Name}
	deps := orchestrators.CheckinDeps{Gateway: gateways.Records}
	if err := orchestrators.ExecuteCheckin(r.Context(), input, deps); err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// elderView is the normalized caregiver-facing projection of an elder record.
type elderView struct {
	SN            string `json:"sn"`
	Name          string `json:"name"`
	Username      string `json:"elderly_username"`
	Condition     string `json:"condition"`
	ConditionHTML string `json:"condition_html"`
	Caregiver     string `json:"caregiver"`
	Paused        bool   `json:"paused"`
}

// handleCaregiverElderly handles GET /api/caregiver/elderly
func handleCaregiverElderly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	elders, err := gateways.Records.ListElders(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	views := make([]elderView, 0, len(elders))
	for _, e := range elders {
		views = append(views, elderView{
			SN:            orNA(e.SerialNumber),
			Name:          orNA(e.Name),
			Username:      orNA(e.Username),
			Condition:     orNA(e.Condition),
			ConditionHTML: renderMarkdown(e.Condition),
			Caregiver:     orNA(e.Caregiver),
			Paused:        e.Paused,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "elderly": views})
}

// checkinView is the normalized caregiver-facing projection of a log entry.
type checkinView struct {
	ElderName string `json:"elderly_name"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

// handleCaregiverCheckins handles GET /api/caregiver/checkins
func handleCaregiverCheckins(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	entries, err := gateways.Records.ListTodaysCheckins(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	views := make([]checkinView, 0, len(entries))
	for _, entry := range entries {
		ts := entry.Timestamp
		if ts == "" {
			ts = entry.CreatedAt
		}
		views = append(views, checkinView{
			ElderName: entry.ElderName,
			Timestamp: ts,
			Status:    entry.Status.Raw,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "checkins": views})
}

// handleTranslations handles GET /api/translations?locale=xx
func handleTranslations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = "en"
	}

	cached, err := gateways.Translations.ListByLocale(r.Context(), locale)
	if err != nil {
		internalError(w, err)
		return
	}

	strings := make(map[string]string, len(cached))
	for _, t := range cached {
		strings[t.Key] = t.Value
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "locale": locale, "strings": strings})
}

func orNA(s string) string {
	if s == "" {
		return "NA"
	}
	return s
}
