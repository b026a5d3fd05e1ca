package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"carelink/internal/adapters/http/middleware"
	"carelink/internal/adapters/servicenow"
	translationStore "carelink/internal/adapters/storage/translation"
)

// Gateways holds the outbound dependencies the handlers need.
type Gateways struct {
	Records      servicenow.Gateway
	Translations translationStore.Store
}

// Global gateways instance (set by NewMux)
var gateways *Gateways

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// loadCSRFKey reads the CSRF secret from CARELINK_CSRF_KEY (hex-encoded, 32
// bytes). In production, the key MUST be set. In development, a random key is
// generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("CARELINK_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("CARELINK_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("CARELINK_ENV") == "production" {
		log.Fatal("CARELINK_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set CARELINK_CSRF_KEY for production.")
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, g *Gateways) http.Handler {
	gateways = g
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("CARELINK_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: SecurityHeaders -> CSRF -> Auth -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
	)
}

// registerRoutes attaches the JSON API routes.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", handleHealthz)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.Handle("/checkin", middleware.RequireAuth(http.HandlerFunc(handleCheckin)))
	mux.HandleFunc("/api/caregiver/elderly", handleCaregiverElderly)
	mux.HandleFunc("/api/caregiver/checkins", handleCaregiverCheckins)
	mux.HandleFunc("/api/translations", handleTranslations)
}
