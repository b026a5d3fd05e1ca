package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	"carelink/internal/adapters/clock"
	emailPkg "carelink/internal/adapters/email"
	web "carelink/internal/adapters/http"
	"carelink/internal/adapters/servicenow"
	"carelink/internal/adapters/storage"
	translationStorePkg "carelink/internal/adapters/storage/translation"
	"carelink/internal/application/orchestrators"
	"carelink/internal/config"
	"carelink/internal/domain/escalation"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Scheduler and session-window configuration
	cfg, err := config.Load(os.Getenv("CARELINK_SESSIONS_FILE"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	registry, err := cfg.Registry()
	if err != nil {
		log.Fatalf("invalid session windows: %v", err)
	}

	// Local cache database (UI-string translations only; all person and
	// check-in data lives in the remote record store)
	dbPath := envOrDefault("CARELINK_DB", "carelink.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	translationStore := translationStorePkg.NewSQLiteStore(db)
	seedDeps := orchestrators.SeedTranslationsDeps{TranslationStore: translationStore}
	if err := orchestrators.ExecuteSeedTranslations(context.Background(), seedDeps); err != nil {
		log.Fatalf("failed to seed translations: %v", err)
	}

	// Remote record store gateway
	instance := os.Getenv("CARELINK_SN_INSTANCE")
	if instance == "" {
		log.Fatal("CARELINK_SN_INSTANCE is required")
	}
	gateway := servicenow.NewClient(
		instance,
		os.Getenv("CARELINK_SN_USER"),
		os.Getenv("CARELINK_SN_PASS"),
		registry.Names(),
	)

	// Caregiver alert sender
	var alerts emailPkg.Sender
	alertFrom := envOrDefault("CARELINK_ALERT_FROM", "Carelink <alerts@carelink.sg>")
	if resendKey := os.Getenv("CARELINK_RESEND_KEY"); resendKey != "" {
		alerts = emailPkg.NewResendSender(resendKey, alertFrom)
		log.Println("Alert sender configured (Resend)")
	} else {
		alerts = emailPkg.NewNoopSender()
		if os.Getenv("CARELINK_ENV") == "production" {
			log.Println("WARNING: CARELINK_RESEND_KEY is not set — caregiver alerts are DISABLED in production")
		} else {
			log.Println("Alert sender configured (noop — set CARELINK_RESEND_KEY for real delivery)")
		}
	}

	// Missed-check-in escalation scheduler
	civilClock := clock.NewFixed(cfg.Scheduler.TimezoneOffsetHours)
	today, _ := civilClock.Now()
	workerDeps := orchestrators.WorkerDeps{
		Gateway:  gateway,
		Clock:    civilClock,
		Registry: registry,
		Tracker:  escalation.NewTracker(today),
		Alerts: orchestrators.EscalationDeps{
			Alerts:     alerts,
			AlertEmail: os.Getenv("CARELINK_ALERT_EMAIL"),
		},
	}
	workerCfg := orchestrators.WorkerConfig{
		Interval:          cfg.Interval(),
		RetryFailedWrites: cfg.Scheduler.RetryFailedWrites,
	}
	workerStopCh := make(chan struct{})
	orchestrators.StartEscalationWorker(workerDeps, workerCfg, workerStopCh)
	defer close(workerStopCh)

	// HTTP handler with middleware
	mux := web.NewMux("static", &web.Gateways{
		Records:      gateway,
		Translations: translationStore,
	})

	addr := envOrDefault("CARELINK_ADDR", ":8080")
	log.Printf("Carelink %s starting on %s (env=%s, windows=%d, interval=%s)",
		version, addr, envOrDefault("CARELINK_ENV", "development"), len(registry.Windows()), cfg.Interval())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
