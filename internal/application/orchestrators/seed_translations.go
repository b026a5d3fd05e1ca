package orchestrators

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	translationStore "carelink/internal/adapters/storage/translation"
	domain "carelink/internal/domain/translation"
)

// SeedTranslationsDeps holds dependencies for seeding the UI-string cache.
type SeedTranslationsDeps struct {
	TranslationStore translationStore.Store
}

// builtin UI strings for the check-in pages. The cache is authoritative at
// runtime; this bundle only fills gaps so a fresh database serves every
// locale the frontend offers.
var builtinTranslations = map[string]map[string]string{
	"en": {
		"checkin.button":   "Check In",
		"checkin.done":     "You have checked in. See you later!",
		"login.username":   "Username",
		"login.password":   "Password",
		"login.submit":     "Log In",
		"caregiver.title":  "Care Dashboard",
		"caregiver.missed": "Missed check-in",
	},
	"zh": {
		"checkin.button":   "签到",
		"checkin.done":     "您已签到,再见!",
		"login.username":   "用户名",
		"login.password":   "密码",
		"login.submit":     "登录",
		"caregiver.title":  "护理仪表板",
		"caregiver.missed": "错过签到",
	},
	"ms": {
		"checkin.button":   "Daftar Masuk",
		"checkin.done":     "Anda telah mendaftar masuk. Jumpa lagi!",
		"login.username":   "Nama pengguna",
		"login.password":   "Kata laluan",
		"login.submit":     "Log Masuk",
		"caregiver.title":  "Papan Pemuka Penjagaan",
		"caregiver.missed": "Daftar masuk terlepas",
	},
}

// ExecuteSeedTranslations fills the translation cache with the builtin
// bundle. Idempotent: existing entries are left untouched.
// PRE: Store is reachable
// POST: Every builtin locale/key pair exists in the cache
func ExecuteSeedTranslations(ctx context.Context, deps SeedTranslationsDeps) error {
	for locale, bundle := range builtinTranslations {
		for key, value := range bundle {
			if _, err := deps.TranslationStore.Get(ctx, locale, key); err == nil {
				continue
			}
			entity := domain.Translation{
				ID:       uuid.New().String(),
				Locale:   locale,
				Key:      key,
				Value:    value,
				CachedAt: time.Now(),
			}
			if err := entity.Validate(); err != nil {
				return fmt.Errorf("seed translation %s/%s: %w", locale, key, err)
			}
			if err := deps.TranslationStore.Save(ctx, entity); err != nil {
				return fmt.Errorf("seed translation %s/%s: %w", locale, key, err)
			}
		}
	}
	return nil
}
