package translation

import (
	"context"

	domain "carelink/internal/domain/translation"
)

// Store persists cached Translation state.
type Store interface {
	Get(ctx context.Context, locale, key string) (domain.Translation, error)
	ListByLocale(ctx context.Context, locale string) ([]domain.Translation, error)
	Save(ctx context.Context, value domain.Translation) error
	Delete(ctx context.Context, id string) error
}
