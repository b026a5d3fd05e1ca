package translation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "carelink/internal/domain/translation"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new translation cache store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves a cached translation by locale and key.
// PRE: locale and key are non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) Get(ctx context.Context, locale, key string) (domain.Translation, error) {
	query := "SELECT id, locale, key, value, cached_at FROM translation WHERE locale = ? AND key = ?"

	row := s.db.QueryRowContext(ctx, query, locale, key)

	entity, err := scanTranslation(row)
	if err == sql.ErrNoRows {
		return domain.Translation{}, fmt.Errorf("translation not found: %w", err)
	}
	return entity, err
}

// ListByLocale returns all cached strings for a locale.
// PRE: locale is non-empty
// POST: Returns the entities ordered by key
func (s *SQLiteStore) ListByLocale(ctx context.Context, locale string) ([]domain.Translation, error) {
	query := "SELECT id, locale, key, value, cached_at FROM translation WHERE locale = ? ORDER BY key"

	rows, err := s.db.QueryContext(ctx, query, locale)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Translation
	for rows.Next() {
		entity, err := scanTranslation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, rows.Err()
}

// Save persists a Translation (insert or update on the locale/key pair).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Translation) error {
	query := `INSERT INTO translation (id, locale, key, value, cached_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (locale, key) DO UPDATE SET value = excluded.value, cached_at = excluded.cached_at`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Locale,
		entity.Key,
		entity.Value,
		entity.CachedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Delete removes a Translation by ID.
// PRE: id is non-empty
// POST: Entity is removed if present
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM translation WHERE id = ?", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTranslation(row rowScanner) (domain.Translation, error) {
	var entity domain.Translation
	var cachedAt string
	err := row.Scan(&entity.ID, &entity.Locale, &entity.Key, &entity.Value, &cachedAt)
	if err != nil {
		return domain.Translation{}, err
	}
	if t, perr := time.Parse(time.RFC3339, cachedAt); perr == nil {
		entity.CachedAt = t
	}
	return entity, nil
}
