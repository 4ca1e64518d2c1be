package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttkit/internal/db"
	"github.com/alexanderramin/ganttkit/internal/domain"
)

// SQLitePreferencesRepo stores one JSON preference blob per page key.
type SQLitePreferencesRepo struct {
	db  db.DBTX
	now func() time.Time
}

func NewSQLitePreferencesRepo(conn db.DBTX) *SQLitePreferencesRepo {
	return &SQLitePreferencesRepo{db: conn, now: time.Now}
}

// Load implements controller.PreferenceStore. A payload that is not valid
// JSON is reported as an error so the caller falls back to defaults.
func (r *SQLitePreferencesRepo) Load(ctx context.Context, key string) (*domain.PreferencesPatch, error) {
	p, err := r.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.Patch, nil
}

// Save implements controller.PreferenceStore without a session id.
func (r *SQLitePreferencesRepo) Save(ctx context.Context, key string, patch *domain.PreferencesPatch) error {
	return r.Put(ctx, StoredPreferences{PageKey: key, Patch: patch})
}

// Put upserts p. A zero SavedAt is stamped with the current time.
func (r *SQLitePreferencesRepo) Put(ctx context.Context, p StoredPreferences) error {
	if p.Patch == nil {
		p.Patch = &domain.PreferencesPatch{}
	}
	payload, err := json.Marshal(p.Patch)
	if err != nil {
		return fmt.Errorf("encoding preferences %s: %w", p.PageKey, err)
	}
	if p.SavedAt.IsZero() {
		p.SavedAt = r.now()
	}

	query := `INSERT INTO preferences (page_key, payload, session_id, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(page_key) DO UPDATE SET
			payload = excluded.payload,
			session_id = excluded.session_id,
			saved_at = excluded.saved_at`
	if _, err := r.db.ExecContext(ctx, query, p.PageKey, string(payload), p.SessionID, formatTime(p.SavedAt)); err != nil {
		return fmt.Errorf("saving preferences %s: %w", p.PageKey, err)
	}
	return nil
}

func (r *SQLitePreferencesRepo) Get(ctx context.Context, key string) (*StoredPreferences, error) {
	query := `SELECT page_key, payload, session_id, saved_at FROM preferences WHERE page_key = ?`
	p, err := scanPreferences(r.db.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("preferences %s: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// List returns every stored blob ordered by page key.
func (r *SQLitePreferencesRepo) List(ctx context.Context) ([]*StoredPreferences, error) {
	query := `SELECT page_key, payload, session_id, saved_at FROM preferences ORDER BY page_key`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	defer rows.Close()

	var out []*StoredPreferences
	for rows.Next() {
		p, err := scanPreferences(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating preferences: %w", err)
	}
	return out, nil
}

// Delete removes the blob for key. Deleting a missing key wraps ErrNotFound.
func (r *SQLitePreferencesRepo) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE page_key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting preferences %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting preferences %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("preferences %s: %w", key, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreferences(row scanner) (*StoredPreferences, error) {
	var (
		p       StoredPreferences
		payload string
		savedAt string
	)
	if err := row.Scan(&p.PageKey, &payload, &p.SessionID, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning preferences: %w", err)
	}

	var patch domain.PreferencesPatch
	if err := json.Unmarshal([]byte(payload), &patch); err != nil {
		return nil, fmt.Errorf("decoding preferences %s: %w", p.PageKey, err)
	}
	p.Patch = &patch

	t, err := parseTime("saved_at", savedAt)
	if err != nil {
		return nil, err
	}
	p.SavedAt = t
	return &p, nil
}
