// Package store keeps a history of form translations in a local SQLite
// database. It records what ran and how it ended; translated text is never
// stored or reused.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/formtran/internal"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS translation_requests (
		id TEXT PRIMARY KEY,
		form_url TEXT NOT NULL,
		target_language TEXT NOT NULL,
		success BOOLEAN NOT NULL,
		questions INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		duration_ms INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_created ON translation_requests(created_at);
	CREATE INDEX IF NOT EXISTS idx_requests_language ON translation_requests(target_language);
	`
	_, err := s.db.Exec(schema)
	return err
}

type RequestRecord struct {
	ID             string
	FormURL        string
	TargetLanguage string
	Success        bool
	Questions      int
	Error          string
	Duration       time.Duration
	CreatedAt      time.Time
}

// Record stores the outcome of one pipeline run. err is the error Execute
// returned, if any; resp may be nil.
func (s *Store) Record(ctx context.Context, req internal.TranslationRequest, resp *internal.TranslationResponse, err error, elapsed time.Duration) error {
	rec := RequestRecord{
		ID:             uuid.NewString(),
		FormURL:        strings.TrimSpace(req.FormURL),
		TargetLanguage: normalizeLanguage(req.TargetLanguage),
		Duration:       elapsed,
		CreatedAt:      time.Now(),
	}
	switch {
	case err != nil:
		rec.Error = err.Error()
	case resp != nil:
		rec.Success = resp.Success
		if resp.Error != nil {
			rec.Error = *resp.Error
		}
		if resp.TranslatedForm != nil {
			rec.Questions = len(resp.TranslatedForm.Questions)
		}
	}

	_, dbErr := s.db.ExecContext(ctx,
		`INSERT INTO translation_requests (id, form_url, target_language, success, questions, error, duration_ms, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.FormURL, rec.TargetLanguage, rec.Success, rec.Questions, rec.Error, rec.Duration.Milliseconds(), rec.CreatedAt)
	return dbErr
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]RequestRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, form_url, target_language, success, questions, COALESCE(error, ''), duration_ms, created_at
		 FROM translation_requests ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RequestRecord
	for rows.Next() {
		var r RequestRecord
		var ms int64
		if err := rows.Scan(&r.ID, &r.FormURL, &r.TargetLanguage, &r.Success, &r.Questions, &r.Error, &ms, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		records = append(records, r)
	}

	return records, rows.Err()
}

type LanguageStats struct {
	Language string
	Requests int
	Failed   int
}

type Stats struct {
	Requests       int
	FailedRequests int
	AvgDuration    time.Duration
	ByLanguage     []LanguageStats
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var avgMs float64
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0),
			COALESCE(AVG(duration_ms), 0)
		FROM translation_requests`).Scan(
		&stats.Requests,
		&stats.FailedRequests,
		&avgMs,
	)
	if err != nil {
		return nil, err
	}
	stats.AvgDuration = time.Duration(avgMs * float64(time.Millisecond))

	rows, err := s.db.QueryContext(ctx, `
		SELECT target_language, COUNT(*), COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0)
		FROM translation_requests
		GROUP BY target_language
		ORDER BY COUNT(*) DESC, target_language`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ls LanguageStats
		if err := rows.Scan(&ls.Language, &ls.Requests, &ls.Failed); err != nil {
			return nil, err
		}
		stats.ByLanguage = append(stats.ByLanguage, ls)
	}

	return stats, rows.Err()
}

// Clear deletes records older than before and returns how many were removed.
// A zero before deletes everything.
func (s *Store) Clear(ctx context.Context, before time.Time) (int64, error) {
	var res sql.Result
	var err error
	if before.IsZero() {
		res, err = s.db.ExecContext(ctx, `DELETE FROM translation_requests`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM translation_requests WHERE created_at < ?`, before)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeLanguage folds case and Unicode form so "Spanish" and "spanish"
// are grouped together in Stats.
func normalizeLanguage(name string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(name)))
}
