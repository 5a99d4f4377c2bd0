// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store indexes extracted syllabi in SQLite for full-text search
// over module topics. Each indexed file is a source; re-indexing a source
// whose content hash is unchanged is a no-op.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/syllabus-engine/pkg/types"
)

const dbFile = "syllabus.db"

// ErrNotFound is returned when a requested semester or source has no rows.
var ErrNotFound = errors.New("not found")

// Store manages the syllabus SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int

	// fts is false when the SQLite build has no FTS5 module; search then
	// falls back to LIKE matching.
	fts bool
}

// Open opens or creates dir/syllabus.db and its schema.
func Open(cfg types.StoreConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// FullText reports whether searches use the FTS5 index.
func (s *Store) FullText() bool {
	return s.fts
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			content_hash TEXT NOT NULL,
			indexed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS modules (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			source_id INTEGER NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
			semester TEXT NOT NULL,
			semester_pos INTEGER NOT NULL,
			subject_key TEXT NOT NULL,
			subject_code TEXT NOT NULL,
			subject_title TEXT NOT NULL,
			subject_pos INTEGER NOT NULL,
			position INTEGER NOT NULL,
			topic TEXT NOT NULL,
			keywords TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_modules_source ON modules(source_id)`,
		`CREATE INDEX IF NOT EXISTS idx_modules_subject_code ON modules(subject_code)`,
		`CREATE INDEX IF NOT EXISTS idx_modules_semester ON modules(semester)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='modules_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	_, err := s.db.Exec(`CREATE VIRTUAL TABLE modules_fts USING fts5(
		topic, subject_title, keywords, content=modules, content_rowid=rowid)`)
	if err != nil {
		if strings.Contains(err.Error(), "no such module") {
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}

	triggers := []string{
		`CREATE TRIGGER modules_ai AFTER INSERT ON modules BEGIN
			INSERT INTO modules_fts(rowid, topic, subject_title, keywords)
			VALUES (new.rowid, new.topic, new.subject_title, new.keywords);
		END`,
		`CREATE TRIGGER modules_ad AFTER DELETE ON modules BEGIN
			INSERT INTO modules_fts(modules_fts, rowid, topic, subject_title, keywords)
			VALUES ('delete', old.rowid, old.topic, old.subject_title, old.keywords);
		END`,
		`CREATE TRIGGER modules_au AFTER UPDATE ON modules BEGIN
			INSERT INTO modules_fts(modules_fts, rowid, topic, subject_title, keywords)
			VALUES ('delete', old.rowid, old.topic, old.subject_title, old.keywords);
			INSERT INTO modules_fts(rowid, topic, subject_title, keywords)
			VALUES (new.rowid, new.topic, new.subject_title, new.keywords);
		END`,
	}
	for _, stmt := range triggers {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

// IndexStatus says what Index did with a source.
type IndexStatus string

// Index outcomes.
const (
	StatusIndexed IndexStatus = "indexed"
	StatusUpdated IndexStatus = "updated"
	StatusSkipped IndexStatus = "skipped"
)

// IndexResult reports the outcome of one Index call.
type IndexResult struct {
	Source  string
	Status  IndexStatus
	Modules int
	Hash    string
}

// ContentHash returns the hex SHA-256 of the syllabus's compact JSON form.
func ContentHash(syl *types.Syllabus) (string, error) {
	data, err := json.Marshal(syl)
	if err != nil {
		return "", fmt.Errorf("hashing syllabus: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Index stores every module of syl under source. A source already indexed
// with the same content hash is skipped; a changed one has its rows
// replaced in a single transaction.
func (s *Store) Index(ctx context.Context, source string, syl *types.Syllabus) (IndexResult, error) {
	res := IndexResult{Source: source, Modules: syl.ModuleCount()}

	hash, err := ContentHash(syl)
	if err != nil {
		return res, err
	}
	res.Hash = hash

	var (
		sourceID   int64
		storedHash string
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT id, content_hash FROM sources WHERE path = ?`, source,
	).Scan(&sourceID, &storedHash)
	switch {
	case err == nil && storedHash == hash:
		res.Status = StatusSkipped
		return res, nil
	case err == nil:
		res.Status = StatusUpdated
	case errors.Is(err, sql.ErrNoRows):
		res.Status = StatusIndexed
	default:
		return res, fmt.Errorf("looking up source: %w", err)
	}

	if err := s.replaceSource(ctx, source, sourceID, hash, syl); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Store) replaceSource(ctx context.Context, source string, sourceID int64, hash string, syl *types.Syllabus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if sourceID != 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM modules WHERE source_id = ?`, sourceID); err != nil {
			return fmt.Errorf("deleting old modules: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE sources SET content_hash = ?, indexed_at = ? WHERE id = ?`, hash, now, sourceID,
		); err != nil {
			return fmt.Errorf("updating source: %w", err)
		}
	} else {
		r, err := tx.ExecContext(ctx,
			`INSERT INTO sources (path, content_hash, indexed_at) VALUES (?, ?, ?)`, source, hash, now)
		if err != nil {
			return fmt.Errorf("inserting source: %w", err)
		}
		if sourceID, err = r.LastInsertId(); err != nil {
			return fmt.Errorf("reading source id: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO modules (source_id, semester, semester_pos, subject_key, subject_code,
			subject_title, subject_pos, position, topic, keywords)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for semPos, sem := range syl.Semesters() {
		for subPos, sub := range sem.Subjects {
			for pos, m := range sub.Modules {
				kw := m.SubjectKeywords
				if kw == nil {
					kw = []string{}
				}
				kwJSON, err := json.Marshal(kw)
				if err != nil {
					return fmt.Errorf("encoding keywords of %s: %w", sub.Key, err)
				}
				if _, err := stmt.ExecContext(ctx,
					sourceID, sem.Name, semPos, sub.Key, sub.Code(), sub.Title(),
					subPos, pos, m.Topic, string(kwJSON),
				); err != nil {
					return fmt.Errorf("inserting module %d of %s: %w", pos+1, sub.Key, err)
				}
			}
		}
	}

	return tx.Commit()
}
