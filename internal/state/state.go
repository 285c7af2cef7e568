package state

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/sqlite"

	"github.com/jxwalker/pixnix/internal/config"
	perrors "github.com/jxwalker/pixnix/internal/errors"
)

type DB struct {
	SQL  *sql.DB
	Path string
}

// Open creates (or opens) <data_root>/state.db and ensures every table exists.
func Open(cfg *config.Config) (*DB, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if cfg.General.DataRoot == "" {
		return nil, errors.New("general.data_root required")
	}
	if err := os.MkdirAll(cfg.General.DataRoot, 0o755); err != nil {
		return nil, perrors.PathError(cfg.General.DataRoot, err)
	}
	path := filepath.Join(cfg.General.DataRoot, "state.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=journal_mode(WAL)&_fk=1", path)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, perrors.DatabaseError(path, err)
	}
	db := &DB{SQL: sqldb, Path: path}
	if err := db.Init(); err != nil {
		_ = sqldb.Close()
		return nil, perrors.DatabaseError(path, err)
	}
	return db, nil
}

// OpenMemory opens a private in-memory database, used by tests and dry runs.
func OpenMemory() (*DB, error) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// each pooled connection would otherwise get its own empty database
	sqldb.SetMaxOpenConns(1)
	db := &DB{SQL: sqldb}
	if err := db.Init(); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) Init() error {
	if err := initSchema(db.SQL); err != nil {
		return err
	}
	return db.InitSettingsTable()
}

func (db *DB) Close() error {
	if db == nil || db.SQL == nil {
		return nil
	}
	return db.SQL.Close()
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			photo_id TEXT NOT NULL,
			url TEXT NOT NULL,
			dest TEXT NOT NULL,
			author TEXT,
			width INTEGER,
			height INTEGER,
			sha256 TEXT,
			size INTEGER,
			status TEXT,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			last_error TEXT,
			UNIQUE(photo_id, dest)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_downloads_status ON downloads(status)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Download statuses recorded in the history table.
const (
	StatusDownloading = "downloading"
	StatusComplete    = "complete"
	StatusError       = "error"
)

type DownloadRow struct {
	PhotoID   string
	URL       string
	Dest      string
	Author    string
	Width     int
	Height    int
	SHA256    string
	Size      int64
	Status    string
	UpdatedAt int64
	LastError string
}

func (db *DB) UpsertDownload(row DownloadRow) error {
	now := time.Now().Unix()
	_, err := db.SQL.Exec(`INSERT INTO downloads(photo_id, url, dest, author, width, height, sha256, size, status, last_error, created_at, updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(photo_id, dest) DO UPDATE SET url=excluded.url, author=excluded.author, width=excluded.width, height=excluded.height, sha256=excluded.sha256, size=excluded.size, status=excluded.status, last_error=excluded.last_error, updated_at=excluded.updated_at`,
		row.PhotoID, row.URL, row.Dest, row.Author, row.Width, row.Height, row.SHA256, row.Size, row.Status, row.LastError, now, now)
	return err
}

// DeleteDownload removes a history row.
func (db *DB) DeleteDownload(photoID, dest string) error {
	_, err := db.SQL.Exec(`DELETE FROM downloads WHERE photo_id=? AND dest=?`, photoID, dest)
	return err
}

// ListDownloads returns the history newest first. limit <= 0 returns everything.
func (db *DB) ListDownloads(limit int) ([]DownloadRow, error) {
	q := `SELECT photo_id, url, dest,
    COALESCE(author, ''),
    COALESCE(width, 0),
    COALESCE(height, 0),
    COALESCE(sha256, ''),
    COALESCE(size, 0),
    COALESCE(status, ''),
    updated_at,
    COALESCE(last_error, '')
  FROM downloads
  ORDER BY updated_at DESC, id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.SQL.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DownloadRow
	for rows.Next() {
		var r DownloadRow
		if err := rows.Scan(&r.PhotoID, &r.URL, &r.Dest, &r.Author, &r.Width, &r.Height, &r.SHA256, &r.Size, &r.Status, &r.UpdatedAt, &r.LastError); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
