package state

import (
	"database/sql"
	"errors"
)

// Settings is a small key-value store. The theme preference lives here under "theme".
func (db *DB) InitSettingsTable() error {
	if db == nil || db.SQL == nil {
		return errors.New("nil db")
	}
	_, err := db.SQL.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`)
	return err
}

func (db *DB) SetSetting(key, value string) error {
	if db == nil || db.SQL == nil {
		return errors.New("nil db")
	}
	_, err := db.SQL.Exec(`INSERT INTO settings(key, value, updated_at) VALUES(?,?,strftime('%s','now'))
	ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=strftime('%s','now')`, key, value)
	return err
}

// GetSetting returns ("", false, nil) when the key has never been written.
func (db *DB) GetSetting(key string) (string, bool, error) {
	if db == nil || db.SQL == nil {
		return "", false, errors.New("nil db")
	}
	var v string
	switch err := db.SQL.QueryRow(`SELECT value FROM settings WHERE key=?`, key).Scan(&v); err {
	case sql.ErrNoRows:
		return "", false, nil
	case nil:
		return v, true, nil
	default:
		return "", false, err
	}
}

// Get and Set let *DB satisfy small key-value interfaces such as the theme store.
func (db *DB) Get(key string) (string, bool, error) { return db.GetSetting(key) }
func (db *DB) Set(key, value string) error         { return db.SetSetting(key, value) }
