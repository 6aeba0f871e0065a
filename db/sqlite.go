package db

import (
	"database/sql"
	"errors"
	"strings"
)

// SQLiteKV is a KV backed by the kv table of a SQLite database.
type SQLiteKV struct {
	db *sql.DB
}

var _ KV = (*SQLiteKV)(nil)

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteKV, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteKV{db: db}, nil
}

// NewSQLiteKV wraps an already-migrated database handle.
func NewSQLiteKV(db *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: db}
}

func (s *SQLiteKV) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(SelectValueSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StoreError{Op: "get", Key: key, Err: err}
	}
	return value, true, nil
}

func (s *SQLiteKV) Set(key, value string) error {
	if _, err := s.db.Exec(UpsertValueSQL, key, value); err != nil {
		return &StoreError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteKV) Delete(key string) error {
	if _, err := s.db.Exec(DeleteValueSQL, key); err != nil {
		return &StoreError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteKV) Keys(prefix string) ([]string, error) {
	rows, err := s.db.Query(SelectKeysByPrefixSQL, escapeLike(prefix)+"%")
	if err != nil {
		return nil, &StoreError{Op: "keys", Key: prefix, Err: err}
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, &StoreError{Op: "keys", Key: prefix, Err: err}
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "keys", Key: prefix, Err: err}
	}
	return keys, nil
}

func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

// escapeLike escapes LIKE wildcards so prefix matches literally.
// Namespaced keys contain underscores, which LIKE treats as a wildcard.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
