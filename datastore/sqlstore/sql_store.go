/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package sqlstore provides a SQLite-backed datastore.Store.
// Values are stored as JSON in a single records table keyed by key string,
// with the key's collection path kept alongside for queries.
package sqlstore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"iter"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/errors"
)

// Query constants
const (
	CreateTableQuery = `
		CREATE TABLE IF NOT EXISTS records (
			key   TEXT PRIMARY KEY,
			path  TEXT NOT NULL,
			value TEXT NOT NULL
		)`

	CreatePathIndexQuery = `
		CREATE INDEX IF NOT EXISTS records_path ON records (path)`

	GetQuery = `
		SELECT value FROM records WHERE key = ?`

	PutQuery = `
		INSERT INTO records (key, path, value) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET path = excluded.path, value = excluded.value`

	DeleteQuery = `
		DELETE FROM records WHERE key = ?`

	ExistsQuery = `
		SELECT EXISTS(SELECT 1 FROM records WHERE key = ?)`

	CollectionQuery = `
		SELECT value FROM records WHERE path = ? ORDER BY key`
)

// Store implements datastore.Store on a SQL database with the SQLite dialect.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// New wraps an open database. The records table must exist; see Migrate.
func New(db *sql.DB, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Open opens (or creates) the SQLite database at path and migrates it.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string, logger *zap.SugaredLogger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening sqlite database %s", path)
	}
	// one connection: SQLite serializes writers and ":memory:" is per connection
	db.SetMaxOpenConns(1)

	s := New(db, logger)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	s.logger.Infow("opened sqlite store", "path", path)
	return s, nil
}

// Migrate creates the records table and its path index.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range []string{CreateTableQuery, CreatePathIndexQuery} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrating records table")
		}
	}
	return nil
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key datastore.Key) (any, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, GetQuery, key.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "getting %s", key)
	}
	return decodeValue(raw)
}

func (s *Store) Put(ctx context.Context, key datastore.Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encoding value for %s", key)
	}
	if _, err := s.db.ExecContext(ctx, PutQuery, key.String(), key.Path().String(), string(raw)); err != nil {
		return errors.Wrapf(err, "putting %s", key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key datastore.Key) error {
	if _, err := s.db.ExecContext(ctx, DeleteQuery, key.String()); err != nil {
		return errors.Wrapf(err, "deleting %s", key)
	}
	return nil
}

func (s *Store) Contains(ctx context.Context, key datastore.Key) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, ExistsQuery, key.String()).Scan(&exists); err != nil {
		return false, errors.Wrapf(err, "checking %s", key)
	}
	return exists, nil
}

// Query selects the collection named by q.Key and evaluates q over it. The
// rows are read completely before the first value is yielded, so callers may
// write to the store while iterating.
func (s *Store) Query(ctx context.Context, q *datastore.Query) (iter.Seq2[any, error], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	rows := func(yield func(any, error) bool) {
		s.logger.Debugw("querying collection", "path", q.Key)
		rs, err := s.db.QueryContext(ctx, CollectionQuery, q.Key.String())
		if err != nil {
			yield(nil, errors.Wrapf(err, "querying %s", q.Key))
			return
		}
		defer rs.Close()

		for rs.Next() {
			var raw string
			if err := rs.Scan(&raw); err != nil {
				yield(nil, errors.Wrap(err, "scanning record"))
				return
			}
			v, err := decodeValue(raw)
			if !yield(v, err) || err != nil {
				return
			}
		}
		if err := rs.Err(); err != nil {
			yield(nil, errors.Wrapf(err, "querying %s", q.Key))
		}
	}
	return q.Apply(rows), nil
}

// decodeValue reverses json.Marshal. Integral numbers come back as int64 and
// other numbers as float64.
func decodeValue(raw string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "decoding stored value")
	}
	return normalizeNumbers(v), nil
}

func normalizeNumbers(v any) any {
	switch tv := v.(type) {
	case json.Number:
		if i, err := tv.Int64(); err == nil {
			return i
		}
		f, _ := tv.Float64()
		return f
	case map[string]any:
		for k, e := range tv {
			tv[k] = normalizeNumbers(e)
		}
		return tv
	case []any:
		for i, e := range tv {
			tv[i] = normalizeNumbers(e)
		}
		return tv
	}
	return v
}
