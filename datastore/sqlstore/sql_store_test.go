/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/suparena/objectstore/datastore"
)

// setupTestStore opens a private in-memory SQLite store
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:", zaptest.NewLogger(t).Sugar())
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	key := datastore.NewKey("/person:ada")
	rec := datastore.Record{
		"key":    key.String(),
		"email":  "ada@example.com",
		"age":    int64(36),
		"score":  1.5,
		"active": true,
		"tags":   []any{"math", "poetry"},
		"nested": map[string]any{"n": int64(1)},
		"none":   nil,
	}
	require.NoError(t, s.Put(ctx, key, rec))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	ok, err := s.Contains(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	// last put wins
	require.NoError(t, s.Put(ctx, key, "replaced"))
	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "replaced", got)

	require.NoError(t, s.Delete(ctx, key))
	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = s.Contains(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting a missing key is not an error
	require.NoError(t, s.Delete(ctx, key))
}

func TestQueryCollection(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	for name, rank := range map[string]int64{"a": 3, "b": 1, "c": 2} {
		key := datastore.NewKey("/model").Instance(name)
		require.NoError(t, s.Put(ctx, key, datastore.Record{"key": key.String(), "rank": rank}))
	}
	require.NoError(t, s.Put(ctx, datastore.NewKey("/other:a"), datastore.Record{"key": "/other:a"}))
	require.NoError(t, s.Put(ctx, datastore.NewKey("/parent:p/model:z"), datastore.Record{"key": "/parent:p/model:z"}))

	seq, err := s.Query(ctx, datastore.NewQuery(datastore.NewKey("/model")))
	require.NoError(t, err)
	values, err := datastore.Collect(seq)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, "/model:a", values[0].(datastore.Record)["key"])

	q := datastore.NewQuery(datastore.NewKey("/model")).
		Filter("rank", datastore.OpGreater, 1).
		OrderBy("-rank")
	seq, err = s.Query(ctx, q)
	require.NoError(t, err)
	values, err = datastore.Collect(seq)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, int64(3), values[0].(datastore.Record)["rank"])
	assert.Equal(t, int64(2), values[1].(datastore.Record)["rank"])

	seq, err = s.Query(ctx, datastore.NewQuery(datastore.NewKey("/parent:p/model")))
	require.NoError(t, err)
	values, err = datastore.Collect(seq)
	require.NoError(t, err)
	assert.Len(t, values, 1)
}

func TestQueryAllowsWritesWhileIterating(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	for _, name := range []string{"a", "b"} {
		key := datastore.NewKey("/model").Instance(name)
		require.NoError(t, s.Put(ctx, key, datastore.Record{"key": key.String()}))
	}

	seq, err := s.Query(ctx, datastore.NewQuery(datastore.NewKey("/model")))
	require.NoError(t, err)
	for v, err := range seq {
		require.NoError(t, err)
		key := datastore.NewKey(v.(datastore.Record)["key"].(string))
		require.NoError(t, s.Delete(ctx, key))
	}

	seq, err = s.Query(ctx, datastore.NewQuery(datastore.NewKey("/model")))
	require.NoError(t, err)
	values, err := datastore.Collect(seq)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestDirectoryListsSurviveJSON(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	dirs := datastore.NewDirectoryStore(s)
	dir := datastore.NewKey("/model")

	require.NoError(t, dirs.DirectoryAdd(ctx, dir, datastore.NewKey("/model:a")))
	require.NoError(t, dirs.DirectoryAdd(ctx, dir, datastore.NewKey("/model:b")))

	keys, err := dirs.DirectoryRead(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, []datastore.Key{datastore.NewKey("/model:a"), datastore.NewKey("/model:b")}, keys)
}

func TestInvalidQuery(t *testing.T) {
	s := setupTestStore(t)
	q := datastore.NewQuery(datastore.NewKey("/model")).Filter("rank", "~", 1)
	_, err := s.Query(context.Background(), q)
	assert.Error(t, err)
}

// Minimal sqlmock tests to verify SQL statements and parameters

func TestMigrate_Sqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(CreateTableQuery)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(CreatePathIndexQuery)).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := New(db, nil).Migrate(context.Background()); err != nil {
		t.Errorf("Migrate failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestPut_Sqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	key := datastore.NewKey("/org:acme/person:ada")
	mock.ExpectExec(regexp.QuoteMeta(PutQuery)).
		WithArgs("/org:acme/person:ada", "/org:acme/person", `{"key":"/org:acme/person:ada"}`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = New(db, nil).Put(context.Background(), key, datastore.Record{"key": key.String()})
	if err != nil {
		t.Errorf("Put failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestGet_Sqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()
	s := New(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta(GetQuery)).
		WithArgs("/person:ada").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"key":"/person:ada","age":36}`))
	mock.ExpectQuery(regexp.QuoteMeta(GetQuery)).
		WithArgs("/person:bob").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(GetQuery)).
		WithArgs("/person:eve").
		WillReturnError(sql.ErrConnDone)

	v, err := s.Get(context.Background(), datastore.NewKey("/person:ada"))
	require.NoError(t, err)
	assert.Equal(t, datastore.Record{"key": "/person:ada", "age": int64(36)}, v)

	v, err = s.Get(context.Background(), datastore.NewKey("/person:bob"))
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = s.Get(context.Background(), datastore.NewKey("/person:eve"))
	assert.ErrorIs(t, err, sql.ErrConnDone)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestQuery_Sqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(CollectionQuery)).
		WithArgs("/person").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).
			AddRow(`{"key":"/person:ada"}`).
			AddRow(`{"key":"/person:bob"}`))

	seq, err := New(db, nil).Query(context.Background(), datastore.NewQuery(datastore.NewKey("/person")).OrderBy("-key"))
	require.NoError(t, err)
	values, err := datastore.Collect(seq)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "/person:bob", values[0].(datastore.Record)["key"])

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestDeleteAndContains_Sqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()
	s := New(db, nil)

	mock.ExpectExec(regexp.QuoteMeta(DeleteQuery)).
		WithArgs("/person:ada").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(ExistsQuery)).
		WithArgs("/person:ada").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	require.NoError(t, s.Delete(context.Background(), datastore.NewKey("/person:ada")))
	ok, err := s.Contains(context.Background(), datastore.NewKey("/person:ada"))
	require.NoError(t, err)
	assert.False(t, ok)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}
