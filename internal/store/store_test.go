package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"imdb-pump/internal/dialect"
	"imdb-pump/internal/store"

	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.db")
	st, err := store.Open(context.Background(), "sqlite", path, &dialect.SQLiteDialect{})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func count(t *testing.T, st *store.Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, st.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestForeignKeysEnabled(t *testing.T) {
	st := openTemp(t)

	var on int
	require.NoError(t, st.QueryRow(context.Background(), "PRAGMA foreign_keys").Scan(&on))
	require.Equal(t, 1, on)
}

func TestCommitAndRollback(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	_, err := st.Exec(ctx, "CREATE TABLE t (id TEXT PRIMARY KEY NOT NULL, v INTEGER)")
	require.NoError(t, err)

	require.NoError(t, st.Begin(ctx))
	require.True(t, st.InTx())
	_, err = st.Exec(ctx, "INSERT INTO t (id, v) VALUES (?, ?)", "a", 1)
	require.NoError(t, err)
	require.NoError(t, st.Commit())
	require.False(t, st.InTx())

	require.NoError(t, st.Begin(ctx))
	_, err = st.Exec(ctx, "INSERT INTO t (id, v) VALUES (?, ?)", "b", 2)
	require.NoError(t, err)
	require.NoError(t, st.Rollback())

	require.Equal(t, 1, count(t, st, "t"))
}

func TestExecErrorOnConstraintViolation(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	_, err := st.Exec(ctx, "CREATE TABLE t (id TEXT PRIMARY KEY NOT NULL)")
	require.NoError(t, err)

	require.NoError(t, st.Begin(ctx))
	stmt, err := st.Prepare(ctx, "INSERT INTO t (id) VALUES (?)")
	require.NoError(t, err)
	require.NoError(t, stmt.Exec(ctx, "x"))

	err = stmt.Exec(ctx, "x")
	var execErr *store.ExecError
	require.True(t, errors.As(err, &execErr))
	require.Contains(t, execErr.Query, "INSERT INTO t")

	require.NoError(t, stmt.Close())
	require.NoError(t, st.Rollback())
	require.Equal(t, 0, count(t, st, "t"))
}

func TestRollbackWithoutTransaction(t *testing.T) {
	st := openTemp(t)
	require.NoError(t, st.Rollback())
	require.ErrorIs(t, st.Commit(), store.ErrNoTransaction)
}

func TestBeginTwice(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)
	require.NoError(t, st.Begin(ctx))
	require.Error(t, st.Begin(ctx))
	require.NoError(t, st.Rollback())
}

func TestOpenError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "x.db")
	_, err := store.Open(context.Background(), "sqlite", missing, &dialect.SQLiteDialect{})
	var openErr *store.OpenError
	require.True(t, errors.As(err, &openErr))
	require.Equal(t, "sqlite", openErr.Driver)

	_, err = store.Open(context.Background(), "nosuchdriver", "x", &dialect.SQLiteDialect{})
	require.True(t, errors.As(err, &openErr))
}
