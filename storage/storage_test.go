package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runContract(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "auth-storage")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "auth-storage", `{"v":1}`))
	v, ok, err := s.Get(ctx, "auth-storage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"v":1}`, v)

	require.NoError(t, s.Set(ctx, "auth-storage", `{"v":2}`))
	v, _, _ = s.Get(ctx, "auth-storage")
	assert.Equal(t, `{"v":2}`, v)

	require.NoError(t, s.Remove(ctx, "auth-storage"))
	require.NoError(t, s.Remove(ctx, "auth-storage"))
	_, ok, err = s.Get(ctx, "auth-storage")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.Set(ctx, "", "x"), ErrInvalidKey)
}

func TestMemoryContract(t *testing.T) {
	runContract(t, NewMemory())
}

func TestFileContract(t *testing.T) {
	runContract(t, NewFile(filepath.Join(t.TempDir(), "nested", "state.json")))
}

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	require.NoError(t, NewFile(path).Set(ctx, "k", "v"))

	v, ok, err := NewFile(path).Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestFileCorruptContentIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFile(path).Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRedisContract(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedis(client, "authstate")
	runContract(t, s)

	require.NoError(t, s.Set(context.Background(), "k", "v"))
	assert.True(t, mr.Exists("authstate:k"))
}

func TestRedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	err := NewRedis(client, "").Set(context.Background(), "k", "v")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNoopNeverStores(t *testing.T) {
	ctx := context.Background()
	var s Storage = Noop{}
	require.NoError(t, s.Set(ctx, "k", "v"))
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewPostgres(db, "")
	require.NoError(t, err)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS auth_state_kv")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, s.EnsureTable(ctx))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM auth_state_kv WHERE key = $1")).
		WithArgs("auth-storage").
		WillReturnError(sql.ErrNoRows)
	_, ok, err := s.Get(ctx, "auth-storage")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO auth_state_kv")).
		WithArgs("auth-storage", "payload").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, s.Set(ctx, "auth-storage", "payload"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM auth_state_kv")).
		WithArgs("auth-storage").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("payload"))
	v, ok, err := s.Get(ctx, "auth-storage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", v)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM auth_state_kv")).
		WithArgs("auth-storage").
		WillReturnError(sql.ErrConnDone)
	assert.ErrorIs(t, s.Remove(ctx, "auth-storage"), ErrUnavailable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRejectsBadTableName(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewPostgres(db, "x; DROP TABLE users")
	assert.Error(t, err)
}
