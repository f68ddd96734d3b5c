package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePool struct {
	sql  []string
	args [][]any
	tag  pgconn.CommandTag
	err  error
}

func (f *fakePool) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return f.tag, f.err
}

func (f *fakePool) Execx(ctx context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return f.Exec(ctx, sql, args...)
}

func (f *fakePool) Queryx(context.Context, squirrel.Sqlizer) (pgx.Rows, error) {
	return nil, f.err
}

func (f *fakePool) Ping(context.Context) error { return nil }

func (f *fakePool) Close() {}

func TestCreateUserQuery(t *testing.T) {
	user := &domain.User{Username: "alice", UserPassword: domain.UserPassword{Hash: "$2a$hash"}}

	sql, args, err := createUserQuery(user).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO users (username,password_hash) VALUES ($1,$2) "+
			"RETURNING id, username, password_hash, created_at, last_login_at",
		sql)
	assert.Equal(t, []any{"alice", "$2a$hash"}, args)
}

func TestSelectUserQuery(t *testing.T) {
	sql, args, err := selectUserQuery(squirrel.Eq{"username": "alice"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, username, password_hash, created_at, last_login_at FROM users WHERE username = $1 LIMIT 1",
		sql)
	assert.Equal(t, []any{"alice"}, args)
}

func TestUpdatePassword(t *testing.T) {
	pool := &fakePool{tag: pgconn.NewCommandTag("UPDATE 1")}
	s := NewStore(pool)

	require.NoError(t, s.UpdatePassword(context.Background(), 7, "new-hash"))
	require.Len(t, pool.sql, 1)
	assert.Equal(t, "UPDATE users SET password_hash = $1 WHERE id = $2", pool.sql[0])
	assert.Equal(t, []any{"new-hash", int64(7)}, pool.args[0])
}

func TestUpdateLastLoginMissingUser(t *testing.T) {
	pool := &fakePool{tag: pgconn.NewCommandTag("UPDATE 0")}
	s := NewStore(pool)

	err := s.UpdateLastLogin(context.Background(), 42)
	assert.ErrorIs(t, err, constants.ErrDBNotFound)
	assert.Contains(t, pool.sql[0], "UPDATE users SET last_login_at = $1 WHERE id = $2")
}

func TestGetUserPropagatesQueryError(t *testing.T) {
	s := NewStore(&fakePool{err: pgx.ErrNoRows})

	_, err := s.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, constants.ErrDBNotFound)
}

func TestMigrate(t *testing.T) {
	pool := &fakePool{}
	require.NoError(t, NewStore(pool).Migrate(context.Background()))
	require.Len(t, pool.sql, len(schema))
	assert.Contains(t, pool.sql[0], "CREATE TABLE IF NOT EXISTS users")

	pool.err = errors.New("permission denied")
	assert.ErrorContains(t, NewStore(pool).Migrate(context.Background()), "migration 0: permission denied")
}

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr(nil))
	assert.Equal(t, constants.ErrDBNotFound, wrapErr(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.Equal(t, constants.ErrUsernameTaken, wrapErr(&pgconn.PgError{Code: "23505"}))

	other := errors.New("boom")
	assert.Equal(t, other, wrapErr(other))
}
