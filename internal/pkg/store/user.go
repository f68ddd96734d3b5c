package store

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
	"github.com/ougirez/roaddefects/internal/pkg/logger"
	"github.com/ougirez/roaddefects/internal/pkg/store/xpgx"
)

var userColumns = []string{"id", "username", "password_hash", "created_at", "last_login_at"}

func (s *store) CreateUser(ctx context.Context, user *domain.User) error {
	query := createUserQuery(user)

	created, err := xpgx.Get[domain.User](ctx, s.pool, query)
	if err != nil {
		logger.Errorf(ctx, "create user %s: %s", user.Username, err.Error())
		return wrapErr(err)
	}

	*user = *created
	return nil
}

func createUserQuery(user *domain.User) squirrel.InsertBuilder {
	return builder().Insert(tableUsers).
		Columns("username", "password_hash").
		Values(user.Username, user.UserPassword.Hash).
		Suffix("RETURNING " + joinColumns(userColumns))
}

func (s *store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := xpgx.Get[domain.User](ctx, s.pool, selectUserQuery(squirrel.Eq{"username": username}))
	if err != nil {
		return nil, wrapErr(err)
	}
	return user, nil
}

func (s *store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := xpgx.Get[domain.User](ctx, s.pool, selectUserQuery(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, wrapErr(err)
	}
	return user, nil
}

func selectUserQuery(where squirrel.Eq) squirrel.SelectBuilder {
	return builder().Select(userColumns...).
		From(tableUsers).
		Where(where).
		Limit(1)
}

func (s *store) UpdateLastLogin(ctx context.Context, id int64) error {
	query := builder().Update(tableUsers).
		Set("last_login_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})

	return s.execOne(ctx, query)
}

func (s *store) UpdatePassword(ctx context.Context, id int64, hash string) error {
	query := builder().Update(tableUsers).
		Set("password_hash", hash).
		Where(squirrel.Eq{"id": id})

	return s.execOne(ctx, query)
}

// execOne runs an update that must touch exactly one row.
func (s *store) execOne(ctx context.Context, query squirrel.Sqlizer) error {
	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrDBNotFound
	}
	return nil
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
