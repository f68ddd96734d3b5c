package user

import (
	"context"

	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/pkg/store"
)

type Service struct {
	store store.Store
}

func NewUserService(store store.Store) *Service {
	return &Service{store}
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.GetUserByID(ctx, id)
}
