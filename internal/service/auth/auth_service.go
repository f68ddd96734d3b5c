package auth

import (
	"context"
	"errors"
	"time"

	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
	"github.com/ougirez/roaddefects/internal/pkg/logger"
	"github.com/ougirez/roaddefects/internal/pkg/store"
	"github.com/ougirez/roaddefects/internal/pkg/utils"
)

type Config struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Service struct {
	store store.Store
	cfg   Config
}

func NewService(store store.Store, cfg Config) *Service {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	return &Service{store: store, cfg: cfg}
}

func (svc *Service) SignupUser(ctx context.Context, request *domain.SignupUserRequest) (*domain.AuthResponse, error) {
	if request.Password != request.ConfirmPassword {
		return nil, constants.ErrPasswordMismatch
	}
	if err := utils.CheckPasswordStrength(request.Password); err != nil {
		return nil, err
	}

	if _, err := svc.store.GetUserByUsername(ctx, request.Username); !errors.Is(err, constants.ErrDBNotFound) {
		if err == nil {
			return nil, constants.ErrUsernameTaken
		}
		return nil, err
	}

	user := &domain.User{Username: request.Username}
	if err := user.UserPassword.Init(request.Password); err != nil {
		return nil, err
	}
	if err := svc.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Infof(ctx, "signup: userID: [%v]", user.ID)
	return svc.issue(user)
}

func (svc *Service) LoginUser(ctx context.Context, request *domain.LoginUserRequest) (*domain.AuthResponse, error) {
	user, err := svc.store.GetUserByUsername(ctx, request.Username)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, constants.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := user.UserPassword.Validate(request.Password); err != nil {
		return nil, err
	}

	if err := svc.store.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warnf(ctx, "login: update last login of %d: %s", user.ID, err.Error())
	} else {
		now := time.Now().UTC()
		user.LastLoginAt = &now
	}

	logger.Debugf(ctx, "login: userID: [%v]", user.ID)
	return svc.issue(user)
}

// Authenticate resolves an access token to its user.
func (svc *Service) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	token, err := utils.ParseAuthTokenOfType(accessToken, constants.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return svc.userByToken(ctx, token)
}

// Refresh exchanges a refresh token for a new token pair.
func (svc *Service) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error) {
	token, err := utils.ParseAuthTokenOfType(refreshToken, constants.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := svc.userByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return svc.issue(user)
}

func (svc *Service) userByToken(ctx context.Context, token *utils.AuthTokenWrapper) (*domain.User, error) {
	user, err := svc.store.GetUserByID(ctx, token.UserID)
	if errors.Is(err, constants.ErrDBNotFound) {
		return nil, constants.ErrInvalidToken
	}
	return user, err
}

func (svc *Service) ChangePassword(ctx context.Context, userID int64, request *domain.ChangePasswordRequest) error {
	if request.NewPassword != request.ConfirmNewPassword {
		return constants.ErrPasswordMismatch
	}
	if request.NewPassword == request.CurrentPassword {
		return constants.ErrBadRequest.Wrapf("new password must differ from the current one")
	}
	if err := utils.CheckPasswordStrength(request.NewPassword); err != nil {
		return err
	}

	user, err := svc.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.UserPassword.Validate(request.CurrentPassword); err != nil {
		if errors.Is(err, constants.ErrInvalidCredentials) {
			return constants.ErrInvalidCredentials.Wrapf("current password is incorrect")
		}
		return err
	}

	var password domain.UserPassword
	if err := password.Init(request.NewPassword); err != nil {
		return err
	}
	if err := svc.store.UpdatePassword(ctx, userID, password.Hash); err != nil {
		return err
	}

	logger.Infof(ctx, "password changed: userID: [%v]", userID)
	return nil
}

// EnsureAdmin creates the bootstrap account unless it already exists.
// An empty password disables the bootstrap.
func (svc *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	_, err := svc.store.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, constants.ErrDBNotFound) {
		return err
	}

	user := &domain.User{Username: username}
	if err := user.UserPassword.Init(password); err != nil {
		return err
	}
	if err := svc.store.CreateUser(ctx, user); err != nil {
		return err
	}

	logger.Infof(ctx, "bootstrap: created user %s", username)
	return nil
}

func (svc *Service) issue(user *domain.User) (*domain.AuthResponse, error) {
	authToken, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{UserID: user.ID, Type: constants.TokenTypeAccess}, svc.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{UserID: user.ID, Type: constants.TokenTypeRefresh}, svc.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{User: user, AuthToken: authToken, RefreshToken: refreshToken}, nil
}

func (svc *Service) AccessTTL() time.Duration {
	return svc.cfg.AccessTTL
}

func (svc *Service) RefreshTTL() time.Duration {
	return svc.cfg.RefreshTTL
}
