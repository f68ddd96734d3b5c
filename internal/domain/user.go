package domain

import (
	"errors"
	"time"

	"github.com/ougirez/roaddefects/internal/pkg/constants"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	UserPassword `json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at"`
}

// UserPassword holds a bcrypt hash; the salt is part of the hash.
type UserPassword struct {
	Hash string `db:"password_hash" json:"-"`
}

func (p *UserPassword) Init(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	return nil
}

func (p *UserPassword) Validate(password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return constants.ErrInvalidCredentials
	}
	return err
}

type SignupUserRequest struct {
	Username        string `form:"username" json:"username" validate:"required,min=3,max=50"`
	Password        string `form:"password" json:"password" validate:"required,password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" validate:"required"`
}

type LoginUserRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `form:"current_password" json:"current_password" validate:"required"`
	NewPassword        string `form:"new_password" json:"new_password" validate:"required,password,nefield=CurrentPassword"`
	ConfirmNewPassword string `form:"confirm_new_password" json:"confirm_new_password" validate:"required,eqfield=NewPassword"`
}

type AuthResponse struct {
	User         *User
	AuthToken    string
	RefreshToken string
}
