package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
	"github.com/spf13/viper"
)

type AuthTokenWrapper struct {
	UserID    int64
	Type      string
	ExpiresAt time.Time
}

type authClaims struct {
	jwt.StandardClaims
	UserID int64  `json:"user_id"`
	Type   string `json:"type"`
}

func secret() ([]byte, error) {
	key := viper.GetString(constants.ViperSecretKey)
	if key == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	return []byte(key), nil
}

// GenerateAuthToken signs an HS256 token for the wrapper, valid for ttl.
func GenerateAuthToken(w *AuthTokenWrapper, ttl time.Duration) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := authClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   fmt.Sprint(w.UserID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		UserID: w.UserID,
		Type:   w.Type,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func ParseAuthToken(token string) (*AuthTokenWrapper, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}

	var claims authClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !parsed.Valid {
		return nil, constants.ErrInvalidToken
	}

	return &AuthTokenWrapper{
		UserID:    claims.UserID,
		Type:      claims.Type,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}

// ParseAuthTokenOfType also requires the type claim to match.
func ParseAuthTokenOfType(token, typ string) (*AuthTokenWrapper, error) {
	w, err := ParseAuthToken(token)
	if err != nil {
		return nil, err
	}
	if w.Type != typ {
		return nil, constants.ErrInvalidToken
	}
	return w, nil
}
