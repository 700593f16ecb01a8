package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/naufalaufa/zipal-app/configs"
	"github.com/naufalaufa/zipal-app/internal/models"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the identity carried by both access and refresh tokens. Role is a
// snapshot from login time; privileged actions re-check the persisted user
// record instead of trusting it.
type Claims struct {
	UserID   uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// IssuePair signs a short-lived access token and a longer-lived refresh token
// for the user, each with its own secret.
func IssuePair(user models.User) (TokenPair, error) {
	cfg := configs.AppConfig.JWT

	access, err := sign(user, cfg.AccessTTL, []byte(cfg.AccessSecret))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := sign(user, cfg.RefreshTTL, []byte(cfg.RefreshSecret))
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func sign(user models.User, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func VerifyAccess(tokenStr string) (*Claims, error) {
	return verify(tokenStr, []byte(configs.AppConfig.JWT.AccessSecret))
}

func VerifyRefresh(tokenStr string) (*Claims, error) {
	return verify(tokenStr, []byte(configs.AppConfig.JWT.RefreshSecret))
}

func verify(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
