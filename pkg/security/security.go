package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	TOKEN_KEY = "Authorization"
)

// TokenClaims is the bearer-token payload. Every request carries the user,
// the currently active workspace and the user's role within it; switching
// workspaces re-issues the token with new ws/role values.
type TokenClaims struct {
	User       string `json:"u"`
	Username   string `json:"un"`
	Workspace  string `json:"ws"`
	Role       string `json:"r"`
	IsAdmin    bool   `json:"adm"`
	ExpireTime int64  `json:"exp"`
	NotBefore  int64  `json:"nbf"`
}

func NewTokenClaims(userID, username, workspaceID, role string, isAdmin bool, expireTime int64) TokenClaims {
	return TokenClaims{
		User:       userID,
		Username:   username,
		Workspace:  workspaceID,
		Role:       role,
		IsAdmin:    isAdmin,
		ExpireTime: expireTime,
		NotBefore:  time.Now().Unix() - 1,
	}
}

var (
	ErrInvalidJWT = errors.New("invalid token")
)

func (t TokenClaims) Valid() error {
	now := time.Now().Unix()
	if t.ExpireTime < now || t.NotBefore > now {
		return fmt.Errorf("expired token, %w", ErrInvalidJWT)
	}
	return nil
}

func GenerateJWT(info TokenClaims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, info)
	return token.SignedString(secret)
}

func VerifyToken(tokenString string, secret []byte) (*TokenClaims, error) {
	result := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, result, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v, %w", token.Header["alg"], ErrInvalidJWT)
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s, %w", err.Error(), ErrInvalidJWT)
	}
	return result, nil
}
