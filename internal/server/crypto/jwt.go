// Package crypto содержит криптографические примитивы сервера.
//
// В частности, пакет отвечает за:
//   - хэширование и проверку паролей (argon2id, bcrypt);
//   - подпись и проверку cookie сессии (JWT, HS256).
package crypto

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSessionToken возвращается, если cookie сессии подделана,
// просрочена или выписана другим сервером.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionTokenConfig описывает параметры подписи cookie сессии.
type SessionTokenConfig struct {
	// Issuer — значение поля iss.
	Issuer string
	// SigningKey — секрет сессий (SESSION_SECRET).
	SigningKey string
	// TTL — срок жизни cookie, совпадает со сроком жизни сессии.
	TTL time.Duration
}

// NewSessionToken подписывает идентификатор серверной сессии.
//
// В токене нет данных пользователя: только jti (id сессии), iss, iat, exp.
// Всё остальное хранится на сервере.
func NewSessionToken(sessionID string, cfg SessionTokenConfig) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(cfg.SigningKey))
}

// ParseSessionToken проверяет подпись и срок cookie и возвращает id сессии.
func ParseSessionToken(token string, cfg SessionTokenConfig) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidSessionToken
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.SigningKey), nil
	})
	if err != nil {
		return "", ErrInvalidSessionToken
	}

	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return "", ErrInvalidSessionToken
	}

	id := strings.TrimSpace(claims.ID)
	if id == "" {
		return "", ErrInvalidSessionToken
	}
	return id, nil
}
