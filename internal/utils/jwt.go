package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken создаёт JWT access-токен для админской сессии.
func GenerateToken(secret string, adminID int, role string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"admin_id":   adminID,
		"role":       role,
		"exp":        time.Now().Add(duration).Unix(),
		"iat":        time.Now().Unix(), // issued at — доп. уникальность
		"token_type": "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateResetToken создаёт подписанный токен для сброса пароля.
// Срок жизни проверяется и в самом токене, и в БД (reset_token_expires) —
// сравнение в БД является авторитетным.
func GenerateResetToken(secret string, adminID int, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"admin_id":   adminID,
		"exp":        time.Now().Add(ttl).Unix(),
		"iat":        time.Now().Unix(),
		"token_type": "password_reset",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
