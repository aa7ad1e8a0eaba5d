package auth

import (
	"errors"
	"time"

	"wedding_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrNotConfigured = errors.New("jwt secret is not configured")
)

// Claims - полезная нагрузка токена администратора/планировщика
type Claims struct {
	UserID    string          `json:"user_id"`
	Role      models.UserRole `json:"role"`
	WeddingID string          `json:"wedding_id,omitempty"` // только для wedding_admin
	jwt.RegisteredClaims
}

var (
	jwtSecret []byte
	jwtTTL    = 24 * time.Hour
)

// Configure задает секрет и время жизни токена (вызывается при старте)
func Configure(secret string, ttl time.Duration) {
	jwtSecret = []byte(secret)
	if ttl > 0 {
		jwtTTL = ttl
	}
}

// GenerateToken выпускает подписанный HS256 токен
func GenerateToken(userID string, role models.UserRole, weddingID string) (string, time.Time, error) {
	if len(jwtSecret) == 0 {
		return "", time.Time{}, ErrNotConfigured
	}

	now := time.Now()
	expiresAt := now.Add(jwtTTL)
	claims := Claims{
		UserID:    userID,
		Role:      role,
		WeddingID: weddingID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken проверяет подпись и срок действия
func ParseToken(tokenStr string) (*Claims, error) {
	if len(jwtSecret) == 0 {
		return nil, ErrNotConfigured
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if err := ValidateRole(claims.Role); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
