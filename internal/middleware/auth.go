package middleware

import (
	"errors"
	"strings"

	"wedding_backend/internal/auth"
	"wedding_backend/internal/logger"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/pkg/apperrors"
	"wedding_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const claimsKey = "claims"

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			abort(c, apperrors.NewUnauthorizedError("Invalid token"))
			return
		}

		c.Set(claimsKey, claims)
		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.RoleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RequireRoles - middleware для проверки нескольких возможных ролей
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !roleSet[claims.Role] {
			abort(c, apperrors.NewForbiddenError("Access denied: insufficient role"))
			return
		}
		c.Next()
	}
}

// WeddingLoader - то, что нужно middleware от репозитория свадеб
type WeddingLoader interface {
	FindByID(db *gorm.DB, id string) (*models.Wedding, error)
}

// WeddingAccessMiddleware проверяет доступ к :weddingId и кладет свадьбу в контекст
func WeddingAccessMiddleware(weddings WeddingLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abort(c, apperrors.NewUnauthorizedError("User not authenticated"))
			return
		}

		db, ok := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
		if !ok {
			abort(c, apperrors.InternalError(errors.New("db not found in context")))
			return
		}

		wedding, err := weddings.FindByID(db.WithContext(c.Request.Context()), c.Param("weddingId"))
		if err != nil {
			if errors.Is(err, repositories.ErrWeddingNotFound) {
				// не раскрываем существование чужих свадеб
				abort(c, apperrors.ErrWeddingAccessDenied)
				return
			}
			abort(c, apperrors.InternalError(err))
			return
		}

		if !auth.CanAccessWedding(claims, wedding) {
			abort(c, apperrors.ErrWeddingAccessDenied)
			return
		}

		c.Set(contextkeys.WeddingIDKey, wedding.ID)
		c.Next()
	}
}

// GetClaims извлекает claims из контекста
func GetClaims(c *gin.Context) *auth.Claims {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

func abort(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
	c.Abort()
}
