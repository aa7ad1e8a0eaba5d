package auth

import (
	"errors"

	"wedding_backend/internal/models"
)

// CanAccessWedding: планировщик - владелец свадьбы, админ - привязан к ней
func CanAccessWedding(claims *Claims, wedding *models.Wedding) bool {
	if claims == nil || wedding == nil {
		return false
	}
	switch claims.Role {
	case models.UserRolePlanner:
		return wedding.PlannerID == claims.UserID
	case models.UserRoleWeddingAdmin:
		return claims.WeddingID == wedding.ID
	default:
		return false
	}
}

// ValidateRole проверяет валидность роли
func ValidateRole(role models.UserRole) error {
	switch role {
	case models.UserRoleWeddingAdmin, models.UserRolePlanner:
		return nil
	default:
		return errors.New("invalid role")
	}
}
