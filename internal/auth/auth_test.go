package auth

import (
	"testing"
	"time"

	"wedding_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	Configure("test-secret", time.Hour)

	token, expiresAt, err := GenerateToken("admin-1", models.UserRoleWeddingAdmin, "wedding-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.UserID)
	assert.Equal(t, models.UserRoleWeddingAdmin, claims.Role)
	assert.Equal(t, "wedding-1", claims.WeddingID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	Configure("secret-a", time.Hour)
	token, _, err := GenerateToken("planner-1", models.UserRolePlanner, "")
	require.NoError(t, err)

	Configure("secret-b", time.Hour)
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCanAccessWedding(t *testing.T) {
	wedding := &models.Wedding{PlannerID: "planner-1"}
	wedding.ID = "wedding-1"

	assert.True(t, CanAccessWedding(&Claims{UserID: "planner-1", Role: models.UserRolePlanner}, wedding))
	assert.False(t, CanAccessWedding(&Claims{UserID: "planner-2", Role: models.UserRolePlanner}, wedding))
	assert.True(t, CanAccessWedding(&Claims{UserID: "a", Role: models.UserRoleWeddingAdmin, WeddingID: "wedding-1"}, wedding))
	assert.False(t, CanAccessWedding(&Claims{UserID: "a", Role: models.UserRoleWeddingAdmin, WeddingID: "other"}, wedding))
	assert.False(t, CanAccessWedding(nil, wedding))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct horse battery", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
	assert.False(t, CheckPasswordHash("whatever1", ""))

	_, err = HashPassword("short")
	assert.Error(t, err)
}
