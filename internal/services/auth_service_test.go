package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloxevents/doorman/internal/config"
	"github.com/veloxevents/doorman/internal/models"
)

func TestAuthService_Login(t *testing.T) {
	db := setupTestDB(t)
	cfg := config.Config{JWTSecret: "test-secret"}
	service := NewAuthService(db, cfg)

	user := &models.User{Name: "Test User", Email: "test@example.com", Role: models.RoleUser, Enabled: true}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)

	// Successful login
	token, err := service.Login("test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Invalid password
	token, err = service.Login("test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)

	// Unknown email reads the same as a wrong password
	_, err = service.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Lockout(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	user := &models.User{Name: "Test User", Email: "lock@example.com", Role: models.RoleUser, Enabled: true}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)

	for i := 0; i < 5; i++ {
		_, err := service.Login("lock@example.com", "wrongpassword")
		assert.Error(t, err)
	}

	var locked models.User
	require.NoError(t, db.Where("email = ?", "lock@example.com").First(&locked).Error)
	assert.Equal(t, 5, locked.FailedLoginAttempts)
	require.NotNil(t, locked.LockedUntil)
	assert.True(t, locked.LockedUntil.After(time.Now()))

	// Correct password while locked still fails.
	_, err := service.Login("lock@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestAuthService_ValidateToken(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	user := &models.User{Name: "Jane", Email: "jane@example.com", Role: models.RoleAdmin, Enabled: true}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)

	token, err := service.Login("jane@example.com", "password123")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	// Garbage and mis-signed tokens read uniformly as invalid.
	_, err = service.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(db, config.Config{JWTSecret: "different-secret"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ChangePassword(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	user := &models.User{Name: "Jane", Email: "jane@example.com", Role: models.RoleUser, Enabled: true}
	require.NoError(t, user.SetPassword("oldpassword"))
	require.NoError(t, db.Create(user).Error)

	assert.ErrorIs(t, service.ChangePassword(user.ID, "wrong", "newpassword1"), ErrInvalidCredentials)
	require.NoError(t, service.ChangePassword(user.ID, "oldpassword", "newpassword1"))

	_, err := service.Login("jane@example.com", "newpassword1")
	assert.NoError(t, err)
}
