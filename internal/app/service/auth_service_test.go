package service

import (
	"testing"
	"time"

	"github.com/ikkim/ratehub-backend/internal/app/model"
	"github.com/ikkim/ratehub-backend/internal/app/repository"
	"github.com/ikkim/ratehub-backend/internal/db"
	"github.com/ikkim/ratehub-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*gorm.DB, AuthService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(
		userRepo,
		"test-jwt-secret",
		15*time.Minute,
		7*24*time.Hour,
	)

	return testDB, authService
}

func TestAuthService_Register(t *testing.T) {
	testDB, authService := setupAuthServiceTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		role     model.UserRole
		wantRole model.UserRole
		wantErr  error
	}{
		{
			name:     "Valid registration defaults to user role",
			userName: "Test User",
			email:    "test@example.com",
			password: "Secret#123",
			wantRole: model.RoleUser,
		},
		{
			name:     "Store owner registration",
			userName: "Owner",
			email:    "owner@example.com",
			password: "Secret#123",
			role:     model.RoleStoreOwner,
			wantRole: model.RoleStoreOwner,
		},
		{
			name:     "Duplicate email",
			userName: "Another",
			email:    "test@example.com",
			password: "Secret#123",
			wantErr:  ErrEmailAlreadyExists,
		},
		{
			name:     "Duplicate email different casing",
			userName: "Another",
			email:    "TEST@example.com",
			password: "Secret#123",
			wantErr:  ErrEmailAlreadyExists,
		},
		{
			name:     "Password too short",
			userName: "Short",
			email:    "short@example.com",
			password: "Ab#1",
			wantErr:  util.ErrPasswordLength,
		},
		{
			name:     "Password missing uppercase and special",
			userName: "Weak",
			email:    "weak@example.com",
			password: "password123",
			wantErr:  util.ErrPasswordComplexity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Register(tt.userName, tt.email, tt.password, "", tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				require.NotNil(t, tokens)
				assert.Equal(t, tt.wantRole, user.Role)
				assert.True(t, user.IsActive)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	testDB, authService := setupAuthServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := authService.Register("Test User", "test@example.com", "Secret#123", "", model.RoleUser)
	require.NoError(t, err)

	deactivated, _, err := authService.Register("Gone", "gone@example.com", "Secret#123", "", model.RoleUser)
	require.NoError(t, err)
	require.NoError(t, testDB.Model(deactivated).Update("is_active", false).Error)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"Valid login", "test@example.com", "Secret#123", nil},
		{"Email casing ignored", "TEST@Example.com", "Secret#123", nil},
		{"Wrong password", "test@example.com", "Wrong#1234", ErrInvalidCredentials},
		{"Unknown email", "nobody@example.com", "Secret#123", ErrInvalidCredentials},
		{"Deactivated account", "gone@example.com", "Secret#123", ErrAccountDeactivated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "test@example.com", user.Email)
				assert.NotEmpty(t, tokens.AccessToken)
			}
		})
	}
}

func TestAuthService_UpdatePassword(t *testing.T) {
	testDB, authService := setupAuthServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user, _, err := authService.Register("Test User", "test@example.com", "Secret#123", "", model.RoleUser)
	require.NoError(t, err)

	// Wrong current password
	err = authService.UpdatePassword(user.ID, "Wrong#1234", "Another#123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// New password must satisfy the policy
	err = authService.UpdatePassword(user.ID, "Secret#123", "weak")
	assert.ErrorIs(t, err, util.ErrPasswordLength)

	// Valid change
	err = authService.UpdatePassword(user.ID, "Secret#123", "Another#123")
	require.NoError(t, err)

	_, _, err = authService.Login("test@example.com", "Secret#123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.Login("test@example.com", "Another#123")
	assert.NoError(t, err)
}
