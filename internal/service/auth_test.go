package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

const testSecret = "test-secret-with-at-least-32-characters"

func registerRequest(username string) types.RegisterRequest {
	return types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "correct-horse",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	ctx := context.Background()
	auth := service.NewAuthService(db, testSecret).WithHashCost(bcrypt.MinCost)

	user, err := auth.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.False(t, user.IsSuperuser)

	token, err := auth.Login(ctx, "ADA@example.com", "correct-horse")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.False(t, claims.IsSuperuser)

	_, err = auth.Login(ctx, "ada@example.com", "wrong")
	assert.True(t, errs.IsValidation(err))
	_, err = auth.Login(ctx, "nobody@example.com", "correct-horse")
	assert.True(t, errs.IsValidation(err))
}

func TestRegisterDuplicates(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	ctx := context.Background()
	auth := service.NewAuthService(db, testSecret).WithHashCost(bcrypt.MinCost)

	_, err := auth.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)

	dupEmail := registerRequest("ada2")
	dupEmail.Email = "ada@example.com"
	_, err = auth.Register(ctx, dupEmail)
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "email", apiErr.Field)

	dupUsername := registerRequest("ada")
	dupUsername.Email = "other@example.com"
	_, err = auth.Register(ctx, dupUsername)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "username", apiErr.Field)
}

func TestValidateTokenRejectsBadTokens(t *testing.T) {
	auth := service.NewAuthService(nil, testSecret)

	_, err := auth.ValidateToken("invalid.token")
	assert.Error(t, err)

	other := service.NewAuthService(nil, "another-secret-with-at-least-32-chars")
	token, err := other.GenerateToken(&models.User{Base: models.Base{ID: uuid.New()}})
	require.NoError(t, err)
	_, err = auth.ValidateToken(token)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		UserID:           uuid.New(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = auth.ValidateToken(signed)
	assert.Error(t, err)
}

func TestAuthenticateReadsCurrentUser(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	ctx := context.Background()
	auth := service.NewAuthService(db, testSecret)

	user := testhelpers.CreateUser(t, db, "alice", false)
	token, err := auth.GenerateToken(user)
	require.NoError(t, err)

	requester, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.True(t, requester.Authenticated)
	assert.Equal(t, user.ID, requester.UserID)
	assert.False(t, requester.IsSuperuser)

	// promotion takes effect without a new token
	require.NoError(t, db.Model(user).Update("is_superuser", true).Error)
	requester, err = auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.True(t, requester.IsSuperuser)

	require.NoError(t, db.Delete(&models.User{}, "id = ?", user.ID).Error)
	_, err = auth.Authenticate(ctx, token)
	assert.True(t, errs.IsUnauthorized(err))

	_, err = auth.Authenticate(ctx, "garbage")
	assert.True(t, errs.IsUnauthorized(err))
}

func TestSetPassword(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	ctx := context.Background()
	auth := service.NewAuthService(db, testSecret).WithHashCost(bcrypt.MinCost)
	user := testhelpers.CreateUser(t, db, "alice", false)

	err := auth.SetPassword(ctx, user.ID, "wrong", "new-password")
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "current_password", apiErr.Field)

	require.NoError(t, auth.SetPassword(ctx, user.ID, testhelpers.TestPassword, "new-password"))

	_, err = auth.Login(ctx, user.Email, testhelpers.TestPassword)
	assert.Error(t, err)
	_, err = auth.Login(ctx, user.Email, "new-password")
	assert.NoError(t, err)
}
