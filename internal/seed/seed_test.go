package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/seed"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestRunIsIdempotent(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	seeder := seed.New(db).WithHashCost(bcrypt.MinCost)
	ctx := context.Background()
	admin := seed.Superuser{Email: "Admin@Example.com", Password: "admin-password"}

	result, err := seeder.Run(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{SuperuserCreated: true, TagsCreated: 3}, result)

	result, err = seeder.Run(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{}, result)

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "admin@example.com").Error)
	assert.True(t, user.IsSuperuser)
	assert.Equal(t, "admin", user.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("admin-password")))

	var tags int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)
	assert.EqualValues(t, 3, tags)
}

func TestRunPromotesExistingUser(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	alice := testhelpers.CreateUser(t, db, "alice", false)

	result, err := seed.New(db).Run(context.Background(), seed.Superuser{Email: alice.Email})
	require.NoError(t, err)
	assert.False(t, result.SuperuserCreated)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", alice.ID).Error)
	assert.True(t, user.IsSuperuser)
}

func TestRunWithoutSuperuser(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	testhelpers.CreateTag(t, db, "Breakfast", "breakfast")

	result, err := seed.New(db).Run(context.Background(), seed.Superuser{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TagsCreated)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestRunRejectsShortPassword(t *testing.T) {
	db := testhelpers.SetupSQLite(t)

	_, err := seed.New(db).Run(context.Background(), seed.Superuser{Email: "admin@example.com", Password: "short"})
	assert.Error(t, err)
}
