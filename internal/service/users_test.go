package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestDeleteUserCascades(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	ctx := context.Background()
	users := service.NewUserService(db)
	relations := service.NewRelationService(db)

	alice := testhelpers.CreateUser(t, db, "alice", false)
	bob := testhelpers.CreateUser(t, db, "bob", false)
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	tag := testhelpers.CreateTag(t, db, "Lunch", "lunch")

	aliceRecipe := testhelpers.CreateRecipe(t, db, alice, "Pie", []testhelpers.IngredientAmount{{Ingredient: flour, Amount: 200}}, tag)
	bobRecipe := testhelpers.CreateRecipe(t, db, bob, "Tart", []testhelpers.IngredientAmount{{Ingredient: flour, Amount: 100}})

	_, err := relations.Subscribe(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = relations.Subscribe(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = relations.AddFavorite(ctx, bob.ID, aliceRecipe.ID)
	require.NoError(t, err)
	_, err = relations.AddToCart(ctx, alice.ID, bobRecipe.ID)
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, alice.ID))

	count := func(model interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), count(&models.User{}))
	assert.Equal(t, int64(1), count(&models.Recipe{}))
	assert.Equal(t, int64(1), count(&models.RecipeIngredient{}))
	assert.Zero(t, count(&models.RecipeTag{}))
	assert.Zero(t, count(&models.Follow{}))
	assert.Zero(t, count(&models.Favorite{}))
	assert.Zero(t, count(&models.ShoppingCart{}))

	_, err = users.Get(ctx, alice.ID)
	assert.True(t, errs.IsNotFound(err))
	assert.True(t, errs.IsNotFound(users.Delete(ctx, uuid.New())))
}

func TestListUsers(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	users := service.NewUserService(db)

	testhelpers.CreateUser(t, db, "carol", false)
	testhelpers.CreateUser(t, db, "alice", false)
	testhelpers.CreateUser(t, db, "bob", false)

	page, count, err := users.List(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	require.Len(t, page, 2)
	assert.Equal(t, "alice", page[0].Username)
	assert.Equal(t, "bob", page[1].Username)
}
