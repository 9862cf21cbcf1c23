package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/access"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestFlagsForAuthenticatedRequester(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	ctx := context.Background()
	flags := service.NewFlagService(db)
	relations := service.NewRelationService(db)

	alice := testhelpers.CreateUser(t, db, "alice", false)
	bob := testhelpers.CreateUser(t, db, "bob", false)
	carol := testhelpers.CreateUser(t, db, "carol", false)
	soup := testhelpers.CreateRecipe(t, db, bob, "Soup", nil)
	salad := testhelpers.CreateRecipe(t, db, carol, "Salad", nil)

	_, err := relations.Subscribe(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = relations.AddFavorite(ctx, alice.ID, soup.ID)
	require.NoError(t, err)
	_, err = relations.AddToCart(ctx, alice.ID, salad.ID)
	require.NoError(t, err)

	me := testhelpers.Requester(alice)

	subscribed, err := flags.Subscribed(ctx, me, []uuid.UUID{alice.ID, bob.ID, carol.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]bool{bob.ID: true}, subscribed)

	favorited, err := flags.Favorited(ctx, me, []uuid.UUID{soup.ID, salad.ID})
	require.NoError(t, err)
	assert.True(t, favorited[soup.ID])
	assert.False(t, favorited[salad.ID])

	inCart, err := flags.InCart(ctx, me, []uuid.UUID{soup.ID, salad.ID})
	require.NoError(t, err)
	assert.False(t, inCart[soup.ID])
	assert.True(t, inCart[salad.ID])

	// bob sees none of alice's relations
	other, err := flags.Favorited(ctx, testhelpers.Requester(bob), []uuid.UUID{soup.ID})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSubscribedIgnoresSelfFollow(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	alice := testhelpers.CreateUser(t, db, "alice", false)
	require.NoError(t, db.Create(&models.Follow{UserID: alice.ID, AuthorID: alice.ID}).Error)

	subscribed, err := service.NewFlagService(db).Subscribed(context.Background(), testhelpers.Requester(alice), []uuid.UUID{alice.ID})
	require.NoError(t, err)
	assert.Empty(t, subscribed)
}

func TestFlagsForAnonymousSkipTheDatabase(t *testing.T) {
	// a nil handle would panic if a query ran
	flags := service.NewFlagService(nil)
	ids := []uuid.UUID{uuid.New()}

	subscribed, err := flags.Subscribed(context.Background(), access.Anonymous(), ids)
	require.NoError(t, err)
	assert.Empty(t, subscribed)

	favorited, err := flags.Favorited(context.Background(), access.Anonymous(), ids)
	require.NoError(t, err)
	assert.Empty(t, favorited)

	inCart, err := flags.InCart(context.Background(), access.Anonymous(), ids)
	require.NoError(t, err)
	assert.Empty(t, inCart)
}
