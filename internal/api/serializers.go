package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/access"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Presenter turns models into response shapes. The requester-relative flags are
// resolved once per page, not once per object.
type Presenter struct {
	flags   service.IFlagService
	recipes service.IRecipeService
}

func NewPresenter(flags service.IFlagService, recipes service.IRecipeService) *Presenter {
	return &Presenter{flags: flags, recipes: recipes}
}

func (p *Presenter) Users(ctx context.Context, r access.Requester, users []models.User) ([]types.UserResponse, error) {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := p.flags.Subscribed(ctx, r, ids)
	if err != nil {
		return nil, err
	}

	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i], subscribed[users[i].ID]))
	}
	return out, nil
}

func (p *Presenter) User(ctx context.Context, r access.Requester, user *models.User) (types.UserResponse, error) {
	out, err := p.Users(ctx, r, []models.User{*user})
	if err != nil {
		return types.UserResponse{}, err
	}
	return out[0], nil
}

func (p *Presenter) Recipes(ctx context.Context, r access.Requester, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		authorIDs = append(authorIDs, recipe.AuthorID)
	}

	subscribed, err := p.flags.Subscribed(ctx, r, authorIDs)
	if err != nil {
		return nil, err
	}
	favorited, err := p.flags.Favorited(ctx, r, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := p.flags.InCart(ctx, r, recipeIDs)
	if err != nil {
		return nil, err
	}

	out := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		recipe := &recipes[i]

		tags := make([]types.TagResponse, 0, len(recipe.Tags))
		for j := range recipe.Tags {
			tags = append(tags, tagResponse(&recipe.Tags[j]))
		}
		ingredients := make([]types.RecipeIngredientResponse, 0, len(recipe.Ingredients))
		for _, item := range recipe.Ingredients {
			ingredients = append(ingredients, types.RecipeIngredientResponse{
				ID:              item.IngredientID,
				Name:            item.Ingredient.Name,
				MeasurementUnit: item.Ingredient.MeasurementUnit.Name,
				Amount:          item.Amount,
			})
		}

		out = append(out, types.RecipeResponse{
			ID:               recipe.ID,
			Tags:             tags,
			Author:           userResponse(&recipe.Author, subscribed[recipe.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[recipe.ID],
			IsInShoppingCart: inCart[recipe.ID],
			Name:             recipe.Name,
			Image:            recipe.Image,
			Text:             recipe.Text,
			CookingTime:      recipe.CookingTime,
			PubDate:          recipe.PubDate,
		})
	}
	return out, nil
}

func (p *Presenter) Recipe(ctx context.Context, r access.Requester, recipe *models.Recipe) (types.RecipeResponse, error) {
	out, err := p.Recipes(ctx, r, []models.Recipe{*recipe})
	if err != nil {
		return types.RecipeResponse{}, err
	}
	return out[0], nil
}

// Subscriptions renders followed authors with up to recipesLimit of their newest
// recipes; recipesLimit <= 0 embeds all of them.
func (p *Presenter) Subscriptions(ctx context.Context, r access.Requester, authors []models.User, recipesLimit int) ([]types.SubscriptionResponse, error) {
	users, err := p.Users(ctx, r, authors)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := p.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]types.SubscriptionResponse, 0, len(authors))
	for i, author := range authors {
		recipes, err := p.recipes.RecipesByAuthor(ctx, author.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		short := make([]types.RecipeShortResponse, 0, len(recipes))
		for j := range recipes {
			short = append(short, RecipeShort(&recipes[j]))
		}
		out = append(out, types.SubscriptionResponse{
			UserResponse: users[i],
			Recipes:      short,
			RecipesCount: counts[author.ID],
		})
	}
	return out, nil
}

func RecipeShort(recipe *models.Recipe) types.RecipeShortResponse {
	return types.RecipeShortResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

func userResponse(user *models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}

func tagResponse(tag *models.Tag) types.TagResponse {
	return types.TagResponse{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
}

func ingredientResponse(ingredient *models.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit.Name,
	}
}

func unitResponse(unit *models.MeasurementUnit) types.UnitResponse {
	return types.UnitResponse{ID: unit.ID, Name: unit.Name}
}
