package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/access"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error
	ValidateToken(token string) (*types.TokenClaims, error)
	Authenticate(ctx context.Context, token string) (access.Requester, error)
}

// IUserService defines the interface for user listing and removal
type IUserService interface {
	List(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, requester access.Requester, req types.RecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, requester access.Requester, id uuid.UUID, req types.RecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, requester access.Requester, id uuid.UUID) error
	ListRecipes(ctx context.Context, requester access.Requester, filter types.RecipeFilter, offset, limit int) ([]models.Recipe, int64, error)
	RecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

// IRelationService defines the interface for follow, favorite and cart pairs
type IRelationService interface {
	Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.User, error)
	Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error
	Subscriptions(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.User, int64, error)
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error
}

// IShoppingService defines the interface for the shopping list export
type IShoppingService interface {
	Aggregate(ctx context.Context, userID uuid.UUID) ([]types.ShoppingListItem, error)
	Download(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// ICatalogService defines the interface for tags, ingredients and units
type ICatalogService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	CreateTag(ctx context.Context, req types.TagRequest) (*models.Tag, error)
	UpdateTag(ctx context.Context, id uuid.UUID, req types.TagRequest) (*models.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
	SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, name, unit string) (*models.Ingredient, error)
	EnsureIngredient(ctx context.Context, name, unit string) (*models.Ingredient, bool, error)
	ListUnits(ctx context.Context) ([]models.MeasurementUnit, error)
	CreateUnit(ctx context.Context, name string) (*models.MeasurementUnit, error)
}

// IFlagService defines the interface for requester-relative flags
type IFlagService interface {
	Subscribed(ctx context.Context, r access.Requester, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	Favorited(ctx context.Context, r access.Requester, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	InCart(ctx context.Context, r access.Requester, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

var (
	_ IAuthService     = (*AuthService)(nil)
	_ IUserService     = (*UserService)(nil)
	_ IRecipeService   = (*RecipeService)(nil)
	_ IRelationService = (*RelationService)(nil)
	_ IShoppingService = (*ShoppingService)(nil)
	_ ICatalogService  = (*CatalogService)(nil)
	_ IFlagService     = (*FlagService)(nil)
	_ ImageStore       = (*S3ImageStore)(nil)
	_ ImageStore       = (*DiskImageStore)(nil)
)
