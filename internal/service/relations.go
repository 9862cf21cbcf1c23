package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
)

// RelationService owns the follow, favorite and shopping cart pairs. Adding an existing
// pair and removing a missing one are both errors; there is no toggle.
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

// Subscribe makes userID follow authorID and returns the author.
func (s *RelationService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.User, error) {
	if userID == authorID {
		return nil, errs.NewValidationError("you cannot subscribe to yourself")
	}
	author, err := s.findUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	exists, err := s.pairExists(ctx, &models.Follow{}, "user_id = ? AND author_id = ?", userID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewValidationError("you are already subscribed to this author")
	}

	follow := models.Follow{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Omit("User", "Author").Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewValidationError("you are already subscribed to this author")
		}
		return nil, err
	}
	return author, nil
}

func (s *RelationService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if userID == authorID {
		return errs.NewValidationError("you cannot unsubscribe from yourself")
	}
	if _, err := s.findUser(ctx, authorID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFoundError("you are not subscribed to this author")
	}
	return nil
}

// Subscriptions returns one page of the authors userID follows, ordered by username.
func (s *RelationService) Subscriptions(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.User, int64, error) {
	followed := s.db.WithContext(ctx).Model(&models.Follow{}).Select("author_id").Where("user_id = ?", userID)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id IN (?)", followed).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := s.db.WithContext(ctx).
		Where("id IN (?)", followed).
		Order("username").
		Offset(offset).
		Limit(limit).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}
	return authors, count, nil
}

func (s *RelationService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	return s.addRecipeLink(ctx, &models.Favorite{UserID: userID, RecipeID: recipeID}, &models.Favorite{},
		userID, recipeID, "recipe is already in favorites")
}

func (s *RelationService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeRecipeLink(ctx, &models.Favorite{}, userID, recipeID, "recipe is not in favorites")
}

func (s *RelationService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	return s.addRecipeLink(ctx, &models.ShoppingCart{UserID: userID, RecipeID: recipeID}, &models.ShoppingCart{},
		userID, recipeID, "recipe is already in the shopping cart")
}

func (s *RelationService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeRecipeLink(ctx, &models.ShoppingCart{}, userID, recipeID, "recipe is not in the shopping cart")
}

func (s *RelationService) addRecipeLink(ctx context.Context, row, model interface{}, userID, recipeID uuid.UUID, existsMsg string) (*models.Recipe, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	exists, err := s.pairExists(ctx, model, "user_id = ? AND recipe_id = ?", userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewValidationError(existsMsg)
	}

	if err := s.db.WithContext(ctx).Omit("User", "Recipe").Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewValidationError(existsMsg)
		}
		return nil, err
	}
	return recipe, nil
}

func (s *RelationService) removeRecipeLink(ctx context.Context, model interface{}, userID, recipeID uuid.UUID, missingMsg string) error {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFoundError(missingMsg)
	}
	return nil
}

func (s *RelationService) pairExists(ctx context.Context, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *RelationService) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *RelationService) findRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("recipe not found")
		}
		return nil, err
	}
	return &recipe, nil
}
