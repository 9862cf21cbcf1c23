package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/access"
	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
	policy access.Policy
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
		policy: access.AuthorAdminOrReadOnly{},
	}
}

// CreateRecipe validates the submission and persists the recipe, its ingredient amounts
// and its tags in one transaction. The author is always the requester.
func (s *RecipeService) CreateRecipe(ctx context.Context, requester access.Requester, req types.RecipeRequest) (*models.Recipe, error) {
	if !requester.Authenticated {
		return nil, errs.NewUnauthorizedError("authentication credentials were not provided")
	}
	if err := validateRecipeRequest(req, true); err != nil {
		return nil, err
	}

	tags, err := s.checkReferences(ctx, req)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, *req.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        strings.TrimSpace(*req.Name),
		Image:       imageURL,
		Text:        *req.Text,
		CookingTime: *req.CookingTime,
		AuthorID:    requester.UserID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Ingredients", "Tags").Create(&recipe).Error; err != nil {
			return err
		}
		if err := replaceIngredients(tx, recipe.ID, req.Ingredients); err != nil {
			return err
		}
		return replaceTags(tx, recipe.ID, tags)
	})
	if err != nil {
		s.discardImage(ctx, imageURL)
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// GetRecipe retrieves a recipe by ID with author, tags and ingredients loaded
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withDetails(s.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("recipe not found")
		}
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe applies a PATCH. Scalar fields keep their value when absent; the
// ingredient and tag sets are always replaced.
func (s *RecipeService) UpdateRecipe(ctx context.Context, requester access.Requester, id uuid.UUID, req types.RecipeRequest) (*models.Recipe, error) {
	recipe, err := s.authorize(ctx, requester, http.MethodPatch, id)
	if err != nil {
		return nil, err
	}
	if err := validateRecipeRequest(req, false); err != nil {
		return nil, err
	}

	tags, err := s.checkReferences(ctx, req)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.CookingTime != nil {
		updates["cooking_time"] = *req.CookingTime
	}
	var imageURL string
	if req.Image != nil {
		imageURL, err = s.storeImage(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		updates["image"] = imageURL
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		if err := replaceIngredients(tx, recipe.ID, req.Ingredients); err != nil {
			return err
		}
		return replaceTags(tx, recipe.ID, tags)
	})
	if err != nil {
		s.discardImage(ctx, imageURL)
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if imageURL != "" && recipe.Image != imageURL {
		s.discardImage(ctx, recipe.Image)
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// DeleteRecipe deletes a recipe together with its ingredient rows, tag rows, favorites
// and cart entries.
func (s *RecipeService) DeleteRecipe(ctx context.Context, requester access.Requester, id uuid.UUID) error {
	recipe, err := s.authorize(ctx, requester, http.MethodDelete, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRecipes(tx, []uuid.UUID{recipe.ID})
	})
	if err != nil {
		return err
	}
	s.discardImage(ctx, recipe.Image)
	return nil
}

// ListRecipes returns one page of recipes, newest first, and the total count.
// Favorited and cart filters only apply to authenticated requesters.
func (s *RecipeService) ListRecipes(ctx context.Context, requester access.Requester, filter types.RecipeFilter, offset, limit int) ([]models.Recipe, int64, error) {
	scoped := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.Recipe{})
		if filter.AuthorID != nil {
			query = query.Where("recipes.author_id = ?", *filter.AuthorID)
		}
		if len(filter.TagSlugs) > 0 {
			tagged := s.db.WithContext(ctx).Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs)
			query = query.Where("recipes.id IN (?)", tagged)
		}
		if filter.IsFavorited && requester.Authenticated {
			favorited := s.db.WithContext(ctx).Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", requester.UserID)
			query = query.Where("recipes.id IN (?)", favorited)
		}
		if filter.IsInShoppingCart && requester.Authenticated {
			inCart := s.db.WithContext(ctx).Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", requester.UserID)
			query = query.Where("recipes.id IN (?)", inCart)
		}
		return query
	}

	var count int64
	if err := scoped().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := withDetails(scoped()).
		Order("recipes.pub_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

// RecipesByAuthor returns up to limit of the author's newest recipes; limit <= 0 means all.
func (s *RecipeService) RecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Where("author_id = ?", authorID).Order("pub_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByAuthors returns the number of recipes per author in one query.
func (s *RecipeService) CountByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// authorize loads the recipe and applies the object-level policy for method.
func (s *RecipeService) authorize(ctx context.Context, requester access.Requester, method string, id uuid.UUID) (*models.Recipe, error) {
	if !s.policy.HasPermission(requester, method) {
		return nil, errs.NewUnauthorizedError("authentication credentials were not provided")
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("recipe not found")
		}
		return nil, err
	}

	if !s.policy.HasObjectPermission(requester, method, recipe.AuthorID) {
		return nil, errs.NewForbiddenError("you do not have permission to perform this action")
	}
	return &recipe, nil
}

func (s *RecipeService) storeImage(ctx context.Context, dataURI string) (string, error) {
	img, err := DecodeImage(dataURI)
	if err != nil {
		return "", err
	}
	url, err := s.images.Save(ctx, img)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}

// discardImage removes an image no recipe points at any more. Failures only leave an
// orphaned file behind, so they are logged and not returned.
func (s *RecipeService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		logging.Warn().Err(err).Str("url", url).Msg("failed to delete recipe image")
	}
}

// checkReferences verifies that every ingredient and tag exists and returns the tag ids
// with duplicates removed.
func (s *RecipeService) checkReferences(ctx context.Context, req types.RecipeRequest) ([]uuid.UUID, error) {
	db := s.db.WithContext(ctx)

	ingredientIDs := make([]uuid.UUID, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, item.ID)
	}
	var found []uuid.UUID
	if err := db.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	if missing, ok := firstMissing(ingredientIDs, found); ok {
		err := errs.NewNotFoundError("ingredient not found")
		err.Field = "ingredients"
		err.Details = missing.String()
		return nil, err
	}

	tagIDs := dedupe(req.Tags)
	if len(tagIDs) == 0 {
		return tagIDs, nil
	}
	var foundTags []uuid.UUID
	if err := db.Model(&models.Tag{}).Where("id IN ?", tagIDs).Pluck("id", &foundTags).Error; err != nil {
		return nil, err
	}
	if missing, ok := firstMissing(tagIDs, foundTags); ok {
		err := errs.NewFieldError("tags", "tag does not exist")
		err.Details = missing.String()
		return nil, err
	}
	return tagIDs, nil
}

func validateRecipeRequest(req types.RecipeRequest, create bool) error {
	if create {
		switch {
		case req.Name == nil:
			return errs.NewFieldError("name", "this field is required")
		case req.Text == nil:
			return errs.NewFieldError("text", "this field is required")
		case req.CookingTime == nil:
			return errs.NewFieldError("cooking_time", "this field is required")
		case req.Image == nil || *req.Image == "":
			return errs.NewFieldError("image", "this field is required")
		}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return errs.NewFieldError("name", "this field may not be blank")
	}
	if req.Text != nil && strings.TrimSpace(*req.Text) == "" {
		return errs.NewFieldError("text", "this field may not be blank")
	}
	if req.CookingTime != nil && *req.CookingTime < 1 {
		return errs.NewFieldError("cooking_time", "cooking time must be at least 1 minute")
	}
	if req.Image != nil && *req.Image == "" {
		return errs.NewFieldError("image", "this field may not be blank")
	}

	if len(req.Ingredients) == 0 {
		return errs.NewFieldError("ingredients", "at least one ingredient is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(req.Ingredients))
	for _, item := range req.Ingredients {
		if _, dup := seen[item.ID]; dup {
			err := errs.NewFieldError("ingredients", "ingredients must not repeat")
			err.Details = item.ID.String()
			return err
		}
		seen[item.ID] = struct{}{}
		if item.Amount < 1 {
			err := errs.NewFieldError("ingredients", "amount must be greater than zero")
			err.Details = item.ID.String()
			return err
		}
	}
	return nil
}

// replaceIngredients drops every ingredient row of the recipe and writes the new set.
func replaceIngredients(tx *gorm.DB, recipeID uuid.UUID, items []types.IngredientAmount) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	rows := make([]models.RecipeIngredient, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit("Ingredient").Create(&rows).Error
}

func replaceTags(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return err
	}
	rows := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Ingredients.Ingredient.MeasurementUnit")
}

func firstMissing(want, found []uuid.UUID) (uuid.UUID, bool) {
	have := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := have[id]; !ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
