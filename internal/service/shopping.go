package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/types"
)

const shoppingListTimeLayout = "2006-01-02 15:04:05 UTC"

// ShoppingService builds the aggregated shopping list of a user's cart. The cart itself
// is left untouched.
type ShoppingService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewShoppingService(db *gorm.DB) *ShoppingService {
	return &ShoppingService{db: db, now: time.Now}
}

// WithClock replaces the clock used for the "Generated" header.
func (s *ShoppingService) WithClock(now func() time.Time) *ShoppingService {
	s.now = now
	return s
}

// Aggregate sums the amounts of every ingredient across the recipes in the user's cart,
// one item per (ingredient name, unit name).
func (s *ShoppingService) Aggregate(ctx context.Context, userID uuid.UUID) ([]types.ShoppingListItem, error) {
	var items []types.ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, measurement_units.name AS unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN measurement_units ON measurement_units.id = ingredients.measurement_unit_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, measurement_units.name").
		Order("ingredients.name, measurement_units.name").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}
	return items, nil
}

// Download renders the user's shopping list as a text document.
func (s *ShoppingService) Download(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	items, err := s.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return RenderShoppingList(items, s.now()), nil
}

// RenderShoppingList writes a header, the generation time and one "name - total unit"
// line per item.
func RenderShoppingList(items []types.ShoppingListItem, generatedAt time.Time) []byte {
	var buf bytes.Buffer
	buf.WriteString("Shopping list\n")
	fmt.Fprintf(&buf, "Generated: %s\n", generatedAt.UTC().Format(shoppingListTimeLayout))
	if len(items) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(&buf, "%s - %d %s\n", item.Name, item.Total, item.Unit)
	}
	return buf.Bytes()
}
