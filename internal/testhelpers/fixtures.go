package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/access"
	"github.com/pageza/foodgram/backend/internal/models"
)

// TestPassword is the password of every user created by CreateUser.
const TestPassword = "password123"

func CreateUser(t *testing.T, db *gorm.DB, username string, superuser bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
		IsSuperuser:  superuser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// Requester returns the authenticated requester for user.
func Requester(user *models.User) access.Requester {
	return access.Requester{UserID: user.ID, Authenticated: true, IsSuperuser: user.IsSuperuser}
}

// CreateIngredient creates the ingredient, reusing the unit when it already exists.
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	var measurementUnit models.MeasurementUnit
	if err := db.Where(models.MeasurementUnit{Name: unit}).FirstOrCreate(&measurementUnit).Error; err != nil {
		t.Fatalf("failed to create unit: %v", err)
	}
	ingredient := &models.Ingredient{Name: name, MeasurementUnitID: measurementUnit.ID}
	if err := db.Omit("MeasurementUnit").Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	ingredient.MeasurementUnit = measurementUnit
	return ingredient
}

func CreateTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()

	tag := &models.Tag{Name: name, Color: "#00FF00", Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

// IngredientAmount pairs an ingredient with an amount for CreateRecipe.
type IngredientAmount struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe writes a recipe directly, bypassing validation and image storage.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, items []IngredientAmount, tags ...*models.Tag) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		Name:        name,
		Image:       "/media/recipes/images/" + uuid.NewString() + ".png",
		Text:        "Mix and cook.",
		CookingTime: 10,
		AuthorID:    author.ID,
	}
	if err := db.Omit("Author", "Ingredients", "Tags").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	for _, item := range items {
		row := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: item.Ingredient.ID, Amount: item.Amount}
		if err := db.Omit("Ingredient").Create(&row).Error; err != nil {
			t.Fatalf("failed to add ingredient: %v", err)
		}
	}
	for _, tag := range tags {
		if err := db.Create(&models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error; err != nil {
			t.Fatalf("failed to tag recipe: %v", err)
		}
	}
	return recipe
}
