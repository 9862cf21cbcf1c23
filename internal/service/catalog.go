package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

const defaultTagColor = "#FF0000"

// CatalogService manages tags, ingredients and measurement units.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("tag not found")
		}
		return nil, err
	}
	return &tag, nil
}

func (s *CatalogService) CreateTag(ctx context.Context, req types.TagRequest) (*models.Tag, error) {
	tag := models.Tag{
		Name:  req.Name,
		Color: strings.ToUpper(req.Color),
		Slug:  req.Slug,
	}
	if tag.Color == "" {
		tag.Color = defaultTagColor
	}

	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewValidationError("a tag with that name or slug already exists")
		}
		return nil, err
	}
	return &tag, nil
}

func (s *CatalogService) UpdateTag(ctx context.Context, id uuid.UUID, req types.TagRequest) (*models.Tag, error) {
	tag, err := s.GetTag(ctx, id)
	if err != nil {
		return nil, err
	}

	tag.Name = req.Name
	tag.Slug = req.Slug
	if req.Color != "" {
		tag.Color = strings.ToUpper(req.Color)
	}
	if err := s.db.WithContext(ctx).Save(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewValidationError("a tag with that name or slug already exists")
		}
		return nil, err
	}
	return tag, nil
}

func (s *CatalogService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetTag(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, "id = ?", id).Error
	})
}

// SearchIngredients returns ingredients whose name starts with prefix, ignoring case.
// An empty prefix returns the whole catalog.
func (s *CatalogService) SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Preload("MeasurementUnit").Order("ingredients.name")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		query = query.Where("LOWER(ingredients.name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).Preload("MeasurementUnit").First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("ingredient not found")
		}
		return nil, err
	}
	return &ingredient, nil
}

// CreateIngredient adds an ingredient, creating its unit on demand.
func (s *CatalogService) CreateIngredient(ctx context.Context, name, unit string) (*models.Ingredient, error) {
	ingredient, created, err := s.EnsureIngredient(ctx, name, unit)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, errs.NewValidationError("an ingredient with that name and unit already exists")
	}
	return ingredient, nil
}

// EnsureIngredient is get-or-create on (name, unit). created reports whether a new
// ingredient row was written.
func (s *CatalogService) EnsureIngredient(ctx context.Context, name, unit string) (*models.Ingredient, bool, error) {
	name = strings.TrimSpace(name)
	unit = strings.TrimSpace(unit)
	if name == "" || unit == "" {
		return nil, false, errs.NewValidationError("ingredient name and measurement unit are required")
	}

	var ingredient models.Ingredient
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		measurementUnit, err := ensureUnit(tx, unit)
		if err != nil {
			return err
		}

		err = tx.Where("name = ? AND measurement_unit_id = ?", name, measurementUnit.ID).First(&ingredient).Error
		if err == nil {
			ingredient.MeasurementUnit = *measurementUnit
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		ingredient = models.Ingredient{Name: name, MeasurementUnitID: measurementUnit.ID}
		if err := tx.Omit("MeasurementUnit").Create(&ingredient).Error; err != nil {
			return err
		}
		ingredient.MeasurementUnit = *measurementUnit
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &ingredient, created, nil
}

func (s *CatalogService) ListUnits(ctx context.Context) ([]models.MeasurementUnit, error) {
	var units []models.MeasurementUnit
	if err := s.db.WithContext(ctx).Order("name").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (s *CatalogService) CreateUnit(ctx context.Context, name string) (*models.MeasurementUnit, error) {
	unit := models.MeasurementUnit{Name: strings.TrimSpace(name)}
	if unit.Name == "" {
		return nil, errs.NewFieldError("name", "unit name is required")
	}
	if err := s.db.WithContext(ctx).Create(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewFieldError("name", "a unit with that name already exists")
		}
		return nil, err
	}
	return &unit, nil
}

func ensureUnit(tx *gorm.DB, name string) (*models.MeasurementUnit, error) {
	var unit models.MeasurementUnit
	err := tx.Where("name = ?", name).First(&unit).Error
	if err == nil {
		return &unit, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	unit = models.MeasurementUnit{Name: name}
	if err := tx.Create(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
