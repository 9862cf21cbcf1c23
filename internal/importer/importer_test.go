package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/importer"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) EnsureIngredient(ctx context.Context, name, unit string) (*models.Ingredient, bool, error) {
	args := m.Called(ctx, name, unit)
	ingredient, _ := args.Get(0).(*models.Ingredient)
	return ingredient, args.Bool(1), args.Error(2)
}

const ingredientsCSV = `flour,g
eggs,pcs
"salt, sea",pinch

flour,g
`

func TestImportIsIdempotent(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	im := importer.New(service.NewCatalogService(db))
	ctx := context.Background()

	result, err := im.Import(ctx, strings.NewReader(ingredientsCSV), importer.Options{})
	require.NoError(t, err)
	assert.Equal(t, importer.Result{Created: 3, Skipped: 1}, result)

	result, err = im.Import(ctx, strings.NewReader(ingredientsCSV), importer.Options{})
	require.NoError(t, err)
	assert.Equal(t, importer.Result{Created: 0, Skipped: 4}, result)

	var ingredients, units int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&ingredients).Error)
	require.NoError(t, db.Model(&models.MeasurementUnit{}).Count(&units).Error)
	assert.EqualValues(t, 3, ingredients)
	assert.EqualValues(t, 3, units)

	var salt models.Ingredient
	require.NoError(t, db.Preload("MeasurementUnit").First(&salt, "name = ?", "salt, sea").Error)
	assert.Equal(t, "pinch", salt.MeasurementUnit.Name)
}

func TestImportSkipsHeader(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("EnsureIngredient", mock.Anything, "flour", "g").Return(&models.Ingredient{}, true, nil).Once()

	result, err := importer.New(catalog).Import(context.Background(),
		strings.NewReader("name,measurement_unit\nflour, g\n"), importer.Options{SkipHeader: true})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	catalog.AssertExpectations(t)
}

func TestImportErrors(t *testing.T) {
	t.Run("short row", func(t *testing.T) {
		catalog := new(mockCatalog)
		_, err := importer.New(catalog).Import(context.Background(), strings.NewReader("flour\n"), importer.Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 1")
		catalog.AssertNotCalled(t, "EnsureIngredient", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("catalog failure", func(t *testing.T) {
		catalog := new(mockCatalog)
		catalog.On("EnsureIngredient", mock.Anything, "eggs", "pcs").Return(nil, false, errors.New("db down"))

		result, err := importer.New(catalog).Import(context.Background(), strings.NewReader("eggs,pcs\n"), importer.Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
		assert.Zero(t, result.Created)
	})
}
