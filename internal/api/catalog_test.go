package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestTagsAdminOrReadOnly(t *testing.T) {
	s := newTestServer(t)
	admin := testhelpers.CreateUser(t, s.db, "admin", true)
	alice := testhelpers.CreateUser(t, s.db, "alice", false)
	body := map[string]string{"name": "Dessert", "slug": "dessert"}

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/tags/", body, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/tags/", body, alice).Code)

	w := s.do(t, http.MethodPost, "/api/tags/", body, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tag types.TagResponse
	decode(t, w, &tag)
	assert.Equal(t, "#FF0000", tag.Color)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/tags/", body, admin).Code)
	assert.Equal(t, http.StatusBadRequest,
		s.do(t, http.MethodPost, "/api/tags/", map[string]string{"name": "X", "slug": "x", "color": "red"}, admin).Code)

	w = s.do(t, http.MethodGet, "/api/tags/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []types.TagResponse
	decode(t, w, &tags)
	require.Len(t, tags, 1)

	path := "/api/tags/" + tag.ID.String() + "/"
	w = s.do(t, http.MethodPatch, path, map[string]string{"name": "Desserts", "slug": "desserts", "color": "#00ff00"}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &tag)
	assert.Equal(t, "#00FF00", tag.Color)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, nil, nil).Code)
}

func TestIngredientSearch(t *testing.T) {
	s := newTestServer(t)
	for _, name := range []string{"Flour", "flaxseed", "eggs"} {
		testhelpers.CreateIngredient(t, s.db, name, "g")
	}

	w := s.do(t, http.MethodGet, "/api/ingredients/?name=fl", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []types.IngredientResponse
	decode(t, w, &found)
	require.Len(t, found, 2)
	assert.Equal(t, "g", found[0].MeasurementUnit)

	w = s.do(t, http.MethodGet, "/api/ingredients/?search=EGG", nil, nil)
	decode(t, w, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "eggs", found[0].Name)

	w = s.do(t, http.MethodGet, "/api/ingredients/"+found[0].ID.String()+"/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateIngredientAndUnits(t *testing.T) {
	s := newTestServer(t)
	admin := testhelpers.CreateUser(t, s.db, "admin", true)
	alice := testhelpers.CreateUser(t, s.db, "alice", false)
	body := map[string]string{"name": "salt", "measurement_unit": "pinch"}

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/ingredients/", body, alice).Code)

	w := s.do(t, http.MethodPost, "/api/ingredients/", body, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/ingredients/", body, admin).Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/units/", nil, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/units/", nil, alice).Code)

	w = s.do(t, http.MethodGet, "/api/units/", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var units []types.UnitResponse
	decode(t, w, &units)
	require.Len(t, units, 1)
	assert.Equal(t, "pinch", units[0].Name)

	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/units/", map[string]string{"name": "ml"}, admin).Code)
}
