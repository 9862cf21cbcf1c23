package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/access"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// CatalogHandler serves tags, ingredients and measurement units. Lists are not paginated.
type CatalogHandler struct {
	catalog service.ICatalogService
}

func NewCatalogHandler(catalog service.ICatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	adminOrReadOnly := middleware.RequirePolicy(access.AdminOrReadOnly{})

	tags := router.Group("/tags", adminOrReadOnly)
	{
		tags.GET("/", h.ListTags)
		tags.POST("/", h.CreateTag)
		tags.GET("/:id/", h.GetTag)
		tags.PATCH("/:id/", h.UpdateTag)
		tags.DELETE("/:id/", h.DeleteTag)
	}

	ingredients := router.Group("/ingredients", adminOrReadOnly)
	{
		ingredients.GET("/", h.SearchIngredients)
		ingredients.POST("/", h.CreateIngredient)
		ingredients.GET("/:id/", h.GetIngredient)
	}

	units := router.Group("/units", middleware.RequirePolicy(access.AdminOnly{}))
	{
		units.GET("/", h.ListUnits)
		units.POST("/", h.CreateUnit)
	}
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]types.TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, tagResponse(&tags[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	tag, err := h.catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tagResponse(tag))
}

func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var req types.TagRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	tag, err := h.catalog.CreateTag(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, tagResponse(tag))
}

func (h *CatalogHandler) UpdateTag(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req types.TagRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	tag, err := h.catalog.UpdateTag(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tagResponse(tag))
}

func (h *CatalogHandler) DeleteTag(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.catalog.DeleteTag(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchIngredients matches ?name= (or ?search=) as a case-insensitive name prefix.
func (h *CatalogHandler) SearchIngredients(c *gin.Context) {
	prefix := c.Query("name")
	if prefix == "" {
		prefix = c.Query("search")
	}

	ingredients, err := h.catalog.SearchIngredients(c.Request.Context(), prefix)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]types.IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		out = append(out, ingredientResponse(&ingredients[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	ingredient, err := h.catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ingredientResponse(ingredient))
}

func (h *CatalogHandler) CreateIngredient(c *gin.Context) {
	var req types.IngredientRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	ingredient, err := h.catalog.CreateIngredient(c.Request.Context(), req.Name, req.MeasurementUnit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ingredientResponse(ingredient))
}

func (h *CatalogHandler) ListUnits(c *gin.Context) {
	units, err := h.catalog.ListUnits(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]types.UnitResponse, 0, len(units))
	for i := range units {
		out = append(out, unitResponse(&units[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) CreateUnit(c *gin.Context) {
	var req types.UnitRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	unit, err := h.catalog.CreateUnit(c.Request.Context(), req.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, unitResponse(unit))
}
