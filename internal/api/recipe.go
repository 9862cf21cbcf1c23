package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/access"
	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const shoppingListFilename = "shopping_list.txt"

type RecipeHandler struct {
	recipes      service.IRecipeService
	relations    service.IRelationService
	shopping     service.IShoppingService
	presenter    *Presenter
	writeLimiter *middleware.RateLimiter
	relLimiter   *middleware.RateLimiter
}

func NewRecipeHandler(
	recipes service.IRecipeService,
	relations service.IRelationService,
	shopping service.IShoppingService,
	presenter *Presenter,
	writeLimiter, relLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		relations:    relations,
		shopping:     shopping,
		presenter:    presenter,
		writeLimiter: writeLimiter,
		relLimiter:   relLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		auth := middleware.RequireAuth()
		policy := middleware.RequirePolicy(access.AuthorAdminOrReadOnly{})
		writes := append([]gin.HandlerFunc{policy}, limited(h.writeLimiter)...)
		toggles := append([]gin.HandlerFunc{auth}, limited(h.relLimiter)...)

		recipes.GET("/", policy, h.ListRecipes)
		recipes.POST("/", append(writes, h.CreateRecipe)...)
		recipes.GET("/download_shopping_cart/", auth, h.DownloadShoppingCart)
		recipes.GET("/:id/", policy, h.GetRecipe)
		recipes.PATCH("/:id/", append(writes, h.UpdateRecipe)...)
		recipes.DELETE("/:id/", append(writes, h.DeleteRecipe)...)

		recipes.POST("/:id/favorite/", append(toggles, h.AddFavorite)...)
		recipes.DELETE("/:id/favorite/", append(toggles, h.RemoveFavorite)...)
		recipes.POST("/:id/shopping_cart/", append(toggles, h.AddToCart)...)
		recipes.DELETE("/:id/shopping_cart/", append(toggles, h.RemoveFromCart)...)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	filter := types.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      queryBool(c, "is_favorited"),
		IsInShoppingCart: queryBool(c, "is_in_shopping_cart"),
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			_ = c.Error(errs.NewFieldError("author", "invalid author id"))
			return
		}
		filter.AuthorID = &authorID
	}

	requester := middleware.CurrentRequester(c)
	recipes, count, err := h.recipes.ListRecipes(c.Request.Context(), requester, filter, page.Offset(), page.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	results, err := h.presenter.Recipes(c.Request.Context(), requester, recipes)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, count, results))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	requester := middleware.CurrentRequester(c)
	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), requester, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.presenter.Recipe(c.Request.Context(), requester, recipe)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.presenter.Recipe(c.Request.Context(), middleware.CurrentRequester(c), recipe)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req types.RecipeRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	requester := middleware.CurrentRequester(c)
	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), requester, id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.presenter.Recipe(c.Request.Context(), requester, recipe)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), middleware.CurrentRequester(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addRecipeLink(c, h.relations.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeRecipeLink(c, h.relations.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRecipeLink(c, h.relations.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRecipeLink(c, h.relations.RemoveFromCart)
}

// DownloadShoppingCart serves the aggregated shopping list as a text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	body, err := h.shopping.Download(c.Request.Context(), middleware.CurrentRequester(c).UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", body)
}

func (h *RecipeHandler) addRecipeLink(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	recipe, err := add(c.Request.Context(), middleware.CurrentRequester(c).UserID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, RecipeShort(recipe))
}

func (h *RecipeHandler) removeRecipeLink(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := remove(c.Request.Context(), middleware.CurrentRequester(c).UserID, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
