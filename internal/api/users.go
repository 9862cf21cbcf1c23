package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/access"
	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type UserHandler struct {
	auth       service.IAuthService
	users      service.IUserService
	relations  service.IRelationService
	presenter  *Presenter
	relLimiter *middleware.RateLimiter
}

func NewUserHandler(
	auth service.IAuthService,
	users service.IUserService,
	relations service.IRelationService,
	presenter *Presenter,
	relLimiter *middleware.RateLimiter,
) *UserHandler {
	return &UserHandler{
		auth:       auth,
		users:      users,
		relations:  relations,
		presenter:  presenter,
		relLimiter: relLimiter,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		auth := middleware.RequireAuth()
		toggles := append([]gin.HandlerFunc{auth}, limited(h.relLimiter)...)

		users.POST("/", h.Register)
		users.GET("/", h.ListUsers)
		users.GET("/me/", auth, h.Me)
		users.POST("/set_password/", auth, h.SetPassword)
		users.GET("/subscriptions/", auth, h.Subscriptions)
		users.GET("/:id/", h.GetUser)
		users.DELETE("/:id/", middleware.RequirePolicy(access.AdminOnly{}), h.DeleteUser)
		users.POST("/:id/subscribe/", append(toggles, h.Subscribe)...)
		users.DELETE("/:id/subscribe/", append(toggles, h.Unsubscribe)...)
	}
}

// Register handles user registration
func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, userResponse(user, false))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	users, count, err := h.users.List(c.Request.Context(), page.Offset(), page.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	results, err := h.presenter.Users(c.Request.Context(), middleware.CurrentRequester(c), users)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, count, results))
}

func (h *UserHandler) Me(c *gin.Context) {
	requester := middleware.CurrentRequester(c)
	user, err := h.users.Get(c.Request.Context(), requester.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user, false))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.presenter.User(c.Request.Context(), middleware.CurrentRequester(c), user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	requester := middleware.CurrentRequester(c)
	if err := h.auth.SetPassword(c.Request.Context(), requester.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the requester follows. ?recipes_limit caps the
// recipes embedded per author.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	recipesLimit, err := parseRecipesLimit(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	requester := middleware.CurrentRequester(c)
	authors, count, err := h.relations.Subscriptions(c.Request.Context(), requester.UserID, page.Offset(), page.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	results, err := h.presenter.Subscriptions(c.Request.Context(), requester, authors, recipesLimit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, count, results))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipesLimit, err := parseRecipesLimit(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	requester := middleware.CurrentRequester(c)
	author, err := h.relations.Subscribe(c.Request.Context(), requester.UserID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	results, err := h.presenter.Subscriptions(c.Request.Context(), requester, []models.User{*author}, recipesLimit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, results[0])
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.relations.Unsubscribe(c.Request.Context(), middleware.CurrentRequester(c).UserID, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseRecipesLimit reads ?recipes_limit. Absent means no cap.
func parseRecipesLimit(c *gin.Context) (int, error) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errs.NewFieldError("recipes_limit", "invalid recipes_limit")
	}
	return limit, nil
}
