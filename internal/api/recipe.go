package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-menu/backend/internal/contract"
	"github.com/pageza/alchemorsel-menu/backend/internal/service"
	"github.com/pageza/alchemorsel-menu/backend/internal/storage"
	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

const (
	msgGenerateFailed = "Failed to generate recipe"
	msgSaveFailed     = "Failed to save recipe"
	msgNotFound       = "Recipe not found"
	msgInternal       = "Internal Server Error"
)

// RecipeHandler serves the recipe routes declared in the contract package
type RecipeHandler struct {
	storage   storage.Storage
	generator service.RecipeGenerator
	logger    *zap.Logger
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(store storage.Storage, generator service.RecipeGenerator, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		storage:   store,
		generator: generator,
		logger:    logger,
	}
}

// RegisterRoutes mounts every recipe route. generateMiddleware runs in front of
// the generate handler only.
func (h *RecipeHandler) RegisterRoutes(router gin.IRoutes, generateMiddleware ...gin.HandlerFunc) {
	router.Handle(contract.Generate.Method, contract.Generate.Path, append(generateMiddleware, h.GenerateRecipe)...)
	router.Handle(contract.List.Method, contract.List.Path, h.ListRecipes)
	router.Handle(contract.Save.Method, contract.Save.Path, h.SaveRecipe)
	router.Handle(contract.Delete.Method, contract.Delete.Path, h.DeleteRecipe)
	router.Handle(contract.ToggleFavorite.Method, contract.ToggleFavorite.Path, h.ToggleFavorite)
}

// GenerateRecipe proposes a recipe from the supplied ingredients. Invalid input
// and generation failures both yield 500.
func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	var req types.GenerateRecipeRequest
	if err := h.decode(c, contract.Generate, &req); err != nil {
		h.logger.Info("rejected generation request", zap.Error(err))
		h.respond(c, contract.Generate, http.StatusInternalServerError, &types.ErrorResponse{Message: msgGenerateFailed})
		return
	}

	recipe, err := h.generator.GenerateRecipe(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("recipe generation error", zap.Error(err))
		h.respond(c, contract.Generate, http.StatusInternalServerError, &types.ErrorResponse{Message: msgGenerateFailed})
		return
	}

	h.respond(c, contract.Generate, http.StatusOK, recipe)
}

// ListRecipes returns every saved recipe, newest first
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.storage.GetRecipes(c.Request.Context())
	if err != nil {
		h.internalError(c, "list recipes", err)
		return
	}
	if recipes == nil {
		recipes = []types.Recipe{}
	}
	h.respond(c, contract.List, http.StatusOK, recipes)
}

// SaveRecipe stores a new recipe
func (h *RecipeHandler) SaveRecipe(c *gin.Context) {
	var in types.InsertRecipe
	if err := h.decode(c, contract.Save, &in); err != nil {
		var vErr *contract.ValidationError
		if errors.As(err, &vErr) {
			h.respond(c, contract.Save, http.StatusBadRequest, &types.ErrorResponse{Message: vErr.Message})
			return
		}
		h.internalError(c, "save recipe", err)
		return
	}

	recipe, err := h.storage.CreateRecipe(c.Request.Context(), in)
	if err != nil {
		h.logger.Error("failed to save recipe", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Message: msgSaveFailed})
		return
	}

	h.respond(c, contract.Save, http.StatusCreated, recipe)
}

// DeleteRecipe removes a recipe. Unknown ids succeed too.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		// No recipe can have this id, so there is nothing to delete
		h.respond(c, contract.Delete, http.StatusNoContent, nil)
		return
	}

	if err := h.storage.DeleteRecipe(c.Request.Context(), id); err != nil {
		h.internalError(c, "delete recipe", err)
		return
	}
	h.respond(c, contract.Delete, http.StatusNoContent, nil)
}

// ToggleFavorite sets the favorite flag of a recipe
func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	var req types.ToggleFavoriteRequest
	if err := h.decode(c, contract.ToggleFavorite, &req); err != nil {
		var vErr *contract.ValidationError
		if errors.As(err, &vErr) {
			h.respond(c, contract.ToggleFavorite, http.StatusBadRequest, &types.ErrorResponse{Message: vErr.Message})
			return
		}
		h.internalError(c, "toggle favorite", err)
		return
	}

	id, ok := parseID(c)
	if !ok {
		h.respond(c, contract.ToggleFavorite, http.StatusNotFound, &types.ErrorResponse{Message: msgNotFound})
		return
	}

	recipe, found, err := h.storage.ToggleFavorite(c.Request.Context(), id, *req.IsFavorite)
	if err != nil {
		h.internalError(c, "toggle favorite", err)
		return
	}
	if !found {
		h.respond(c, contract.ToggleFavorite, http.StatusNotFound, &types.ErrorResponse{Message: msgNotFound})
		return
	}

	h.respond(c, contract.ToggleFavorite, http.StatusOK, recipe)
}

func (h *RecipeHandler) decode(c *gin.Context, route contract.Route, dst any) error {
	body, err := c.GetRawData()
	if err != nil {
		return err
	}
	return route.DecodeInput(body, dst)
}

// respond writes body after checking it against the shape the route declares
// for status. A body that does not conform is never sent.
func (h *RecipeHandler) respond(c *gin.Context, route contract.Route, status int, body any) {
	if err := route.CheckResponse(status, body); err != nil {
		h.logger.Error("response does not match contract",
			zap.String("route", route.Name),
			zap.Int("status", status),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Message: msgInternal})
		return
	}
	if body == nil {
		c.Status(status)
		return
	}
	c.JSON(status, body)
}

func (h *RecipeHandler) internalError(c *gin.Context, op string, err error) {
	h.logger.Error("request failed", zap.String("op", op), zap.Error(err))
	c.JSON(http.StatusInternalServerError, types.ErrorResponse{Message: msgInternal})
}

// parseID reads the :id path parameter. Only positive integers are ids.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
