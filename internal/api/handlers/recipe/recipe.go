package recipe

import (
	"net/http"

	"recipe-share/internal/api/handlers"
	recipeService "recipe-share/internal/core/recipe"

	"github.com/gin-gonic/gin"
)

// ImportRequest 匯入外部食譜
type ImportRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// Handler 食譜處理程序
type Handler struct {
	recipeService *recipeService.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recipeService *recipeService.Service) *Handler {
	return &Handler{recipeService: recipeService}
}

// Register 註冊食譜路由，outbound 用於會呼叫外部服務的路由
func (h *Handler) Register(group *gin.RouterGroup, outbound ...gin.HandlerFunc) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.POST("/import", chain(outbound, h.Import)...)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	group.GET("/:id/nutrition", h.GetNutrition)
	group.POST("/:id/nutrition", chain(outbound, h.RefreshNutrition)...)
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}

// List 列出或搜尋食譜
func (h *Handler) List(c *gin.Context) {
	recipes, err := h.recipeService.List(c.Request.Context(), c.Query("query"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"count":   len(recipes),
	})
}

// Create 新增食譜
func (h *Handler) Create(c *gin.Context) {
	var input recipeService.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.RespondBindError(c, err)
		return
	}

	saved, err := h.recipeService.Create(c.Request.Context(), &input)
	handlers.RespondSaved(c, http.StatusCreated, saved, err)
}

// Get 取得食譜與營養標示
func (h *Handler) Get(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.recipeService.Get(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Update 編輯食譜
func (h *Handler) Update(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}

	var input recipeService.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.RespondBindError(c, err)
		return
	}

	saved, err := h.recipeService.Update(c.Request.Context(), id, &input)
	handlers.RespondSaved(c, http.StatusOK, saved, err)
}

// Delete 刪除食譜
func (h *Handler) Delete(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetNutrition 取得營養標示
func (h *Handler) GetNutrition(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.recipeService.Get(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recipe_id": id,
		"servings":  detail.Recipe.DefaultServings,
		"nutrition": detail.Nutrition,
		"available": detail.Nutrition.Available(),
	})
}

// RefreshNutrition 重新計算營養標示
func (h *Handler) RefreshNutrition(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.recipeService.RefreshNutrition(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Import 從外部網站匯入食譜
func (h *Handler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondBindError(c, err)
		return
	}

	saved, err := h.recipeService.Import(c.Request.Context(), req.URL)
	handlers.RespondSaved(c, http.StatusCreated, saved, err)
}
