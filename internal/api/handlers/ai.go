package handlers

import (
	"net/http"

	"recipe-share/internal/core/ai/service"
	"recipe-share/internal/core/recipe"
	"recipe-share/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GenerateRequest AI 生成食譜請求
type GenerateRequest struct {
	Query string `json:"query" binding:"required,max=500"`
}

// AIHandler AI 處理器
type AIHandler struct {
	aiService     *service.Service
	recipeService *recipe.Service
}

// NewAIHandler 創建 AI 處理器，aiService 為 nil 表示未啟用
func NewAIHandler(aiService *service.Service, recipeService *recipe.Service) *AIHandler {
	return &AIHandler{
		aiService:     aiService,
		recipeService: recipeService,
	}
}

// Register 註冊 AI 路由，outbound 用於會呼叫外部服務的路由
func (h *AIHandler) Register(group *gin.RouterGroup, outbound ...gin.HandlerFunc) {
	generate := make([]gin.HandlerFunc, 0, len(outbound)+2)
	generate = append(generate, h.requireEnabled)
	generate = append(generate, outbound...)
	generate = append(generate, h.GenerateRecipe)

	group.POST("/recipes", generate...)
	group.GET("/recipes/:draft_id", h.requireEnabled, h.GetDraft)
	group.POST("/recipes/:draft_id/save", h.requireEnabled, h.SaveDraft)
}

func (h *AIHandler) requireEnabled(c *gin.Context) {
	if h.aiService == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, common.ErrorResponse{
			Code:    common.ErrCodeServiceUnavailable,
			Message: common.ErrServiceUnavailable.Message,
			Details: "ai recipe generation is disabled",
		})
		return
	}
	c.Next()
}

// GenerateRecipe 生成食譜草稿
func (h *AIHandler) GenerateRecipe(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	gen, err := h.aiService.GenerateRecipe(c.Request.Context(), req.Query)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gen)
}

// GetDraft 取得尚未儲存的草稿
func (h *AIHandler) GetDraft(c *gin.Context) {
	draft, err := h.aiService.GetDraft(c.Request.Context(), c.Param("draft_id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// SaveDraft 將草稿存為食譜
func (h *AIHandler) SaveDraft(c *gin.Context) {
	ctx := c.Request.Context()
	draftID := c.Param("draft_id")

	draft, err := h.aiService.GetDraft(ctx, draftID)
	if err != nil {
		RespondError(c, err)
		return
	}

	saved, err := h.recipeService.SaveDraft(ctx, draft)
	if saved != nil {
		// 食譜已寫入，草稿不再需要
		if derr := h.aiService.DeleteDraft(ctx, draftID); derr != nil {
			common.LogWarn("Failed to delete saved draft",
				zap.String("draft_id", draftID),
				zap.Error(derr),
			)
		}
	}
	RespondSaved(c, http.StatusCreated, saved, err)
}
