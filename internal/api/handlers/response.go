package handlers

import (
	"net/http"
	"strconv"

	"recipe-share/internal/core/recipe"
	"recipe-share/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errorBody 將錯誤轉換為狀態碼與回應內容
func errorBody(err error) (int, common.ErrorResponse) {
	if common.IsValidationError(err) {
		return http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: err.Error(),
		}
	}

	if ce, ok := common.AsCustomError(err); ok {
		resp := common.ErrorResponse{Code: ce.Code, Message: ce.Message}
		if ce.Err != nil {
			resp.Details = ce.Err.Error()
		}
		return ce.Status, resp
	}

	return http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: common.ErrInternalError.Message,
	}
}

// RespondError 以統一格式回應錯誤
func RespondError(c *gin.Context, err error) {
	status, body := errorBody(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= http.StatusInternalServerError {
		common.LogError("Request failed", fields...)
	} else {
		common.LogDebug("Request rejected", fields...)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// RespondBindError 請求格式錯誤
func RespondBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
		Code:    common.ErrCodeInvalidRequest,
		Message: common.ErrInvalidRequest.Message,
		Details: err.Error(),
	})
}

// RespondSaved 回應已儲存的食譜；營養計算失敗時食譜仍已儲存，
// 以 nutrition_error 附帶失敗原因
func RespondSaved(c *gin.Context, status int, saved *recipe.Recipe, err error) {
	if err != nil {
		ne, ok := recipe.AsNutritionError(err)
		if !ok || saved == nil {
			RespondError(c, err)
			return
		}
		_, body := errorBody(ne.Err)
		common.LogWarn("Recipe saved without nutrition",
			zap.Uint("recipe_id", saved.ID),
			zap.Error(ne.Err),
		)
		c.JSON(status, gin.H{
			"recipe":          saved,
			"nutrition_error": body,
		})
		return
	}

	c.JSON(status, gin.H{"recipe": saved})
}

// ParseID 解析路徑中的數字 ID
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: common.ErrInvalidRequest.Message,
			Details: "invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}
