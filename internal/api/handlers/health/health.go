package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipe-share/internal/core/ai/cache"
	"recipe-share/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Drafts    map[string]interface{} `json:"drafts,omitempty"`
}

// pinger 可檢查連線的草稿存儲
type pinger interface {
	Ping(ctx context.Context) error
}

// Handler 健康檢查處理器
type Handler struct {
	version string
	db      *gorm.DB
	drafts  cache.Store
}

// NewHandler 創建健康檢查處理器，drafts 可為 nil
func NewHandler(version string, db *gorm.DB, drafts cache.Store) *Handler {
	return &Handler{version: version, db: db, drafts: drafts}
}

// Register 註冊健康檢查路由
func (h *Handler) Register(router gin.IRoutes) {
	router.GET("/health", h.HealthCheck)
	router.GET("/ready", h.ReadinessCheck)
	router.GET("/live", h.LivenessCheck)
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if mgr, ok := h.drafts.(*cache.CacheManager); ok {
		response.Drafts = mgr.GetStats()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查，確認資料庫與草稿存儲可連線
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	checks := gin.H{}
	ready := true

	if err := h.pingDatabase(ctx); err != nil {
		common.LogError("Database not ready", zap.Error(err))
		checks["database"] = err.Error()
		ready = false
	} else {
		checks["database"] = "ok"
	}

	if p, ok := h.drafts.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			common.LogError("Draft store not ready", zap.Error(err))
			checks["drafts"] = err.Error()
			ready = false
		} else {
			checks["drafts"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"checks": checks,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": checks,
	})
}

func (h *Handler) pingDatabase(ctx context.Context) error {
	if h.db == nil {
		return common.ErrServiceUnavailable
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
