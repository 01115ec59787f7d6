package api

import (
	"time"

	"recipe-share/internal/api/handlers"
	"recipe-share/internal/api/handlers/health"
	recipeHandler "recipe-share/internal/api/handlers/recipe"
	"recipe-share/internal/api/middleware"
	"recipe-share/internal/core/ai/cache"
	"recipe-share/internal/core/ai/openrouter"
	"recipe-share/internal/core/ai/service"
	"recipe-share/internal/core/nutrition"
	recipeService "recipe-share/internal/core/recipe"
	"recipe-share/internal/core/scraper"
	"recipe-share/internal/infrastructure/config"
	"recipe-share/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies 路由所需的服務
type Dependencies struct {
	DB            *gorm.DB
	Drafts        cache.Store
	RecipeService *recipeService.Service
	// AIService 為 nil 時 AI 路由回傳 503
	AIService *service.Service
}

// NewDependencies 依設定組裝服務
func NewDependencies(cfg *config.Config, db *gorm.DB, drafts cache.Store) *Dependencies {
	repo := recipeService.NewRepository(db)
	pipeline := nutrition.NewPipeline(nutrition.NewEdamamClient(cfg.Edamam), repo)
	deps := &Dependencies{
		DB:            db,
		Drafts:        drafts,
		RecipeService: recipeService.NewService(repo, pipeline, scraper.New(cfg.Scraper)),
	}

	if cfg.OpenRouter.Enabled {
		deps.AIService = service.NewService(openrouter.NewClient(cfg.OpenRouter), drafts)
	}

	common.LogInfo("Services initialized",
		zap.Bool("ai_enabled", deps.AIService != nil),
		zap.String("model", cfg.OpenRouter.Model),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Strings("scraper_sources", cfg.Scraper.AllowedSources),
	)
	return deps
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.Server.MaxBodyBytes > 0 {
		router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	}
	router.Use(middleware.Deduplication(cfg.DedupWindow))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	health.NewHandler(cfg.App.Version, deps.DB, deps.Drafts).Register(router)

	// 會呼叫外部服務的路由共用同一個限流器
	var outbound []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		outbound = append(outbound, middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	v1 := router.Group("/api/v1")
	{
		recipeHandler.NewHandler(deps.RecipeService).Register(v1.Group("/recipes"), outbound...)
		handlers.NewAIHandler(deps.AIService, deps.RecipeService).Register(v1.Group("/ai"), outbound...)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ai_enabled", deps.AIService != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
