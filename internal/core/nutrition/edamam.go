package nutrition

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"recipe-share/internal/infrastructure/config"
	"recipe-share/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const nutritionDetailsPath = "/api/nutrition-details"

// Analyzer 營養分析服務
type Analyzer interface {
	Analyze(ctx context.Context, title string, ingredients []string) (*AnalysisResult, error)
}

// EdamamClient Edamam 營養分析客戶端
type EdamamClient struct {
	client *resty.Client
	appID  string
	appKey string
}

type analysisRequest struct {
	Title string   `json:"title"`
	Ingr  []string `json:"ingr"`
}

// NewEdamamClient 創建 Edamam 客戶端
func NewEdamamClient(cfg config.EdamamConfig) *EdamamClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &EdamamClient{
		client: client,
		appID:  cfg.AppID,
		appKey: cfg.AppKey,
	}
}

// Analyze 每次呼叫只送出一個請求，不重試、不快取
func (c *EdamamClient) Analyze(ctx context.Context, title string, ingredients []string) (*AnalysisResult, error) {
	if ingredients == nil {
		ingredients = []string{}
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"app_id":  c.appID,
			"app_key": c.appKey,
		}).
		SetBody(analysisRequest{Title: title, Ingr: ingredients}).
		Post(nutritionDetailsPath)

	if err != nil {
		err = common.ErrNutritionService.Wrap(fmt.Errorf("send request: %w", stripRequestURL(err)))
		common.LogExternalCall("edamam", time.Since(start), err, zap.String("title", title))
		return nil, err
	}

	if !resp.IsSuccess() {
		err = common.ErrNutritionService.Wrap(fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
		common.LogExternalCall("edamam", time.Since(start), err,
			zap.String("title", title),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, err
	}

	var result AnalysisResult
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		err = common.ErrNutritionService.Wrap(fmt.Errorf("decode response: %w", err))
		common.LogExternalCall("edamam", time.Since(start), err, zap.String("title", title))
		return nil, err
	}

	common.LogExternalCall("edamam", time.Since(start), nil,
		zap.String("title", title),
		zap.Int("ingredients", len(ingredients)),
		zap.Int("nutrients", len(result.TotalNutrients)),
	)
	return &result, nil
}

// stripRequestURL 傳輸錯誤訊息包含完整網址（含 app_key），只保留方法、路徑與原因
func stripRequestURL(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	path := nutritionDetailsPath
	if parsed, perr := url.Parse(ue.URL); perr == nil {
		path = parsed.Path
	}
	return fmt.Errorf("%s %s: %w", ue.Op, path, ue.Err)
}
