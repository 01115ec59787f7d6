package openrouter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-share/internal/core/ai/provider"
	"recipe-share/internal/infrastructure/config"
	"recipe-share/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client OpenRouter API 客戶端
type Client struct {
	client    *resty.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

type chatRequest struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message provider.Message `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg config.OpenRouterConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://recipe-share.app").
		SetHeader("X-Title", "Recipe Share")

	return &Client{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
	}
}

// Generate 送出對話補全請求
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       c.model,
			Messages:    req.Messages,
			MaxTokens:   maxTokens,
			Temperature: req.Temperature,
		}).
		Post("/chat/completions")

	if err != nil {
		err = common.ErrAIServiceError.Wrap(fmt.Errorf("send request: %w", err))
		common.LogExternalCall("openrouter", time.Since(start), err, zap.String("model", c.model))
		return nil, err
	}

	if !resp.IsSuccess() {
		err = common.ErrAIServiceError.Wrap(fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
		common.LogExternalCall("openrouter", time.Since(start), err,
			zap.String("model", c.model),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, err
	}

	var result chatResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		err = common.ErrInvalidAIResponse.Wrap(fmt.Errorf("decode response: %w", err))
		common.LogExternalCall("openrouter", time.Since(start), err, zap.String("model", c.model))
		return nil, err
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		err = common.ErrInvalidAIResponse.Wrap(fmt.Errorf("empty choices in response"))
		common.LogExternalCall("openrouter", time.Since(start), err, zap.String("model", c.model))
		return nil, err
	}

	common.LogExternalCall("openrouter", time.Since(start), nil,
		zap.String("model", c.model),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)

	model := result.Model
	if model == "" {
		model = c.model
	}
	return &provider.Response{
		Content: result.Choices[0].Message.Content,
		Model:   model,
		Usage:   result.Usage,
	}, nil
}

// GetModel 實作 provider.Provider
func (c *Client) GetModel() string {
	return c.model
}

// GetTimeout 實作 provider.Provider
func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
