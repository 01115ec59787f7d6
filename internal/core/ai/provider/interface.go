package provider

import (
	"context"
	"time"
)

// 對話角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message 對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 對話補全請求
type Request struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Usage token 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response 模型回應
type Response struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Provider 語言模型提供者
type Provider interface {
	Generate(ctx context.Context, req *Request) (*Response, error)

	// GetModel 目前使用的模型名稱
	GetModel() string

	GetTimeout() time.Duration

	Close() error
}
