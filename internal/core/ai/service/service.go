package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-share/internal/core/ai/cache"
	"recipe-share/internal/core/ai/provider"
	"recipe-share/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	draftKeyPrefix = "draft:"

	systemPrompt = "You are a chef with knowledge in every culture and cuisine. Use only " +
		"user provided and common household ingredients to respond with a recipe " +
		"with the name of the recipe in bold, separated by '**Description:**', " +
		"'**Number of Servings:**', '**Ingredients:**', and '**Instructions:**'."
)

// Generation 生成結果，HTML 供預覽，Draft 供後續儲存
type Generation struct {
	Draft *common.RecipeDraft `json:"draft"`
	HTML  string              `json:"html"`
	Model string              `json:"model"`
}

// Service AI 服務
type Service struct {
	provider provider.Provider
	drafts   cache.Store
}

// NewService 創建 AI 服務
func NewService(p provider.Provider, drafts cache.Store) *Service {
	return &Service{
		provider: p,
		drafts:   drafts,
	}
}

// GenerateRecipe 依使用者描述生成食譜並暫存為草稿
func (s *Service) GenerateRecipe(ctx context.Context, query string) (*Generation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.NewValidationError("query is required")
	}

	resp, err := s.provider.Generate(ctx, &provider.Request{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: systemPrompt},
			{Role: provider.RoleUser, Content: query},
		},
	})
	if err != nil {
		return nil, err
	}

	common.LogDebug("AI 回應內容 (ai/recipes)",
		zap.Int("ai_response_length", len(resp.Content)),
		zap.String("model", resp.Model),
	)

	draft, err := ParseRecipe(resp.Content)
	if err != nil {
		common.LogWarn("AI 回應格式不符",
			zap.Error(err),
			zap.String("ai_response_preview", preview(resp.Content, 200)),
		)
		return nil, err
	}

	rendered, err := common.MarkdownToHTML(resp.Content)
	if err != nil {
		return nil, err
	}

	draft.ID = common.GenerateUUID()
	payload, err := common.ToJSON(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.drafts.Set(ctx, draftKeyPrefix+draft.ID, payload); err != nil {
		return nil, fmt.Errorf("failed to store draft: %w", err)
	}

	common.LogInfo("AI 食譜草稿已建立",
		zap.String("draft_id", draft.ID),
		zap.String("title", draft.Title),
	)

	return &Generation{
		Draft: draft,
		HTML:  rendered,
		Model: resp.Model,
	}, nil
}

// GetDraft 取得暫存草稿
func (s *Service) GetDraft(ctx context.Context, id string) (*common.RecipeDraft, error) {
	payload, err := s.drafts.Get(ctx, draftKeyPrefix+id)
	if errors.Is(err, common.ErrCacheMiss) {
		return nil, common.ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}

	var draft common.RecipeDraft
	if err := common.ParseJSON(payload, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &draft, nil
}

// DeleteDraft 刪除暫存草稿
func (s *Service) DeleteDraft(ctx context.Context, id string) error {
	return s.drafts.Delete(ctx, draftKeyPrefix+id)
}

// Model 目前使用的模型
func (s *Service) Model() string {
	return s.provider.GetModel()
}

// preview 取前 n 個字元，不切斷多位元組字元
func preview(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
