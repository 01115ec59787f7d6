package recipe

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"recipe-share/internal/pkg/common"

	"go.uber.org/zap"
)

var searchCleanPattern = regexp.MustCompile(`[^a-zA-Z0-9\- ]`)

// Create 新增食譜後計算營養。
// 營養計算失敗時食譜仍會保留，回傳食譜與 NutritionError。
func (s *Service) Create(ctx context.Context, input *RecipeInput) (*Recipe, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureTitleAvailable(ctx, strings.TrimSpace(input.Title), 0); err != nil {
		return nil, err
	}

	recipe := &Recipe{}
	input.apply(recipe)
	if err := s.repo.Create(ctx, recipe); err != nil {
		return nil, err
	}

	common.LogInfo("食譜已新增",
		zap.Uint("recipe_id", recipe.ID),
		zap.String("title", recipe.Title),
	)
	return recipe, s.refresh(ctx, recipe)
}

// Update 編輯食譜並重新計算營養
func (s *Service) Update(ctx context.Context, id uint, input *RecipeInput) (*Recipe, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTitleAvailable(ctx, strings.TrimSpace(input.Title), id); err != nil {
		return nil, err
	}

	input.apply(recipe)
	if err := s.repo.Update(ctx, recipe); err != nil {
		return nil, err
	}

	common.LogInfo("食譜已更新",
		zap.Uint("recipe_id", recipe.ID),
		zap.String("title", recipe.Title),
	)
	return recipe, s.refresh(ctx, recipe)
}

// Delete 刪除食譜與其營養紀錄
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	common.LogInfo("食譜已刪除", zap.Uint("recipe_id", id))
	return nil
}

// Get 取得食譜與營養標示
func (s *Service) Get(ctx context.Context, id uint) (*Detail, error) {
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	facts, err := s.pipeline.Facts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Recipe: recipe, Nutrition: facts}, nil
}

// List 無關鍵字時列出全部食譜，否則以關鍵字搜尋
func (s *Service) List(ctx context.Context, query string) ([]Recipe, error) {
	words := strings.Fields(searchCleanPattern.ReplaceAllString(query, ""))
	if len(words) == 0 {
		if strings.TrimSpace(query) != "" {
			return []Recipe{}, nil
		}
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, words)
}

// Import 擷取食譜網站並儲存
func (s *Service) Import(ctx context.Context, rawURL string) (*Recipe, error) {
	key, source, err := s.scraper.Resolve(rawURL)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.RecipeURLExists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check recipe url: %w", err)
	}
	if exists {
		return nil, common.ErrConflict.Wrap(fmt.Errorf("recipe %s has already been saved", key))
	}

	scraped, err := s.scraper.Scrape(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTitleAvailable(ctx, scraped.Title, 0); err != nil {
		return nil, err
	}

	recipe := &Recipe{
		Title:                 scraped.Title,
		Description:           scraped.Description,
		StructuredIngredients: scraped.Ingredients,
		Instructions:          scraped.Instructions,
		DefaultServings:       scraped.Servings,
		TimeToCook:            scraped.TotalTime,
		ImageURL:              scraped.ImageURL,
		RecipeURL:             &key,
		RecipeSource:          source,
	}
	if err := s.repo.Create(ctx, recipe); err != nil {
		return nil, err
	}

	common.LogInfo("食譜已匯入",
		zap.Uint("recipe_id", recipe.ID),
		zap.String("recipe_url", key),
		zap.Int("ingredients", len(scraped.Ingredients)),
	)
	return recipe, s.refresh(ctx, recipe)
}

// SaveDraft 將 AI 生成的草稿轉為 HTML 後儲存
func (s *Service) SaveDraft(ctx context.Context, draft *common.RecipeDraft) (*Recipe, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, common.NewValidationError("draft has no title")
	}
	if draft.Servings < 1 {
		return nil, common.ErrInvalidServings
	}

	ingredients, err := common.MarkdownToHTML(draft.Ingredients)
	if err != nil {
		return nil, err
	}
	instructions, err := common.MarkdownToHTML(draft.Instructions)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(draft.Title)
	if err := s.ensureTitleAvailable(ctx, title, 0); err != nil {
		return nil, err
	}

	recipe := &Recipe{
		Title:           title,
		Description:     draft.Description,
		Ingredients:     ingredients,
		Instructions:    instructions,
		DefaultServings: draft.Servings,
	}
	if err := s.repo.Create(ctx, recipe); err != nil {
		return nil, err
	}

	common.LogInfo("AI 食譜已儲存",
		zap.Uint("recipe_id", recipe.ID),
		zap.String("draft_id", draft.ID),
	)
	return recipe, s.refresh(ctx, recipe)
}

// RefreshNutrition 重新計算既有食譜的營養
func (s *Service) RefreshNutrition(ctx context.Context, id uint) (*Detail, error) {
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.pipeline.Refresh(ctx, recipe.NutritionTarget()); err != nil {
		return nil, err
	}
	facts, err := s.pipeline.Facts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Recipe: recipe, Nutrition: facts}, nil
}
