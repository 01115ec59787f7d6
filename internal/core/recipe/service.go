package recipe

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"recipe-share/internal/core/nutrition"
	"recipe-share/internal/pkg/common"
)

var orderedListPattern = regexp.MustCompile(`</?ol>`)

// Scraper 食譜網站擷取
type Scraper interface {
	// Resolve 回傳網址的唯一鍵與來源網站，來源不支援時回傳錯誤
	Resolve(rawURL string) (key string, source string, err error)
	Scrape(ctx context.Context, rawURL string) (*common.ScrapedRecipe, error)
}

// Service 食譜服務基礎結構
type Service struct {
	repo     Repository
	pipeline *nutrition.Pipeline
	scraper  Scraper
}

// NewService 創建新的食譜服務
func NewService(repo Repository, pipeline *nutrition.Pipeline, scraper Scraper) *Service {
	return &Service{
		repo:     repo,
		pipeline: pipeline,
		scraper:  scraper,
	}
}

// NutritionError 食譜已儲存，但營養計算失敗
type NutritionError struct {
	RecipeID uint
	Err      error
}

func (e *NutritionError) Error() string {
	return fmt.Sprintf("recipe %d saved without nutrition: %v", e.RecipeID, e.Err)
}

func (e *NutritionError) Unwrap() error {
	return e.Err
}

// AsNutritionError 從錯誤鏈中取出 NutritionError
func AsNutritionError(err error) (*NutritionError, bool) {
	var ne *NutritionError
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

// refresh 重新計算營養，失敗時包成 NutritionError
func (s *Service) refresh(ctx context.Context, recipe *Recipe) error {
	if _, err := s.pipeline.Refresh(ctx, recipe.NutritionTarget()); err != nil {
		return &NutritionError{RecipeID: recipe.ID, Err: err}
	}
	return nil
}

// ensureTitleAvailable 標題已存在時回傳 ErrConflict
func (s *Service) ensureTitleAvailable(ctx context.Context, title string, excludeID uint) error {
	exists, err := s.repo.TitleExists(ctx, title, excludeID)
	if err != nil {
		return fmt.Errorf("check title: %w", err)
	}
	if exists {
		return common.ErrConflict.Wrap(fmt.Errorf("recipe title %q already exists", title))
	}
	return nil
}

func isEmptyInstructions(markup string) bool {
	return nutrition.IsEmptyMarkup(orderedListPattern.ReplaceAllString(markup, ""))
}
