package nutrition

import (
	"context"
	"fmt"

	"recipe-share/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 營養紀錄的持久化
type Store interface {
	// ReplaceNutrition 在同一個交易中刪除舊紀錄並寫入新紀錄
	ReplaceNutrition(ctx context.Context, recipeID uint, records []NutritionRecord) error
	DeleteNutrition(ctx context.Context, recipeID uint) error
	// ListNutrition 依 id 排序
	ListNutrition(ctx context.Context, recipeID uint) ([]NutritionRecord, error)
}

// Target 需要計算營養的食譜
type Target struct {
	RecipeID    uint
	Title       string
	Servings    int
	Ingredients IngredientSource
}

// Pipeline 食材擷取、油量調整、營養分析、進位與儲存
type Pipeline struct {
	analyzer Analyzer
	store    Store
}

// NewPipeline 創建營養計算流程
func NewPipeline(analyzer Analyzer, store Store) *Pipeline {
	return &Pipeline{
		analyzer: analyzer,
		store:    store,
	}
}

// PrepareIngredients 取出食材行並調整油量
func (p *Pipeline) PrepareIngredients(title string, source IngredientSource) ([]string, error) {
	var lines []string
	if source != nil {
		lines = source.Lines()
	}
	return NormalizeOil(title, lines)
}

// Analyze 計算每份營養紀錄，不寫入資料庫
func (p *Pipeline) Analyze(ctx context.Context, target Target) ([]NutritionRecord, error) {
	if target.Servings < 1 {
		return nil, common.ErrInvalidServings
	}

	lines, err := p.PrepareIngredients(target.Title, target.Ingredients)
	if err != nil {
		return nil, err
	}

	common.LogDebug("送出營養分析",
		zap.Uint("recipe_id", target.RecipeID),
		zap.Strings("ingredients", lines),
	)

	result, err := p.analyzer.Analyze(ctx, target.Title, lines)
	if err != nil {
		return nil, err
	}

	return BuildRecords(target.RecipeID, target.Servings, result.TotalNutrients, result.TotalDaily)
}

// Save 將整份食譜的營養分析結果換算、進位後取代既有紀錄
func (p *Pipeline) Save(ctx context.Context, recipeID uint, servings int, nutrients, daily map[string]NutrientEntry) error {
	records, err := BuildRecords(recipeID, servings, nutrients, daily)
	if err != nil {
		return err
	}
	return p.persist(ctx, recipeID, records)
}

// persist 以單一交易取代食譜的營養紀錄
func (p *Pipeline) persist(ctx context.Context, recipeID uint, records []NutritionRecord) error {
	if err := p.store.ReplaceNutrition(ctx, recipeID, records); err != nil {
		return fmt.Errorf("replace nutrition for recipe %d: %w", recipeID, err)
	}
	return nil
}

// Refresh 重新計算並取代食譜的營養紀錄。
// 失敗時清除既有紀錄，避免顯示與食材不符的營養標示。
func (p *Pipeline) Refresh(ctx context.Context, target Target) ([]NutritionRecord, error) {
	records, err := p.Analyze(ctx, target)
	if err == nil {
		err = p.persist(ctx, target.RecipeID, records)
	}

	if err != nil {
		common.LogWarn("營養計算失敗，清除既有營養紀錄",
			zap.Uint("recipe_id", target.RecipeID),
			zap.Error(err),
		)
		if clearErr := p.store.DeleteNutrition(context.WithoutCancel(ctx), target.RecipeID); clearErr != nil {
			common.LogError("清除營養紀錄失敗",
				zap.Uint("recipe_id", target.RecipeID),
				zap.Error(clearErr),
			)
		}
		return nil, err
	}

	common.LogInfo("營養紀錄已更新",
		zap.Uint("recipe_id", target.RecipeID),
		zap.Int("nutrients", len(records)),
	)
	return records, nil
}

// Facts 讀取食譜的營養標示
func (p *Pipeline) Facts(ctx context.Context, recipeID uint) (*Facts, error) {
	records, err := p.store.ListNutrition(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list nutrition for recipe %d: %w", recipeID, err)
	}
	return NewFacts(records), nil
}
