package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-share/internal/core/nutrition"
	"recipe-share/internal/pkg/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository 食譜與營養紀錄的存取
type Repository interface {
	nutrition.Store

	Create(ctx context.Context, recipe *Recipe) error
	Update(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Recipe, error)
	TitleExists(ctx context.Context, title string, excludeID uint) (bool, error)
	RecipeURLExists(ctx context.Context, recipeURL string) (bool, error)
	List(ctx context.Context) ([]Recipe, error)
	Search(ctx context.Context, words []string) ([]Recipe, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository 創建 gorm 實作
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Models 需要 AutoMigrate 的資料表
func Models() []interface{} {
	return []interface{}{&Recipe{}, &nutrition.NutritionRecord{}}
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return common.ErrConflict.Wrap(err)
	}
	return err
}

func (r *repository) Create(ctx context.Context, recipe *Recipe) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error; err != nil {
		return fmt.Errorf("create recipe: %w", translateError(err))
	}
	return nil
}

func (r *repository) Update(ctx context.Context, recipe *Recipe) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(recipe).Error; err != nil {
		return fmt.Errorf("update recipe %d: %w", recipe.ID, translateError(err))
	}
	return nil
}

// Delete 在同一個交易中刪除營養紀錄與食譜
func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&nutrition.NutritionRecord{}).Error; err != nil {
			return fmt.Errorf("delete nutrition for recipe %d: %w", id, err)
		}
		result := tx.Delete(&Recipe{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete recipe %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return common.ErrNotFound.Wrap(fmt.Errorf("recipe %d", id))
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Recipe, error) {
	var recipe Recipe
	err := r.db.WithContext(ctx).First(&recipe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound.Wrap(fmt.Errorf("recipe %d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// TitleExists excludeID 為 0 時檢查所有食譜
func (r *repository) TitleExists(ctx context.Context, title string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&Recipe{}).Where("title = ?", title)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) RecipeURLExists(ctx context.Context, recipeURL string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&Recipe{}).
		Where("recipe_url = ?", recipeURL).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 由新到舊
func (r *repository) List(ctx context.Context) ([]Recipe, error) {
	var recipes []Recipe
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Search 每個關鍵字比對標題、食材與步驟，結果不重複、由新到舊
func (r *repository) Search(ctx context.Context, words []string) ([]Recipe, error) {
	seen := make(map[uint]struct{})
	var results []Recipe

	for _, word := range words {
		pattern := "%" + strings.ToLower(word) + "%"

		var matches []Recipe
		if err := r.db.WithContext(ctx).
			Where("LOWER(title) LIKE ? OR LOWER(ingredients) LIKE ? OR LOWER(instructions) LIKE ?", pattern, pattern, pattern).
			Order("id DESC").
			Find(&matches).Error; err != nil {
			return nil, fmt.Errorf("search recipes for %q: %w", word, err)
		}

		for _, m := range matches {
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
			results = append(results, m)
		}
	}
	return results, nil
}

// ReplaceNutrition 刪除舊紀錄並寫入新紀錄，讀取端不會看到一半的結果
func (r *repository) ReplaceNutrition(ctx context.Context, recipeID uint, records []nutrition.NutritionRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&nutrition.NutritionRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		for i := range records {
			records[i].ID = 0
			records[i].RecipeID = recipeID
		}
		return tx.Create(&records).Error
	})
}

func (r *repository) DeleteNutrition(ctx context.Context, recipeID uint) error {
	return r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&nutrition.NutritionRecord{}).Error
}

func (r *repository) ListNutrition(ctx context.Context, recipeID uint) ([]nutrition.NutritionRecord, error) {
	var records []nutrition.NutritionRecord
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
