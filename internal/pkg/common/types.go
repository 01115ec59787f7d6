package common

import (
	"fmt"
	"strings"
)

// StructuredIngredient 從食譜網站擷取的結構化食材
type StructuredIngredient struct {
	Amount     string `json:"amount"`
	Unit       string `json:"unit"`
	Ingredient string `json:"ingredient"`
}

// String 轉為 "{amount} {unit} {ingredient}"
func (s StructuredIngredient) String() string {
	return fmt.Sprintf("%s %s %s", s.Amount, s.Unit, s.Ingredient)
}

// ScrapedRecipe 網頁擷取結果
type ScrapedRecipe struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Ingredients  []StructuredIngredient `json:"ingredients"`
	Instructions string                 `json:"instructions"`
	Servings     int                    `json:"servings"`
	TotalTime    string                 `json:"total_time"`
	ImageURL     string                 `json:"image_url"`
	RecipeURL    string                 `json:"recipe_url"`
	Source       string                 `json:"source"`
}

// RecipeDraft AI 生成、尚未儲存的食譜（markdown 格式）
type RecipeDraft struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Servings     int    `json:"servings"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
}

// FormatIngredients 格式化結構化食材列表
func FormatIngredients(ingredients []StructuredIngredient) string {
	var sb strings.Builder
	for _, ing := range ingredients {
		sb.WriteString(fmt.Sprintf("- %s\n", ing.String()))
	}
	return sb.String()
}
