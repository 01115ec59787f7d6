package recipe

import (
	"fmt"
	"strings"
	"time"

	"recipe-share/internal/core/nutrition"
	"recipe-share/internal/pkg/common"

	"gorm.io/datatypes"
)

// DietTypes 可選的飲食類型
var DietTypes = map[string]string{
	"vegetarian": "Vegetarian",
	"vegan":      "Vegan",
	"gf":         "Gluten-free",
	"keto":       "Keto",
	"lc":         "Low-carb",
}

// Recipe 食譜
type Recipe struct {
	ID                    uint                                             `gorm:"primaryKey" json:"id"`
	Title                 string                                           `gorm:"size:100;uniqueIndex;not null" json:"title"`
	Description           string                                           `gorm:"size:400" json:"description"`
	Ingredients           string                                           `gorm:"type:text" json:"ingredients"`
	StructuredIngredients datatypes.JSONSlice[common.StructuredIngredient] `json:"structured_ingredients,omitempty"`
	Instructions          string                                           `gorm:"type:text;not null" json:"instructions"`
	DefaultServings       int                                              `gorm:"not null" json:"default_servings"`
	TimeToCook            string                                           `json:"time_to_cook"`
	TypeDiet              string                                           `json:"type_diet"`
	ImageURL              string                                           `json:"image_url"`
	RecipeURL             *string                                          `gorm:"uniqueIndex" json:"recipe_url,omitempty"`
	RecipeSource          string                                           `json:"recipe_source,omitempty"`
	NutritionFacts        []nutrition.NutritionRecord                      `gorm:"foreignKey:RecipeID" json:"-"`
	CreatedAt             time.Time                                        `json:"created_at"`
	UpdatedAt             time.Time                                        `json:"updated_at"`
}

// IngredientSource 擷取的食譜使用結構化食材，其餘使用標記
func (r *Recipe) IngredientSource() nutrition.IngredientSource {
	if len(r.StructuredIngredients) > 0 {
		return nutrition.StructuredIngredients(r.StructuredIngredients)
	}
	return nutrition.MarkupIngredients(r.Ingredients)
}

// NutritionTarget 轉為營養計算的輸入
func (r *Recipe) NutritionTarget() nutrition.Target {
	return nutrition.Target{
		RecipeID:    r.ID,
		Title:       r.Title,
		Servings:    r.DefaultServings,
		Ingredients: r.IngredientSource(),
	}
}

// Detail 食譜與營養標示
type Detail struct {
	Recipe    *Recipe          `json:"recipe"`
	Nutrition *nutrition.Facts `json:"nutrition"`
}

// RecipeInput 新增或編輯食譜的輸入
type RecipeInput struct {
	Title        string   `json:"title" binding:"required,max=100"`
	Description  string   `json:"description" binding:"max=400"`
	Ingredients  string   `json:"ingredients" binding:"required"`
	Instructions string   `json:"instructions" binding:"required"`
	Servings     int      `json:"servings" binding:"required,min=1,max=10"`
	TimeHours    int      `json:"time_hours" binding:"min=0,max=48"`
	TimeMins     int      `json:"time_mins" binding:"min=0,max=60"`
	TypeDiet     []string `json:"type_diet"`
	ImageURL     string   `json:"image_url" binding:"omitempty,url"`
}

// Validate 驗證輸入
func (in *RecipeInput) Validate() error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return common.NewValidationError("title is required")
	}
	if len(title) > 100 {
		return common.NewValidationError("title must be at most 100 characters")
	}
	if len(in.Description) > 400 {
		return common.NewValidationError("description must be at most 400 characters")
	}
	if in.Servings < 1 || in.Servings > 10 {
		return common.NewValidationError("servings must be between 1 and 10")
	}
	if in.TimeHours < 0 || in.TimeHours > 48 {
		return common.NewValidationError("time_hours must be between 0 and 48")
	}
	if in.TimeMins < 0 || in.TimeMins > 60 {
		return common.NewValidationError("time_mins must be between 0 and 60")
	}
	if nutrition.IsEmptyMarkup(in.Ingredients) {
		return common.NewValidationError("every recipe needs some ingredients")
	}
	if isEmptyInstructions(in.Instructions) {
		return common.NewValidationError("instructions are required")
	}
	for _, diet := range in.TypeDiet {
		if _, ok := DietTypes[diet]; !ok {
			return common.NewValidationError(fmt.Sprintf("unknown diet type %q", diet))
		}
	}
	return nil
}

// TotalTime 轉為 "1 hr 20 mins" 格式
func (in *RecipeInput) TotalTime() string {
	var parts []string
	if in.TimeHours > 0 {
		parts = append(parts, fmt.Sprintf("%d hr", in.TimeHours))
	}
	if in.TimeMins > 0 {
		parts = append(parts, fmt.Sprintf("%d mins", in.TimeMins))
	}
	return strings.Join(parts, " ")
}

// apply 將輸入寫入食譜
func (in *RecipeInput) apply(r *Recipe) {
	r.Title = strings.TrimSpace(in.Title)
	r.Description = in.Description
	r.Ingredients = in.Ingredients
	r.StructuredIngredients = nil
	r.Instructions = in.Instructions
	r.DefaultServings = in.Servings
	r.TimeToCook = in.TotalTime()
	r.TypeDiet = strings.Join(in.TypeDiet, ", ")
	if in.ImageURL != "" {
		r.ImageURL = in.ImageURL
	}
}
