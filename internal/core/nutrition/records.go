package nutrition

import (
	"sort"

	"recipe-share/internal/pkg/common"
)

// NutrientEntry 營養分析回傳的單一營養素
type NutrientEntry struct {
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// AnalysisResult 營養分析回應中使用到的部分
type AnalysisResult struct {
	TotalNutrients map[string]NutrientEntry `json:"totalNutrients"`
	TotalDaily     map[string]NutrientEntry `json:"totalDaily"`
}

// NutritionRecord 每份的營養素數值
type NutritionRecord struct {
	ID                uint    `gorm:"primaryKey" json:"-"`
	RecipeID          uint    `gorm:"index;not null" json:"-"`
	Nutrient          string  `gorm:"size:32;not null" json:"nutrient"`
	Amount            float64 `json:"amount"`
	Unit              string  `gorm:"size:16" json:"unit"`
	DailyValuePercent *int    `json:"daily_value_percent"`
}

// TableName 指定資料表名稱
func (NutritionRecord) TableName() string {
	return "nutrition_facts"
}

// BuildRecords 將整份食譜的營養素換算成每份並依 FDA 規則進位，
// 依營養素代碼排序，排除不標示的營養素。
func BuildRecords(recipeID uint, servings int, nutrients, daily map[string]NutrientEntry) ([]NutritionRecord, error) {
	if servings < 1 {
		return nil, common.ErrInvalidServings
	}

	codes := make([]string, 0, len(nutrients))
	for code := range nutrients {
		if IsLabelNutrient(code) {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)

	records := make([]NutritionRecord, 0, len(codes))
	for _, code := range codes {
		entry := nutrients[code]
		record := NutritionRecord{
			RecipeID: recipeID,
			Nutrient: code,
			Amount:   RoundAmount(code, entry.Quantity/float64(servings)),
			Unit:     entry.Unit,
		}
		if dv, ok := daily[code]; ok {
			percent := int(dv.Quantity)
			record.DailyValuePercent = &percent
		}
		records = append(records, record)
	}
	return records, nil
}
