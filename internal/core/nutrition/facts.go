package nutrition

// Facts 營養標示所需的固定營養素，缺少的項目為 nil（代表無資料，而非 0）
type Facts struct {
	Calories     *NutritionRecord `json:"calories"`
	TotalFat     *NutritionRecord `json:"total_fat"`
	SaturatedFat *NutritionRecord `json:"saturated_fat"`
	TransFat     *NutritionRecord `json:"trans_fat"`
	Cholesterol  *NutritionRecord `json:"cholesterol"`
	Sodium       *NutritionRecord `json:"sodium"`
	TotalCarbs   *NutritionRecord `json:"total_carbs"`
	Fiber        *NutritionRecord `json:"fiber"`
	Sugar        *NutritionRecord `json:"sugar"`
	Protein      *NutritionRecord `json:"protein"`
	VitaminD     *NutritionRecord `json:"vitamin_d"`
	Calcium      *NutritionRecord `json:"calcium"`
	Iron         *NutritionRecord `json:"iron"`
	Potassium    *NutritionRecord `json:"potassium"`
}

// NewFacts 由食譜的營養紀錄組出 Facts。
// records 需依 id 排序，同一代碼重複時以第一筆為準。
func NewFacts(records []NutritionRecord) *Facts {
	byCode := make(map[string]*NutritionRecord, len(records))
	for i := range records {
		if _, seen := byCode[records[i].Nutrient]; seen {
			continue
		}
		byCode[records[i].Nutrient] = &records[i]
	}

	return &Facts{
		Calories:     byCode[CodeCalories],
		TotalFat:     byCode[CodeTotalFat],
		SaturatedFat: byCode[CodeSaturatedFat],
		TransFat:     byCode[CodeTransFat],
		Cholesterol:  byCode[CodeCholesterol],
		Sodium:       byCode[CodeSodium],
		TotalCarbs:   byCode[CodeTotalCarbs],
		Fiber:        byCode[CodeFiber],
		Sugar:        byCode[CodeSugar],
		Protein:      byCode[CodeProtein],
		VitaminD:     byCode[CodeVitaminD],
		Calcium:      byCode[CodeCalcium],
		Iron:         byCode[CodeIron],
		Potassium:    byCode[CodePotassium],
	}
}

// Available 已有的營養素數量
func (f *Facts) Available() int {
	count := 0
	for _, r := range []*NutritionRecord{
		f.Calories, f.TotalFat, f.SaturatedFat, f.TransFat, f.Cholesterol, f.Sodium, f.TotalCarbs,
		f.Fiber, f.Sugar, f.Protein, f.VitaminD, f.Calcium, f.Iron, f.Potassium,
	} {
		if r != nil {
			count++
		}
	}
	return count
}
