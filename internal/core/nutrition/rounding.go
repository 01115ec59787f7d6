package nutrition

import "math"

// 營養素代碼
const (
	CodeCalories     = "ENERC_KCAL"
	CodeTotalFat     = "FAT"
	CodeSaturatedFat = "FASAT"
	CodeTransFat     = "FATRN"
	CodeMonoFat      = "FAMS"
	CodePolyFat      = "FAPU"
	CodeCholesterol  = "CHOLE"
	CodeSodium       = "NA"
	CodePotassium    = "K"
	CodeTotalCarbs   = "CHOCDF"
	CodeFiber        = "FIBTG"
	CodeSugar        = "SUGAR"
	CodeProtein      = "PROCNT"
	CodeIron         = "FE"
	CodeVitaminD     = "VITD"
	CodeCalcium      = "CA"
)

// Rule 單一營養素的進位規則
type Rule interface {
	Apply(amount float64) float64
}

// Passthrough 不進位
type Passthrough struct{}

func (Passthrough) Apply(amount float64) float64 { return amount }

// Zero 一律標示為 0
type Zero struct{}

func (Zero) Apply(float64) float64 { return 0 }

// Nearest 進位到最接近的 step 倍數
type Nearest float64

func (n Nearest) Apply(amount float64) float64 {
	step := float64(n)
	return math.Round(amount/step) * step
}

// Decimal 保留指定小數位數
type Decimal int

func (d Decimal) Apply(amount float64) float64 {
	scale := math.Pow(10, float64(d))
	return math.Round(amount*scale) / scale
}

// Bucket 數值低於 Upper（Inclusive 時含等於）時套用 Rule
type Bucket struct {
	Upper     float64
	Inclusive bool
	Rule      Rule
}

// Bucketed 依序比對區間，最後一個區間需以 +Inf 收尾
type Bucketed []Bucket

func (b Bucketed) Apply(amount float64) float64 {
	for _, bucket := range b {
		if amount < bucket.Upper || (bucket.Inclusive && amount == bucket.Upper) {
			return bucket.Rule.Apply(amount)
		}
	}
	return amount
}

var (
	inf = math.Inf(1)

	calorieRule = Bucketed{
		{Upper: 5, Rule: Zero{}},
		{Upper: 50, Inclusive: true, Rule: Nearest(5)},
		{Upper: inf, Rule: Nearest(10)},
	}
	fatRule = Bucketed{
		{Upper: 0.5, Rule: Zero{}},
		{Upper: 5, Rule: Nearest(0.5)},
		{Upper: inf, Rule: Nearest(1)},
	}
	cholesterolRule = Bucketed{
		{Upper: 2, Rule: Zero{}},
		{Upper: 5, Inclusive: true, Rule: Nearest(1)},
		{Upper: inf, Rule: Nearest(5)},
	}
	mineralRule = Bucketed{
		{Upper: 5, Rule: Zero{}},
		{Upper: 140, Inclusive: true, Rule: Nearest(5)},
		{Upper: inf, Rule: Nearest(10)},
	}
	carbohydrateRule = Bucketed{
		{Upper: 0.5, Rule: Zero{}},
		{Upper: 1, Rule: Decimal(1)},
		{Upper: inf, Rule: Nearest(1)},
	}
	proteinRule = Bucketed{
		{Upper: 0.5, Rule: Zero{}},
		{Upper: inf, Rule: Nearest(1)},
	}
)

// RoundingRules FDA 標示進位規則，未列出的代碼不進位
var RoundingRules = map[string]Rule{
	CodeCalories:     calorieRule,
	CodeTotalFat:     fatRule,
	CodeSaturatedFat: fatRule,
	CodeTransFat:     fatRule,
	CodeMonoFat:      fatRule,
	CodePolyFat:      fatRule,
	CodeCholesterol:  cholesterolRule,
	CodeSodium:       mineralRule,
	CodePotassium:    mineralRule,
	CodeTotalCarbs:   carbohydrateRule,
	CodeFiber:        carbohydrateRule,
	CodeSugar:        carbohydrateRule,
	CodeProtein:      proteinRule,
	CodeIron:         Decimal(1),
	CodeVitaminD:     Decimal(1),
	CodeCalcium:      Nearest(10),
}

// NonLabelNutrients 不顯示在營養標示上的代碼
var NonLabelNutrients = map[string]struct{}{
	"CHOCDF.net": {},
	"WATER":      {},
	"MG":         {},
	"ZN":         {},
	"P":          {},
	"VITA_RAE":   {},
	"VITC":       {},
	"THIA":       {},
	"RIBF":       {},
	"NIA":        {},
	"VITB6A":     {},
	"FOLDFE":     {},
	"FOLFD":      {},
	"FOLAC":      {},
	"VITB12":     {},
	"TOCPHA":     {},
	"VITK1":      {},
}

// RoundAmount 依營養素代碼套用進位規則
func RoundAmount(code string, amount float64) float64 {
	rule, ok := RoundingRules[code]
	if !ok {
		return Passthrough{}.Apply(amount)
	}
	return rule.Apply(amount)
}

// IsLabelNutrient 是否顯示在營養標示上
func IsLabelNutrient(code string) bool {
	_, excluded := NonLabelNutrients[code]
	return !excluded
}
