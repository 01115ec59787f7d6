package nutrition

import (
	"regexp"
	"strings"

	"recipe-share/internal/pkg/common"
)

// EmptyPlaceholder 編輯器留下的空白項目
const EmptyPlaceholder = "&nbsp;"

var listContainerPattern = regexp.MustCompile(`</?ul>`)

// IngredientSource 食譜儲存的食材來源
type IngredientSource interface {
	Lines() []string
}

// MarkupIngredients 以 <ul><li> 標記儲存的食材
type MarkupIngredients string

// Lines 實作 IngredientSource
func (m MarkupIngredients) Lines() []string {
	return MarkupToLines(string(m))
}

// StructuredIngredients 網頁擷取的結構化食材
type StructuredIngredients []common.StructuredIngredient

// Lines 實作 IngredientSource，格式為 "{amount} {unit} {ingredient}"
func (s StructuredIngredients) Lines() []string {
	lines := make([]string, 0, len(s))
	for _, ing := range s {
		lines = append(lines, ing.String())
	}
	return lines
}

// MarkupToLines 將食材標記轉為逐行食材，順序與輸入一致。
// 標記不完整時僅盡力切割，不回傳錯誤。
func MarkupToLines(markup string) []string {
	stripped := listContainerPattern.ReplaceAllString(markup, "")
	stripped = strings.ReplaceAll(stripped, "<li>", "")

	fragments := strings.Split(stripped, "</li>")
	lines := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if isBlankLine(fragment) {
			continue
		}
		lines = append(lines, fragment)
	}
	return lines
}

// IsEmptyMarkup 判斷標記是否不含任何食材
func IsEmptyMarkup(markup string) bool {
	return len(MarkupToLines(markup)) == 0
}

func isBlankLine(line string) bool {
	return line == "" || line == EmptyPlaceholder
}
