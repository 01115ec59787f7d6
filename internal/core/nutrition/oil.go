package nutrition

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"recipe-share/internal/pkg/common"
)

// OilRetentionFactor 油炸時實際被食物吸收的油量比例
const OilRetentionFactor = 0.15

var (
	oilWordPattern      = regexp.MustCompile(`(?i)\boil\b`)
	leadingNumber       = regexp.MustCompile(`\d+(\.\d+)?`)
	attachedUnitPattern = regexp.MustCompile(`(?i)(quarts|quart|qts|qt|cups|cup)`)

	volumeUnits = []string{"quart", "qt", "cup", "quarts", "qts", "cups"}

	spelledNumbers = map[string]int{
		"one":   1,
		"two":   2,
		"three": 3,
		"four":  4,
		"five":  5,
		"six":   6,
		"seven": 7,
		"eight": 8,
		"nine":  9,
		"ten":   10,
	}
)

// IsDressing 沙拉醬類食譜的油會被完整食用，不做調整
func IsDressing(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "dressing") || strings.Contains(lower, "vinaigrette")
}

// NormalizeOil 依用途調整以容量計的油量，回傳新的切片，不修改輸入。
// 空白或 &nbsp; 項目會被移除。
func NormalizeOil(title string, lines []string) ([]string, error) {
	if IsDressing(title) {
		out := make([]string, len(lines))
		copy(out, lines)
		return out, nil
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if isBlankLine(line) {
			continue
		}
		if !isMeasuredOil(line) {
			out = append(out, line)
			continue
		}
		converted, err := scaleOilLine(line)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

// isMeasuredOil 含有完整單字 oil 且以 quart/cup 計量
func isMeasuredOil(line string) bool {
	if !oilWordPattern.MatchString(line) {
		return false
	}
	lower := strings.ToLower(line)
	for _, unit := range volumeUnits {
		if strings.Contains(lower, unit) {
			return true
		}
	}
	return false
}

// scaleOilLine 只檢查第一個 token 的數量
func scaleOilLine(line string) (string, error) {
	tokens := strings.Fields(line)
	first := tokens[0]

	number := leadingNumber.FindString(first)
	unit := attachedUnitPattern.FindString(first)

	switch {
	case number != "" && unit == "":
		// "1 cup"
		value, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return "", fmt.Errorf("parse oil quantity %q: %w", first, err)
		}
		tokens[0] = formatAmount(value * OilRetentionFactor)
	case number != "":
		// "1cup"
		value, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return "", fmt.Errorf("parse oil quantity %q: %w", first, err)
		}
		tokens[0] = formatAmount(value*OilRetentionFactor) + " " + unit
	default:
		// "one cup"
		value, ok := spelledNumbers[strings.ToLower(first)]
		if !ok {
			return "", common.ErrUnsupportedAmount.Wrap(fmt.Errorf("unsupported oil quantity %q in %q", first, line))
		}
		tokens[0] = formatAmount(float64(value) * OilRetentionFactor)
	}

	return strings.Join(tokens, " "), nil
}

// formatAmount 保留 12 位有效數字後取最短的小數表示，例如 0.3、0.45、0.00015
func formatAmount(v float64) string {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	if err != nil {
		rounded = v
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
