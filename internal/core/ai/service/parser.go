package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"recipe-share/internal/pkg/common"
)

const (
	boldMarker         = "**"
	descriptionMarker  = "**Description:**"
	servingsMarker     = "**Number of Servings:**"
	ingredientsMarker  = "**Ingredients:**"
	instructionsMarker = "**Instructions:**"
)

var firstInteger = regexp.MustCompile(`\d+`)

// ParseRecipe 解析模型回傳的 markdown 食譜。
// 標題為第一組 ** 之間的文字，其餘依段落標記切割。
func ParseRecipe(text string) (*common.RecipeDraft, error) {
	title, err := parseTitle(text)
	if err != nil {
		return nil, err
	}

	head, instructions, ok := strings.Cut(text, instructionsMarker)
	if !ok {
		return nil, missingSection(instructionsMarker)
	}
	head, ingredients, ok := strings.Cut(head, ingredientsMarker)
	if !ok {
		return nil, missingSection(ingredientsMarker)
	}
	head, servingsText, ok := strings.Cut(head, servingsMarker)
	if !ok {
		return nil, missingSection(servingsMarker)
	}
	_, description, ok := strings.Cut(head, descriptionMarker)
	if !ok {
		return nil, missingSection(descriptionMarker)
	}

	digits := firstInteger.FindString(servingsText)
	if digits == "" {
		return nil, common.ErrInvalidAIResponse.Wrap(fmt.Errorf("no servings number in %q", strings.TrimSpace(servingsText)))
	}
	servings, err := strconv.Atoi(digits)
	if err != nil {
		return nil, common.ErrInvalidAIResponse.Wrap(err)
	}

	return &common.RecipeDraft{
		Title:        title,
		Description:  strings.TrimSpace(description),
		Servings:     servings,
		Ingredients:  strings.TrimSpace(ingredients),
		Instructions: strings.TrimSpace(instructions),
	}, nil
}

func parseTitle(text string) (string, error) {
	parts := strings.SplitN(text, boldMarker, 3)
	if len(parts) < 3 {
		return "", common.ErrInvalidAIResponse.Wrap(fmt.Errorf("recipe title not found"))
	}
	title := strings.TrimSpace(parts[1])
	if title == "" || strings.HasSuffix(title, ":") {
		return "", common.ErrInvalidAIResponse.Wrap(fmt.Errorf("recipe title not found"))
	}
	return title, nil
}

func missingSection(marker string) error {
	return common.ErrInvalidAIResponse.Wrap(fmt.Errorf("missing section %s", marker))
}
