package common

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

var markdownRenderer = goldmark.New()

// MarkdownToHTML 將 markdown 轉為 HTML
func MarkdownToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
