package scraper

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"recipe-share/internal/pkg/common"

	nethtml "golang.org/x/net/html"
)

var servingsPattern = regexp.MustCompile(`\d+`)

type matcher func(n *nethtml.Node) bool

func byTagClass(tag, class string) matcher {
	return func(n *nethtml.Node) bool {
		return n.Type == nethtml.ElementNode && n.Data == tag && hasClass(n, class)
	}
}

func byClass(class string) matcher {
	return func(n *nethtml.Node) bool {
		return n.Type == nethtml.ElementNode && hasClass(n, class)
	}
}

func byTagAttr(tag, key, val string) matcher {
	return func(n *nethtml.Node) bool {
		return n.Type == nethtml.ElementNode && n.Data == tag && attr(n, key) == val
	}
}

func findAll(root *nethtml.Node, match matcher) []*nethtml.Node {
	var found []*nethtml.Node
	var f func(*nethtml.Node)
	f = func(n *nethtml.Node) {
		if match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(root)
	return found
}

func findFirst(root *nethtml.Node, match matcher) *nethtml.Node {
	if match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := findFirst(c, match); n != nil {
			return n
		}
	}
	return nil
}

func attr(n *nethtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *nethtml.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// textContent 合併所有文字節點並壓縮空白
func textContent(n *nethtml.Node) string {
	var sb strings.Builder
	var f func(*nethtml.Node)
	f = func(n *nethtml.Node) {
		if n.Type == nethtml.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func spanText(item *nethtml.Node, dataAttr string) string {
	if span := findFirst(item, byTagAttr("span", dataAttr, "true")); span != nil {
		return textContent(span)
	}
	return ""
}

func extractIngredients(doc *nethtml.Node) []common.StructuredIngredient {
	items := findAll(doc, byTagClass("li", "mm-recipes-structured-ingredients__list-item"))
	ingredients := make([]common.StructuredIngredient, 0, len(items))
	for _, item := range items {
		ingredients = append(ingredients, common.StructuredIngredient{
			Amount:     spanText(item, "data-ingredient-quantity"),
			Unit:       spanText(item, "data-ingredient-unit"),
			Ingredient: spanText(item, "data-ingredient-name"),
		})
	}
	return ingredients
}

// extractInstructions 轉為 "<ol> <li>...</li> </ol>"
func extractInstructions(doc *nethtml.Node) string {
	var sb strings.Builder
	sb.WriteString("<ol> ")
	for _, step := range findAll(doc, byTagClass("li", "mntl-sc-block-group--LI")) {
		p := findFirst(step, func(n *nethtml.Node) bool {
			return n.Type == nethtml.ElementNode && n.Data == "p"
		})
		if p == nil {
			continue
		}
		sb.WriteString("<li>")
		sb.WriteString(html.EscapeString(textContent(p)))
		sb.WriteString("</li> ")
	}
	sb.WriteString("</ol>")
	return sb.String()
}

func extractDetails(doc *nethtml.Node) (totalTime, servings string) {
	for _, item := range findAll(doc, byClass("mm-recipes-details__item")) {
		label := findFirst(item, byClass("mm-recipes-details__label"))
		value := findFirst(item, byClass("mm-recipes-details__value"))
		if label == nil || value == nil {
			continue
		}
		labelText := textContent(label)
		switch {
		case strings.Contains(labelText, "Total Time:"):
			totalTime = textContent(value)
		case strings.Contains(labelText, "Servings"):
			servings = textContent(value)
		}
	}
	return totalTime, servings
}

func extractImage(doc *nethtml.Node) string {
	if img := findFirst(doc, byTagClass("img", "primary-image__image")); img != nil {
		return attr(img, "src")
	}
	if img := findFirst(doc, byTagAttr("img", "id", "mntl-sc-block-image_1-0")); img != nil {
		return attr(img, "data-hi-res-src")
	}
	return ""
}

// parseServings 取第一個整數，例如 "4 to 6" 為 4
func parseServings(text string) (int, error) {
	digits := servingsPattern.FindString(text)
	if digits == "" {
		return 0, common.ErrScrapeFailed.Wrap(fmt.Errorf("servings not found in %q", text))
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, common.ErrScrapeFailed.Wrap(fmt.Errorf("invalid servings %q", text))
	}
	return n, nil
}
