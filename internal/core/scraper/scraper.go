package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"recipe-share/internal/infrastructure/config"
	"recipe-share/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Scraper 食譜網站擷取
type Scraper struct {
	client  *resty.Client
	allowed map[string]struct{}
}

// New 創建擷取器
func New(cfg config.ScraperConfig) *Scraper {
	allowed := make(map[string]struct{}, len(cfg.AllowedSources))
	for _, source := range cfg.AllowedSources {
		allowed[strings.ToLower(source)] = struct{}{}
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html")

	return &Scraper{
		client:  client,
		allowed: allowed,
	}
}

// Resolve 回傳不含協定與 www. 的網址作為唯一鍵，以及來源網站名稱
// （例如 allrecipes.com/recipe/1/x 與 allrecipes）。
func (s *Scraper) Resolve(rawURL string) (string, string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return "", "", common.NewValidationError(fmt.Sprintf("invalid recipe url %q", rawURL))
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", "", common.NewValidationError("recipe url must be http or https")
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	source, isCom := strings.CutSuffix(host, ".com")
	if _, ok := s.allowed[source]; !ok || !isCom || parsed.Port() != "" {
		return "", "", common.ErrUnsupportedSource.Wrap(fmt.Errorf("functionality for %s has not been integrated yet", host))
	}

	return host + parsed.EscapedPath(), source, nil
}

// Scrape 下載並解析食譜頁面
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*common.ScrapedRecipe, error) {
	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		err = common.ErrScrapeFailed.Wrap(fmt.Errorf("fetch page: %w", err))
		common.LogExternalCall("recipe-site", time.Since(start), err, zap.String("url", rawURL))
		return nil, err
	}
	if !resp.IsSuccess() {
		err = common.ErrScrapeFailed.Wrap(fmt.Errorf("status %d", resp.StatusCode()))
		common.LogExternalCall("recipe-site", time.Since(start), err, zap.String("url", rawURL))
		return nil, err
	}
	common.LogExternalCall("recipe-site", time.Since(start), nil,
		zap.String("url", rawURL),
		zap.Int("bytes", len(resp.Body())),
	)

	recipe, err := Parse(resp.Body())
	if err != nil {
		return nil, err
	}
	recipe.RecipeURL = rawURL

	common.LogDebug("食譜擷取完成",
		zap.String("title", recipe.Title),
		zap.String("ingredients", common.FormatIngredients(recipe.Ingredients)),
	)
	return recipe, nil
}

// Parse 解析 allrecipes 食譜頁面
func Parse(page []byte) (*common.ScrapedRecipe, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, common.ErrScrapeFailed.Wrap(fmt.Errorf("parse html: %w", err))
	}

	titleNode := findFirst(doc, byTagClass("h1", "article-heading"))
	if titleNode == nil {
		return nil, common.ErrScrapeFailed.Wrap(fmt.Errorf("recipe title not found"))
	}

	recipe := &common.ScrapedRecipe{
		Title:        textContent(titleNode),
		Ingredients:  extractIngredients(doc),
		Instructions: extractInstructions(doc),
		ImageURL:     extractImage(doc),
		Source:       "allrecipes",
	}
	if desc := findFirst(doc, byTagClass("p", "article-subheading")); desc != nil {
		recipe.Description = textContent(desc)
	}

	totalTime, servings := extractDetails(doc)
	recipe.TotalTime = totalTime
	n, err := parseServings(servings)
	if err != nil {
		return nil, err
	}
	recipe.Servings = n

	return recipe, nil
}
