package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestCustomErrorWrap(t *testing.T) {
	err := fmt.Errorf("refresh: %w", ErrNutritionService.Wrap(errors.New("status 401")))

	if !errors.Is(err, ErrNutritionService) {
		t.Fatal("wrapped error should match its code")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("wrapped error should not match another code")
	}
	ce, ok := AsCustomError(err)
	if !ok || ce.Status != http.StatusBadGateway {
		t.Fatalf("AsCustomError = %v, %v", ce, ok)
	}
	if !strings.HasSuffix(ce.Error(), ": status 401") {
		t.Fatalf("Error() = %q", ce.Error())
	}
	if ErrNutritionService.Err != nil {
		t.Fatal("Wrap must not mutate the predefined error")
	}
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("create: %w", NewValidationError("title is required"))
	if !IsValidationError(err) {
		t.Fatal("expected validation error")
	}
	if IsValidationError(ErrConflict) {
		t.Fatal("custom error is not a validation error")
	}
}

func TestParseJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	if err := ParseJSON(`{"name":"soup"}`, &v); err != nil || v.Name != "soup" {
		t.Fatalf("ParseJSON = %v, %+v", err, v)
	}
	if err := ParseJSON(`{"name":"soup"} {"name":"stew"}`, &v); err == nil {
		t.Fatal("expected error for trailing data")
	}
	if err := ParseJSONBytes([]byte(`{"name":`), &v); err == nil {
		t.Fatal("expected error for truncated input")
	}

	out, err := ToJSON(map[string]int{"servings": 2})
	if err != nil || out != `{"servings":2}` {
		t.Fatalf("ToJSON = %q, %v", out, err)
	}
}

func TestMarkdownToHTML(t *testing.T) {
	html, err := MarkdownToHTML("* 2 cups rice\n* 1 egg")
	if err != nil {
		t.Fatalf("MarkdownToHTML: %v", err)
	}
	if !strings.Contains(html, "<ul>") || !strings.Contains(html, "<li>2 cups rice</li>") {
		t.Fatalf("html = %q", html)
	}
}

func TestFormatIngredients(t *testing.T) {
	got := FormatIngredients([]StructuredIngredient{
		{Amount: "2", Unit: "cups", Ingredient: "flour"},
		{Amount: "1", Ingredient: "egg"},
	})
	if got != "- 2 cups flour\n- 1  egg\n" {
		t.Fatalf("FormatIngredients = %q", got)
	}
}

func TestMaskFields(t *testing.T) {
	fields := maskFields([]zap.Field{
		zap.String("edamam_app_key", "secret"),
		zap.String("database_dsn", "postgres://user:pw@host"),
		zap.Int("servings", 4),
	})
	if fields[0].String != "****" || fields[1].String != "****" {
		t.Fatalf("secrets not masked: %+v", fields)
	}
	if fields[2].Integer != 4 {
		t.Fatalf("non-secret field changed: %+v", fields[2])
	}
}

func TestGenerateUUID(t *testing.T) {
	a, b := GenerateUUID(), GenerateUUID()
	if len(a) != 36 || a == b {
		t.Fatalf("GenerateUUID = %q, %q", a, b)
	}
}
