package recipe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"recipe-share/internal/core/nutrition"
	"recipe-share/internal/pkg/common"
)

type stubAnalyzer struct {
	calls int
	lines []string
	err   error
}

func (a *stubAnalyzer) Analyze(ctx context.Context, title string, ingredients []string) (*nutrition.AnalysisResult, error) {
	a.calls++
	a.lines = ingredients
	if a.err != nil {
		return nil, a.err
	}
	return &nutrition.AnalysisResult{
		TotalNutrients: map[string]nutrition.NutrientEntry{
			nutrition.CodeCalories: {Label: "Energy", Quantity: 800, Unit: "kcal"},
			nutrition.CodeProtein:  {Label: "Protein", Quantity: 40, Unit: "g"},
		},
		TotalDaily: map[string]nutrition.NutrientEntry{
			nutrition.CodeCalories: {Label: "Energy", Quantity: 40, Unit: "%"},
		},
	}, nil
}

type stubScraper struct {
	recipe *common.ScrapedRecipe
	err    error
}

func (s *stubScraper) Resolve(rawURL string) (string, string, error) {
	if !strings.Contains(rawURL, "allrecipes.com") {
		return "", "", common.ErrUnsupportedSource
	}
	return strings.TrimPrefix(rawURL, "https://www."), "allrecipes", nil
}

func (s *stubScraper) Scrape(ctx context.Context, rawURL string) (*common.ScrapedRecipe, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.recipe, nil
}

func newTestService(t *testing.T, analyzer *stubAnalyzer, scraper Scraper) (*Service, Repository) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	return NewService(repo, nutrition.NewPipeline(analyzer, repo), scraper), repo
}

func validInput() *RecipeInput {
	return &RecipeInput{
		Title:        "Fried Chicken",
		Ingredients:  "<ul><li>2 cups vegetable oil</li><li>1 chicken</li></ul>",
		Instructions: "<ol><li>Fry.</li></ol>",
		Servings:     4,
		TimeHours:    1,
		TimeMins:     20,
		TypeDiet:     []string{"gf", "keto"},
	}
}

func TestRecipeInputValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*RecipeInput)
	}{
		{"missing title", func(in *RecipeInput) { in.Title = "  " }},
		{"long title", func(in *RecipeInput) { in.Title = strings.Repeat("a", 101) }},
		{"zero servings", func(in *RecipeInput) { in.Servings = 0 }},
		{"too many servings", func(in *RecipeInput) { in.Servings = 11 }},
		{"empty ingredients", func(in *RecipeInput) { in.Ingredients = "<ul><li>&nbsp;</li></ul>" }},
		{"empty instructions", func(in *RecipeInput) { in.Instructions = "<ol><li>&nbsp;</li></ol>" }},
		{"unknown diet", func(in *RecipeInput) { in.TypeDiet = []string{"carnivore"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.modify(in)
			if err := in.Validate(); !common.IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if err := validInput().Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

func TestRecipeInputTotalTime(t *testing.T) {
	in := &RecipeInput{TimeHours: 1, TimeMins: 20}
	if got := in.TotalTime(); got != "1 hr 20 mins" {
		t.Fatalf("TotalTime() = %q", got)
	}
	in = &RecipeInput{TimeMins: 45}
	if got := in.TotalTime(); got != "45 mins" {
		t.Fatalf("TotalTime() = %q", got)
	}
}

func TestServiceCreate(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc, _ := newTestService(t, analyzer, nil)
	ctx := context.Background()

	recipe, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if recipe.TimeToCook != "1 hr 20 mins" || recipe.TypeDiet != "gf, keto" {
		t.Fatalf("unexpected recipe fields %+v", recipe)
	}
	if analyzer.calls != 1 {
		t.Fatalf("expected one analysis call, got %d", analyzer.calls)
	}
	if analyzer.lines[0] != "0.3 cups vegetable oil" {
		t.Fatalf("oil not normalized: %q", analyzer.lines)
	}

	detail, err := svc.Get(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Nutrition.Calories == nil || detail.Nutrition.Calories.Amount != 200 {
		t.Fatalf("unexpected calories %+v", detail.Nutrition.Calories)
	}
	if detail.Nutrition.Protein == nil || detail.Nutrition.Protein.Amount != 10 {
		t.Fatalf("unexpected protein %+v", detail.Nutrition.Protein)
	}
	if detail.Nutrition.Sodium != nil {
		t.Fatalf("sodium should be unavailable")
	}

	if _, err := svc.Create(ctx, validInput()); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("duplicate title: expected ErrConflict, got %v", err)
	}
}

func TestServiceCreateNutritionFailureKeepsRecipe(t *testing.T) {
	analyzer := &stubAnalyzer{err: common.ErrNutritionService.Wrap(errors.New("status 555"))}
	svc, repo := newTestService(t, analyzer, nil)

	recipe, err := svc.Create(context.Background(), validInput())
	ne, ok := AsNutritionError(err)
	if !ok {
		t.Fatalf("expected NutritionError, got %v", err)
	}
	if !errors.Is(err, common.ErrNutritionService) {
		t.Fatalf("expected wrapped ErrNutritionService, got %v", err)
	}
	if recipe == nil || ne.RecipeID != recipe.ID {
		t.Fatalf("recipe should be returned with the error")
	}
	if _, err := repo.GetByID(context.Background(), recipe.ID); err != nil {
		t.Fatalf("recipe should remain saved: %v", err)
	}
}

func TestServiceUpdateClearsStaleNutritionOnFailure(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc, repo := newTestService(t, analyzer, nil)
	ctx := context.Background()

	recipe, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in := validInput()
	in.Ingredients = "<ul><li>eleven cups oil</li></ul>"
	_, err = svc.Update(ctx, recipe.ID, in)
	if !errors.Is(err, common.ErrUnsupportedAmount) {
		t.Fatalf("expected ErrUnsupportedAmount, got %v", err)
	}

	records, _ := repo.ListNutrition(ctx, recipe.ID)
	if len(records) != 0 {
		t.Fatalf("stale nutrition should be cleared, got %d rows", len(records))
	}
	saved, _ := repo.GetByID(ctx, recipe.ID)
	if saved.Ingredients != in.Ingredients {
		t.Fatalf("recipe edit should be committed")
	}
}

func TestServiceUpdateMissing(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{}, nil)
	if _, err := svc.Update(context.Background(), 42, validInput()); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceDelete(t *testing.T) {
	svc, repo := newTestService(t, &stubAnalyzer{}, nil)
	ctx := context.Background()
	recipe, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, recipe.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	records, _ := repo.ListNutrition(ctx, recipe.ID)
	if len(records) != 0 {
		t.Fatalf("nutrition should be deleted with the recipe")
	}
}

func TestServiceList(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{}, nil)
	ctx := context.Background()
	if _, err := svc.Create(ctx, validInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := svc.List(ctx, "chicken!!")
	if err != nil || len(found) != 1 {
		t.Fatalf("List(chicken): expected 1 result, got %d (%v)", len(found), err)
	}
	none, err := svc.List(ctx, "%%%")
	if err != nil || len(none) != 0 {
		t.Fatalf("List(symbols): expected no results, got %d (%v)", len(none), err)
	}
	all, err := svc.List(ctx, "")
	if err != nil || len(all) != 1 {
		t.Fatalf("List(): expected 1 result, got %d (%v)", len(all), err)
	}
}

func TestServiceImport(t *testing.T) {
	analyzer := &stubAnalyzer{}
	scraper := &stubScraper{recipe: &common.ScrapedRecipe{
		Title:        "Crispy Fries",
		Description:  "Golden.",
		Ingredients:  []common.StructuredIngredient{{Amount: "2", Unit: "cups", Ingredient: "vegetable oil"}, {Amount: "4", Unit: "", Ingredient: "potatoes"}},
		Instructions: "<ol> <li>Fry.</li> </ol>",
		Servings:     4,
		TotalTime:    "30 mins",
	}}
	svc, _ := newTestService(t, analyzer, scraper)
	ctx := context.Background()
	url := "https://www.allrecipes.com/recipe/1/crispy-fries/"

	recipe, err := svc.Import(ctx, url)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if recipe.RecipeURL == nil || *recipe.RecipeURL != "allrecipes.com/recipe/1/crispy-fries/" || recipe.RecipeSource != "allrecipes" {
		t.Fatalf("unexpected source fields %+v", recipe)
	}
	if analyzer.lines[0] != "0.3 cups vegetable oil" || analyzer.lines[1] != "4  potatoes" {
		t.Fatalf("unexpected analysis lines %q", analyzer.lines)
	}

	if _, err := svc.Import(ctx, url); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("second import: expected ErrConflict, got %v", err)
	}
	if _, err := svc.Import(ctx, "https://www.example.com/recipe"); !errors.Is(err, common.ErrUnsupportedSource) {
		t.Fatalf("unsupported source: expected ErrUnsupportedSource, got %v", err)
	}
}

func TestServiceSaveDraft(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc, _ := newTestService(t, analyzer, nil)

	recipe, err := svc.SaveDraft(context.Background(), &common.RecipeDraft{
		ID:           "d1",
		Title:        "Kimchi Fried Rice",
		Description:  "Quick and spicy.",
		Servings:     2,
		Ingredients:  "- 2 cups rice\n- 1 cup kimchi\n- 1 tbsp sesame oil",
		Instructions: "1. Heat oil.\n2. Add rice.",
	})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if !strings.Contains(recipe.Ingredients, "<li>2 cups rice</li>") {
		t.Fatalf("ingredients not rendered: %q", recipe.Ingredients)
	}
	if !strings.Contains(recipe.Instructions, "<ol>") {
		t.Fatalf("instructions not rendered: %q", recipe.Instructions)
	}
	if len(analyzer.lines) != 3 || analyzer.lines[2] != "1 tbsp sesame oil" {
		t.Fatalf("unexpected analysis lines %q", analyzer.lines)
	}

	if _, err := svc.SaveDraft(context.Background(), &common.RecipeDraft{Title: "Toast", Servings: 0}); !errors.Is(err, common.ErrInvalidServings) {
		t.Fatalf("expected ErrInvalidServings, got %v", err)
	}
}

func TestServiceRefreshNutrition(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc, _ := newTestService(t, analyzer, nil)
	ctx := context.Background()
	recipe, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	detail, err := svc.RefreshNutrition(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("RefreshNutrition: %v", err)
	}
	if analyzer.calls != 2 {
		t.Fatalf("expected two analysis calls, got %d", analyzer.calls)
	}
	if detail.Nutrition.Available() != 2 {
		t.Fatalf("expected 2 nutrients, got %d", detail.Nutrition.Available())
	}
}
