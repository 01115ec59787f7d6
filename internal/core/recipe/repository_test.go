package recipe

import (
	"context"
	"errors"
	"testing"

	"recipe-share/internal/core/nutrition"
	"recipe-share/internal/infrastructure/config"
	"recipe-share/internal/infrastructure/database"
	"recipe-share/internal/pkg/common"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file::memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, Models()...)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

func seedRecipe(t *testing.T, repo Repository, title, ingredients string) *Recipe {
	t.Helper()
	r := &Recipe{
		Title:           title,
		Ingredients:     ingredients,
		Instructions:    "<ol><li>Cook.</li></ol>",
		DefaultServings: 2,
	}
	if err := repo.Create(context.Background(), r); err != nil {
		t.Fatalf("seed recipe %q: %v", title, err)
	}
	return r
}

func TestRepositoryCRUD(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	created := seedRecipe(t, repo, "Pancakes", "<ul><li>flour</li></ul>")
	if created.ID == 0 {
		t.Fatalf("Create: expected id to be set")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Pancakes" {
		t.Fatalf("GetByID: unexpected recipe %+v", got)
	}

	got.Description = "fluffy"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := repo.GetByID(ctx, created.ID)
	if again.Description != "fluffy" {
		t.Fatalf("Update: description not saved")
	}

	exists, err := repo.TitleExists(ctx, "Pancakes", 0)
	if err != nil || !exists {
		t.Fatalf("TitleExists: expected true, got %v (%v)", exists, err)
	}
	exists, _ = repo.TitleExists(ctx, "Pancakes", created.ID)
	if exists {
		t.Fatalf("TitleExists: own id should be excluded")
	}

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("GetByID (missing): expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryDuplicateTitle(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	seedRecipe(t, repo, "Pancakes", "<ul><li>flour</li></ul>")

	err := repo.Create(context.Background(), &Recipe{Title: "Pancakes", Instructions: "x", DefaultServings: 1})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRepositoryReplaceNutrition(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	r := seedRecipe(t, repo, "Soup", "<ul><li>water</li></ul>")

	first := []nutrition.NutritionRecord{
		{Nutrient: nutrition.CodeCalories, Amount: 100, Unit: "kcal"},
		{Nutrient: nutrition.CodeSodium, Amount: 50, Unit: "mg"},
	}
	if err := repo.ReplaceNutrition(ctx, r.ID, first); err != nil {
		t.Fatalf("ReplaceNutrition: %v", err)
	}
	second := []nutrition.NutritionRecord{
		{Nutrient: nutrition.CodeCalories, Amount: 200, Unit: "kcal"},
	}
	if err := repo.ReplaceNutrition(ctx, r.ID, second); err != nil {
		t.Fatalf("ReplaceNutrition (second): %v", err)
	}

	records, err := repo.ListNutrition(ctx, r.ID)
	if err != nil {
		t.Fatalf("ListNutrition: %v", err)
	}
	if len(records) != 1 || records[0].Amount != 200 || records[0].RecipeID != r.ID {
		t.Fatalf("ListNutrition: unexpected records %+v", records)
	}

	if err := repo.DeleteNutrition(ctx, r.ID); err != nil {
		t.Fatalf("DeleteNutrition: %v", err)
	}
	records, _ = repo.ListNutrition(ctx, r.ID)
	if len(records) != 0 {
		t.Fatalf("DeleteNutrition: expected no records, got %d", len(records))
	}
}

func TestRepositoryDeleteRemovesNutrition(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	r := seedRecipe(t, repo, "Stew", "<ul><li>beef</li></ul>")

	if err := repo.ReplaceNutrition(ctx, r.ID, []nutrition.NutritionRecord{{Nutrient: nutrition.CodeProtein, Amount: 20, Unit: "g"}}); err != nil {
		t.Fatalf("ReplaceNutrition: %v", err)
	}
	if err := repo.Delete(ctx, r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var count int64
	db.Model(&nutrition.NutritionRecord{}).Where("recipe_id = ?", r.ID).Count(&count)
	if count != 0 {
		t.Fatalf("Delete: expected nutrition rows removed, got %d", count)
	}
	if err := repo.Delete(ctx, r.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Delete (missing): expected ErrNotFound, got %v", err)
	}
}

func TestRepositorySearch(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	a := seedRecipe(t, repo, "Garlic Bread", "<ul><li>bread</li><li>garlic</li></ul>")
	b := seedRecipe(t, repo, "Tomato Soup", "<ul><li>tomato</li><li>garlic</li></ul>")
	seedRecipe(t, repo, "Pancakes", "<ul><li>flour</li></ul>")

	results, err := repo.Search(ctx, []string{"GARLIC", "bread"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search: expected 2 results, got %d", len(results))
	}
	if results[0].ID != b.ID || results[1].ID != a.ID {
		t.Fatalf("Search: expected newest first, got %d, %d", results[0].ID, results[1].ID)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].Title != "Pancakes" {
		t.Fatalf("List: unexpected order %+v", all)
	}
}

func TestRepositoryStructuredIngredients(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	key := "allrecipes.com/recipe/1/fries"
	r := &Recipe{
		Title:           "Fries",
		Instructions:    "<ol> <li>Fry.</li> </ol>",
		DefaultServings: 4,
		StructuredIngredients: []common.StructuredIngredient{
			{Amount: "2", Unit: "cups", Ingredient: "vegetable oil"},
		},
		RecipeURL:    &key,
		RecipeSource: "allrecipes",
	}
	if err := repo.Create(ctx, r); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	lines := got.IngredientSource().Lines()
	if len(lines) != 1 || lines[0] != "2 cups vegetable oil" {
		t.Fatalf("unexpected ingredient lines %q", lines)
	}

	exists, err := repo.RecipeURLExists(ctx, key)
	if err != nil || !exists {
		t.Fatalf("RecipeURLExists: expected true, got %v (%v)", exists, err)
	}
}
