package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe-share/internal/core/recipe"
	"recipe-share/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

func respondSaved(saved *recipe.Recipe, err error) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/recipes", nil)

	RespondSaved(c, http.StatusCreated, saved, err)

	var body map[string]json.RawMessage
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestRespondSavedWrappedNutritionError(t *testing.T) {
	saved := &recipe.Recipe{ID: 7, Title: "Fried Fish"}
	err := fmt.Errorf("create recipe: %w", &recipe.NutritionError{
		RecipeID: 7,
		Err:      common.ErrUnsupportedAmount.Wrap(errors.New("eleven")),
	})

	w, body := respondSaved(saved, err)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var nutritionErr common.ErrorResponse
	if jerr := json.Unmarshal(body["nutrition_error"], &nutritionErr); jerr != nil {
		t.Fatalf("nutrition_error missing: %s", w.Body.String())
	}
	if nutritionErr.Code != common.ErrUnsupportedAmount.Code {
		t.Fatalf("nutrition_error code = %q", nutritionErr.Code)
	}
	if _, ok := body["recipe"]; !ok {
		t.Fatalf("recipe missing: %s", w.Body.String())
	}
}

func TestRespondSavedOtherError(t *testing.T) {
	w, body := respondSaved(nil, common.ErrConflict)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	if _, ok := body["recipe"]; ok {
		t.Fatalf("unexpected recipe in error response: %s", w.Body.String())
	}
}

func TestRespondSavedNutritionErrorWithoutRecipe(t *testing.T) {
	err := &recipe.NutritionError{RecipeID: 7, Err: common.ErrNutritionService}
	w, _ := respondSaved(nil, err)
	if w.Code != common.ErrNutritionService.Status {
		t.Fatalf("status = %d, want %d", w.Code, common.ErrNutritionService.Status)
	}
}
