package nutrition

import (
	"encoding/json"
	"testing"
)

func TestNewFacts(t *testing.T) {
	dv := 10
	records := []NutritionRecord{
		{ID: 1, Nutrient: CodeCalories, Amount: 200, Unit: "kcal", DailyValuePercent: &dv},
		{ID: 2, Nutrient: CodeProtein, Amount: 8, Unit: "g"},
		{ID: 3, Nutrient: CodeCalories, Amount: 999, Unit: "kcal"},
	}

	facts := NewFacts(records)
	if facts.Calories == nil || facts.Calories.Amount != 200 {
		t.Fatalf("expected first calorie record to win, got %+v", facts.Calories)
	}
	if facts.Protein == nil || facts.Protein.Amount != 8 {
		t.Fatalf("unexpected protein: %+v", facts.Protein)
	}
	if facts.Sodium != nil {
		t.Fatalf("missing sodium should be nil, got %+v", facts.Sodium)
	}
	if facts.Available() != 2 {
		t.Fatalf("Available() = %d, want 2", facts.Available())
	}
}

func TestFactsJSONUsesNullForMissing(t *testing.T) {
	data, err := json.Marshal(NewFacts(nil))
	if err != nil {
		t.Fatalf("marshal facts: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal facts: %v", err)
	}
	if len(decoded) != 14 {
		t.Fatalf("expected 14 keys, got %d", len(decoded))
	}
	for key, value := range decoded {
		if value != nil {
			t.Fatalf("%s should be null, got %v", key, value)
		}
	}
}
