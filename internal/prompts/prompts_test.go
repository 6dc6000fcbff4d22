package prompts

import (
	"strings"
	"testing"

	"github.com/commentors-net/AtFoodAI/internal/models"
)

func TestLookupKnownActions(t *testing.T) {
	for _, action := range []string{"open_ai_kitchen", "world_picks", "food_era", "adjust_recipe", "critic_notes"} {
		if _, ok := Lookup(action); !ok {
			t.Errorf("Lookup(%q) should succeed", action)
		}
	}
}

func TestLookupUnknownAction(t *testing.T) {
	if _, ok := Lookup("deep_fry_everything"); ok {
		t.Error("unknown action should not resolve")
	}
	if _, ok := Lookup(""); ok {
		t.Error("empty action should not resolve")
	}
}

func TestRenderHeaderAndFields(t *testing.T) {
	req := &models.AtfoodRequest{Action: "critic_notes", CriticTopic: "ramen bars", UserText: "downtown"}

	tmpl, _ := Lookup("critic_notes")
	got := tmpl(req)

	if !strings.HasPrefix(got, "ACTION=critic_notes\n") {
		t.Errorf("prompt should start with the action header, got %q", got)
	}
	if !strings.Contains(got, "Goal: ") {
		t.Errorf("prompt should carry a goal line, got %q", got)
	}
	if !strings.Contains(got, "Topic: ramen bars\n") {
		t.Errorf("prompt should carry the topic, got %q", got)
	}
	if !strings.Contains(got, "User text: downtown\n") {
		t.Errorf("prompt should carry the user text, got %q", got)
	}
}

func TestRenderMissingFieldsAreEmpty(t *testing.T) {
	tmpl, _ := Lookup("open_ai_kitchen")
	got := tmpl(&models.AtfoodRequest{Action: "open_ai_kitchen"})

	// Optional fields render as empty strings, never dropped.
	if !strings.Contains(got, "User text: \n") {
		t.Errorf("missing user_text should render empty, got %q", got)
	}
}

func TestRenderIsPure(t *testing.T) {
	req := &models.AtfoodRequest{Action: "food_era", UserText: "italian summer"}

	tmpl, _ := Lookup("food_era")
	if first, second := tmpl(req), tmpl(req); first != second {
		t.Errorf("template rendered differently across calls:\n%q\n%q", first, second)
	}
}

func TestAdjustRecipeKnownID(t *testing.T) {
	tmpl, _ := Lookup("adjust_recipe")
	got := tmpl(&models.AtfoodRequest{Action: "adjust_recipe", RecipeID: "silky_tomato_soup", UserText: "no cream"})

	if !strings.Contains(got, "Recipe: Silky tomato soup (no sadness)\n") {
		t.Errorf("known recipe should resolve to its title, got %q", got)
	}
	if !strings.Contains(got, "Recipe blurb: Roast the tomatoes.") {
		t.Errorf("known recipe should carry its blurb, got %q", got)
	}
	if !strings.Contains(got, "User constraints/request: no cream\n") {
		t.Errorf("user constraints missing, got %q", got)
	}
}

func TestAdjustRecipeUnknownID(t *testing.T) {
	tmpl, _ := Lookup("adjust_recipe")
	got := tmpl(&models.AtfoodRequest{Action: "adjust_recipe", RecipeID: "mystery_dish"})

	if !strings.Contains(got, "Recipe: mystery_dish\n") {
		t.Errorf("unknown recipe should fall back to the raw id, got %q", got)
	}
	if !strings.Contains(got, "Recipe blurb: \n") {
		t.Errorf("unknown recipe should have an empty blurb, got %q", got)
	}
}

func TestAdjustRecipeEmptyID(t *testing.T) {
	tmpl, _ := Lookup("adjust_recipe")
	got := tmpl(&models.AtfoodRequest{Action: "adjust_recipe"})

	if !strings.Contains(got, "Recipe: \n") {
		t.Errorf("empty recipe id should render empty title, got %q", got)
	}
}

func TestActionsListsAllTemplates(t *testing.T) {
	if got := len(Actions()); got != 5 {
		t.Errorf("Actions() returned %d names, want 5", got)
	}
}
