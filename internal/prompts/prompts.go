// Package prompts maps gateway actions to model-ready prompt text. Each
// template is a pure function of the request; rendering the same request
// twice yields identical output.
package prompts

import (
	"fmt"

	"github.com/commentors-net/AtFoodAI/internal/models"
)

// Template renders a request into the per-action prompt body.
type Template func(req *models.AtfoodRequest) string

var templates = map[string]Template{
	"open_ai_kitchen": func(req *models.AtfoodRequest) string {
		return "ACTION=open_ai_kitchen\n" +
			"Goal: Onboard user into AI Kitchen and collect dish + constraints.\n" +
			fmt.Sprintf("User text: %s\n", req.UserText)
	},
	"world_picks": func(req *models.AtfoodRequest) string {
		return "ACTION=world_picks\n" +
			"Goal: Give 'world picks' + a flavor compass. Ask what they want to explore.\n" +
			fmt.Sprintf("User text: %s\n", req.UserText)
	},
	"food_era": func(req *models.AtfoodRequest) string {
		return "ACTION=food_era\n" +
			"Goal: Build a two-week 'food era' plan with sauces/techniques/dishes.\n" +
			fmt.Sprintf("User text: %s\n", req.UserText)
	},
	"adjust_recipe": func(req *models.AtfoodRequest) string {
		recipe := lookupRecipe(req.RecipeID)
		return "ACTION=adjust_recipe\n" +
			"Goal: Adapt this recipe without losing soul.\n" +
			fmt.Sprintf("Recipe: %s\n", recipe.Title) +
			fmt.Sprintf("Recipe blurb: %s\n", recipe.Blurb) +
			fmt.Sprintf("User constraints/request: %s\n", req.UserText) +
			"If user gave no constraints, propose 3 good adaptation directions.\n"
	},
	"critic_notes": func(req *models.AtfoodRequest) string {
		return "ACTION=critic_notes\n" +
			"Goal: Punchy critic note expansion.\n" +
			fmt.Sprintf("Topic: %s\n", req.CriticTopic) +
			fmt.Sprintf("User text: %s\n", req.UserText)
	},
}

// Lookup returns the template registered for action, or false when the
// action is unknown.
func Lookup(action string) (Template, bool) {
	tmpl, ok := templates[action]
	return tmpl, ok
}

// Actions lists the registered action names.
func Actions() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	return names
}
