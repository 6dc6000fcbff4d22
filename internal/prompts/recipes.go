package prompts

// Recipe is a static catalog entry referenced by the adjust_recipe action.
type Recipe struct {
	Title string
	Blurb string
}

var recipeContext = map[string]Recipe{
	"chili_crisp_noodles": {
		Title: "15-minute chili crisp noodles",
		Blurb: "Heat, crunch, and a sauce that clings. Easy to adapt: vegan, low-sodium, or extra protein.",
	},
	"charred_lemon_chicken": {
		Title: "Charred lemon chicken + herbs",
		Blurb: "Weeknight-perfect, restaurant aroma. Works with thighs, breasts, tofu, or cauliflower.",
	},
	"silky_tomato_soup": {
		Title: "Silky tomato soup (no sadness)",
		Blurb: "Roast the tomatoes. Finish with a bright acid. The difference is night and day.",
	},
}

// lookupRecipe resolves a recipe id against the catalog. Unknown ids fall
// back to the raw id as title with an empty blurb, never an error.
func lookupRecipe(id string) Recipe {
	if r, ok := recipeContext[id]; ok {
		return r
	}
	return Recipe{Title: id}
}
