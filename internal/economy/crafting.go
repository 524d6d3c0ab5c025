package economy

import "math"

// Ingredient is one consumed input of a recipe.
type Ingredient struct {
	Item string
	Qty  float64
}

// Recipe transforms inputs into outputs. Tools are required but not
// consumed; a minimum skill level gates the attempt.
type Recipe struct {
	Name             string
	Inputs           []Ingredient
	Outputs          []Output
	ToolRequirements []string
	Activity         string // which activity executes it
	SkillRequirement float64
	QualityFromSkill bool
}

// CanCraft checks materials, tools, and skill against an inventory.
func (r *Recipe) CanCraft(inv *Inventory, skill float64) bool {
	if skill < r.SkillRequirement {
		return false
	}
	for _, in := range r.Inputs {
		if !inv.Has(in.Item, in.Qty) {
			return false
		}
	}
	for _, tool := range r.ToolRequirements {
		if !inv.HasToolType(tool) {
			return false
		}
	}
	return true
}

// Recipes is the immutable recipe catalog.
var Recipes = map[string]*Recipe{
	"stone_axe": {
		Name:             "stone_axe",
		Inputs:           []Ingredient{{"stone", 1}, {"timber", 1}, {"plant_fiber", 1}},
		Outputs:          []Output{{"stone_axe", 1}},
		Activity:         "craft_tools",
		SkillRequirement: 2,
		QualityFromSkill: true,
	},
	"stone_knife": {
		Name:             "stone_knife",
		Inputs:           []Ingredient{{"stone", 1}},
		Outputs:          []Output{{"stone_knife", 1}},
		Activity:         "craft_tools",
		QualityFromSkill: true,
	},
	"wooden_spear": {
		Name:             "wooden_spear",
		Inputs:           []Ingredient{{"timber", 1}},
		Outputs:          []Output{{"wooden_spear", 1}},
		ToolRequirements: []string{"knife"},
		Activity:         "craft_tools",
		SkillRequirement: 2,
		QualityFromSkill: true,
	},
	"bow": {
		Name:             "bow",
		Inputs:           []Ingredient{{"timber", 1}, {"plant_fiber", 2}},
		Outputs:          []Output{{"bow", 1}},
		ToolRequirements: []string{"knife"},
		Activity:         "craft_tools",
		SkillRequirement: 20,
		QualityFromSkill: true,
	},
	"arrows": {
		Name:             "arrows",
		Inputs:           []Ingredient{{"timber", 0.5}, {"stone", 0.5}},
		Outputs:          []Output{{"arrows", 5}},
		ToolRequirements: []string{"knife"},
		Activity:         "craft_tools",
		SkillRequirement: 10,
		QualityFromSkill: true,
	},
	"fishing_rod": {
		Name:             "fishing_rod",
		Inputs:           []Ingredient{{"timber", 1}, {"plant_fiber", 1}},
		Outputs:          []Output{{"fishing_rod", 1}},
		ToolRequirements: []string{"knife"},
		Activity:         "craft_tools",
		SkillRequirement: 5,
		QualityFromSkill: true,
	},
	"hoe": {
		Name:             "hoe",
		Inputs:           []Ingredient{{"timber", 1}, {"stone", 1}},
		Outputs:          []Output{{"hoe", 1}},
		Activity:         "craft_tools",
		SkillRequirement: 5,
		QualityFromSkill: true,
	},
	"pickaxe": {
		Name:             "pickaxe",
		Inputs:           []Ingredient{{"timber", 1}, {"stone", 2}},
		Outputs:          []Output{{"pickaxe", 1}},
		Activity:         "craft_tools",
		SkillRequirement: 15,
		QualityFromSkill: true,
	},
	"hammer": {
		Name:             "hammer",
		Inputs:           []Ingredient{{"timber", 1}, {"stone", 1}},
		Outputs:          []Output{{"hammer", 1}},
		Activity:         "craft_tools",
		SkillRequirement: 10,
		QualityFromSkill: true,
	},
	"rope": {
		Name:             "rope",
		Inputs:           []Ingredient{{"plant_fiber", 3}},
		Outputs:          []Output{{"rope", 1}},
		Activity:         "craft_tools",
		SkillRequirement: 5,
		QualityFromSkill: true,
	},
	"basket": {
		Name:             "basket",
		Inputs:           []Ingredient{{"plant_fiber", 4}},
		Outputs:          []Output{{"basket", 1}},
		Activity:         "craft_tools",
		SkillRequirement: 10,
		QualityFromSkill: true,
	},
	"clay_pot": {
		Name:             "clay_pot",
		Inputs:           []Ingredient{{"clay", 2}},
		Outputs:          []Output{{"clay_pot", 1}},
		Activity:         "craft_tools",
		SkillRequirement: 15,
		QualityFromSkill: true,
	},
	"cooked_meat": {
		Name:             "cooked_meat",
		Inputs:           []Ingredient{{"raw_meat", 1}, {"firewood", 0.5}},
		Outputs:          []Output{{"cooked_meat", 1}},
		Activity:         "cook_food",
		QualityFromSkill: true,
	},
	"dried_meat": {
		Name:             "dried_meat",
		Inputs:           []Ingredient{{"raw_meat", 2}, {"firewood", 1}},
		Outputs:          []Output{{"dried_meat", 1.5}},
		Activity:         "preserve_food",
		SkillRequirement: 5,
		QualityFromSkill: true,
	},
	"dried_fish": {
		Name:             "dried_fish",
		Inputs:           []Ingredient{{"fish", 2}, {"firewood", 0.5}},
		Outputs:          []Output{{"dried_fish", 1.5}},
		Activity:         "preserve_food",
		SkillRequirement: 3,
		QualityFromSkill: true,
	},
	"bread": {
		Name:             "bread",
		Inputs:           []Ingredient{{"grain", 2}, {"firewood", 0.5}},
		Outputs:          []Output{{"bread", 2}},
		Activity:         "cook_food",
		SkillRequirement: 10,
		QualityFromSkill: true,
	},
	"cloth": {
		Name:             "cloth",
		Inputs:           []Ingredient{{"plant_fiber", 5}},
		Outputs:          []Output{{"cloth", 1}},
		Activity:         "craft_tools",
		SkillRequirement: 15,
		QualityFromSkill: true,
	},
	"clothing": {
		Name:             "clothing",
		Inputs:           []Ingredient{{"cloth", 2}, {"animal_hide", 1}},
		Outputs:          []Output{{"clothing", 1}},
		ToolRequirements: []string{"knife"},
		Activity:         "craft_tools",
		SkillRequirement: 20,
		QualityFromSkill: true,
	},
	"tanned_leather": {
		Name:             "tanned_leather",
		Inputs:           []Ingredient{{"animal_hide", 2}},
		Outputs:          []Output{{"tanned_leather", 1}},
		Activity:         "craft_tools",
		SkillRequirement: 15,
		QualityFromSkill: true,
	},
}

// recipeOrder fixes enumeration order for craftable lookups.
var recipeOrder = []string{
	"stone_axe", "stone_knife", "wooden_spear", "bow", "arrows",
	"fishing_rod", "hoe", "pickaxe", "hammer", "rope", "basket",
	"clay_pot", "cooked_meat", "dried_meat", "dried_fish", "bread",
	"cloth", "clothing", "tanned_leather",
}

// CraftableRecipes returns every recipe of the activity the inventory and
// skill can currently support, in catalog order.
func CraftableRecipes(inv *Inventory, skill float64, activity string) []*Recipe {
	var out []*Recipe
	for _, name := range recipeOrder {
		r := Recipes[name]
		if r.Activity == activity && r.CanCraft(inv, skill) {
			out = append(out, r)
		}
	}
	return out
}

// ExecuteCraft consumes the inputs and produces the outputs at a quality
// driven by skill and the quality roll. Returns the produced quantities.
func ExecuteCraft(recipe *Recipe, inv *Inventory, skill, qualityRoll float64) []Output {
	for _, in := range recipe.Inputs {
		inv.Remove(in.Item, in.Qty)
	}

	quality := 0.5
	if recipe.QualityFromSkill {
		quality = math.Min(1.0, 0.3+0.7*(skill/100.0)*qualityRoll)
	}

	produced := make([]Output, 0, len(recipe.Outputs))
	for _, o := range recipe.Outputs {
		inv.Add(NewItem(o.Item, o.Qty, quality))
		produced = append(produced, o)
	}
	return produced
}
