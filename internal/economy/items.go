// Package economy holds the item catalog, inventories, the activity and
// recipe tables, and their execution math. It is deliberately agent-free:
// callers pass trait scores, skill levels, and tool qualities as plain
// values so the package depends only on world state.
package economy

// ItemSpec is the static catalog entry for an item type.
type ItemSpec struct {
	Weight        float64 // kg per unit
	Perishable    bool
	PerishDays    int
	FoodValue     float64
	ToolType      string // empty for non-tools
	WarmthValue   float64
	HealValue     float64
	MaxDurability float64
}

// ItemCatalog is the immutable item table, loaded once.
var ItemCatalog = map[string]ItemSpec{
	// Food
	"berries":     {Weight: 0.5, Perishable: true, PerishDays: 5, FoodValue: 0.5},
	"raw_meat":    {Weight: 2.0, Perishable: true, PerishDays: 3, FoodValue: 1.0},
	"cooked_meat": {Weight: 1.5, Perishable: true, PerishDays: 7, FoodValue: 1.5},
	"dried_meat":  {Weight: 1.0, Perishable: true, PerishDays: 60, FoodValue: 1.2},
	"grain":       {Weight: 1.0, Perishable: true, PerishDays: 180, FoodValue: 0.8},
	"bread":       {Weight: 0.5, Perishable: true, PerishDays: 5, FoodValue: 1.0},
	"fish":        {Weight: 1.5, Perishable: true, PerishDays: 2, FoodValue: 1.0},
	"dried_fish":  {Weight: 0.8, Perishable: true, PerishDays: 90, FoodValue: 1.0},
	"vegetables":  {Weight: 1.0, Perishable: true, PerishDays: 10, FoodValue: 0.5},
	// Raw materials
	"timber":         {Weight: 10.0},
	"stone":          {Weight: 15.0},
	"clay":           {Weight: 5.0},
	"iron_ore":       {Weight: 12.0},
	"plant_fiber":    {Weight: 0.5},
	"animal_hide":    {Weight: 3.0, Perishable: true, PerishDays: 30},
	"tanned_leather": {Weight: 2.0},
	"firewood":       {Weight: 5.0},
	// Tools
	"stone_axe":    {Weight: 2.0, ToolType: "axe", MaxDurability: 50},
	"stone_knife":  {Weight: 0.5, ToolType: "knife", MaxDurability: 40},
	"wooden_spear": {Weight: 2.0, ToolType: "spear", MaxDurability: 30},
	"fishing_rod":  {Weight: 1.0, ToolType: "fishing", MaxDurability: 40},
	"bow":          {Weight: 1.5, ToolType: "ranged", MaxDurability: 60},
	"arrows":       {Weight: 0.1, ToolType: "ammo"},
	"hoe":          {Weight: 2.5, ToolType: "farming", MaxDurability: 50},
	"hammer":       {Weight: 3.0, ToolType: "construction", MaxDurability: 70},
	"pickaxe":      {Weight: 4.0, ToolType: "mining", MaxDurability: 60},
	// Crafted goods
	"rope":     {Weight: 1.0},
	"basket":   {Weight: 0.5},
	"clay_pot": {Weight: 2.0},
	"cloth":    {Weight: 0.5},
	"clothing": {Weight: 1.0, WarmthValue: 0.3},
	"medicine": {Weight: 0.2, Perishable: true, PerishDays: 30, HealValue: 0.3},
}

// FoodItems lists every item type with a food value, in a fixed order.
var FoodItems = []string{
	"berries", "raw_meat", "cooked_meat", "dried_meat", "grain",
	"bread", "fish", "dried_fish", "vegetables",
}

// ToolItems lists every tool item type, in a fixed order.
var ToolItems = []string{
	"stone_axe", "stone_knife", "wooden_spear", "fishing_rod",
	"bow", "arrows", "hoe", "hammer", "pickaxe",
}

// ItemForToolType returns the first catalog item of the given tool
// category, empty when none exists.
func ItemForToolType(toolType string) string {
	for _, t := range ToolItems {
		if Spec(t).ToolType == toolType {
			return t
		}
	}
	return ""
}

// Spec returns the catalog entry, or a 1 kg default for unknown types.
func Spec(itemType string) ItemSpec {
	if s, ok := ItemCatalog[itemType]; ok {
		return s
	}
	return ItemSpec{Weight: 1.0}
}

// ToolTypeOf returns the tool category for an item, empty when not a tool.
func ToolTypeOf(itemType string) string {
	return Spec(itemType).ToolType
}

// IsFood reports whether the item type has nutritional value.
func IsFood(itemType string) bool {
	return Spec(itemType).FoodValue > 0
}
