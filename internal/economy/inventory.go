package economy

import "math"

// Inventory capacities by ownership scope.
const (
	CarryCapacityBase       = 30.0   // kg, scaled by strength for villagers
	FamilyInventoryCapacity = 200.0  // kg
	CommunityCapacity       = 2000.0 // kg
)

// Item is a stack of one item type at one quality tier.
type Item struct {
	Type       string  `json:"type"`
	Quantity   float64 `json:"quantity"`
	Quality    float64 `json:"quality"` // 0..1
	AgeDays    int     `json:"age_days"`
	Durability float64 `json:"durability"` // tools only
	MaxDur     float64 `json:"max_durability"`
}

// NewItem builds a stack with durability from the catalog.
func NewItem(itemType string, quantity, quality float64) *Item {
	maxDur := Spec(itemType).MaxDurability
	return &Item{
		Type:       itemType,
		Quantity:   quantity,
		Quality:    quality,
		Durability: maxDur,
		MaxDur:     maxDur,
	}
}

// WeightPerUnit returns the catalog weight of one unit.
func (it *Item) WeightPerUnit() float64 { return Spec(it.Type).Weight }

// TotalWeight is the stack's weight.
func (it *Item) TotalWeight() float64 { return it.Quantity * it.WeightPerUnit() }

// FoodValue is nutrition per unit, zero for non-food.
func (it *Item) FoodValue() float64 { return Spec(it.Type).FoodValue }

// PerishDays is the shelf life; effectively unbounded for non-perishables.
func (it *Item) PerishDays() int {
	s := Spec(it.Type)
	if !s.Perishable {
		return 9999
	}
	return s.PerishDays
}

// Spoiled reports whether the stack has outlived its shelf life.
func (it *Item) Spoiled() bool {
	return Spec(it.Type).Perishable && it.AgeDays >= it.PerishDays()
}

// IsTool reports whether the item is a tool.
func (it *Item) IsTool() bool { return Spec(it.Type).ToolType != "" }

// ToolType returns the tool category, empty for non-tools.
func (it *Item) ToolType() string { return Spec(it.Type).ToolType }

// ToolQuality is quality degraded by wear.
func (it *Item) ToolQuality() float64 {
	if !it.IsTool() || it.MaxDur == 0 {
		return it.Quality
	}
	return it.Quality * (it.Durability / it.MaxDur)
}

// Inventory is a weight-bounded container of item stacks. Stack lists are
// kept in insertion order (oldest first) and the type list preserves
// first-seen order so iteration is deterministic.
type Inventory struct {
	Capacity float64 `json:"capacity"`
	Owner    string  `json:"owner"` // personal, family, community

	stacks map[string][]*Item
	types  []string
}

// NewInventory returns an empty inventory.
func NewInventory(capacity float64, owner string) *Inventory {
	return &Inventory{Capacity: capacity, Owner: owner, stacks: make(map[string][]*Item)}
}

// NewFamilyInventory returns a family-scoped store.
func NewFamilyInventory() *Inventory {
	return NewInventory(FamilyInventoryCapacity, "family")
}

// NewCommunityInventory returns the village-scoped store.
func NewCommunityInventory() *Inventory {
	return NewInventory(CommunityCapacity, "community")
}

// Add stores an item, clipping the quantity down to fit remaining
// capacity. Returns false when nothing could be stored. Non-tool stacks
// of near-equal quality merge.
func (inv *Inventory) Add(item *Item) bool {
	over := inv.TotalWeight() + item.TotalWeight() - inv.Capacity
	if over > 0 {
		available := inv.Capacity - inv.TotalWeight()
		if available <= 0 {
			return false
		}
		addable := available / item.WeightPerUnit()
		if addable < 0.01 {
			return false
		}
		item.Quantity = addable
	}

	if _, ok := inv.stacks[item.Type]; !ok {
		inv.types = append(inv.types, item.Type)
	}

	if !item.IsTool() {
		for _, existing := range inv.stacks[item.Type] {
			if math.Abs(existing.Quality-item.Quality) < 0.05 {
				existing.Quantity += item.Quantity
				return true
			}
		}
	}

	inv.stacks[item.Type] = append(inv.stacks[item.Type], item)
	return true
}

// Remove takes up to quantity of a type, oldest stacks first. The result
// carries the quantity-weighted average quality. Returns nil when nothing
// was held.
func (inv *Inventory) Remove(itemType string, quantity float64) *Item {
	stacks, ok := inv.stacks[itemType]
	if !ok {
		return nil
	}

	var removed, avgQuality float64
	for removed < quantity && len(stacks) > 0 {
		stack := stacks[0]
		take := math.Min(quantity-removed, stack.Quantity)
		if removed+take > 0 {
			avgQuality = (avgQuality*removed + stack.Quality*take) / (removed + take)
		}
		removed += take
		stack.Quantity -= take
		if stack.Quantity <= 0.001 {
			stacks = stacks[1:]
		}
	}
	inv.stacks[itemType] = stacks

	if removed <= 0 {
		return nil
	}
	if len(stacks) == 0 {
		inv.dropType(itemType)
	}
	return &Item{Type: itemType, Quantity: removed, Quality: avgQuality}
}

func (inv *Inventory) dropType(itemType string) {
	delete(inv.stacks, itemType)
	for i, t := range inv.types {
		if t == itemType {
			inv.types = append(inv.types[:i], inv.types[i+1:]...)
			return
		}
	}
}

// Has reports whether at least minQuantity of the type is held.
func (inv *Inventory) Has(itemType string, minQuantity float64) bool {
	return inv.TotalOf(itemType) >= minQuantity
}

// TotalOf sums the held quantity of one type.
func (inv *Inventory) TotalOf(itemType string) float64 {
	var total float64
	for _, s := range inv.stacks[itemType] {
		total += s.Quantity
	}
	return total
}

// TotalWeight sums the weight of everything held.
func (inv *Inventory) TotalWeight() float64 {
	var total float64
	for _, t := range inv.types {
		for _, s := range inv.stacks[t] {
			total += s.TotalWeight()
		}
	}
	return total
}

// RemainingCapacity is the free weight budget.
func (inv *Inventory) RemainingCapacity() float64 {
	return math.Max(0, inv.Capacity-inv.TotalWeight())
}

// Types returns held item types in first-seen order.
func (inv *Inventory) Types() []string {
	return append([]string(nil), inv.types...)
}

// Stacks returns the stacks of one type, oldest first.
func (inv *Inventory) Stacks(itemType string) []*Item {
	return inv.stacks[itemType]
}

// BestTool returns the highest-effective-quality functional tool of a
// category, or nil.
func (inv *Inventory) BestTool(toolType string) *Item {
	var best *Item
	for _, t := range inv.types {
		for _, item := range inv.stacks[t] {
			if item.ToolType() != toolType || item.Durability <= 0 {
				continue
			}
			if best == nil || item.ToolQuality() > best.ToolQuality() {
				best = item
			}
		}
	}
	return best
}

// HasToolType reports whether a functional tool of the category is held.
func (inv *Inventory) HasToolType(toolType string) bool {
	return inv.BestTool(toolType) != nil
}

// DailyPerish ages every stack and drops spoiled ones, returning them.
func (inv *Inventory) DailyPerish() []*Item {
	var spoiled []*Item
	for _, t := range append([]string(nil), inv.types...) {
		var surviving []*Item
		for _, item := range inv.stacks[t] {
			item.AgeDays++
			if item.Spoiled() {
				spoiled = append(spoiled, item)
			} else {
				surviving = append(surviving, item)
			}
		}
		if len(surviving) > 0 {
			inv.stacks[t] = surviving
		} else {
			inv.dropType(t)
		}
	}
	return spoiled
}

// PurgeEmpty drops stacks whose quantity was drained by direct stack
// mutation, as food distribution does.
func (inv *Inventory) PurgeEmpty() {
	for _, t := range append([]string(nil), inv.types...) {
		var surviving []*Item
		for _, item := range inv.stacks[t] {
			if item.Quantity > 0.01 {
				surviving = append(surviving, item)
			}
		}
		if len(surviving) > 0 {
			inv.stacks[t] = surviving
		} else {
			inv.dropType(t)
		}
	}
}

// AllFood returns food stacks sorted most-perishable first.
func (inv *Inventory) AllFood() []*Item {
	var out []*Item
	for _, t := range FoodItems {
		out = append(out, inv.stacks[t]...)
	}
	// Insertion sort by remaining shelf life; food stack counts are small.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			a, b := out[j-1], out[j]
			if b.PerishDays()-b.AgeDays < a.PerishDays()-a.AgeDays {
				out[j-1], out[j] = b, a
			} else {
				break
			}
		}
	}
	return out
}

// TotalFoodValue sums nutrition across all food stacks.
func (inv *Inventory) TotalFoodValue() float64 {
	var total float64
	for _, t := range FoodItems {
		for _, item := range inv.stacks[t] {
			total += item.Quantity * item.FoodValue()
		}
	}
	return total
}
