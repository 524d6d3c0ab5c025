package economy

import (
	"math"
	"testing"
)

func TestAddClipsToCapacity(t *testing.T) {
	inv := NewInventory(10.0, "personal")

	// grain weighs 1 kg/unit; 15 units cannot all fit.
	if !inv.Add(NewItem("grain", 15, 0.5)) {
		t.Fatal("partial add should succeed")
	}
	if got := inv.TotalOf("grain"); math.Abs(got-10) > 1e-9 {
		t.Errorf("stored %v grain, want 10 (capacity clip)", got)
	}

	// Full inventory rejects further additions.
	if inv.Add(NewItem("grain", 1, 0.5)) {
		t.Error("add into a full inventory should fail")
	}
}

func TestRemoveOldestFirst(t *testing.T) {
	inv := NewFamilyInventory()
	old := NewItem("berries", 3, 0.4)
	old.AgeDays = 4
	inv.Add(old)
	inv.Add(NewItem("berries", 3, 0.8))

	got := inv.Remove("berries", 4)
	if got == nil {
		t.Fatal("remove returned nil")
	}
	if math.Abs(got.Quantity-4) > 1e-9 {
		t.Fatalf("removed %v, want 4", got.Quantity)
	}
	// 3 units at 0.4 and 1 unit at 0.8: weighted average 0.5.
	if math.Abs(got.Quality-0.5) > 1e-9 {
		t.Errorf("removed quality %v, want 0.5", got.Quality)
	}
	if remaining := inv.TotalOf("berries"); math.Abs(remaining-2) > 1e-9 {
		t.Errorf("remaining %v, want 2", remaining)
	}
}

func TestRemoveMoreThanHeld(t *testing.T) {
	inv := NewFamilyInventory()
	old := NewItem("berries", 3, 0.4)
	old.AgeDays = 4
	inv.Add(old)
	inv.Add(NewItem("berries", 3, 0.8))

	got := inv.Remove("berries", 10)
	if got == nil {
		t.Fatal("remove returned nil with stock on hand")
	}
	if math.Abs(got.Quantity-6) > 1e-9 {
		t.Fatalf("removed %v, want the full 6 held", got.Quantity)
	}
	if math.Abs(got.Quality-0.6) > 1e-9 {
		t.Errorf("removed quality %v, want 0.6", got.Quality)
	}
	if remaining := inv.TotalOf("berries"); remaining != 0 {
		t.Errorf("remaining %v, want exactly 0", remaining)
	}
	if inv.Has("berries", 0.001) {
		t.Error("drained type should be dropped")
	}
}

func TestRemoveUnknownType(t *testing.T) {
	inv := NewFamilyInventory()
	if got := inv.Remove("grain", 1); got != nil {
		t.Errorf("removing from empty inventory returned %+v, want nil", got)
	}
}

func TestDailyPerishDropsSpoiled(t *testing.T) {
	inv := NewFamilyInventory()
	fish := NewItem("fish", 2, 0.5) // 2 day shelf life
	inv.Add(fish)
	inv.Add(NewItem("grain", 5, 0.5)) // 180 days

	if spoiled := inv.DailyPerish(); len(spoiled) != 0 {
		t.Fatalf("day 1: %d stacks spoiled, want 0", len(spoiled))
	}
	spoiled := inv.DailyPerish()
	if len(spoiled) != 1 || spoiled[0].Type != "fish" {
		t.Fatalf("day 2: want fish to spoil, got %+v", spoiled)
	}
	if inv.Has("fish", 0.01) {
		t.Error("spoiled fish still held")
	}
	if !inv.Has("grain", 5) {
		t.Error("grain should survive")
	}
}

func TestBestToolPrefersEffectiveQuality(t *testing.T) {
	inv := NewFamilyInventory()
	worn := NewItem("stone_axe", 1, 0.9)
	worn.Durability = 5 // effective quality 0.9 * 5/50 = 0.09
	inv.Add(worn)
	fresh := NewItem("stone_axe", 1, 0.5)
	inv.Add(fresh)

	best := inv.BestTool("axe")
	if best != fresh {
		t.Errorf("best axe has effective quality %v, want the fresh one", best.ToolQuality())
	}
}

func TestBrokenToolsIgnored(t *testing.T) {
	inv := NewFamilyInventory()
	broken := NewItem("stone_knife", 1, 0.8)
	broken.Durability = 0
	inv.Add(broken)

	if inv.HasToolType("knife") {
		t.Error("a broken knife should not count as a functional tool")
	}
}

func TestAllFoodMostPerishableFirst(t *testing.T) {
	inv := NewFamilyInventory()
	inv.Add(NewItem("grain", 5, 0.5))   // 180 days
	inv.Add(NewItem("berries", 3, 0.5)) // 5 days
	inv.Add(NewItem("fish", 2, 0.5))    // 2 days

	foods := inv.AllFood()
	if len(foods) != 3 {
		t.Fatalf("got %d food stacks, want 3", len(foods))
	}
	if foods[0].Type != "fish" || foods[2].Type != "grain" {
		t.Errorf("order %s, %s, %s; want fish first and grain last",
			foods[0].Type, foods[1].Type, foods[2].Type)
	}
}

func TestSuccessChanceClamped(t *testing.T) {
	act := Activities["gather_berries"]

	low := act.SuccessChance(0.0, 0, 0, 1, 0.0)
	if low < 0.05 {
		t.Errorf("success chance %v below floor", low)
	}
	high := act.SuccessChance(2.0, 100, 1.0, 5, 1.5)
	if high > 0.95 {
		t.Errorf("success chance %v above ceiling", high)
	}
}

func TestGroupImprovesSuccess(t *testing.T) {
	act := Activities["hunt_large_game"]
	solo := act.SuccessChance(1.0, 20, 0.8, 1, 1.0)
	party := act.SuccessChance(1.0, 20, 0.8, 4, 1.0)
	if party <= solo {
		t.Errorf("group hunt %v should beat solo %v", party, solo)
	}
}

func TestExecuteCraftConsumesInputs(t *testing.T) {
	inv := NewFamilyInventory()
	recipe := Recipes["stone_axe"]
	if recipe == nil {
		t.Fatal("stone_axe recipe missing")
	}
	for _, in := range recipe.Inputs {
		inv.Add(NewItem(in.Item, in.Qty, 0.5))
	}
	if !recipe.CanCraft(inv, recipe.SkillRequirement) {
		t.Fatal("inputs present, CanCraft = false")
	}

	outputs := ExecuteCraft(recipe, inv, recipe.SkillRequirement, 0.5)
	if len(outputs) == 0 {
		t.Fatal("craft produced nothing")
	}
	for _, in := range recipe.Inputs {
		if inv.Has(in.Item, in.Qty) {
			t.Errorf("input %s not consumed", in.Item)
		}
	}
	for _, out := range recipe.Outputs {
		if !inv.Has(out.Item, out.Qty*0.99) {
			t.Errorf("output %s missing from inventory", out.Item)
		}
	}
}
