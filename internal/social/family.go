package social

import (
	"github.com/talgya/village-sim/internal/agents"
	"github.com/talgya/village-sim/internal/economy"
	"github.com/talgya/village-sim/internal/world"
)

// BaseDailyFoodNeed is the food value one adult consumes per day.
const BaseDailyFoodNeed = 1.5

// Family is the basic economic unit: shared inventory, shelter, and
// farm plots. Villagers reference it by FamilyID.
type Family struct {
	ID            int                `json:"id"`
	MemberIDs     []int              `json:"member_ids"`
	HeadOfHousehold int              `json:"head_of_household"`
	HomePosition  world.Position     `json:"home_position"`
	Inventory     *economy.Inventory `json:"-"`
	ShelterID     int                `json:"shelter_id"` // -1 when homeless
	FarmPlots     []world.Position   `json:"farm_plots"`
}

// NewFamily builds a family with the given founding members.
func NewFamily(id int, memberIDs []int, home world.Position) *Family {
	head := -1
	if len(memberIDs) > 0 {
		head = memberIDs[0]
	}
	return &Family{
		ID:              id,
		MemberIDs:       append([]int(nil), memberIDs...),
		HeadOfHousehold: head,
		HomePosition:    home,
		Inventory:       economy.NewFamilyInventory(),
		ShelterID:       -1,
	}
}

// AddMember adds a villager, ignoring duplicates.
func (f *Family) AddMember(id int) {
	for _, m := range f.MemberIDs {
		if m == id {
			return
		}
	}
	f.MemberIDs = append(f.MemberIDs, id)
}

// RemoveMember drops a villager; headship falls to the first remaining
// member.
func (f *Family) RemoveMember(id int) {
	for i, m := range f.MemberIDs {
		if m == id {
			f.MemberIDs = append(f.MemberIDs[:i], f.MemberIDs[i+1:]...)
			break
		}
	}
	if f.HeadOfHousehold == id {
		if len(f.MemberIDs) > 0 {
			f.HeadOfHousehold = f.MemberIDs[0]
		} else {
			f.HeadOfHousehold = -1
		}
	}
}

// MouthsToFeed counts daily food-units of living members. Children eat
// half rations.
func (f *Family) MouthsToFeed(byID map[int]*agents.Villager) float64 {
	var total float64
	for _, vid := range f.MemberIDs {
		v := byID[vid]
		if v == nil || !v.Alive {
			continue
		}
		if v.IsChild() {
			total += 0.5
		} else {
			total += 1.0
		}
	}
	return total
}

// TotalFood is the nutrition held in the family inventory.
func (f *Family) TotalFood() float64 { return f.Inventory.TotalFoodValue() }

// DistributeFood feeds hungry members from the family stores, eating
// the most perishable food first. Members with a hunger deficit above
// 0.05 eat until their deficit's worth of food value is consumed or the
// stores run dry.
func (f *Family) DistributeFood(byID map[int]*agents.Villager) {
	foods := f.Inventory.AllFood()
	if len(foods) == 0 {
		return
	}

	for _, vid := range f.MemberIDs {
		v := byID[vid]
		if v == nil || !v.Alive {
			continue
		}

		deficit := 1.0 - v.Needs.Get(agents.NeedHunger).Satisfaction
		if deficit <= 0.05 {
			continue
		}

		needed := deficit * BaseDailyFoodNeed
		var consumed float64
		for _, item := range foods {
			if item.Quantity <= 0 || item.FoodValue() <= 0 {
				continue
			}
			units := (needed - consumed) / item.FoodValue()
			if units > item.Quantity {
				units = item.Quantity
			}
			consumed += units * item.FoodValue()
			item.Quantity -= units
			if consumed >= needed {
				break
			}
		}

		v.Needs.Satisfy(agents.NeedHunger, consumed/BaseDailyFoodNeed)
	}

	f.Inventory.PurgeEmpty()
}

// FoodSecure reports whether the family holds at least three days of
// food for its living members.
func (f *Family) FoodSecure(byID map[int]*agents.Villager) bool {
	return f.TotalFood() >= f.MouthsToFeed(byID)*BaseDailyFoodNeed*3
}

// FamilyManager owns all family units, kept in creation order.
type FamilyManager struct {
	families map[int]*Family
	order    []int
	nextID   int
}

// NewFamilyManager returns an empty registry.
func NewFamilyManager() *FamilyManager {
	return &FamilyManager{families: make(map[int]*Family)}
}

// Create founds a new family at the given home.
func (m *FamilyManager) Create(founders []int, home world.Position) *Family {
	fam := NewFamily(m.nextID, founders, home)
	m.families[fam.ID] = fam
	m.order = append(m.order, fam.ID)
	m.nextID++
	return fam
}

// Get returns a family by ID, nil when unknown.
func (m *FamilyManager) Get(id int) *Family {
	return m.families[id]
}

// Families returns all families in creation order.
func (m *FamilyManager) Families() []*Family {
	out := make([]*Family, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.families[id])
	}
	return out
}

// BuildFromVillagers constructs family units from the FamilyID
// assignments made during population generation.
func (m *FamilyManager) BuildFromVillagers(villagers []*agents.Villager, home world.Position) {
	seen := make(map[int]*Family)
	for _, v := range villagers {
		fam, ok := seen[v.FamilyID]
		if !ok {
			fam = NewFamily(v.FamilyID, nil, home)
			seen[v.FamilyID] = fam
			m.families[fam.ID] = fam
			m.order = append(m.order, fam.ID)
			if v.FamilyID >= m.nextID {
				m.nextID = v.FamilyID + 1
			}
		}
		fam.AddMember(v.ID)
		if fam.HeadOfHousehold == -1 {
			fam.HeadOfHousehold = v.ID
		}
	}
}

// FormMarriage merges the couple into one household. When both have
// families, the second spouse moves into the first's; otherwise a new
// family is founded.
func (m *FamilyManager) FormMarriage(a, b *agents.Villager) *Family {
	famA := m.families[a.FamilyID]
	famB := m.families[b.FamilyID]

	switch {
	case famA != nil && famB != nil && famA.ID != famB.ID:
		famB.RemoveMember(b.ID)
		famA.AddMember(b.ID)
		b.FamilyID = famA.ID
		if len(famB.MemberIDs) == 0 {
			m.remove(famB.ID)
		}
		return famA
	case famA != nil:
		famA.AddMember(b.ID)
		b.FamilyID = famA.ID
		return famA
	default:
		fam := m.Create([]int{a.ID, b.ID}, world.VillageCenter)
		a.FamilyID = fam.ID
		b.FamilyID = fam.ID
		return fam
	}
}

// Split moves the departing members into a newly founded family.
func (m *FamilyManager) Split(fam *Family, departing []int, home world.Position) *Family {
	for _, vid := range departing {
		fam.RemoveMember(vid)
	}
	return m.Create(departing, home)
}

func (m *FamilyManager) remove(id int) {
	delete(m.families, id)
	for i, fid := range m.order {
		if fid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}
