// Package trade implements moneyless bilateral barter. Value is
// subjective: it depends on the valuing villager's needs, holdings,
// personality, and skills, so the same bundle is worth different
// amounts to each side. Trades happen when a surplus on one side meets
// a deficit on the other and both sides judge the exchange favorable.
package trade

import (
	"math"

	"github.com/talgya/village-sim/internal/agents"
	"github.com/talgya/village-sim/internal/economy"
	"github.com/talgya/village-sim/internal/rng"
)

// Trade tuning.
const (
	MaxRoundsPerDay         = 3   // trade attempts per villager per day
	SurplusDaysThreshold    = 5   // stock beyond N days of need is surplus
	DeficitDaysThreshold    = 3   // stock below N days of need is deficit
	WillingnessBase         = 0.5 // base chance a villager seeks trade
	trustWeight             = 0.3
	personalityMargin       = 0.15
	foodHungryMultiplier    = 3.0
	diminishingOwnedFactor  = 0.5
	ambitionRequestCap      = 1.3 // ambitious offerers may ask above parity
	baseDailyFoodNeed       = 1.5
)

// Line is one item type and quantity within an offer.
type Line struct {
	Type     string  `json:"type"`
	Quantity float64 `json:"quantity"`
}

// Offer is a proposed bilateral exchange.
type Offer struct {
	Offering   []Line `json:"offering"`
	Requesting []Line `json:"requesting"`
	OffererID  int    `json:"offerer_id"`
	TargetID   int    `json:"target_id"`
}

// Record is a completed trade, kept for metrics.
type Record struct {
	Day       int    `json:"day"`
	OffererID int    `json:"offerer_id"`
	TargetID  int    `json:"target_id"`
	Offered   []Line `json:"offered"`
	Received  []Line `json:"received"`
}

// SubjectiveValue is what the item bundle is worth to this villager
// right now, in abstract utility units. Only comparisons within one
// villager's perspective are meaningful.
func SubjectiveValue(v *agents.Villager, itemType string, quantity float64, familyInv *economy.Inventory) float64 {
	spec := economy.Spec(itemType)

	// Weight stands in for the effort to obtain the item.
	baseValue := spec.Weight * 0.5

	if spec.FoodValue > 0 {
		hungerSat := v.Needs.Get(agents.NeedHunger).Satisfaction
		hungerMult := 1.0
		if hungerSat < 0.5 {
			hungerMult = 1.0 + (0.5-hungerSat)*(foodHungryMultiplier-1.0)*2
		}
		baseValue = spec.FoodValue * hungerMult * 2.0

		if spec.Perishable {
			shelfBonus := math.Min(1.0, float64(spec.PerishDays)/60.0)
			baseValue *= 0.7 + 0.3*shelfBonus
		}
	}

	if spec.ToolType != "" {
		hasTool := false
		if v.Inventory != nil {
			hasTool = v.Inventory.HasToolType(spec.ToolType)
		}
		if !hasTool && familyInv != nil {
			hasTool = familyInv.HasToolType(spec.ToolType)
		}
		if hasTool {
			baseValue *= 0.8 // backup tool
		} else {
			baseValue *= 3.0
		}
		baseValue *= 0.8 + 0.4*v.Traits.Ambition/100.0
	}

	if spec.WarmthValue > 0 && v.Needs.Get(agents.NeedWarmth).Satisfaction < 0.5 {
		baseValue *= 2.0
	}
	if spec.HealValue > 0 && v.Needs.Get(agents.NeedHealth).Satisfaction < 0.7 {
		baseValue *= 2.5
	}

	var owned float64
	if familyInv != nil {
		owned += familyInv.TotalOf(itemType)
	}
	if v.Inventory != nil {
		owned += v.Inventory.TotalOf(itemType)
	}
	if owned > 0 {
		baseValue *= 1.0 / (1.0 + owned*diminishingOwnedFactor)
	}

	// A skilled producer can get the item cheaply themselves.
	if skillName := produceSkill(itemType); skillName != "" {
		if skill := v.SkillLevel(skillName); skill > 30 {
			baseValue *= math.Max(0.5, 1.0-skill/200.0)
		}
	}

	return math.Max(0.01, baseValue*quantity)
}

func produceSkill(itemType string) string {
	switch itemType {
	case "raw_meat":
		return "hunting"
	case "fish":
		return "fishing"
	case "berries":
		return "gathering"
	case "vegetables":
		return "farming"
	}
	return ""
}

// Surplus lists holdings beyond the next few days' needs, in the
// inventory's type order. Food above five days of rations, spare tools
// beyond one per category, and raw materials above five units count.
func Surplus(inv *economy.Inventory) []Line {
	var surplus []Line
	remainingFoodNeed := baseDailyFoodNeed * SurplusDaysThreshold

	for _, itemType := range inv.Types() {
		total := inv.TotalOf(itemType)
		if total <= 0.01 {
			continue
		}
		spec := economy.Spec(itemType)

		switch {
		case spec.FoodValue > 0:
			neededQty := remainingFoodNeed / math.Max(0.01, spec.FoodValue)
			if excess := total - neededQty; excess > 0.5 {
				surplus = append(surplus, Line{itemType, excess})
			}
			remainingFoodNeed -= math.Min(total, neededQty) * spec.FoodValue
		case spec.ToolType != "":
			if total > 1 {
				surplus = append(surplus, Line{itemType, total - 1})
			}
		default:
			if total > 5 {
				surplus = append(surplus, Line{itemType, total - 5})
			}
		}
	}
	return surplus
}

// Shelf-stable staples, most preferred first.
var preferredFoods = []string{"grain", "dried_meat", "dried_fish", "cooked_meat", "bread", "berries"}

var neededToolTypes = []string{"axe", "knife", "spear", "farming", "fishing"}

// Deficits lists what the villager is short of: food below three days
// of rations, missing tool categories, clothing when cold, medicine
// when sick.
func Deficits(v *agents.Villager, inv *economy.Inventory) []Line {
	var deficits []Line
	foodNeed := baseDailyFoodNeed * DeficitDaysThreshold

	if totalFood := inv.TotalFoodValue(); totalFood < foodNeed {
		deficitFood := foodNeed - totalFood
		for _, ft := range preferredFoods {
			fv := economy.Spec(ft).FoodValue
			if fv <= 0 {
				fv = 0.5
			}
			deficits = append(deficits, Line{ft, deficitFood / fv})
			break // top preference only
		}
	}

	for _, toolType := range neededToolTypes {
		has := inv.HasToolType(toolType)
		if !has && v.Inventory != nil {
			has = v.Inventory.HasToolType(toolType)
		}
		if has {
			continue
		}
		if itemType := economy.ItemForToolType(toolType); itemType != "" {
			deficits = append(deficits, Line{itemType, 1.0})
		}
	}

	if v.Needs.Get(agents.NeedWarmth).Satisfaction < 0.4 && !inv.Has("clothing", 1) {
		deficits = append(deficits, Line{"clothing", 1.0})
	}
	if v.Health < 70 && !inv.Has("medicine", 1) {
		deficits = append(deficits, Line{"medicine", 1.0})
	}

	return deficits
}

// System runs barter negotiation and settlement.
type System struct {
	rng *rng.Source

	DailyTrades         []Record
	TotalTrades         int
	TotalItemsExchanged float64
}

// NewSystem wires the trade system to the shared random source.
func NewSystem(r *rng.Source) *System {
	return &System{rng: r}
}

// ResetDaily clears the day's trade records.
func (s *System) ResetDaily() { s.DailyTrades = s.DailyTrades[:0] }

// GenerateOffer builds an offer from villager to partner. The offerer
// works from an estimate of the partner's holdings, not ground truth.
// Returns nil when no worthwhile exchange exists.
func (s *System) GenerateOffer(v, partner *agents.Villager, vInv, partnerEstimate *economy.Inventory) *Offer {
	mySurplus := Surplus(vInv)
	if len(mySurplus) == 0 {
		return nil
	}
	partnerDeficits := Deficits(partner, partnerEstimate)

	var offering []Line
	var offerValue float64
	for _, line := range mySurplus {
		if want, ok := findLine(partnerDeficits, line.Type); ok {
			qty := math.Min(line.Quantity, want)
			if qty > 0.01 {
				offering = append(offering, Line{line.Type, qty})
				offerValue += SubjectiveValue(partner, line.Type, qty, partnerEstimate)
			}
		}
	}

	// No need match: lead with half of the biggest surplus.
	if len(offering) == 0 {
		best := mySurplus[0]
		for _, line := range mySurplus[1:] {
			if line.Quantity > best.Quantity {
				best = line
			}
		}
		qty := best.Quantity * 0.5
		if qty > 0.01 {
			offering = append(offering, Line{best.Type, qty})
			offerValue += SubjectiveValue(partner, best.Type, qty, partnerEstimate)
		}
	}
	if len(offering) == 0 || offerValue < 0.1 {
		return nil
	}

	var requesting []Line
	var requestValue float64
	for _, line := range Deficits(v, vInv) {
		estHas := partnerEstimate.TotalOf(line.Type)
		if estHas <= 0 {
			continue
		}
		qty := math.Min(line.Quantity, estHas*0.5) // leave them something
		if qty > 0.01 {
			requesting = append(requesting, Line{line.Type, qty})
			requestValue += SubjectiveValue(v, line.Type, qty, vInv)
		}
	}

	// No deficit of my own: pick from the partner's surplus anyway.
	if len(requesting) == 0 {
		for _, line := range Surplus(partnerEstimate) {
			if _, offered := findLine(offering, line.Type); offered {
				continue
			}
			qty := line.Quantity * 0.3
			if qty > 0.01 {
				requesting = append(requesting, Line{line.Type, qty})
				requestValue += SubjectiveValue(v, line.Type, qty, vInv)
				break
			}
		}
	}
	if len(requesting) == 0 {
		return nil
	}

	// Scale the request toward value parity. Ambitious offerers push the
	// ask above parity, within a hard cap.
	ambitionFactor := 1.0 + (v.Traits.Ambition-50)/100.0*personalityMargin
	if requestValue > 0 && offerValue > 0 {
		valueRatio := offerValue * ambitionFactor / requestValue
		for i := range requesting {
			requesting[i].Quantity = math.Min(
				requesting[i].Quantity*valueRatio,
				requesting[i].Quantity*ambitionRequestCap,
			)
		}
	}

	return &Offer{
		Offering:   offering,
		Requesting: requesting,
		OffererID:  v.ID,
		TargetID:   partner.ID,
	}
}

func findLine(lines []Line, itemType string) (float64, bool) {
	for _, l := range lines {
		if l.Type == itemType {
			return l.Quantity, true
		}
	}
	return 0, false
}

// EvaluateOffer decides whether the receiving villager accepts: the
// subjective value received must clear a threshold fraction of the
// value given, lowered by trust and agreeableness.
func (s *System) EvaluateOffer(v *agents.Villager, offer *Offer, vInv *economy.Inventory, trust float64) bool {
	var receiveValue, giveValue float64
	for _, line := range offer.Offering {
		receiveValue += SubjectiveValue(v, line.Type, line.Quantity, vInv)
	}
	for _, line := range offer.Requesting {
		giveValue += SubjectiveValue(v, line.Type, line.Quantity, vInv)
	}

	if giveValue <= 0 {
		return receiveValue > 0
	}

	agreeableness := (v.Traits.Empathy + v.Traits.Sociability) / 200.0
	threshold := math.Max(0.5, 1.0-trust*trustWeight-agreeableness*personalityMargin)

	return receiveValue/math.Max(0.01, giveValue) >= threshold
}

// ExecuteTrade settles an accepted offer. Both sides are verified
// before anything moves, so a failed trade leaves inventories intact.
func (s *System) ExecuteTrade(offer *Offer, offererInv, targetInv *economy.Inventory, day int) bool {
	for _, line := range offer.Offering {
		if offererInv.TotalOf(line.Type) < line.Quantity*0.99 {
			return false
		}
	}
	for _, line := range offer.Requesting {
		if targetInv.TotalOf(line.Type) < line.Quantity*0.99 {
			return false
		}
	}

	var exchanged float64
	for _, line := range offer.Offering {
		if removed := offererInv.Remove(line.Type, line.Quantity); removed != nil {
			targetInv.Add(removed)
		}
		exchanged += line.Quantity
	}
	for _, line := range offer.Requesting {
		if removed := targetInv.Remove(line.Type, line.Quantity); removed != nil {
			offererInv.Add(removed)
		}
		exchanged += line.Quantity
	}

	s.TotalTrades++
	s.TotalItemsExchanged += exchanged
	s.DailyTrades = append(s.DailyTrades, Record{
		Day:       day,
		OffererID: offer.OffererID,
		TargetID:  offer.TargetID,
		Offered:   append([]Line(nil), offer.Offering...),
		Received:  append([]Line(nil), offer.Requesting...),
	})
	return true
}

// EstimatePartnerInventory is the offerer's noisy view of the partner's
// family stores. Closer relationships give better estimates.
func (s *System) EstimatePartnerInventory(actual *economy.Inventory, trust, familiarity float64) *economy.Inventory {
	estimate := economy.NewInventory(999.0, "estimate")

	accuracy := math.Max(0.2, math.Min(0.9, (trust+familiarity)/2.0))
	noise := 1.0 - accuracy

	for _, itemType := range actual.Types() {
		total := actual.TotalOf(itemType)
		if total <= 0 {
			continue
		}
		noisyQty := total * (1.0 + s.rng.Uniform(-noise, noise))
		if noisyQty > 0.1 {
			estimate.Add(economy.NewItem(itemType, noisyQty, 0.5))
		}
	}
	return estimate
}
