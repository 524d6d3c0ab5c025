package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/talgya/village-sim/internal/agents"
	"github.com/talgya/village-sim/internal/economy"
	"github.com/talgya/village-sim/internal/rng"
	"github.com/talgya/village-sim/internal/simlog"
	"github.com/talgya/village-sim/internal/social"
	"github.com/talgya/village-sim/internal/trade"
	"github.com/talgya/village-sim/internal/world"
)

// Starting endowments and execution tuning.
const (
	DefaultPopulation = 150

	startingFoodPerPerson   = 45.0 // days of food
	toolDurabilityLoss      = 0.5  // per activity session
	waterProximityRadius    = 2
	waterAutoSatisfyAmount  = 0.4
	maxDailySocialContacts  = 5
	conceptionDailyChance   = 0.005
	marriageDailyChance     = 0.05
	marriageMinAffinity     = 0.6
	personalCarryCapacity   = 30.0
	childCarryCapacity      = 10.0
)

// Engine owns every subsystem and drives the daily tick cycle.
type Engine struct {
	rng   *rng.Source
	Clock Clock

	Map            *world.Map
	Pathfinder     *world.Pathfinder
	Resources      *world.ResourceManager
	Climate        *world.Climate
	Crops          *world.CropManager
	Infrastructure *world.InfrastructureManager

	Villagers []*agents.Villager
	Dead      []*agents.Villager
	byID      map[int]*agents.Villager
	nextID    int

	Families      *social.FamilyManager
	Relationships *social.RelationshipManager
	Groups        *social.GroupManager
	Influence     *social.InfluenceSystem

	Community *economy.Inventory
	Trade     *trade.System

	Decisions *agents.DecisionEngine
	Events    *EventSystem
	Metrics   *MetricsCollector
	Log       *simlog.Logger

	seed       int64
	population int

	schedules    map[int][]agents.ActivityPlan
	tendedToday  map[world.Position]bool
	recordedDead map[int]bool
}

// New builds an engine with all subsystems sharing one random source.
func New(seed int64, population int, log *simlog.Logger) *Engine {
	r := rng.New(seed)
	if log == nil {
		log = simlog.New(0, nil)
	}
	m := world.NewMap(world.MapWidth, world.MapHeight)
	return &Engine{
		rng:            r,
		Map:            m,
		Pathfinder:     world.NewPathfinder(m),
		Resources:      world.NewResourceManager(),
		Climate:        world.NewClimate(r),
		Crops:          world.NewCropManager(),
		Infrastructure: world.NewInfrastructureManager(),
		byID:           make(map[int]*agents.Villager),
		Families:       social.NewFamilyManager(),
		Relationships:  social.NewRelationshipManager(),
		Groups:         social.NewGroupManager(),
		Influence:      &social.InfluenceSystem{},
		Community:      economy.NewCommunityInventory(),
		Trade:          trade.NewSystem(r),
		Decisions:      agents.NewDecisionEngine(r),
		Events:         NewEventSystem(r),
		Metrics:        NewMetricsCollector(),
		Log:            log,
		seed:           seed,
		population:     population,
		schedules:      make(map[int][]agents.ActivityPlan),
		tendedToday:    make(map[world.Position]bool),
		recordedDead:   make(map[int]bool),
	}
}

// Initialize generates the world, spawns the starting population, and
// hands out the founding endowments.
func (e *Engine) Initialize() {
	e.Map.Generate(e.seed, e.rng)
	e.Resources.GenerateResources(e.Map, e.rng)

	e.Villagers = agents.GenerateInitialPopulation(e.population, e.rng)
	for _, v := range e.Villagers {
		e.byID[v.ID] = v
		if v.ID >= e.nextID {
			e.nextID = v.ID + 1
		}
		v.Inventory = economy.NewInventory(personalCarryCapacity, "personal")
	}

	e.Families.BuildFromVillagers(e.Villagers, world.VillageCenter)

	e.distributeStartingTools()
	e.createStartingShelters()
	e.distributeStartingFood()

	e.Climate.AdvanceDay(e.Clock.Season(), e.Clock.DayOfSeason())

	e.Log.Logf(0, simlog.Lifecycle, "Village founded with %d villagers", len(e.Villagers))
}

// Run advances the simulation day by day until days elapse or the
// context is cancelled.
func (e *Engine) Run(ctx context.Context, days int) error {
	for i := 0; i < days; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.Tick()
	}
	return nil
}

// Tick executes one simulated day.
func (e *Engine) Tick() {
	alive := e.aliveVillagers()
	if len(alive) == 0 {
		return
	}

	// Dawn: world state advances.
	e.Clock.Advance()
	day := e.Clock.Day
	e.Climate.AdvanceDay(e.Clock.Season(), e.Clock.DayOfSeason())
	e.Resources.DailyRegeneration(e.Clock.Season())
	e.Crops.DailyUpdate(e.Climate, e.tendedToday)
	e.tendedToday = make(map[world.Position]bool)

	// Dawn: random events.
	events := e.Events.CheckDailyEvents(day, e.Clock.Season(), e.Climate.Weather, alive)
	if len(events) > 0 {
		e.Events.ApplyEvents(events, e.byID, e.Families, e.Infrastructure)
		for _, ev := range events {
			e.Log.Log(day, simlog.Event, ev.Description)
		}
	}

	// Morning: everyone plans their day.
	view := e.worldView()
	daylight := e.Clock.DaylightHours()
	for id := range e.schedules {
		delete(e.schedules, id)
	}
	for _, v := range alive {
		if (v.IsChild() && v.AgeYears() < 6) || v.RecoveryDays > 0 {
			v.CurrentActivity = "rest"
			continue
		}
		schedule := e.Decisions.PlanDay(v, view, daylight)
		if len(schedule) > 0 {
			v.CurrentActivity = schedule[0].Activity
		} else {
			v.CurrentActivity = "rest"
		}
		e.schedules[v.ID] = schedule
	}

	// Work parties form around group-eligible plans.
	e.Groups.ResolveWorkParties(alive, e.Decisions, e.Relationships)
	for range e.Groups.WorkParties {
		e.Metrics.RecordWorkParty()
	}

	// Daytime: activity execution.
	for _, v := range alive {
		if schedule := e.schedules[v.ID]; len(schedule) > 0 {
			e.executeSchedule(v, schedule, day)
		}
	}

	// Afternoon: villagers near water drink freely.
	e.autoSatisfyThirst(alive)

	// Evening: social interactions, then barter.
	e.resolveSocialPhase(alive, day)
	e.resolveTradePhase(alive, day)

	// Night: families share food.
	for _, fam := range e.Families.Families() {
		fam.DistributeFood(e.byID)
	}

	// Night: needs decay and agents age.
	for _, v := range alive {
		shelterQuality := e.Infrastructure.ShelterQualityFor(v.FamilyID)
		hadSocial := v.Needs.Get(agents.NeedSocial).Satisfaction > 0.7
		wasProductive := v.CurrentActivity != "rest" && v.CurrentActivity != "socialize" && v.CurrentActivity != ""
		v.Needs.DailyDecay(e.Climate.WarmthNeedModifier(), shelterQuality, hadSocial, wasProductive)
		v.DailyUpdate(day, e.rng)
	}

	// Night: moods ripple through the social network.
	e.Influence.SpreadSentiment(e.Villagers, e.Relationships)

	// Night: births, deaths, marriages, conception.
	e.processLifecycle(day)

	// Overnight: food spoils, structures wear, bonds fade.
	for _, v := range alive {
		if v.Inventory != nil {
			v.Inventory.DailyPerish()
		}
	}
	for _, fam := range e.Families.Families() {
		fam.Inventory.DailyPerish()
	}
	e.Infrastructure.DailyDegradation(e.Climate.ShelterDamageModifier())
	e.Relationships.DailyDecayAll(day)

	// Bookkeeping.
	e.Metrics.CollectDaily(day, e.Villagers, e.Families, e.Resources)
	e.Log.FlushDay()
}

func (e *Engine) aliveVillagers() []*agents.Villager {
	var alive []*agents.Villager
	for _, v := range e.Villagers {
		if v.Alive {
			alive = append(alive, v)
		}
	}
	return alive
}

// worldView is the read-only view handed to the decision engine.
type engineWorldView struct {
	season     world.Season
	weatherMod float64
	resources  *world.ResourceManager
	families   *social.FamilyManager
	pathfinder *world.Pathfinder
}

func (e *Engine) worldView() engineWorldView {
	return engineWorldView{
		season:     e.Clock.Season(),
		weatherMod: e.Climate.OutdoorWorkModifier(),
		resources:  e.Resources,
		families:   e.Families,
		pathfinder: e.Pathfinder,
	}
}

func (w engineWorldView) Season() world.Season     { return w.season }
func (w engineWorldView) WeatherModifier() float64 { return w.weatherMod }

func (w engineWorldView) FindResource(pos world.Position, t world.ResourceType) *world.ResourceNode {
	return w.resources.NearestOfType(pos, t)
}

// EstimateTravel plans with the idealized route time; cached in the
// pathfinder so repeated planning against the same targets is cheap.
func (w engineWorldView) EstimateTravel(start, end world.Position) float64 {
	return w.pathfinder.EstimateTravelTime(start, end, nil, nil)
}

func (w engineWorldView) FamilyInventory(familyID int) *economy.Inventory {
	fam := w.families.Get(familyID)
	if fam == nil {
		return nil
	}
	return fam.Inventory
}

// ------------------------------------------------------------------
// Activity execution
// ------------------------------------------------------------------

func (e *Engine) executeSchedule(v *agents.Villager, schedule []agents.ActivityPlan, day int) {
	for _, plan := range schedule {
		act, ok := economy.Activities[plan.Activity]
		if !ok {
			continue
		}

		switch plan.Activity {
		case "rest":
			v.Fatigue = math.Max(0, v.Fatigue+act.FatigueCost)
			v.Needs.Satisfy(agents.NeedRest, 0.4)
			continue
		case "socialize":
			v.Needs.Satisfy(agents.NeedSocial, 0.3)
			continue
		}

		if plan.TargetPosition != nil && *plan.TargetPosition != v.Position {
			target := *plan.TargetPosition
			travelHours := e.Pathfinder.EstimateTravelTime(v.Position, target, v, e.rng)
			if math.IsInf(travelHours, 1) {
				continue
			}
			v.Fatigue += travelHours * 0.05
			v.Memory.AddRouteTrip(v.Position, target)
			v.Position = target
		}

		groupSize := 1
		if party := e.Groups.PartyFor(v.ID); party != nil {
			groupSize = party.Size()
		}

		toolQuality := 1.0
		var toolItem *economy.Item
		if len(act.RequiredTools) > 0 {
			fam := e.Families.Get(v.FamilyID)
			for _, toolType := range act.RequiredTools {
				if v.Inventory != nil {
					toolItem = v.Inventory.BestTool(toolType)
				}
				if toolItem == nil && fam != nil {
					toolItem = fam.Inventory.BestTool(toolType)
				}
				if toolItem != nil {
					toolQuality = toolItem.ToolQuality()
					break
				}
			}
			if toolItem == nil {
				continue
			}
		}

		traitScore := economy.WeightedTraitScore(act.TraitWeights, func(name string) float64 {
			return v.EffectiveTrait(agents.TraitName(name))
		})
		skill := v.SkillLevel(act.SkillCategory())
		successChance := act.SuccessChance(traitScore, skill, toolQuality, groupSize, e.Climate.OutdoorWorkModifier())
		roll := e.rng.Float64()
		success := roll < successChance

		switch plan.Activity {
		case "craft_tools":
			e.handleCrafting(v, success, day)
		case "cook_food":
			e.handleCooking(v, success, "cooked_meat", day)
		case "preserve_food":
			e.handleCooking(v, success, "dried_meat", day)
		case "farm_plant", "farm_tend", "farm_harvest":
			e.handleFarming(v, plan.Activity, success, day)
		case "build_shelter":
			e.handleBuilding(v, success, day)
		case "explore":
			e.handleExplore(v, success, day)
		case "heal_villager":
			e.handleHealing(v, success)
		default:
			if success && len(act.Outputs) > 0 {
				e.handleHarvest(v, act, &plan, roll, toolQuality, day)
			}
		}

		xpCategory := act.XPCategory
		if xpCategory == "" {
			xpCategory = act.Name
		}
		v.Memory.AddExperience(xpCategory, success, v.Traits.Intelligence)

		v.Fatigue = math.Min(1.0, v.Fatigue+act.FatigueCost*plan.PlannedHours)

		if toolItem != nil && toolItem.MaxDur > 0 {
			toolItem.Durability -= toolDurabilityLoss
			if toolItem.Durability <= 0 {
				e.Log.Logf(day, simlog.Activity, "%s's %s broke", v.Name, toolItem.Type)
			}
		}

		danger := act.Danger
		if danger > 0 && act.Resource != "" {
			danger += e.Events.DangerModifier()
		}
		if danger > 0 && e.rng.Chance(danger) {
			damage := e.rng.Uniform(5, 20)
			v.Health = math.Max(0, v.Health-damage)
			v.Memory.AddEvent(day, "injured during "+act.Name, -0.3)
			e.Log.Logf(day, simlog.Activity, "%s was injured during %s (-%.0f health)", v.Name, act.Name, damage)
		}

		v.Needs.Satisfy(agents.NeedPurpose, 0.1)
	}
}

// handleHarvest settles a standard resource-producing activity: roll
// yields, draw down the node, and bank the goods with the family.
func (e *Engine) handleHarvest(v *agents.Villager, act *economy.Activity, plan *agents.ActivityPlan, roll, toolQuality float64, day int) {
	yields := act.Yield(v.SkillLevel(act.SkillCategory()), roll, toolQuality)

	var node *world.ResourceNode
	if plan.TargetResource >= 0 {
		node = e.Resources.Node(plan.TargetResource)
		// Planned node may have been emptied by an earlier worker.
		if node != nil && node.Abundance <= 0 && act.Resource != "" {
			node = e.Resources.NearestOfType(v.Position, act.Resource)
		}
	}

	fam := e.Families.Get(v.FamilyID)
	var gathered string
	for _, out := range yields {
		actual := out.Qty
		if node != nil {
			actual = node.Harvest(out.Qty, toolQuality)
		}
		if actual <= 0 {
			continue
		}
		item := economy.NewItem(out.Item, actual, 0.5)
		if fam != nil {
			fam.Inventory.Add(item)
		} else if v.Inventory != nil {
			v.Inventory.Add(item)
		}
		if gathered != "" {
			gathered += ", "
		}
		gathered += fmt.Sprintf("%.1f %s", actual, out.Item)
	}
	if gathered != "" {
		e.Log.Log(day, simlog.Activity, fmt.Sprintf("%s %s, yielded %s", v.Name, act.Description, gathered), v.ID)
	}
}

func (e *Engine) handleCrafting(v *agents.Villager, success bool, day int) {
	sourceInv := e.familyOrPersonalInventory(v)
	if sourceInv == nil {
		return
	}

	skill := v.SkillLevel("crafting")
	recipes := economy.CraftableRecipes(sourceInv, skill, "craft_tools")
	if len(recipes) == 0 {
		return
	}

	// Prefer recipes whose outputs the household lacks.
	recipe := recipes[0]
	for _, r := range recipes {
		for _, out := range r.Outputs {
			if !sourceInv.Has(out.Item, 1) {
				recipe = r
				break
			}
		}
	}

	if success {
		produced := economy.ExecuteCraft(recipe, sourceInv, skill, e.rng.Float64())
		e.Log.Log(day, simlog.Activity, fmt.Sprintf("%s crafted %s", v.Name, outputNames(produced)), v.ID)
	}
}

func (e *Engine) handleCooking(v *agents.Villager, success bool, recipeName string, day int) {
	sourceInv := e.familyOrPersonalInventory(v)
	if sourceInv == nil {
		return
	}

	recipe := economy.Recipes[recipeName]
	if recipe == nil || !recipe.CanCraft(sourceInv, 0) {
		recipe = nil
		for _, alt := range []string{"cooked_meat", "bread", "dried_meat", "dried_fish"} {
			if r := economy.Recipes[alt]; r != nil && r.CanCraft(sourceInv, 0) {
				recipe = r
				break
			}
		}
		if recipe == nil {
			return
		}
	}

	if success {
		skill := v.SkillLevel("cooking")
		produced := economy.ExecuteCraft(recipe, sourceInv, skill, e.rng.Float64())
		e.Log.Log(day, simlog.Activity, fmt.Sprintf("%s cooked %s", v.Name, outputNames(produced)), v.ID)
	}
}

func (e *Engine) handleFarming(v *agents.Villager, activity string, success bool, day int) {
	fam := e.Families.Get(v.FamilyID)
	if fam == nil {
		return
	}

	switch activity {
	case "farm_plant":
		if !success {
			return
		}
		farmland := e.Resources.NearestOfType(v.Position, world.ResFarmland)
		if farmland == nil {
			return
		}
		plot := e.Crops.Plant(farmland.Position, fam.ID, day)
		fam.FarmPlots = append(fam.FarmPlots, plot.Position)
		e.Log.Log(day, simlog.Activity, fmt.Sprintf("%s planted crops at (%d,%d)", v.Name, plot.Position.X, plot.Position.Y), v.ID)

	case "farm_tend":
		for _, plot := range e.Crops.FamilyPlots(fam.ID) {
			e.tendedToday[plot.Position] = true
		}
		if success {
			e.Log.Log(day, simlog.Activity, v.Name+" tended crops", v.ID)
		}

	case "farm_harvest":
		if !success {
			return
		}
		for _, plot := range e.Crops.Harvestable(fam.ID) {
			grainQty := plot.ExpectedYield
			vegQty := plot.ExpectedYield * 0.5
			fam.Inventory.Add(economy.NewItem("grain", grainQty, 0.5))
			fam.Inventory.Add(economy.NewItem("vegetables", vegQty, 0.5))
			e.Crops.Remove(plot)
			e.Log.Log(day, simlog.Activity, fmt.Sprintf("%s harvested %.1f grain, %.1f vegetables", v.Name, grainQty, vegQty), v.ID)
		}
	}
}

func (e *Engine) handleBuilding(v *agents.Villager, success bool, day int) {
	if !success {
		return
	}
	fam := e.Families.Get(v.FamilyID)
	if fam == nil {
		return
	}

	if existing := e.Infrastructure.ShelterFor(fam.ID); existing != nil {
		e.Infrastructure.Repair(existing.ID, 0.1)
		existing.Quality = math.Min(1.0, existing.Quality+0.02)
		return
	}

	shelter := e.Infrastructure.Create(world.StructShelter, v.HomePosition, 0.3, fam.ID)
	fam.ShelterID = shelter.ID
	e.Log.Log(day, simlog.Activity, v.Name+" built a new shelter", v.ID)
}

func (e *Engine) handleExplore(v *agents.Villager, success bool, day int) {
	if !success {
		return
	}
	nodes := e.Resources.AllInRadius(v.Position, 20, "")
	var undiscovered []*world.ResourceNode
	for _, n := range nodes {
		if !v.Memory.KnowsResource(n.ID) {
			undiscovered = append(undiscovered, n)
		}
	}
	if len(undiscovered) == 0 {
		return
	}
	node := rng.Choice(e.rng, undiscovered)
	v.Memory.KnownResources = append(v.Memory.KnownResources, node.ID)
	e.Log.Log(day, simlog.Activity, fmt.Sprintf("%s discovered %s at (%d,%d)", v.Name, node.Type, node.Position.X, node.Position.Y), v.ID)
}

func (e *Engine) handleHealing(v *agents.Villager, success bool) {
	if !success {
		return
	}
	fam := e.Families.Get(v.FamilyID)
	if fam == nil {
		return
	}

	var target *agents.Villager
	worstHealth := 100.0
	for _, vid := range fam.MemberIDs {
		member := e.byID[vid]
		if member != nil && member.Alive && member.Health < worstHealth {
			worstHealth = member.Health
			target = member
		}
	}
	if target == nil || target.Health >= 80 {
		return
	}

	healAmount := e.rng.Uniform(5, 15)
	if fam.Inventory.Has("medicine", 1) {
		fam.Inventory.Remove("medicine", 1)
		healAmount *= 1.5
	}
	target.Health = math.Min(100, target.Health+healAmount)
	target.Needs.Satisfy(agents.NeedHealth, healAmount/100)
}

func (e *Engine) familyOrPersonalInventory(v *agents.Villager) *economy.Inventory {
	if fam := e.Families.Get(v.FamilyID); fam != nil {
		return fam.Inventory
	}
	return v.Inventory
}

func outputNames(outputs []economy.Output) string {
	var s string
	for i, out := range outputs {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%.1f %s", out.Qty, out.Item)
	}
	if s == "" {
		return "nothing"
	}
	return s
}

// ------------------------------------------------------------------
// Thirst
// ------------------------------------------------------------------

func (e *Engine) autoSatisfyThirst(alive []*agents.Villager) {
	waterNodes := e.Resources.AllInRadius(world.VillageCenter, 100, world.ResWater)
	nearWater := func(p world.Position) bool {
		for _, n := range waterNodes {
			if p.Manhattan(n.Position) <= waterProximityRadius {
				return true
			}
		}
		return false
	}

	for _, v := range alive {
		switch {
		case nearWater(v.Position):
			v.Needs.Satisfy(agents.NeedThirst, waterAutoSatisfyAmount)
		case nearWater(v.HomePosition):
			v.Needs.Satisfy(agents.NeedThirst, waterAutoSatisfyAmount*0.7)
		}
	}
}

// ------------------------------------------------------------------
// Social and trade phases
// ------------------------------------------------------------------

func (e *Engine) resolveSocialPhase(alive []*agents.Villager, day int) {
	for _, v := range alive {
		if v.IsChild() && v.AgeYears() < 6 {
			continue
		}

		interactions := 1 + int(v.Traits.Sociability/100*(maxDailySocialContacts-1))
		for i := 0; i < interactions; i++ {
			action := e.Decisions.DecideSocial(v, alive, e.Relationships)
			if action == nil {
				break
			}
			target := e.byID[action.TargetID]
			if target == nil || !target.Alive || target.ID == v.ID {
				continue
			}

			positive := action.Type == "chat" || action.Type == "teach" ||
				action.Type == "court" || action.Type == "share_food"
			e.Relationships.RecordInteraction(v.ID, target.ID, positive, 1.0, day)

			v.Needs.Satisfy(agents.NeedSocial, 0.1)
			target.Needs.Satisfy(agents.NeedSocial, 0.05)

			if action.Type == "teach" {
				if e.Influence.SpreadKnowledge(v, target, e.Relationships, e.rng) {
					e.Log.Log(day, simlog.Knowledge, fmt.Sprintf("%s taught %s something new", v.Name, target.Name), v.ID, target.ID)
				}
			}
		}
	}
}

func (e *Engine) resolveTradePhase(alive []*agents.Villager, day int) {
	e.Trade.ResetDaily()

	var traders []*agents.Villager
	for _, v := range alive {
		if !v.IsChild() || v.AgeYears() >= 10 {
			traders = append(traders, v)
		}
	}
	if len(traders) < 2 {
		return
	}

	order := make([]*agents.Villager, len(traders))
	copy(order, traders)
	rng.Shuffle(e.rng, order)

	for _, v := range order {
		fam := e.Families.Get(v.FamilyID)
		if fam == nil {
			continue
		}

		willingness := trade.WillingnessBase +
			v.Traits.Sociability/100.0*0.3 -
			(1.0-v.Traits.RiskTolerance/100.0)*0.1
		if e.rng.Float64() > willingness {
			continue
		}

		candidates := e.tradePartnerCandidates(v, traders)

		rounds := 0
		for _, partnerID := range candidates {
			if rounds >= trade.MaxRoundsPerDay {
				break
			}
			partner := e.byID[partnerID]
			if partner == nil || !partner.Alive || partner.ID == v.ID {
				continue
			}
			partnerFam := e.Families.Get(partner.FamilyID)
			if partnerFam == nil {
				continue
			}

			rel := e.Relationships.GetOrCreate(v.ID, partner.ID)
			estimate := e.Trade.EstimatePartnerInventory(partnerFam.Inventory, rel.Trust, rel.Familiarity)

			offer := e.Trade.GenerateOffer(v, partner, fam.Inventory, estimate)
			if offer == nil {
				continue
			}

			if e.Trade.EvaluateOffer(partner, offer, partnerFam.Inventory, rel.Trust) {
				if e.Trade.ExecuteTrade(offer, fam.Inventory, partnerFam.Inventory, day) {
					e.Relationships.RecordInteraction(v.ID, partner.ID, true, 0.8, day)
					var exchanged float64
					for _, line := range offer.Offering {
						exchanged += line.Quantity
					}
					for _, line := range offer.Requesting {
						exchanged += line.Quantity
					}
					e.Metrics.RecordTrade(exchanged)
					e.Log.Log(day, simlog.Trade,
						fmt.Sprintf("%s traded %s to %s for %s", v.Name, lineNames(offer.Offering), partner.Name, lineNames(offer.Requesting)),
						v.ID, partner.ID)
				}
			} else {
				e.Relationships.RecordInteraction(v.ID, partner.ID, false, 0.2, day)
			}
			rounds++
		}
	}
}

// tradePartnerCandidates gathers trusted contacts and friends, padded
// with random strangers so markets can form between households that
// have never met.
func (e *Engine) tradePartnerCandidates(v *agents.Villager, traders []*agents.Villager) []int {
	seen := make(map[int]bool)
	var candidates []int
	for _, id := range e.Relationships.TrustedAbove(v.ID, 0.1) {
		if !seen[id] {
			seen[id] = true
			candidates = append(candidates, id)
		}
	}
	for _, id := range e.Relationships.FriendsAbove(v.ID, 0.2) {
		if !seen[id] {
			seen[id] = true
			candidates = append(candidates, id)
		}
	}

	randomCount := 3 - len(candidates)
	if randomCount < 1 {
		randomCount = 1
	}
	var strangers []int
	for _, other := range traders {
		if other.ID != v.ID && !seen[other.ID] {
			strangers = append(strangers, other.ID)
		}
	}
	rng.Shuffle(e.rng, strangers)
	if randomCount > len(strangers) {
		randomCount = len(strangers)
	}
	candidates = append(candidates, strangers[:randomCount]...)
	return candidates
}

func lineNames(lines []trade.Line) string {
	var s string
	for i, l := range lines {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%.1f %s", l.Quantity, l.Type)
	}
	return s
}

// ------------------------------------------------------------------
// Lifecycle
// ------------------------------------------------------------------

func (e *Engine) processLifecycle(day int) {
	// Deaths were marked during need decay and daily updates.
	for _, v := range e.Villagers {
		if v.Alive || e.recordedDead[v.ID] {
			continue
		}
		e.recordedDead[v.ID] = true
		e.Dead = append(e.Dead, v)
		e.Metrics.RecordDeath()
		e.Log.Log(day, simlog.Lifecycle, fmt.Sprintf("%s died at age %d (%s)", v.Name, v.AgeYears(), v.DeathCause), v.ID)
		if v.Needs.Get(agents.NeedHunger).Satisfaction <= 0 {
			e.Log.Log(day, simlog.Lifecycle, v.Name+" starved to death")
		}
	}

	alive := e.aliveVillagers()

	// Births.
	for _, v := range alive {
		if !v.IsPregnant || v.PregnancyDays < agents.PregnancyDurationDays {
			continue
		}
		partnerTraits := v.Traits
		if v.SpouseID != nil {
			if spouse := e.byID[*v.SpouseID]; spouse != nil {
				partnerTraits = spouse.Traits
			}
		}

		child := v.GiveBirth(e.nextID, day, partnerTraits, e.rng)
		e.nextID++
		child.Inventory = economy.NewInventory(childCarryCapacity, "personal")
		e.Villagers = append(e.Villagers, child)
		e.byID[child.ID] = child

		if fam := e.Families.Get(v.FamilyID); fam != nil {
			fam.AddMember(child.ID)
		}
		e.Metrics.RecordBirth()
		e.Log.Log(day, simlog.Lifecycle, fmt.Sprintf("%s was born to %s", child.Name, v.Name), v.ID, child.ID)
	}

	// Marriage proposals, checked from the bride's side so each couple
	// is considered once.
	for _, v := range alive {
		if v.SpouseID != nil || v.AgeYears() < 16 || v.Sex != agents.SexFemale {
			continue
		}
		for _, fid := range e.Relationships.FriendsAbove(v.ID, 0.5) {
			partner := e.byID[fid]
			if partner == nil || !partner.Alive || partner.SpouseID != nil ||
				partner.Sex == v.Sex || partner.AgeYears() < 16 {
				continue
			}
			rel := e.Relationships.GetOrCreate(v.ID, partner.ID)
			if rel.Affinity >= marriageMinAffinity && e.rng.Chance(marriageDailyChance) {
				vid, pid := v.ID, partner.ID
				v.SpouseID = &pid
				partner.SpouseID = &vid
				e.Families.FormMarriage(v, partner)
				e.Metrics.RecordMarriage()
				e.Log.Log(day, simlog.Marriage, fmt.Sprintf("%s and %s married", v.Name, partner.Name), v.ID, partner.ID)
				break
			}
		}
	}

	// Conception.
	for _, v := range alive {
		if v.IsFertile() && v.SpouseID != nil && !v.IsPregnant {
			if spouse := e.byID[*v.SpouseID]; spouse != nil && spouse.Alive {
				if e.rng.Chance(conceptionDailyChance) {
					v.IsPregnant = true
					v.PregnancyDays = 0
				}
			}
		}
	}
}

// ------------------------------------------------------------------
// Starting endowments
// ------------------------------------------------------------------

func (e *Engine) distributeStartingTools() {
	for _, fam := range e.Families.Families() {
		fam.Inventory.Add(economy.NewItem("stone_axe", 1, 0.5))
		fam.Inventory.Add(economy.NewItem("stone_knife", 2, 0.5))
		fam.Inventory.Add(economy.NewItem("wooden_spear", 1, 0.5))
		fam.Inventory.Add(economy.NewItem("fishing_rod", 1, 0.4))
		fam.Inventory.Add(economy.NewItem("hoe", 1, 0.4))
		fam.Inventory.Add(economy.NewItem("firewood", 5, 0.5))
	}
}

func (e *Engine) createStartingShelters() {
	families := e.Families.Families()
	center := world.VillageCenter
	for i, fam := range families {
		angle := float64(i) / float64(len(families)) * 2 * math.Pi
		x := center.X + int(math.Cos(angle)*5)
		y := center.Y + int(math.Sin(angle)*5)
		x = clampInt(x, 0, world.MapWidth-1)
		y = clampInt(y, 0, world.MapHeight-1)
		home := world.Position{X: x, Y: y}

		shelter := e.Infrastructure.Create(world.StructShelter, home, 0.4, fam.ID)
		fam.ShelterID = shelter.ID
		fam.HomePosition = home

		for _, vid := range fam.MemberIDs {
			if v := e.byID[vid]; v != nil {
				v.HomePosition = home
				v.Position = home
			}
		}
	}
}

func (e *Engine) distributeStartingFood() {
	for _, fam := range e.Families.Families() {
		amount := startingFoodPerPerson * float64(len(fam.MemberIDs))
		fam.Inventory.Add(economy.NewItem("grain", amount*0.5, 0.5))
		fam.Inventory.Add(economy.NewItem("dried_meat", amount*0.3, 0.5))
		fam.Inventory.Add(economy.NewItem("dried_fish", amount*0.2, 0.5))
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
