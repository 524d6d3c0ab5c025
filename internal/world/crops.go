package world

import "math"

// CropStage tracks a plot through its lifecycle.
type CropStage string

const (
	CropPlanted     CropStage = "planted"
	CropGrowing     CropStage = "growing"
	CropMature      CropStage = "mature"
	CropHarvestable CropStage = "harvestable"
	CropFailed      CropStage = "failed"
)

const (
	cropGrowthDays     = 90
	cropFrostThreshold = 15.0
)

// CropPlot is a planted crop owned by a family.
type CropPlot struct {
	Position      Position  `json:"position"`
	FamilyID      int       `json:"family_id"`
	PlantedDay    int       `json:"planted_day"`
	Stage         CropStage `json:"stage"`
	Quality       float64   `json:"quality"`
	ExpectedYield float64   `json:"expected_yield"`
	DaysGrowing   int       `json:"days_growing"`
	TimesTended   int       `json:"times_tended"`
}

// DailyGrowth advances the plot one day. Frost before harvestable kills
// the crop outright.
func (p *CropPlot) DailyGrowth(climate *Climate, tendedToday bool) {
	if p.Stage == CropFailed {
		return
	}
	p.DaysGrowing++

	if climate.Temperature < cropFrostThreshold && p.Stage != CropHarvestable {
		p.Stage = CropFailed
		return
	}

	if tendedToday {
		p.TimesTended++
		p.Quality = math.Min(1.0, p.Quality+0.02)
	}

	growthMod := climate.CropGrowthModifier()
	p.Quality = math.Max(0, math.Min(1.0, p.Quality+(growthMod-0.8)*0.01))

	frac := float64(p.DaysGrowing) / cropGrowthDays
	switch {
	case frac < 0.3:
		p.Stage = CropPlanted
	case frac < 0.7:
		p.Stage = CropGrowing
	case frac < 1.0:
		p.Stage = CropMature
	default:
		p.Stage = CropHarvestable
	}

	p.ExpectedYield = 10.0 * p.Quality * (1 + 0.1*float64(p.TimesTended))
}

// CropManager owns every plot in the world.
type CropManager struct {
	Plots []*CropPlot `json:"plots"`
}

// NewCropManager returns an empty manager.
func NewCropManager() *CropManager {
	return &CropManager{}
}

// Plant creates a new plot at default quality.
func (cm *CropManager) Plant(p Position, familyID, day int) *CropPlot {
	plot := &CropPlot{
		Position:      p,
		FamilyID:      familyID,
		PlantedDay:    day,
		Stage:         CropPlanted,
		Quality:       0.5,
		ExpectedYield: 10,
	}
	cm.Plots = append(cm.Plots, plot)
	return plot
}

// DailyUpdate grows every plot, marking those tended today.
func (cm *CropManager) DailyUpdate(climate *Climate, tended map[Position]bool) {
	for _, p := range cm.Plots {
		p.DailyGrowth(climate, tended[p.Position])
	}
}

// Harvestable returns harvestable plots, filtered by family when id >= 0.
func (cm *CropManager) Harvestable(familyID int) []*CropPlot {
	var out []*CropPlot
	for _, p := range cm.Plots {
		if p.Stage != CropHarvestable {
			continue
		}
		if familyID >= 0 && p.FamilyID != familyID {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FamilyPlots returns a family's non-failed plots.
func (cm *CropManager) FamilyPlots(familyID int) []*CropPlot {
	var out []*CropPlot
	for _, p := range cm.Plots {
		if p.FamilyID == familyID && p.Stage != CropFailed {
			out = append(out, p)
		}
	}
	return out
}

// Remove deletes a harvested or failed plot.
func (cm *CropManager) Remove(plot *CropPlot) {
	for i, p := range cm.Plots {
		if p == plot {
			cm.Plots = append(cm.Plots[:i], cm.Plots[i+1:]...)
			return
		}
	}
}

// CleanupFailed removes and returns all failed plots.
func (cm *CropManager) CleanupFailed() []*CropPlot {
	var failed []*CropPlot
	kept := cm.Plots[:0]
	for _, p := range cm.Plots {
		if p.Stage == CropFailed {
			failed = append(failed, p)
		} else {
			kept = append(kept, p)
		}
	}
	cm.Plots = kept
	return failed
}
