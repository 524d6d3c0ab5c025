package world

import (
	"math"

	"github.com/talgya/village-sim/internal/rng"
)

// Season of the 360-day year, four seasons of 90 days each.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// Seasons in calendar order.
var Seasons = []Season{Spring, Summer, Autumn, Winter}

// DaysPerSeason and DaysPerYear define the calendar.
const (
	DaysPerSeason = 90
	DaysPerYear   = 360
)

// DaylightHours is the working daylight per season.
var DaylightHours = map[Season]float64{
	Spring: 13,
	Summer: 16,
	Autumn: 12,
	Winter: 10,
}

// SeasonForDay maps an absolute day to its season.
func SeasonForDay(day int) Season {
	return Seasons[(day%DaysPerYear)/DaysPerSeason]
}

// Weather is the day's dominant condition.
type Weather string

const (
	WeatherClear    Weather = "clear"
	WeatherRain     Weather = "rain"
	WeatherStorm    Weather = "storm"
	WeatherFog      Weather = "fog"
	WeatherHeatWave Weather = "heat_wave"
	WeatherSnow     Weather = "snow"
)

// weatherTable is an ordered probability table; order matters for the
// deterministic weighted draw.
type weatherEntry struct {
	w Weather
	p float64
}

var weatherTables = map[Season][]weatherEntry{
	Spring: {{WeatherClear, 0.50}, {WeatherRain, 0.30}, {WeatherStorm, 0.05}, {WeatherFog, 0.10}, {WeatherHeatWave, 0.02}, {WeatherSnow, 0.03}},
	Summer: {{WeatherClear, 0.55}, {WeatherRain, 0.20}, {WeatherStorm, 0.08}, {WeatherFog, 0.05}, {WeatherHeatWave, 0.12}, {WeatherSnow, 0.00}},
	Autumn: {{WeatherClear, 0.35}, {WeatherRain, 0.30}, {WeatherStorm, 0.15}, {WeatherFog, 0.15}, {WeatherHeatWave, 0.01}, {WeatherSnow, 0.04}},
	Winter: {{WeatherClear, 0.30}, {WeatherRain, 0.15}, {WeatherStorm, 0.10}, {WeatherFog, 0.10}, {WeatherHeatWave, 0.00}, {WeatherSnow, 0.35}},
}

var tempRanges = map[Season][2]float64{
	Spring: {40, 60},
	Summer: {60, 85},
	Autumn: {35, 55},
	Winter: {10, 35},
}

// Climate generates daily weather and exposes environmental modifiers.
type Climate struct {
	rng *rng.Source

	Weather     Weather `json:"weather"`
	Temperature float64 `json:"temperature"` // abstract 0..100 scale
	DryDays     int     `json:"dry_days"`    // consecutive days without precipitation
}

// NewClimate returns a climate provider with mild defaults.
func NewClimate(r *rng.Source) *Climate {
	return &Climate{rng: r, Weather: WeatherClear, Temperature: 50}
}

// AdvanceDay rolls temperature and weather for the new day.
func (c *Climate) AdvanceDay(season Season, dayOfSeason int) {
	tr := tempRanges[season]
	base := tr[0] + (tr[1]-tr[0])*(float64(dayOfSeason)/90.0*0.3+0.35)
	c.Temperature = math.Max(0, math.Min(100, base+c.rng.Normal(0, 5)))

	table := weatherTables[season]
	var total float64
	for _, e := range table {
		total += e.p
	}
	roll := c.rng.Float64() * total
	c.Weather = table[len(table)-1].w
	for _, e := range table {
		if roll < e.p {
			c.Weather = e.w
			break
		}
		roll -= e.p
	}

	if c.Weather == WeatherRain || c.Weather == WeatherStorm || c.Weather == WeatherSnow {
		c.DryDays = 0
	} else {
		c.DryDays++
	}
}

// OutdoorWorkModifier scales outdoor activity productivity.
func (c *Climate) OutdoorWorkModifier() float64 {
	switch c.Weather {
	case WeatherRain:
		return 0.7
	case WeatherStorm:
		return 0.3
	case WeatherFog:
		return 0.85
	case WeatherHeatWave:
		return 0.6
	case WeatherSnow:
		return 0.5
	}
	return 1.0
}

// WarmthNeedModifier scales warmth decay; higher when cold.
func (c *Climate) WarmthNeedModifier() float64 {
	switch {
	case c.Temperature < 20:
		return 2.5
	case c.Temperature < 35:
		return 1.5
	case c.Temperature < 50:
		return 1.0
	case c.Temperature < 70:
		return 0.5
	}
	return 0.3
}

// CropGrowthModifier scales today's crop growth.
func (c *Climate) CropGrowthModifier() float64 {
	base := 1.0
	switch c.Weather {
	case WeatherRain:
		base = 1.2
	case WeatherStorm:
		base = 0.6
	case WeatherHeatWave:
		base = 0.5
	case WeatherSnow:
		base = 0.0
	}
	if c.Temperature < 15 {
		base *= 0.1
	} else if c.Temperature > 80 {
		base *= 0.6
	}
	return base
}

// ShelterDamageModifier scales structure degradation.
func (c *Climate) ShelterDamageModifier() float64 {
	switch c.Weather {
	case WeatherStorm:
		return 5.0
	case WeatherSnow:
		return 2.0
	}
	return 1.0
}

// TerrainWeatherModifier scales movement cost on weather-sensitive terrain.
func (c *Climate) TerrainWeatherModifier(t Terrain) float64 {
	if c.Weather == WeatherRain || c.Weather == WeatherStorm {
		if t == TerrainSwamp {
			return 1.5
		}
		if t == TerrainHills || t == TerrainRocky {
			return 1.2
		}
	}
	if c.Weather == WeatherSnow {
		return 1.3
	}
	return 1.0
}
