// Package engine orchestrates the simulation: the daily tick cycle,
// random events, lifecycle processing, and metrics collection.
package engine

import "github.com/talgya/village-sim/internal/world"

// Clock tracks simulation time in whole days.
type Clock struct {
	Day int `json:"day"`
}

// Advance moves the clock forward one day.
func (c *Clock) Advance() { c.Day++ }

// Year is the completed simulation years.
func (c *Clock) Year() int { return c.Day / world.DaysPerYear }

// DayOfYear is the day within the current year.
func (c *Clock) DayOfYear() int { return c.Day % world.DaysPerYear }

// DayOfSeason is the day within the current season.
func (c *Clock) DayOfSeason() int { return c.DayOfYear() % world.DaysPerSeason }

// Season is the current season.
func (c *Clock) Season() world.Season { return world.SeasonForDay(c.Day) }

// IsPlantingSeason reports whether crops can be planted.
func (c *Clock) IsPlantingSeason() bool { return c.Season() == world.Spring }

// IsHarvestSeason reports whether field crops mature.
func (c *Clock) IsHarvestSeason() bool { return c.Season() == world.Autumn }

// DaylightHours interpolates between the current season's daylight and
// the next season's across the season.
func (c *Clock) DaylightHours() float64 {
	season := c.Season()
	frac := float64(c.DayOfSeason()) / float64(world.DaysPerSeason)

	current := world.DaylightHours[season]
	var next world.Season
	for i, s := range world.Seasons {
		if s == season {
			next = world.Seasons[(i+1)%len(world.Seasons)]
			break
		}
	}
	return current + (world.DaylightHours[next]-current)*frac
}
