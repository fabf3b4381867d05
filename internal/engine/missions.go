package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Mission is a suggested eco action.
type Mission struct {
	ID                   string   `json:"id" validate:"required"`
	Title                string   `json:"title" validate:"required"`
	Description          string   `json:"description"`
	Points               int      `json:"points" validate:"gte=0"`
	EstimatedTimeSeconds int      `json:"estimatedTimeSeconds" validate:"gte=0"`
	Type                 Category `json:"type"`
	IconName             string   `json:"iconName"`
}

// MissionRequest is the input to a MissionGenerator.
type MissionRequest struct {
	Weather       Weather
	Location      Location
	Mode          Mode
	ExcludeTitles []string
}

// MissionGenerator proposes missions for the current context.
type MissionGenerator interface {
	Generate(ctx context.Context, req MissionRequest) ([]Mission, error)
}

// Geocoder turns coordinates into a display address. Implementations degrade to the
// raw coordinates instead of failing.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) string
}

// WeatherProvider reports the current weather at a coordinate.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (Weather, error)
}

type catalogEntry struct {
	Mission
	Modes      []Mode
	Conditions []Condition // empty means any weather
}

func (e catalogEntry) fits(mode Mode, cond Condition) bool {
	modeOK := false
	for _, m := range e.Modes {
		if m == mode {
			modeOK = true
			break
		}
	}
	if !modeOK {
		return false
	}
	if len(e.Conditions) == 0 {
		return true
	}
	for _, c := range e.Conditions {
		if c == cond {
			return true
		}
	}
	return false
}

func builtinMissions() []catalogEntry {
	both := []Mode{ModeIndoor, ModeOutdoor}
	indoor := []Mode{ModeIndoor}
	outdoor := []Mode{ModeOutdoor}
	return []catalogEntry{
		{
			Mission: Mission{ID: "unplug", Title: "Unplug idle chargers", Description: "Pull every charger that is not charging anything right now.", Points: 30, EstimatedTimeSeconds: 120, Type: CategoryEnergy, IconName: "plug"},
			Modes:   indoor,
		},
		{
			Mission: Mission{ID: "lights", Title: "Lights off in empty rooms", Description: "Walk through and switch off lights in rooms nobody is using.", Points: 20, EstimatedTimeSeconds: 60, Type: CategoryEnergy, IconName: "lightbulb"},
			Modes:   indoor,
		},
		{
			Mission:    Mission{ID: "heating", Title: "Lower the heating by 1°C", Description: "Turn the thermostat down one degree and grab a sweater.", Points: 40, EstimatedTimeSeconds: 30, Type: CategoryEnergy, IconName: "thermometer"},
			Modes:      indoor,
			Conditions: []Condition{ConditionSnow, ConditionClouds},
		},
		{
			Mission:    Mission{ID: "dryer", Title: "Air-dry the laundry", Description: "Skip the dryer and hang today's laundry in the sun.", Points: 60, EstimatedTimeSeconds: 600, Type: CategoryEnergy, IconName: "shirt"},
			Modes:      indoor,
			Conditions: []Condition{ConditionSunny},
		},
		{
			Mission: Mission{ID: "sort", Title: "Sort the recycling", Description: "Rinse and separate plastic, paper and cans.", Points: 50, EstimatedTimeSeconds: 300, Type: CategoryWaste, IconName: "recycle"},
			Modes:   indoor,
		},
		{
			Mission: Mission{ID: "tumbler", Title: "Bring a tumbler", Description: "Use your own cup instead of a disposable one.", Points: 50, EstimatedTimeSeconds: 60, Type: CategoryWaste, IconName: "coffee"},
			Modes:   both,
		},
		{
			Mission: Mission{ID: "leftovers", Title: "Finish the leftovers", Description: "Plan one meal around what is already in the fridge.", Points: 40, EstimatedTimeSeconds: 900, Type: CategoryFood, IconName: "utensils"},
			Modes:   indoor,
		},
		{
			Mission: Mission{ID: "plantmeal", Title: "Eat one plant-based meal", Description: "Choose a meat-free option for lunch or dinner.", Points: 70, EstimatedTimeSeconds: 1800, Type: CategoryFood, IconName: "salad"},
			Modes:   both,
		},
		{
			Mission:    Mission{ID: "walk", Title: "Walk instead of riding", Description: "Take a short trip on foot you would normally drive.", Points: 80, EstimatedTimeSeconds: 1200, Type: CategoryTransport, IconName: "footprints"},
			Modes:      outdoor,
			Conditions: []Condition{ConditionSunny, ConditionClouds},
		},
		{
			Mission:    Mission{ID: "transit", Title: "Take public transit", Description: "Ride the bus or subway for your next trip.", Points: 60, EstimatedTimeSeconds: 1800, Type: CategoryTransport, IconName: "bus"},
			Modes:      outdoor,
			Conditions: []Condition{ConditionRain, ConditionSnow, ConditionClouds},
		},
		{
			Mission:    Mission{ID: "plogging", Title: "Pick up litter on your walk", Description: "Collect ten pieces of litter along the way.", Points: 100, EstimatedTimeSeconds: 1200, Type: CategoryNature, IconName: "trash"},
			Modes:      outdoor,
			Conditions: []Condition{ConditionSunny, ConditionClouds},
		},
		{
			Mission: Mission{ID: "stairs", Title: "Take the stairs", Description: "Skip the elevator for every trip today.", Points: 30, EstimatedTimeSeconds: 120, Type: CategoryEnergy, IconName: "stairs"},
			Modes:   both,
		},
		{
			Mission:    Mission{ID: "umbrella", Title: "Refuse a plastic umbrella bag", Description: "Shake off your umbrella instead of taking a plastic sleeve.", Points: 20, EstimatedTimeSeconds: 30, Type: CategoryWaste, IconName: "umbrella"},
			Modes:      both,
			Conditions: []Condition{ConditionRain},
		},
		{
			Mission:    Mission{ID: "tree", Title: "Water a street tree", Description: "Give a thirsty tree near you a bottle of water.", Points: 40, EstimatedTimeSeconds: 300, Type: CategoryNature, IconName: "tree"},
			Modes:      outdoor,
			Conditions: []Condition{ConditionSunny},
		},
	}
}

// CatalogGenerator picks missions from a built-in catalog. It works offline and is
// the default generator.
type CatalogGenerator struct {
	// Limit caps the number of missions returned; zero means 3.
	Limit int
}

func (g CatalogGenerator) Generate(ctx context.Context, req MissionRequest) ([]Mission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := g.Limit
	if limit <= 0 {
		limit = 3
	}
	mode := req.Mode
	if mode != ModeIndoor && mode != ModeOutdoor {
		mode = DefaultMode
	}

	exclude := make(map[string]bool, len(req.ExcludeTitles))
	for _, t := range req.ExcludeTitles {
		exclude[strings.ToLower(strings.TrimSpace(t))] = true
	}

	var out []Mission
	for _, e := range builtinMissions() {
		if len(out) >= limit {
			break
		}
		if exclude[strings.ToLower(e.Title)] {
			continue
		}
		if !e.fits(mode, req.Weather.Condition) {
			continue
		}
		out = append(out, e.Mission)
	}
	return out, nil
}

// FindMission looks up a catalog mission by id.
func FindMission(id string) (Mission, error) {
	for _, e := range builtinMissions() {
		if e.ID == id {
			return e.Mission, nil
		}
	}
	return Mission{}, fmt.Errorf("mission %q not found", id)
}

// SuggestMissions gathers weather and address for loc and asks gen for missions,
// excluding titles already completed today.
func (s *Service) SuggestMissions(ctx context.Context, gen MissionGenerator, geo Geocoder, wx WeatherProvider, lat, lon float64, mode Mode) (Weather, Location, []Mission, error) {
	loc := Location{Lat: lat, Lon: lon}
	if geo != nil {
		loc.Address = geo.Reverse(ctx, lat, lon)
	}

	weather := Weather{TemperatureC: 20, Condition: ConditionSunny}
	if wx != nil {
		w, err := wx.Current(ctx, lat, lon)
		if err != nil {
			s.log.Warn("weather lookup failed, using default", zap.Error(err))
		} else {
			weather = w
		}
	}

	done := CompletedTitlesOn(s.Logs(ctx), s.now())
	missions, err := gen.Generate(ctx, MissionRequest{
		Weather:       weather,
		Location:      loc,
		Mode:          mode,
		ExcludeTitles: done,
	})
	if err != nil {
		return weather, loc, nil, err
	}
	return weather, loc, missions, nil
}
