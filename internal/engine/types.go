package engine

import "ecoquest/internal/storage"

// Mode is the indoor/outdoor preference used when generating missions.
type Mode = storage.PlaceType

const (
	ModeIndoor  = storage.PlaceIndoor
	ModeOutdoor = storage.PlaceOutdoor
)

// DefaultMode is used when user input is missing/invalid.
const DefaultMode = ModeOutdoor

type Category string

const (
	CategoryEnergy    Category = "energy"
	CategoryTransport Category = "transport"
	CategoryWaste     Category = "waste"
	CategoryFood      Category = "food"
	CategoryNature    Category = "nature"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryEnergy, CategoryTransport, CategoryWaste, CategoryFood, CategoryNature:
		return true
	default:
		return false
	}
}

// RecoveredType marks log entries rebuilt from a remote backup.
const RecoveredType = "recovered"

// Condition is the coarse weather condition used to pick missions.
type Condition string

const (
	ConditionSunny  Condition = "Sunny"
	ConditionClouds Condition = "Clouds"
	ConditionRain   Condition = "Rain"
	ConditionSnow   Condition = "Snow"
)

// Weather is what the weather collaborator reports.
type Weather struct {
	TemperatureC float64   `json:"temperature"`
	Condition    Condition `json:"condition"`
}

// Location is a coordinate with a display address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address"`
}
