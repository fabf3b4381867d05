package storage

// User is the single per-device profile.
type User struct {
	Name                   string   `json:"name"`
	Points                 int      `json:"points"`
	LifetimePoints         int      `json:"lifetimePoints"`
	TotalMissionsCompleted int      `json:"totalMissionsCompleted"`
	Stage                  string   `json:"stage"`
	Inventory              []string `json:"inventory"`
}

// HasItem reports whether itemID is in the inventory.
func (u *User) HasItem(itemID string) bool {
	for _, id := range u.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}

// MissionLog is one completed mission. Entries are never edited in place.
type MissionLog struct {
	ID          string `json:"id"`
	MissionID   string `json:"missionId"`
	Title       string `json:"title"`
	Points      int    `json:"points"`
	CompletedAt string `json:"completedAt"` // RFC 3339
	Type        string `json:"type"`
}

type PlaceType string

const (
	PlaceIndoor  PlaceType = "indoor"
	PlaceOutdoor PlaceType = "outdoor"
)

type SavedPlace struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Type    PlaceType `json:"type"`
	Address string    `json:"address"`
	Lat     float64   `json:"lat"`
	Lon     float64   `json:"lon"`
}

// DefaultStage is the stage label of a fresh profile.
const DefaultStage = "sprout"

// DefaultUser returns the zero-valued profile used on first run and after corruption.
func DefaultUser() User {
	return User{
		Name:      "Earth Keeper",
		Stage:     DefaultStage,
		Inventory: []string{},
	}
}

// DefaultPlaces returns the built-in seed list of saved places.
func DefaultPlaces() []SavedPlace {
	return []SavedPlace{
		{ID: 1, Name: "Home", Type: PlaceIndoor, Address: "Gangnam-gu, Seoul (home)", Lat: 37.5642, Lon: 127.0016},
		{ID: 2, Name: "Office", Type: PlaceIndoor, Address: "Jung-gu, Seoul (office)", Lat: 37.5635, Lon: 126.9750},
		{ID: 3, Name: "Neighborhood Park", Type: PlaceOutdoor, Address: "Mapo-gu, Seoul (park)", Lat: 37.5568, Lon: 126.9237},
	}
}
