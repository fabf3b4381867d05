package engine

import (
	"context"
	"strings"

	"ecoquest/internal/storage"
)

type PlaceInput struct {
	Name    string  `json:"name" validate:"required,max=40"`
	Type    string  `json:"type" validate:"required,oneof=indoor outdoor"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat" validate:"latitude"`
	Lon     float64 `json:"lon" validate:"longitude"`
}

// Places returns the saved places (the seed list on first run).
func (s *Service) Places(ctx context.Context) []storage.SavedPlace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadPlaces(ctx)
}

// AddPlace validates in and appends it to the saved places.
func (s *Service) AddPlace(ctx context.Context, in PlaceInput) (storage.SavedPlace, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	if err := s.validate.Struct(in); err != nil {
		return storage.SavedPlace{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	places := s.store.LoadPlaces(ctx)
	id := s.now().UnixMilli()
	for _, p := range places {
		if p.ID >= id {
			id = p.ID + 1
		}
	}
	place := storage.SavedPlace{
		ID:      id,
		Name:    in.Name,
		Type:    storage.PlaceType(in.Type),
		Address: in.Address,
		Lat:     in.Lat,
		Lon:     in.Lon,
	}
	places = append(places, place)
	if err := s.store.SavePlaces(ctx, places); err != nil {
		return storage.SavedPlace{}, err
	}
	return place, nil
}

// FindPlace returns the saved place whose name matches (case-insensitive).
func (s *Service) FindPlace(ctx context.Context, name string) (storage.SavedPlace, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range s.Places(ctx) {
		if strings.ToLower(p.Name) == name {
			return p, true
		}
	}
	return storage.SavedPlace{}, false
}
