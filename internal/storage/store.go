package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

const (
	UserKey   = "eco_user_v1"
	LogsKey   = "eco_logs_v1"
	PlacesKey = "eco_places_v1"
)

// Store reads and writes the three persisted records. Loads never fail: a missing,
// unreadable or corrupt record degrades to its default.
type Store struct {
	backend Backend
	log     *zap.Logger
}

func NewStore(backend Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{backend: backend, log: log}
}

// storedUser mirrors User with optional fields so older records can be detected.
type storedUser struct {
	Name                   string    `json:"name"`
	Points                 int       `json:"points"`
	LifetimePoints         *int      `json:"lifetimePoints"`
	TotalMissionsCompleted int       `json:"totalMissionsCompleted"`
	Stage                  string    `json:"stage"`
	Inventory              *[]string `json:"inventory"`
}

func (s *Store) LoadUser(ctx context.Context) User {
	raw, ok := s.read(ctx, UserKey)
	if !ok {
		return DefaultUser()
	}

	var su storedUser
	if err := json.Unmarshal([]byte(raw), &su); err != nil {
		s.log.Warn("user record corrupted, resetting", zap.Error(err))
		if err := s.backend.Remove(ctx, UserKey); err != nil {
			s.log.Error("failed to clear corrupted user record", zap.Error(err))
		}
		return DefaultUser()
	}

	u := User{
		Name:                   su.Name,
		Points:                 su.Points,
		TotalMissionsCompleted: su.TotalMissionsCompleted,
		Stage:                  su.Stage,
		Inventory:              []string{},
	}
	// Records written before lifetime tracking existed.
	if su.LifetimePoints == nil {
		u.LifetimePoints = su.Points
	} else {
		u.LifetimePoints = *su.LifetimePoints
	}
	if su.Inventory != nil && *su.Inventory != nil {
		u.Inventory = dedupe(*su.Inventory)
	}
	return u
}

func (s *Store) SaveUser(ctx context.Context, u User) error {
	return s.write(ctx, UserKey, u)
}

func (s *Store) LoadLogs(ctx context.Context) []MissionLog {
	raw, ok := s.read(ctx, LogsKey)
	if !ok {
		return []MissionLog{}
	}
	var logs []MissionLog
	if err := json.Unmarshal([]byte(raw), &logs); err != nil {
		s.log.Warn("mission logs corrupted, resetting", zap.Error(err))
		return []MissionLog{}
	}
	if logs == nil {
		logs = []MissionLog{}
	}
	return logs
}

func (s *Store) SaveLogs(ctx context.Context, logs []MissionLog) error {
	return s.write(ctx, LogsKey, logs)
}

// AppendLog loads the full list, appends entry and saves the list back.
func (s *Store) AppendLog(ctx context.Context, entry MissionLog) error {
	logs := s.LoadLogs(ctx)
	logs = append(logs, entry)
	return s.SaveLogs(ctx, logs)
}

func (s *Store) LoadPlaces(ctx context.Context) []SavedPlace {
	raw, ok := s.read(ctx, PlacesKey)
	if !ok {
		return DefaultPlaces()
	}
	var places []SavedPlace
	if err := json.Unmarshal([]byte(raw), &places); err != nil {
		s.log.Warn("saved places corrupted, using defaults", zap.Error(err))
		return DefaultPlaces()
	}
	if places == nil {
		places = []SavedPlace{}
	}
	return places
}

func (s *Store) SavePlaces(ctx context.Context, places []SavedPlace) error {
	return s.write(ctx, PlacesKey, places)
}

// ReplaceHistory overwrites the user and the full log list in one write.
func (s *Store) ReplaceHistory(ctx context.Context, u User, logs []MissionLog) error {
	userData, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	logData, err := json.Marshal(logs)
	if err != nil {
		return fmt.Errorf("marshal logs: %w", err)
	}
	if err := s.backend.SetMany(ctx, map[string]string{
		UserKey: string(userData),
		LogsKey: string(logData),
	}); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

// Reset wipes every record. The next load returns defaults.
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range []string{UserKey, LogsKey, PlacesKey} {
		if err := s.backend.Remove(ctx, key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.log.Error("storage read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
