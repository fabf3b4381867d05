package engine

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ecoquest/internal/storage"
)

// Service applies progression rules to the persisted profile. Every mutation is a
// load-modify-save cycle; mu keeps concurrent callers (API handlers, the board) from
// interleaving those cycles.
type Service struct {
	store    *storage.Store
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time

	mu sync.Mutex
}

func NewService(store *storage.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		log:      log,
		validate: newValidator(),
		now:      time.Now,
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// WithClock replaces the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Validator returns the validator the service checks its inputs with.
func (s *Service) Validator() *validator.Validate { return s.validate }

func normalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", errors.New("name is required")
	}
	return n, nil
}

// getUser loads the profile and refreshes the cached stage.
func (s *Service) getUser(ctx context.Context) storage.User {
	u := s.store.LoadUser(ctx)
	u.Stage = string(StageForPoints(u.LifetimePoints))
	return u
}

// saveUser persists u. A write failure is logged and swallowed: the caller still
// gets the in-memory result.
func (s *Service) saveUser(ctx context.Context, u storage.User) {
	if err := s.store.SaveUser(ctx, u); err != nil {
		s.log.Error("failed to save user", zap.Error(err))
	}
}

// User returns the current profile.
func (s *Service) User(ctx context.Context) storage.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getUser(ctx)
}

// Logs returns the full mission log.
func (s *Service) Logs(ctx context.Context) []storage.MissionLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadLogs(ctx)
}

// Rename changes the display name, which is also the remote backup join key.
func (s *Service) Rename(ctx context.Context, name string) (storage.User, error) {
	n, err := normalizeName(name)
	if err != nil {
		return storage.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.getUser(ctx)
	u.Name = n
	s.saveUser(ctx, u)
	return u, nil
}

// Reset wipes the profile, log and places.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.log.Info("local data wiped")
	return nil
}
