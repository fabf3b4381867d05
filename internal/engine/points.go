package engine

import (
	"context"

	"go.uber.org/zap"

	"ecoquest/internal/storage"
)

// AwardPoints credits amount to both the balance and the lifetime total and counts
// one completed mission.
func (s *Service) AwardPoints(ctx context.Context, amount int) (storage.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awardPoints(ctx, amount)
}

func (s *Service) awardPoints(ctx context.Context, amount int) (storage.User, error) {
	if amount < 0 {
		return storage.User{}, ErrInvalidAmount
	}
	u := s.getUser(ctx)
	u.Points += amount
	u.LifetimePoints += amount
	u.TotalMissionsCompleted++
	u.Stage = string(StageForPoints(u.LifetimePoints))
	s.saveUser(ctx, u)
	return u, nil
}

// DeductPoints spends amount from the balance. It returns ErrInsufficientPoints and
// leaves the profile untouched when the balance is too low.
func (s *Service) DeductPoints(ctx context.Context, amount int) (storage.User, error) {
	if amount < 0 {
		return storage.User{}, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.getUser(ctx)
	if u.Points < amount {
		return storage.User{}, ErrInsufficientPoints
	}
	u.Points -= amount
	s.saveUser(ctx, u)
	return u, nil
}

// Purchase spends cost and adds itemID to the inventory once.
func (s *Service) Purchase(ctx context.Context, itemID string, cost int) (storage.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purchase(ctx, itemID, cost)
}

func (s *Service) purchase(ctx context.Context, itemID string, cost int) (storage.User, error) {
	if cost < 0 {
		return storage.User{}, ErrInvalidAmount
	}
	u := s.getUser(ctx)
	if u.Points < cost {
		return storage.User{}, ErrInsufficientPoints
	}
	u.Points -= cost
	if !u.HasItem(itemID) {
		u.Inventory = append(u.Inventory, itemID)
	}
	s.saveUser(ctx, u)
	s.log.Debug("item purchased", zap.String("item", itemID), zap.Int("cost", cost), zap.Int("balance", u.Points))
	return u, nil
}

// AppendLog adds entry to the mission log.
func (s *Service) AppendLog(ctx context.Context, entry storage.MissionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLog(ctx, entry)
}

func (s *Service) appendLog(ctx context.Context, entry storage.MissionLog) error {
	if err := s.store.AppendLog(ctx, entry); err != nil {
		s.log.Error("failed to save mission log", zap.String("id", entry.ID), zap.Error(err))
		return err
	}
	return nil
}
