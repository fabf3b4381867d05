package engine

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"ecoquest/internal/backup"
	"ecoquest/internal/storage"
)

type CompleteResult struct {
	User        storage.User
	Log         storage.MissionLog
	StageBefore Stage
	StageAfter  Stage
	StageUp     bool
	Streak      int
}

// PushEvent is the backup payload describing this completion.
func (r *CompleteResult) PushEvent() backup.PushEvent {
	return backup.PushEvent{
		User:    r.User.Name,
		Mission: r.Log.Title,
		Points:  r.Log.Points,
		Level:   string(r.StageAfter),
	}
}

// CompleteMission awards the mission's points and records it in the log.
func (s *Service) CompleteMission(ctx context.Context, m Mission) (*CompleteResult, error) {
	if err := s.validate.Struct(m); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := StageForPoints(s.getUser(ctx).LifetimePoints)
	u, err := s.awardPoints(ctx, m.Points)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := storage.MissionLog{
		ID:          strconv.FormatInt(now.UnixNano(), 10),
		MissionID:   m.ID,
		Title:       m.Title,
		Points:      m.Points,
		CompletedAt: now.Format(time.RFC3339),
		Type:        string(m.Type),
	}
	// The points are already persisted; a failed log write is logged in appendLog and
	// does not undo them.
	_ = s.appendLog(ctx, entry)

	after := StageForPoints(u.LifetimePoints)
	res := &CompleteResult{
		User:        u,
		Log:         entry,
		StageBefore: before,
		StageAfter:  after,
		StageUp:     after.Rank() > before.Rank(),
		Streak:      Streak(s.store.LoadLogs(ctx), now),
	}
	s.log.Info("mission completed",
		zap.String("mission", m.Title),
		zap.Int("points", m.Points),
		zap.Int("balance", u.Points),
		zap.String("stage", string(after)))
	return res, nil
}
