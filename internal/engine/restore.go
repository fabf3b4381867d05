package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"ecoquest/internal/backup"
	"ecoquest/internal/storage"
)

// RecoveredTitle is used for remote rows without a mission title.
const RecoveredTitle = "Recovered mission"

// RowSource provides every remote backup row.
type RowSource interface {
	FetchRows(ctx context.Context) ([]backup.Row, error)
}

type RestoreResult struct {
	// Found is false when the remote source has no rows for the name. Nothing is
	// written in that case.
	Found   bool
	Message string
	Total   int
	User    storage.User
	Logs    []storage.MissionLog
}

// Restore replaces the local log and point totals with what the remote source holds
// for userName. It is a destructive "adopt remote as truth" operation, not a merge.
// Any fetch or decode error aborts before local state is touched.
func (s *Service) Restore(ctx context.Context, src RowSource, userName string) (*RestoreResult, error) {
	target := strings.TrimSpace(userName)

	rows, err := src.FetchRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	now := s.now()
	logs := RecoverLogs(rows, target, now)
	if len(logs) == 0 {
		return &RestoreResult{
			Found:   false,
			Message: fmt.Sprintf("no records found for '%s'", target),
		}, nil
	}

	total := 0
	for _, l := range logs {
		total += l.Points
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.getUser(ctx)
	u.Points = total
	u.LifetimePoints = total
	u.TotalMissionsCompleted = len(logs)
	u.Stage = string(StageForPoints(total))
	if err := s.store.ReplaceHistory(ctx, u, logs); err != nil {
		s.log.Error("failed to save restored history", zap.Error(err))
	}

	s.log.Info("restored from backup",
		zap.String("user", target),
		zap.Int("rows", len(logs)),
		zap.Int("total", total))
	return &RestoreResult{
		Found:   true,
		Message: fmt.Sprintf("restored %d missions, %dP total", len(logs), total),
		Total:   total,
		User:    u,
		Logs:    logs,
	}, nil
}

// RecoverLogs maps the rows belonging to target (exact match after trimming) to
// mission log entries.
func RecoverLogs(rows []backup.Row, target string, now time.Time) []storage.MissionLog {
	target = strings.TrimSpace(target)
	stamp := now.UnixMilli()

	var out []storage.MissionLog
	for _, r := range rows {
		if r.UserName() == "" || r.UserName() != target {
			continue
		}
		i := len(out)
		title := r.MissionTitle()
		if title == "" {
			title = RecoveredTitle
		}
		completedAt := r.TimestampString()
		if completedAt == "" {
			completedAt = now.Format(time.RFC3339)
		}
		out = append(out, storage.MissionLog{
			ID:          fmt.Sprintf("rec-%d-%d", i, stamp),
			MissionID:   fmt.Sprintf("sheet-%d", i),
			Title:       title,
			Points:      r.PointsValue(),
			CompletedAt: completedAt,
			Type:        RecoveredType,
		})
	}
	return out
}
