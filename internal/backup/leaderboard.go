package backup

import "sort"

// LeaderboardEntry is one player's position on the leaderboard.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	User     string `json:"user"`
	Points   int    `json:"points"`
	Missions int    `json:"missions"`
}

// Leaderboard totals points per user across rows and ranks them, highest first.
// Ties share a rank and are ordered by name. limit <= 0 returns everyone.
func Leaderboard(rows []Row, limit int) []LeaderboardEntry {
	byUser := map[string]*LeaderboardEntry{}
	for _, r := range rows {
		name := r.UserName()
		if name == "" {
			continue
		}
		e, ok := byUser[name]
		if !ok {
			e = &LeaderboardEntry{User: name}
			byUser[name] = e
		}
		e.Points += r.PointsValue()
		e.Missions++
	}

	out := make([]LeaderboardEntry, 0, len(byUser))
	for _, e := range byUser {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].User < out[j].User
	})

	for i := range out {
		if i > 0 && out[i].Points == out[i-1].Points {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
