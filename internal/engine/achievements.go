package engine

import (
	"context"

	"ecoquest/internal/storage"
)

// Achievement represents a badge the player can earn.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Earned      bool   `json:"earned"`
}

// AchievementChecker calculates which achievements the player has earned.
type AchievementChecker struct {
	user   storage.User
	logs   []storage.MissionLog
	streak int
}

func NewAchievementChecker(user storage.User, logs []storage.MissionLog, streak int) *AchievementChecker {
	return &AchievementChecker{user: user, logs: logs, streak: streak}
}

// GetAchievements returns all achievements with their earned status.
func (c *AchievementChecker) GetAchievements() []Achievement {
	return []Achievement{
		// Stage milestones
		c.stageAchievement("bloom", "In Bloom", "Reach the flower stage", "🌸", StageFlower),
		c.stageAchievement("harvest", "Harvest", "Reach the fruit stage", "🍎", StageFruit),
		c.stageAchievement("forest", "Full Grown", "Reach the tree stage", "🌳", StageTree),

		// Mission counts
		c.missionCountAchievement("first_mission", "First Step", "Complete 1 mission", "👣", 1),
		c.missionCountAchievement("regular", "Regular", "Complete 10 missions", "♻️", 10),
		c.missionCountAchievement("champion", "Eco Champion", "Complete 50 missions", "🏆", 50),

		// Streaks
		c.streakAchievement("three_days", "Three in a Row", "Keep a 3-day streak", "🔥", 3),
		c.streakAchievement("one_week", "Week Warrior", "Keep a 7-day streak", "📅", 7),

		// Variety
		c.categoryAchievement("all_rounder", "All-Rounder", "Complete a mission in every category", "🌍"),

		// Shop
		c.inventoryAchievement("decorator", "Decorator", "Own 3 shop items", "🎀", 3),
	}
}

// CountEarned returns how many achievements have been earned.
func (c *AchievementChecker) CountEarned() int {
	count := 0
	for _, a := range c.GetAchievements() {
		if a.Earned {
			count++
		}
	}
	return count
}

func (c *AchievementChecker) stageAchievement(id, name, desc, icon string, stage Stage) Achievement {
	earned := StageForPoints(c.user.LifetimePoints).Rank() >= stage.Rank()
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) missionCountAchievement(id, name, desc, icon string, count int) Achievement {
	earned := c.user.TotalMissionsCompleted >= count
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) streakAchievement(id, name, desc, icon string, days int) Achievement {
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.streak >= days}
}

func (c *AchievementChecker) categoryAchievement(id, name, desc, icon string) Achievement {
	seen := map[Category]bool{}
	for _, l := range c.logs {
		if cat := ParseCategory(l.Type); cat != "" {
			seen[cat] = true
		}
	}
	all := []Category{CategoryEnergy, CategoryTransport, CategoryWaste, CategoryFood, CategoryNature}
	earned := true
	for _, cat := range all {
		if !seen[cat] {
			earned = false
			break
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) inventoryAchievement(id, name, desc, icon string, count int) Achievement {
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: len(c.user.Inventory) >= count}
}

// Summary is the dashboard view of the player.
type Summary struct {
	User         storage.User  `json:"user"`
	Streak       int           `json:"streak"`
	LogCount     int           `json:"logCount"`
	NextStage    Stage         `json:"nextStage,omitempty"`
	NextStageAt  int           `json:"nextStageAt,omitempty"`
	ToNextStage  int           `json:"toNextStage"`
	Achievements []Achievement `json:"achievements"`
	BadgesEarned int           `json:"badgesEarned"`
}

// Summary gathers the profile, streak, stage progress and badges.
func (s *Service) Summary(ctx context.Context) Summary {
	s.mu.Lock()
	u := s.getUser(ctx)
	logs := s.store.LoadLogs(ctx)
	s.mu.Unlock()

	streak := Streak(logs, s.now())
	checker := NewAchievementChecker(u, logs, streak)
	sum := Summary{
		User:         u,
		Streak:       streak,
		LogCount:     len(logs),
		Achievements: checker.GetAchievements(),
		BadgesEarned: checker.CountEarned(),
	}
	if next, at, ok := NextStageThreshold(u.LifetimePoints); ok {
		sum.NextStage = next
		sum.NextStageAt = at
		sum.ToNextStage = at - u.LifetimePoints
	}
	return sum
}
