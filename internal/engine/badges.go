package engine

import (
	"context"
	"fmt"

	"growthcoach/internal/storage"
)

// Badge is an earned (or earnable) milestone.
type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Earned      bool
}

// BadgeChecker computes badge state from profile and habit data already
// in memory.
type BadgeChecker struct {
	profile     *storage.Profile
	habits      []storage.Habit
	completions int
}

func NewBadgeChecker(profile *storage.Profile, habits []storage.Habit, completionCount int) *BadgeChecker {
	return &BadgeChecker{profile: profile, habits: habits, completions: completionCount}
}

func (c *BadgeChecker) Badges() []Badge {
	growthHabits := 0
	anchors := 0
	for _, h := range c.habits {
		if GoalMode(h.GoalMode) == ModeGrowth {
			growthHabits++
		}
		if Category(h.Category) == CategoryAnchor {
			anchors++
		}
	}

	return []Badge{
		c.levelBadge("sprout", "Sprout", "Reach level 2", "🌱", 2),
		c.levelBadge("sapling", "Sapling", "Reach level 5", "🌿", 5),
		c.levelBadge("oak", "Oak", "Reach level 10", "🌳", 10),
		c.levelBadge("redwood", "Redwood", "Reach level 20", "🌲", 20),

		c.streakBadge("week_one", "Week One", "7-day full streak", "🔥", 7),
		c.streakBadge("three_weeks", "Three Weeks", "21-day full streak", "💥", 21),
		c.streakBadge("two_months", "Two Months", "60-day full streak", "☄️", 60),

		c.countBadge("first_log", "First Log", "Log 1 completion", "✓", 1),
		c.countBadge("fifty_logs", "Fifty Logs", "Log 50 completions", "📋", 50),
		c.countBadge("two_hundred", "Two Hundred", "Log 200 completions", "🏅", 200),

		{
			ID: "growing", Name: "Growing", Icon: "📈",
			Description: "Promote a habit out of trial mode",
			Earned:      growthHabits >= 1,
		},
		{
			ID: "anchored", Name: "Anchored", Icon: "⚓",
			Description: "Keep an anchor practice",
			Earned:      anchors >= 1,
		},
	}
}

func (c *BadgeChecker) levelBadge(id, name, desc, icon string, level int) Badge {
	return Badge{ID: id, Name: name, Description: desc, Icon: icon, Earned: LevelForXP(c.profile.XP) >= level}
}

func (c *BadgeChecker) streakBadge(id, name, desc, icon string, days int) Badge {
	return Badge{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.profile.DailyStreak >= days}
}

func (c *BadgeChecker) countBadge(id, name, desc, icon string, n int) Badge {
	return Badge{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.completions >= n}
}

// Badges loads the data a checker needs and returns the full badge list.
func (s *Service) Badges(ctx context.Context) ([]Badge, error) {
	p, err := s.getProfile(ctx)
	if err != nil {
		return nil, err
	}
	habits, err := s.habits.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.completions.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("badge completion count: %w", err)
	}
	return NewBadgeChecker(p, habits, count).Badges(), nil
}
