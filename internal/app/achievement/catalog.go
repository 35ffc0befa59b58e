// Package achievement implements the Bloom badge engine.
// A fixed catalog of definitions, a per-user progress ledger persisted
// through a key-value store, and an evaluation algorithm that awards each
// achievement exactly once. Notification delivery is a decoupled,
// best-effort side effect.
package achievement

import (
	"github.com/bloom-wellness/bloom/internal/domain"
)

// Catalog holds the immutable achievement definitions plus two derived
// indices: by category, and by requirement type. Built once, read-only for
// the lifetime of the process.
type Catalog struct {
	defs          []domain.AchievementDef
	byCategory    map[domain.Category][]domain.AchievementDef
	byRequirement map[string][]domain.AchievementDef
}

// NewCatalog builds a catalog and its indices from the given definitions.
// Index slices preserve definition order, so fan-out evaluation and
// newly-earned results come back in catalog order.
func NewCatalog(defs []domain.AchievementDef) *Catalog {
	c := &Catalog{
		defs:          defs,
		byCategory:    make(map[domain.Category][]domain.AchievementDef),
		byRequirement: make(map[string][]domain.AchievementDef),
	}
	for _, d := range defs {
		c.byCategory[d.Category] = append(c.byCategory[d.Category], d)
		c.byRequirement[d.RequirementType] = append(c.byRequirement[d.RequirementType], d)
	}
	return c
}

// All returns every definition in catalog order.
func (c *Catalog) All() []domain.AchievementDef {
	return c.defs
}

// ByCategory returns the definitions in a category. Unknown categories
// return an empty list — not an error.
func (c *Catalog) ByCategory(cat domain.Category) []domain.AchievementDef {
	return c.byCategory[cat]
}

// ByRequirementType returns the ordered definitions tracking a counter.
// Unknown types return an empty list — not an error.
func (c *Catalog) ByRequirementType(t string) []domain.AchievementDef {
	return c.byRequirement[t]
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// ─── Achievement Definitions ────────────────────────────────────────────────
// 29 achievements across 9 categories. Thresholds fan out: several badges
// share one requirement type, each with its own bar.

// DefaultCatalog returns the full compiled-in Bloom badge catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog([]domain.AchievementDef{
		// ── Mood ───────────────────────────────────────────────────────
		{
			ID: "mood_first", Title: "First Feelings", Icon: "🌱",
			Description: "Log your first mood entry.",
			Category:    domain.CatMood, Rarity: domain.RarityCommon,
			Requirement: 1, RequirementType: domain.ReqMoodEntries,
		},
		{
			ID: "mood_10", Title: "Mood Mapper", Icon: "🗺️",
			Description: "Log 10 mood entries.",
			Category:    domain.CatMood, Rarity: domain.RarityCommon,
			Requirement: 10, RequirementType: domain.ReqMoodEntries,
		},
		{
			ID: "mood_50", Title: "Emotional Explorer", Icon: "🧭",
			Description: "Log 50 mood entries.",
			Category:    domain.CatMood, Rarity: domain.RarityUncommon,
			Requirement: 50, RequirementType: domain.ReqMoodEntries,
		},
		{
			ID: "mood_200", Title: "Inner Cartographer", Icon: "🌌",
			Description: "Log 200 mood entries.",
			Category:    domain.CatMood, Rarity: domain.RarityEpic,
			Requirement: 200, RequirementType: domain.ReqMoodEntries,
		},

		// ── Meditation ─────────────────────────────────────────────────
		{
			ID: "meditate_first", Title: "First Breath", Icon: "🧘",
			Description: "Complete your first meditation session.",
			Category:    domain.CatMeditation, Rarity: domain.RarityCommon,
			Requirement: 1, RequirementType: domain.ReqMeditationSessions,
		},
		{
			ID: "meditate_10", Title: "Settling In", Icon: "🪷",
			Description: "Complete 10 meditation sessions.",
			Category:    domain.CatMeditation, Rarity: domain.RarityUncommon,
			Requirement: 10, RequirementType: domain.ReqMeditationSessions,
		},
		{
			ID: "meditate_50", Title: "Still Waters", Icon: "🌊",
			Description: "Complete 50 meditation sessions.",
			Category:    domain.CatMeditation, Rarity: domain.RarityRare,
			Requirement: 50, RequirementType: domain.ReqMeditationSessions,
		},
		{
			ID: "meditate_hour", Title: "One Mindful Hour", Icon: "⏳",
			Description: "Reach 60 total minutes of meditation.",
			Category:    domain.CatMeditation, Rarity: domain.RarityUncommon,
			Requirement: 60, RequirementType: domain.ReqMeditationMinutes,
		},
		{
			ID: "meditate_ten_hours", Title: "Deep Practice", Icon: "🏔️",
			Description: "Reach 600 total minutes of meditation.",
			Category:    domain.CatMeditation, Rarity: domain.RarityEpic,
			Requirement: 600, RequirementType: domain.ReqMeditationMinutes,
		},

		// ── Journal ────────────────────────────────────────────────────
		{
			ID: "journal_first", Title: "Dear Diary", Icon: "📔",
			Description: "Write your first journal entry.",
			Category:    domain.CatJournal, Rarity: domain.RarityCommon,
			Requirement: 1, RequirementType: domain.ReqJournalEntries,
		},
		{
			ID: "journal_10", Title: "Storyteller", Icon: "✍️",
			Description: "Write 10 journal entries.",
			Category:    domain.CatJournal, Rarity: domain.RarityUncommon,
			Requirement: 10, RequirementType: domain.ReqJournalEntries,
		},
		{
			ID: "journal_100", Title: "Memoirist", Icon: "📚",
			Description: "Write 100 journal entries.",
			Category:    domain.CatJournal, Rarity: domain.RarityEpic,
			Requirement: 100, RequirementType: domain.ReqJournalEntries,
		},

		// ── Breathing ──────────────────────────────────────────────────
		{
			ID: "breathe_first", Title: "Take a Breather", Icon: "💨",
			Description: "Finish your first breathing exercise.",
			Category:    domain.CatBreathing, Rarity: domain.RarityCommon,
			Requirement: 1, RequirementType: domain.ReqBreathingSessions,
		},
		{
			ID: "breathe_25", Title: "Wind Whisperer", Icon: "🍃",
			Description: "Finish 25 breathing exercises.",
			Category:    domain.CatBreathing, Rarity: domain.RarityRare,
			Requirement: 25, RequirementType: domain.ReqBreathingSessions,
		},

		// ── Sleep ──────────────────────────────────────────────────────
		{
			ID: "sleep_first", Title: "Lights Out", Icon: "🌙",
			Description: "Log your first night of sleep.",
			Category:    domain.CatSleep, Rarity: domain.RarityCommon,
			Requirement: 1, RequirementType: domain.ReqSleepLogs,
		},
		{
			ID: "sleep_30", Title: "Rest Ritualist", Icon: "😴",
			Description: "Log 30 nights of sleep.",
			Category:    domain.CatSleep, Rarity: domain.RarityRare,
			Requirement: 30, RequirementType: domain.ReqSleepLogs,
		},

		// ── Social ─────────────────────────────────────────────────────
		{
			ID: "share_first", Title: "Open Up", Icon: "💬",
			Description: "Share your progress for the first time.",
			Category:    domain.CatSocial, Rarity: domain.RarityCommon,
			Requirement: 1, RequirementType: domain.ReqShares,
		},
		{
			ID: "share_10", Title: "Community Spirit", Icon: "🤝",
			Description: "Share your progress 10 times.",
			Category:    domain.CatSocial, Rarity: domain.RarityUncommon,
			Requirement: 10, RequirementType: domain.ReqShares,
		},

		// ── Streak ─────────────────────────────────────────────────────
		// Streak days are a running total maintained by the caller, so
		// these are driven through SetProgress rather than increments.
		{
			ID: "streak_3", Title: "Gathering Momentum", Icon: "✨",
			Description: "Check in 3 days in a row.",
			Category:    domain.CatStreak, Rarity: domain.RarityCommon,
			Requirement: 3, RequirementType: domain.ReqStreakDays,
		},
		{
			ID: "streak_7", Title: "Week of Calm", Icon: "🔥",
			Description: "Check in 7 days in a row.",
			Category:    domain.CatStreak, Rarity: domain.RarityUncommon,
			Requirement: 7, RequirementType: domain.ReqStreakDays,
		},
		{
			ID: "streak_30", Title: "Monthly Devotion", Icon: "💪",
			Description: "Check in 30 days in a row.",
			Category:    domain.CatStreak, Rarity: domain.RarityRare,
			Requirement: 30, RequirementType: domain.ReqStreakDays,
		},
		{
			ID: "streak_100", Title: "Centurion of Serenity", Icon: "🏛️",
			Description: "Check in 100 days in a row.",
			Category:    domain.CatStreak, Rarity: domain.RarityLegendary,
			Requirement: 100, RequirementType: domain.ReqStreakDays,
		},

		// ── Milestone (meta) ───────────────────────────────────────────
		// Counts earned badges across the whole catalog. Recomputed only
		// when CheckTotalEarned is called — never cascaded automatically.
		{
			ID: "collector_5", Title: "Badge Collector", Icon: "🎖️",
			Description: "Earn 5 achievements.",
			Category:    domain.CatMilestone, Rarity: domain.RarityUncommon,
			Requirement: 5, RequirementType: domain.ReqTotalAchievements,
		},
		{
			ID: "collector_15", Title: "Trophy Shelf", Icon: "🏆",
			Description: "Earn 15 achievements.",
			Category:    domain.CatMilestone, Rarity: domain.RarityRare,
			Requirement: 15, RequirementType: domain.ReqTotalAchievements,
		},
		{
			ID: "collector_25", Title: "Completionist", Icon: "👑",
			Description: "Earn 25 achievements.",
			Category:    domain.CatMilestone, Rarity: domain.RarityLegendary,
			Requirement: 25, RequirementType: domain.ReqTotalAchievements,
		},

		// ── Special ────────────────────────────────────────────────────
		{
			ID: "early_bird", Title: "Early Bird", Icon: "🐦",
			Description: "Check in before 7 AM.",
			Category:    domain.CatSpecial, Rarity: domain.RarityUncommon,
			Requirement: 1, RequirementType: domain.ReqMorningCheckins,
		},
		{
			ID: "early_bird_20", Title: "Dawn Patrol", Icon: "🌅",
			Description: "Check in before 7 AM on 20 days.",
			Category:    domain.CatSpecial, Rarity: domain.RarityEpic,
			Requirement: 20, RequirementType: domain.ReqMorningCheckins,
		},
		{
			ID: "night_owl", Title: "Night Owl", Icon: "🦉",
			Description: "Wind down after midnight.",
			Category:    domain.CatSpecial, Rarity: domain.RarityUncommon,
			Requirement: 1, RequirementType: domain.ReqNightCheckins,
		},
		{
			ID: "night_owl_20", Title: "Moonlit Mind", Icon: "🌕",
			Description: "Wind down after midnight on 20 nights.",
			Category:    domain.CatSpecial, Rarity: domain.RarityEpic,
			Requirement: 20, RequirementType: domain.ReqNightCheckins,
		},
	})
}
