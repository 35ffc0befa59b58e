// Package domain — achievement engine types.
// The badge engine rewards consistent wellness habits: one immutable
// catalog of definitions, one per-user progress ledger, exactly-once
// earning. Design rule: celebration, not pressure.
package domain

import "time"

// ─── Catalog Types ──────────────────────────────────────────────────────────

// Category groups achievements by the wellness habit they track.
type Category string

const (
	CatMood       Category = "mood"
	CatMeditation Category = "meditation"
	CatJournal    Category = "journal"
	CatBreathing  Category = "breathing"
	CatSleep      Category = "sleep"
	CatSocial     Category = "social"
	CatStreak     Category = "streak"
	CatMilestone  Category = "milestone"
	CatSpecial    Category = "special"
)

// Rarity ranks how hard an achievement is to earn. It only selects the
// celebratory phrase on the unlock notification — it never affects
// evaluation.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// CelebrationPhrase returns the rarity-appropriate line appended to an
// unlock notification.
func (r Rarity) CelebrationPhrase() string {
	switch r {
	case RarityUncommon:
		return "Nice work — keep it going!"
	case RarityRare:
		return "Impressive dedication!"
	case RarityEpic:
		return "Remarkable! Few make it this far."
	case RarityLegendary:
		return "Legendary. You are an inspiration."
	default:
		return "A great first step!"
	}
}

// ─── Requirement Types ──────────────────────────────────────────────────────
// A requirement type names the activity counter an achievement threshold is
// measured against. Several achievements may share one (fan-out): a single
// signal updates every definition listening on that counter.

const (
	ReqMoodEntries        = "mood_entries"
	ReqMeditationSessions = "meditation_sessions"
	ReqMeditationMinutes  = "meditation_minutes"
	ReqJournalEntries     = "journal_entries"
	ReqBreathingSessions  = "breathing_sessions"
	ReqSleepLogs          = "sleep_logs"
	ReqShares             = "shares"
	ReqStreakDays         = "streak_days"         // Absolute: callers report the running total
	ReqMorningCheckins    = "morning_checkins"
	ReqNightCheckins      = "night_checkins"
	ReqTotalAchievements  = "total_achievements"  // Meta: recomputed only on explicit request
)

// AchievementDef defines a single achievement. Definitions are compiled in,
// loaded once per process, and never mutated.
type AchievementDef struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Icon            string   `json:"icon"`
	Category        Category `json:"category"`
	Rarity          Rarity   `json:"rarity"`
	Requirement     int      `json:"requirement"`      // Threshold, always > 0
	RequirementType string   `json:"requirement_type"` // Counter this threshold measures
}

// ─── Progress Types ─────────────────────────────────────────────────────────

// AchievementProgress is the mutable per-achievement ledger entry.
// The zero value means "no progress, not earned" — absence of an entry and
// the zero value are interchangeable.
//
// Once Earned is true the entry is frozen: CurrentValue stops moving and
// EarnedAt never changes.
type AchievementProgress struct {
	CurrentValue int       `json:"current_value"`
	Earned       bool      `json:"earned"`
	EarnedAt     time.Time `json:"earned_at,omitzero"`
}

// AchievementStatus pairs a definition with its current progress, for
// display surfaces.
type AchievementStatus struct {
	Definition AchievementDef      `json:"definition"`
	Progress   AchievementProgress `json:"progress"`
}

// Pct returns completion percentage (0-100), pinned to 100 once earned.
func (s AchievementStatus) Pct() float64 {
	if s.Progress.Earned {
		return 100.0
	}
	if s.Definition.Requirement <= 0 {
		return 0.0
	}
	pct := float64(s.Progress.CurrentValue) / float64(s.Definition.Requirement) * 100.0
	if pct > 100.0 {
		pct = 100.0
	}
	return pct
}
