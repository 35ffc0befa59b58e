package achievement

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/bloom-wellness/bloom/internal/domain"
	"github.com/bloom-wellness/bloom/internal/infra/metrics"
)

// Fixed storage keys. The full ledger is serialized as a flat list under
// progressKey; the earned count is mirrored under earnedCountKey so display
// surfaces can read it without parsing the snapshot.
const (
	progressKey    = "achievement_progress"
	earnedCountKey = "achievement_earned_count"
)

// progressRecord is the wire shape of one ledger entry. The list is
// order-irrelevant on disk; entries are keyed by achievement ID.
type progressRecord struct {
	ID           string     `json:"id"`
	CurrentValue int        `json:"current_value"`
	Earned       bool       `json:"earned"`
	EarnedAt     *time.Time `json:"earned_at,omitempty"`
}

// ledger owns the authoritative in-memory progress map and keeps it
// synchronized with the key-value store. It is not safe for concurrent
// use — the engine serializes all access behind its mutex.
type ledger struct {
	store   domain.KeyValueStore
	entries map[string]domain.AchievementProgress
	loaded  bool
}

func newLedger(store domain.KeyValueStore) *ledger {
	return &ledger{
		store:   store,
		entries: make(map[string]domain.AchievementProgress),
	}
}

// load hydrates the in-memory map from the stored snapshot on first use.
// A missing or unparsable snapshot is treated as an empty ledger: losing a
// gamification snapshot must never take the app down with it.
func (l *ledger) load(ctx context.Context) {
	if l.loaded {
		return
	}
	l.loaded = true

	raw, err := l.store.GetString(ctx, progressKey)
	if err != nil {
		log.Printf("[achievement] read snapshot: %v (starting empty)", err)
		metrics.SnapshotLoadFailures.Inc()
		return
	}
	if raw == "" {
		return
	}

	var records []progressRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Printf("[achievement] parse snapshot: %v (starting empty)", err)
		metrics.SnapshotLoadFailures.Inc()
		return
	}

	for _, r := range records {
		p := domain.AchievementProgress{
			CurrentValue: r.CurrentValue,
			Earned:       r.Earned,
		}
		if r.EarnedAt != nil {
			p.EarnedAt = *r.EarnedAt
		}
		l.entries[r.ID] = p
	}
}

// get returns the entry for an achievement ID, or the zero value.
func (l *ledger) get(id string) domain.AchievementProgress {
	return l.entries[id]
}

// set updates the in-memory map.
func (l *ledger) set(id string, p domain.AchievementProgress) {
	l.entries[id] = p
}

// earnedCount returns the number of earned entries.
func (l *ledger) earnedCount() int {
	n := 0
	for _, p := range l.entries {
		if p.Earned {
			n++
		}
	}
	return n
}

// persist serializes the full map and writes it back in one batch.
// A write failure is logged and swallowed: the in-memory map stays
// authoritative for the rest of the session, and the next successful
// persist still carries the full cumulative state.
func (l *ledger) persist(ctx context.Context) {
	records := make([]progressRecord, 0, len(l.entries))
	for id, p := range l.entries {
		r := progressRecord{
			ID:           id,
			CurrentValue: p.CurrentValue,
			Earned:       p.Earned,
		}
		if p.Earned {
			at := p.EarnedAt
			r.EarnedAt = &at
		}
		records = append(records, r)
	}
	// Stable on-disk ordering keeps snapshots diffable.
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	raw, err := json.Marshal(records)
	if err != nil {
		log.Printf("[achievement] encode snapshot: %v", err)
		metrics.PersistFailures.Inc()
		return
	}
	if err := l.store.SetString(ctx, progressKey, string(raw)); err != nil {
		log.Printf("[achievement] write snapshot: %v (in-memory state retained)", err)
		metrics.PersistFailures.Inc()
		return
	}
	if err := l.store.SetString(ctx, earnedCountKey, strconv.Itoa(l.earnedCount())); err != nil {
		log.Printf("[achievement] write earned count: %v", err)
	}
}

// reset clears the in-memory map and deletes the persisted keys.
func (l *ledger) reset(ctx context.Context) {
	l.entries = make(map[string]domain.AchievementProgress)
	l.loaded = true
	if err := l.store.DeleteKey(ctx, progressKey); err != nil {
		log.Printf("[achievement] delete snapshot: %v", err)
	}
	if err := l.store.DeleteKey(ctx, earnedCountKey); err != nil {
		log.Printf("[achievement] delete earned count: %v", err)
	}
}
