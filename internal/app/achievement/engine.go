package achievement

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bloom-wellness/bloom/internal/domain"
	"github.com/bloom-wellness/bloom/internal/infra/metrics"
)

// Engine translates activity signals into ledger mutations and a list of
// newly-earned achievements. Evaluation itself is pure (evaluate);
// persistence and notification dispatch are orchestration around it, and
// neither can fail an engine operation: a gamification subsystem must never
// block or break the user action that triggered the signal.
//
// All mutating operations on one Engine are serialized by an internal
// mutex. The ledger's read-modify-write cycle spans asynchronous I/O, so
// without serialization two interleaved signals could both read the
// pre-update value and one would overwrite the other's increment.
type Engine struct {
	catalog    *Catalog
	ledger     *ledger
	dispatcher domain.NotificationDispatcher

	mu  sync.Mutex
	now func() time.Time
}

// NewEngine creates an engine over the default catalog.
// dispatcher may be nil, in which case unlocks are recorded silently.
func NewEngine(store domain.KeyValueStore, dispatcher domain.NotificationDispatcher) *Engine {
	return NewEngineWithCatalog(DefaultCatalog(), store, dispatcher)
}

// NewEngineWithCatalog creates an engine over a custom catalog.
func NewEngineWithCatalog(catalog *Catalog, store domain.KeyValueStore, dispatcher domain.NotificationDispatcher) *Engine {
	return &Engine{
		catalog:    catalog,
		ledger:     newLedger(store),
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// ─── Signals ────────────────────────────────────────────────────────────────

// signal is one activity event to evaluate against the catalog.
type signal struct {
	requirementType string
	amount          int
	absolute        bool
}

// IncrementProgress adds amount to every unearned achievement tracking
// requirementType and returns the newly earned definitions in catalog
// order. Amounts below 1 count as 1. Unknown requirement types match zero
// definitions and return an empty result — not an error.
//
// Already-earned achievements are skipped entirely: no value drift, no
// re-notification.
func (e *Engine) IncrementProgress(ctx context.Context, requirementType string, amount int) []domain.AchievementDef {
	if amount < 1 {
		amount = 1
	}
	metrics.SignalsProcessed.WithLabelValues(requirementType, "increment").Inc()
	return e.process(ctx, signal{requirementType: requirementType, amount: amount})
}

// SetProgress assigns an absolute value to every unearned achievement
// tracking requirementType. This variant exists for counters maintained
// externally as running totals (a current streak length, the earned-badge
// count) where re-adding would double count. Negative values clamp to 0.
func (e *Engine) SetProgress(ctx context.Context, requirementType string, value int) []domain.AchievementDef {
	if value < 0 {
		value = 0
	}
	metrics.SignalsProcessed.WithLabelValues(requirementType, "absolute").Inc()
	return e.process(ctx, signal{requirementType: requirementType, amount: value, absolute: true})
}

func (e *Engine) process(ctx context.Context, sig signal) []domain.AchievementDef {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processLocked(ctx, sig)
}

// processLocked runs one signal: evaluate, persist once, then dispatch.
// Callers must hold e.mu.
func (e *Engine) processLocked(ctx context.Context, sig signal) []domain.AchievementDef {
	defs := e.catalog.ByRequirementType(sig.requirementType)
	if len(defs) == 0 {
		return nil
	}

	e.ledger.load(ctx)

	updates, newly := evaluate(defs, e.ledger.get, sig, e.now().UTC())
	if len(updates) == 0 {
		return newly
	}
	for id, p := range updates {
		e.ledger.set(id, p)
	}

	// One batched durability write per signal, before any notification:
	// dispatch failures must find the earned state already recorded.
	e.ledger.persist(ctx)

	for _, def := range newly {
		metrics.AchievementsEarned.WithLabelValues(string(def.Category), string(def.Rarity)).Inc()
		e.celebrate(ctx, def)
	}
	return newly
}

// evaluate is the pure evaluation step: given the definitions listening on
// a counter, a snapshot reader, and a signal, it returns the changed
// entries and the newly earned definitions in catalog order. It never
// touches storage or notifications.
func evaluate(
	defs []domain.AchievementDef,
	current func(id string) domain.AchievementProgress,
	sig signal,
	now time.Time,
) (map[string]domain.AchievementProgress, []domain.AchievementDef) {
	updates := make(map[string]domain.AchievementProgress)
	var newly []domain.AchievementDef

	for _, def := range defs {
		p := current(def.ID)
		if p.Earned {
			// Earned is monotonic and the counter is frozen.
			continue
		}

		if sig.absolute {
			p.CurrentValue = sig.amount
		} else {
			p.CurrentValue += sig.amount
		}
		if p.CurrentValue >= def.Requirement {
			p.Earned = true
			p.EarnedAt = now
			newly = append(newly, def)
		}
		updates[def.ID] = p
	}
	return updates, newly
}

// celebrate requests best-effort notification dispatch for one unlock.
// Permission denial and delivery failure are logged and swallowed — the
// achievement is already durably earned.
func (e *Engine) celebrate(ctx context.Context, def domain.AchievementDef) {
	if e.dispatcher == nil {
		return
	}

	granted, err := e.dispatcher.RequestPermission(ctx)
	if err != nil {
		log.Printf("[achievement] permission request for %q: %v (skipping notification)", def.ID, err)
		metrics.NotificationsSuppressed.WithLabelValues("permission_error").Inc()
		return
	}
	if !granted {
		metrics.NotificationsSuppressed.WithLabelValues("permission_denied").Inc()
		return
	}

	title := def.Icon + " Achievement unlocked: " + def.Title
	body := def.Description + " " + def.Rarity.CelebrationPhrase()
	meta := map[string]string{
		"achievement_id": def.ID,
		"category":       string(def.Category),
		"rarity":         string(def.Rarity),
	}

	deliveryID, err := e.dispatcher.SendImmediate(ctx, title, body, meta)
	if err != nil {
		log.Printf("[achievement] notify %q: %v (achievement already recorded)", def.ID, err)
		metrics.NotificationsSuppressed.WithLabelValues("delivery_error").Inc()
		return
	}
	if deliveryID == "" {
		// Suppressed by dispatcher policy; the dispatcher records why.
		return
	}
	metrics.NotificationsSent.Inc()
}

// ─── Reads ──────────────────────────────────────────────────────────────────

// AllWithProgress returns every catalog definition paired with its current
// progress, in catalog order. Unset entries default to zero/unearned.
// A pure read — no mutation.
func (e *Engine) AllWithProgress(ctx context.Context) []domain.AchievementStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger.load(ctx)

	out := make([]domain.AchievementStatus, 0, e.catalog.Len())
	for _, def := range e.catalog.All() {
		out = append(out, domain.AchievementStatus{
			Definition: def,
			Progress:   e.ledger.get(def.ID),
		})
	}
	return out
}

// EarnedCount returns how many achievements are earned.
func (e *Engine) EarnedCount(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger.load(ctx)
	return e.ledger.earnedCount()
}

// ─── Meta-Achievement ───────────────────────────────────────────────────────

// CheckTotalEarned recomputes the "total achievements earned" counter and
// evaluates the milestone badges against it. This is deliberately not
// cascaded after every unlock: callers invoke it when they want the
// milestone badges brought up to date, so the count can lag reality until
// then.
func (e *Engine) CheckTotalEarned(ctx context.Context) []domain.AchievementDef {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger.load(ctx)

	count := e.ledger.earnedCount()
	metrics.SignalsProcessed.WithLabelValues(domain.ReqTotalAchievements, "absolute").Inc()
	return e.processLocked(ctx, signal{
		requirementType: domain.ReqTotalAchievements,
		amount:          count,
		absolute:        true,
	})
}

// ─── Reset ──────────────────────────────────────────────────────────────────

// ResetProgress clears the entire ledger and its persisted snapshot.
// Test/debug utility; there is no per-achievement reset because earning
// is monotonic.
func (e *Engine) ResetProgress(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger.reset(ctx)
}
