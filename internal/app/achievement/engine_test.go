package achievement_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bloom-wellness/bloom/internal/app/achievement"
	"github.com/bloom-wellness/bloom/internal/domain"
)

// ═══ Test Doubles ═══════════════════════════════════════════════════════════

// memStore is an in-memory KeyValueStore.
type memStore struct {
	mu   sync.Mutex
	data map[string]string

	failReads  bool
	failWrites bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) GetString(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return "", errors.New("store unavailable")
	}
	return m.data[key], nil
}

func (m *memStore) SetString(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errors.New("store unavailable")
	}
	m.data[key] = value
	return nil
}

func (m *memStore) DeleteKey(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// fakeDispatcher records every delivered notification.
type fakeDispatcher struct {
	mu        sync.Mutex
	granted   bool
	permErr   error
	sendErr   error
	delivered []deliveredNote
}

type deliveredNote struct {
	title string
	body  string
	meta  map[string]string
}

func (d *fakeDispatcher) RequestPermission(context.Context) (bool, error) {
	return d.granted, d.permErr
}

func (d *fakeDispatcher) SendImmediate(_ context.Context, title, body string, meta map[string]string) (string, error) {
	if d.sendErr != nil {
		return "", d.sendErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, deliveredNote{title: title, body: body, meta: meta})
	return "delivery-1", nil
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.delivered)
}

// testCatalog keeps thresholds small and fan-out explicit.
func testCatalog(t *testing.T) *achievement.Catalog {
	t.Helper()
	return achievement.NewCatalog([]domain.AchievementDef{
		{ID: "mood_first", Title: "First Feelings", Icon: "🌱", Category: domain.CatMood, Rarity: domain.RarityCommon, Requirement: 1, RequirementType: domain.ReqMoodEntries},
		{ID: "mood_10", Title: "Mood Mapper", Icon: "🗺️", Category: domain.CatMood, Rarity: domain.RarityUncommon, Requirement: 10, RequirementType: domain.ReqMoodEntries},
		{ID: "mood_50", Title: "Emotional Explorer", Icon: "🧭", Category: domain.CatMood, Rarity: domain.RarityRare, Requirement: 50, RequirementType: domain.ReqMoodEntries},
		{ID: "streak_7", Title: "One Week Wonder", Icon: "🔥", Category: domain.CatStreak, Rarity: domain.RarityUncommon, Requirement: 7, RequirementType: domain.ReqStreakDays},
		{ID: "collector_2", Title: "Collector", Icon: "🏆", Category: domain.CatMilestone, Rarity: domain.RarityUncommon, Requirement: 2, RequirementType: domain.ReqTotalAchievements},
	})
}

func newTestEngine(t *testing.T) (*achievement.Engine, *memStore, *fakeDispatcher) {
	t.Helper()
	store := newMemStore()
	disp := &fakeDispatcher{granted: true}
	return achievement.NewEngineWithCatalog(testCatalog(t), store, disp), store, disp
}

func requireEarned(t *testing.T, eng *achievement.Engine, id string, want bool) {
	t.Helper()
	for _, st := range eng.AllWithProgress(context.Background()) {
		if st.Definition.ID == id {
			if st.Progress.Earned != want {
				t.Fatalf("achievement %q earned = %v, want %v", id, st.Progress.Earned, want)
			}
			return
		}
	}
	t.Fatalf("achievement %q not in catalog", id)
}

// ═══ Increment Path ═════════════════════════════════════════════════════════

func TestIncrementFanOut(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	// One mood entry advances all three mood badges and earns the first.
	newly := eng.IncrementProgress(ctx, domain.ReqMoodEntries, 1)
	if len(newly) != 1 || newly[0].ID != "mood_first" {
		t.Fatalf("newly = %v, want [mood_first]", newly)
	}

	for _, st := range eng.AllWithProgress(ctx) {
		if st.Definition.RequirementType != domain.ReqMoodEntries {
			continue
		}
		if st.Progress.CurrentValue != 1 {
			t.Errorf("%s: CurrentValue = %d, want 1", st.Definition.ID, st.Progress.CurrentValue)
		}
	}
	requireEarned(t, eng, "mood_first", true)
	requireEarned(t, eng, "mood_10", false)
}

func TestIncrementThresholdScenario(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	// Requirement 10, starting at 4, increments of 4: 8 then 12.
	eng.IncrementProgress(ctx, domain.ReqMoodEntries, 4)
	if newly := eng.IncrementProgress(ctx, domain.ReqMoodEntries, 4); len(newly) != 0 {
		t.Fatalf("at value 8 newly = %v, want none", newly)
	}
	newly := eng.IncrementProgress(ctx, domain.ReqMoodEntries, 4)
	if len(newly) != 1 || newly[0].ID != "mood_10" {
		t.Fatalf("at value 12 newly = %v, want [mood_10]", newly)
	}
	requireEarned(t, eng, "mood_10", true)
}

func TestIncrementClampsBelowOne(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	eng.IncrementProgress(ctx, domain.ReqMoodEntries, 0)
	eng.IncrementProgress(ctx, domain.ReqMoodEntries, -5)

	for _, st := range eng.AllWithProgress(ctx) {
		if st.Definition.ID == "mood_10" && st.Progress.CurrentValue != 2 {
			t.Fatalf("CurrentValue = %d, want 2 (each signal counts as 1)", st.Progress.CurrentValue)
		}
	}
}

func TestEarnedExactlyOnce(t *testing.T) {
	eng, _, disp := newTestEngine(t)
	ctx := context.Background()

	eng.IncrementProgress(ctx, domain.ReqMoodEntries, 1) // earns mood_first
	first := eng.AllWithProgress(ctx)

	// Further signals: counter frozen, timestamp frozen, no re-notification.
	newly := eng.IncrementProgress(ctx, domain.ReqMoodEntries, 1)
	for _, d := range newly {
		if d.ID == "mood_first" {
			t.Fatal("mood_first reported as newly earned twice")
		}
	}

	var before, after domain.AchievementProgress
	for _, st := range first {
		if st.Definition.ID == "mood_first" {
			before = st.Progress
		}
	}
	for _, st := range eng.AllWithProgress(ctx) {
		if st.Definition.ID == "mood_first" {
			after = st.Progress
		}
	}
	if after.CurrentValue != before.CurrentValue {
		t.Errorf("earned counter moved: %d -> %d", before.CurrentValue, after.CurrentValue)
	}
	if !after.EarnedAt.Equal(before.EarnedAt) {
		t.Errorf("EarnedAt changed: %v -> %v", before.EarnedAt, after.EarnedAt)
	}
	if got := disp.count(); got != 1 {
		t.Errorf("notifications = %d, want 1", got)
	}
}

// ═══ Absolute Path ══════════════════════════════════════════════════════════

func TestSetProgressVsIncrement(t *testing.T) {
	ctx := context.Background()

	// Absolute: reporting the same total twice does not double count.
	eng, _, _ := newTestEngine(t)
	eng.SetProgress(ctx, domain.ReqStreakDays, 5)
	eng.SetProgress(ctx, domain.ReqStreakDays, 5)
	for _, st := range eng.AllWithProgress(ctx) {
		if st.Definition.ID == "streak_7" && st.Progress.CurrentValue != 5 {
			t.Fatalf("absolute: CurrentValue = %d, want 5", st.Progress.CurrentValue)
		}
	}

	// Cumulative: the same amounts add up.
	eng2, _, _ := newTestEngine(t)
	eng2.IncrementProgress(ctx, domain.ReqMoodEntries, 5)
	eng2.IncrementProgress(ctx, domain.ReqMoodEntries, 5)
	for _, st := range eng2.AllWithProgress(ctx) {
		if st.Definition.ID == "mood_10" {
			if st.Progress.CurrentValue != 10 {
				t.Fatalf("cumulative: CurrentValue = %d, want 10", st.Progress.CurrentValue)
			}
			if !st.Progress.Earned {
				t.Fatal("mood_10 should be earned at 10")
			}
		}
	}
}

func TestSetProgressCanDecrease(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	// A broken streak legitimately goes back to 1.
	eng.SetProgress(ctx, domain.ReqStreakDays, 6)
	eng.SetProgress(ctx, domain.ReqStreakDays, 1)
	for _, st := range eng.AllWithProgress(ctx) {
		if st.Definition.ID == "streak_7" {
			if st.Progress.CurrentValue != 1 {
				t.Fatalf("CurrentValue = %d, want 1", st.Progress.CurrentValue)
			}
			if st.Progress.Earned {
				t.Fatal("streak_7 earned on a reset streak")
			}
		}
	}
}

// ═══ Meta-Achievement ═══════════════════════════════════════════════════════

func TestCheckTotalEarnedLags(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	eng.IncrementProgress(ctx, domain.ReqMoodEntries, 1)       // mood_first
	eng.SetProgress(ctx, domain.ReqStreakDays, 7)              // streak_7
	requireEarned(t, eng, "collector_2", false)                // not cascaded

	newly := eng.CheckTotalEarned(ctx)
	if len(newly) != 1 || newly[0].ID != "collector_2" {
		t.Fatalf("newly = %v, want [collector_2]", newly)
	}
	requireEarned(t, eng, "collector_2", true)

	// Idempotent once earned.
	if again := eng.CheckTotalEarned(ctx); len(again) != 0 {
		t.Fatalf("repeat check newly = %v, want none", again)
	}
}

// ═══ Collaborator Failure Containment ═══════════════════════════════════════

func TestDispatcherFailuresContained(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		disp *fakeDispatcher
	}{
		{"permission error", &fakeDispatcher{permErr: errors.New("service down")}},
		{"permission denied", &fakeDispatcher{granted: false}},
		{"send error", &fakeDispatcher{granted: true, sendErr: errors.New("delivery failed")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			eng := achievement.NewEngineWithCatalog(testCatalog(t), store, tc.disp)

			newly := eng.IncrementProgress(ctx, domain.ReqMoodEntries, 1)
			if len(newly) != 1 {
				t.Fatalf("newly = %v, want one earned despite dispatcher failure", newly)
			}
			requireEarned(t, eng, "mood_first", true)
		})
	}
}

func TestNilDispatcher(t *testing.T) {
	store := newMemStore()
	eng := achievement.NewEngineWithCatalog(testCatalog(t), store, nil)

	newly := eng.IncrementProgress(context.Background(), domain.ReqMoodEntries, 1)
	if len(newly) != 1 {
		t.Fatalf("newly = %v, want [mood_first]", newly)
	}
}

func TestStoreFailuresContained(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.failWrites = true
	eng := achievement.NewEngineWithCatalog(testCatalog(t), store, nil)

	// Writes fail, but progress still advances in memory.
	eng.IncrementProgress(ctx, domain.ReqMoodEntries, 1)
	requireEarned(t, eng, "mood_first", true)
	if got := eng.EarnedCount(ctx); got != 1 {
		t.Fatalf("EarnedCount = %d, want 1", got)
	}
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	if err := store.SetString(ctx, "achievement_progress", "{not json"); err != nil {
		t.Fatal(err)
	}
	eng := achievement.NewEngineWithCatalog(testCatalog(t), store, nil)

	if got := eng.EarnedCount(ctx); got != 0 {
		t.Fatalf("EarnedCount = %d, want 0 after corrupt snapshot", got)
	}
	// And the engine stays usable.
	if newly := eng.IncrementProgress(ctx, domain.ReqMoodEntries, 1); len(newly) != 1 {
		t.Fatalf("newly = %v, want [mood_first]", newly)
	}
}

// ═══ Persistence ════════════════════════════════════════════════════════════

func TestProgressSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	eng := achievement.NewEngineWithCatalog(testCatalog(t), store, nil)
	eng.IncrementProgress(ctx, domain.ReqMoodEntries, 1)
	eng.IncrementProgress(ctx, domain.ReqMoodEntries, 3)

	// A fresh engine over the same store hydrates the saved ledger.
	eng2 := achievement.NewEngineWithCatalog(testCatalog(t), store, nil)
	requireEarned(t, eng2, "mood_first", true)
	for _, st := range eng2.AllWithProgress(ctx) {
		if st.Definition.ID == "mood_10" && st.Progress.CurrentValue != 4 {
			t.Fatalf("restored CurrentValue = %d, want 4", st.Progress.CurrentValue)
		}
	}
	if got := eng2.EarnedCount(ctx); got != 1 {
		t.Fatalf("EarnedCount = %d, want 1", got)
	}
}

func TestResetProgress(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	eng := achievement.NewEngineWithCatalog(testCatalog(t), store, nil)

	eng.IncrementProgress(ctx, domain.ReqMoodEntries, 1)
	eng.ResetProgress(ctx)

	if got := eng.EarnedCount(ctx); got != 0 {
		t.Fatalf("EarnedCount = %d, want 0 after reset", got)
	}
	if v, _ := store.GetString(ctx, "achievement_progress"); v != "" {
		t.Fatalf("snapshot still present after reset: %q", v)
	}
}

// ═══ Reads & Concurrency ════════════════════════════════════════════════════

func TestAllWithProgressCatalogOrder(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	all := eng.AllWithProgress(context.Background())

	cat := testCatalog(t)
	if len(all) != cat.Len() {
		t.Fatalf("len = %d, want %d", len(all), cat.Len())
	}
	for i, def := range cat.All() {
		if all[i].Definition.ID != def.ID {
			t.Fatalf("position %d: got %q, want %q", i, all[i].Definition.ID, def.ID)
		}
	}
}

func TestConcurrentIncrements(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	const workers, per = 8, 5
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < per; j++ {
				eng.IncrementProgress(ctx, domain.ReqMoodEntries, 1)
			}
		}()
	}
	wg.Wait()

	for _, st := range eng.AllWithProgress(ctx) {
		if st.Definition.ID == "mood_50" && st.Progress.CurrentValue != workers*per {
			t.Fatalf("CurrentValue = %d, want %d (lost update)", st.Progress.CurrentValue, workers*per)
		}
	}
}

func TestUnknownRequirementType(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	if newly := eng.IncrementProgress(context.Background(), "unknown_counter", 1); len(newly) != 0 {
		t.Fatalf("newly = %v, want none for unknown type", newly)
	}
}
