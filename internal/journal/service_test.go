package journal

import (
	"context"
	"testing"
	"time"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/errors"
	"github.com/daybook-app/daybook/internal/record"
	"github.com/daybook-app/daybook/internal/utils"
)

// countingStore wraps a Store and counts calls per operation, for
// asserting that cached paths skip the backend.
type countingStore struct {
	record.Store
	creates int
	lists   int
}

func (c *countingStore) Create(ctx context.Context, collection string, fields map[string]any) (record.Record, error) {
	c.creates++
	return c.Store.Create(ctx, collection, fields)
}

func (c *countingStore) GetList(ctx context.Context, collection string, page, perPage int, opts record.Options) (record.List, error) {
	c.lists++
	return c.Store.GetList(ctx, collection, page, perPage, opts)
}

// relistStore wraps a Store and runs a hook once after a list call
// returns, before the caller sees the result.
type relistStore struct {
	record.Store
	onList func()
}

func (r *relistStore) GetList(ctx context.Context, collection string, page, perPage int, opts record.Options) (record.List, error) {
	res, err := r.Store.GetList(ctx, collection, page, perPage, opts)
	if r.onList != nil {
		fn := r.onList
		r.onList = nil
		fn()
	}
	return res, err
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDay(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestLoadForDateEmptyDay(t *testing.T) {
	svc := New(record.NewMemoryStore())

	entry, err := svc.LoadForDate(context.Background(), "p1", day(t, "2024-03-01"))
	if err != nil {
		t.Fatalf("LoadForDate() failed: %v", err)
	}
	if entry != nil {
		t.Errorf("LoadForDate() on an empty day = %+v, want nil", entry)
	}
	if things := svc.Things(); len(things) != 0 {
		t.Errorf("Things() = %d items, want 0", len(things))
	}

	profileID, d := svc.Context()
	if profileID != "p1" || d != "2024-03-01" {
		t.Errorf("Context() = (%q, %q), want (p1, 2024-03-01)", profileID, d)
	}
}

func TestLoadForDateBlankProfile(t *testing.T) {
	svc := New(record.NewMemoryStore())

	entry, err := svc.LoadForDate(context.Background(), "", day(t, "2024-03-01"))
	if err != nil {
		t.Fatalf("LoadForDate() failed: %v", err)
	}
	if entry != nil {
		t.Error("LoadForDate() with blank profile should return nil without querying")
	}
}

func TestLoadForDateStaleResultDiscarded(t *testing.T) {
	mem := record.NewMemoryStore()
	ctx := context.Background()

	seed := New(mem)
	if _, err := seed.MaterializeEntry(ctx, "p1", "2024-03-01"); err != nil {
		t.Fatalf("MaterializeEntry() failed: %v", err)
	}
	newer, err := seed.MaterializeEntry(ctx, "p1", "2024-03-02")
	if err != nil {
		t.Fatalf("MaterializeEntry() failed: %v", err)
	}

	store := &relistStore{Store: mem}
	svc := New(store)

	// While the first day's load is still in flight, the user moves on
	// to the next day and that load completes first.
	store.onList = func() {
		if _, err := svc.LoadForDate(ctx, "p1", day(t, "2024-03-02")); err != nil {
			t.Errorf("LoadForDate(2024-03-02) failed: %v", err)
		}
	}

	_, err = svc.LoadForDate(ctx, "p1", day(t, "2024-03-01"))
	if !errors.Is(err, errors.ErrSuperseded) {
		t.Fatalf("stale LoadForDate() error = %v, want ErrSuperseded", err)
	}

	// The stale result must not overwrite the newer one.
	entry := svc.Entry()
	if entry == nil || entry.ID != newer.ID {
		t.Errorf("Entry() = %+v, want the 2024-03-02 entry", entry)
	}
	if _, d := svc.Context(); d != "2024-03-02" {
		t.Errorf("Context() day = %q, want 2024-03-02", d)
	}
}

func TestEnsureEntryRequiresContext(t *testing.T) {
	svc := New(record.NewMemoryStore())

	_, err := svc.EnsureEntry(context.Background())
	if !errors.Is(err, errors.ErrNoActiveContext) {
		t.Errorf("EnsureEntry() error = %v, want ErrNoActiveContext", err)
	}
}

func TestEnsureEntryIdempotent(t *testing.T) {
	store := &countingStore{Store: record.NewMemoryStore()}
	svc := New(store)
	ctx := context.Background()

	if _, err := svc.LoadForDate(ctx, "p1", day(t, "2024-03-01")); err != nil {
		t.Fatalf("LoadForDate() failed: %v", err)
	}

	first, err := svc.EnsureEntry(ctx)
	if err != nil {
		t.Fatalf("EnsureEntry() failed: %v", err)
	}
	if first.ProfileID != "p1" || first.Date != "2024-03-01" {
		t.Errorf("entry = %+v, want p1/2024-03-01", first)
	}
	if store.creates != 1 {
		t.Fatalf("first EnsureEntry() issued %d creates, want 1", store.creates)
	}

	second, err := svc.EnsureEntry(ctx)
	if err != nil {
		t.Fatalf("second EnsureEntry() failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second EnsureEntry() id = %q, want %q", second.ID, first.ID)
	}
	if store.creates != 1 {
		t.Errorf("second EnsureEntry() issued %d extra creates, want 0", store.creates-1)
	}
}

func TestMaterializeEntryFindsExisting(t *testing.T) {
	store := &countingStore{Store: record.NewMemoryStore()}
	svc := New(store)
	ctx := context.Background()

	first, err := svc.MaterializeEntry(ctx, "p1", "2024-03-01")
	if err != nil {
		t.Fatalf("MaterializeEntry() failed: %v", err)
	}

	// A fresh service against the same store must find, not duplicate.
	other := New(store)
	second, err := other.MaterializeEntry(ctx, "p1", "2024-03-01")
	if err != nil {
		t.Fatalf("MaterializeEntry() failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second materialize id = %q, want %q", second.ID, first.ID)
	}
	if store.creates != 1 {
		t.Errorf("creates = %d, want 1", store.creates)
	}
}

func TestEntryMatchedRegardlessOfStoredPrecision(t *testing.T) {
	store := record.NewMemoryStore()
	ctx := context.Background()

	// Entries written by other clients carry full timestamps in the date
	// field; the day view must still find them.
	if _, err := store.Create(ctx, constants.CollectionEntries, map[string]any{
		constants.FieldProfile: "p1",
		constants.FieldDate:    "2024-03-01 00:00:00.000Z",
	}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	svc := New(store)
	entry, err := svc.LoadForDate(ctx, "p1", day(t, "2024-03-01"))
	if err != nil {
		t.Fatalf("LoadForDate() failed: %v", err)
	}
	if entry == nil {
		t.Fatal("LoadForDate() should find the timestamped entry")
	}
	if entry.Date != "2024-03-01" {
		t.Errorf("entry date = %q, want the day prefix", entry.Date)
	}
}

func TestSaveBonusNotes(t *testing.T) {
	store := &countingStore{Store: record.NewMemoryStore()}
	svc := New(store)
	ctx := context.Background()

	if _, err := svc.LoadForDate(ctx, "p1", day(t, "2024-03-01")); err != nil {
		t.Fatalf("LoadForDate() failed: %v", err)
	}

	// Blank notes on a blank day must not materialize an entry.
	if err := svc.SaveBonusNotes(ctx, "   "); err != nil {
		t.Fatalf("SaveBonusNotes() failed: %v", err)
	}
	if store.creates != 0 {
		t.Fatalf("blank save created %d records, want 0", store.creates)
	}

	if err := svc.SaveBonusNotes(ctx, "long walk by the river"); err != nil {
		t.Fatalf("SaveBonusNotes() failed: %v", err)
	}
	entry := svc.Entry()
	if entry == nil {
		t.Fatal("entry should exist after saving notes")
	}
	if entry.BonusNotes != "long walk by the river" {
		t.Errorf("notes = %q", entry.BonusNotes)
	}

	// Clearing notes keeps the entry but empties the field.
	if err := svc.SaveBonusNotes(ctx, ""); err != nil {
		t.Fatalf("SaveBonusNotes(\"\") failed: %v", err)
	}
	entry = svc.Entry()
	if entry == nil || entry.BonusNotes != "" {
		t.Errorf("after clear, entry = %+v", entry)
	}
}

func TestEntriesForMonth(t *testing.T) {
	store := record.NewMemoryStore()
	svc := New(store)
	ctx := context.Background()

	for _, d := range []string{"2024-02-29", "2024-03-01", "2024-03-15", "2024-03-31", "2024-04-01"} {
		if _, err := svc.MaterializeEntry(ctx, "p1", d); err != nil {
			t.Fatalf("MaterializeEntry(%s) failed: %v", d, err)
		}
	}
	// Another profile in range stays out.
	if _, err := svc.MaterializeEntry(ctx, "p2", "2024-03-10"); err != nil {
		t.Fatalf("MaterializeEntry() failed: %v", err)
	}

	entries, err := svc.EntriesForMonth(ctx, "p1", 2024, time.March)
	if err != nil {
		t.Fatalf("EntriesForMonth() failed: %v", err)
	}
	want := []string{"2024-03-31", "2024-03-15", "2024-03-01"}
	if len(entries) != len(want) {
		t.Fatalf("EntriesForMonth() returned %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Date != want[i] {
			t.Errorf("entry %d date = %q, want %q", i, e.Date, want[i])
		}
	}
}

func TestClear(t *testing.T) {
	svc := New(record.NewMemoryStore())
	ctx := context.Background()

	if _, err := svc.LoadForDate(ctx, "p1", day(t, "2024-03-01")); err != nil {
		t.Fatalf("LoadForDate() failed: %v", err)
	}
	if _, err := svc.EnsureEntry(ctx); err != nil {
		t.Fatalf("EnsureEntry() failed: %v", err)
	}

	svc.Clear()

	if svc.Entry() != nil {
		t.Error("Entry() after Clear() should be nil")
	}
	if profileID, d := svc.Context(); profileID != "" || d != "" {
		t.Errorf("Context() after Clear() = (%q, %q), want empty", profileID, d)
	}
}

func TestSubscribeNotifies(t *testing.T) {
	svc := New(record.NewMemoryStore())
	ctx := context.Background()

	calls := 0
	cancel := svc.Subscribe(func() { calls++ })

	if _, err := svc.LoadForDate(ctx, "p1", day(t, "2024-03-01")); err != nil {
		t.Fatalf("LoadForDate() failed: %v", err)
	}
	if calls == 0 {
		t.Error("listener should fire on LoadForDate")
	}

	before := calls
	cancel()
	svc.Clear()
	if calls != before {
		t.Error("cancelled listener should not fire")
	}
}
