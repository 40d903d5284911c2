package record

import (
	"context"
	"testing"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/errors"
)

func TestMemoryStoreCreateAndGetOne(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, constants.CollectionEntries, map[string]any{
		constants.FieldProfile: "p1",
		constants.FieldDate:    "2024-03-01",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if created.ID == "" {
		t.Error("Create() should assign an id")
	}
	if created.Created.IsZero() || created.Updated.IsZero() {
		t.Error("Create() should set timestamps")
	}

	got, err := store.GetOne(ctx, constants.CollectionEntries, created.ID, Options{})
	if err != nil {
		t.Fatalf("GetOne() failed: %v", err)
	}
	if got.GetString(constants.FieldProfile) != "p1" {
		t.Errorf("GetOne() profile = %q, want %q", got.GetString(constants.FieldProfile), "p1")
	}
}

func TestMemoryStoreCreateValidatesSchema(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{"missing date", map[string]any{constants.FieldProfile: "p1"}},
		{"blank profile", map[string]any{constants.FieldProfile: "  ", constants.FieldDate: "2024-03-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, constants.CollectionEntries, tt.fields)
			var verr *errors.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Create() error = %v, want *ValidationError", err)
			}
		})
	}
}

func TestMemoryStoreCreateRejectsNonPositiveOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Create(ctx, constants.CollectionThings, map[string]any{
		constants.FieldEntry:   "e1",
		constants.FieldContent: "walked the dog",
		constants.FieldOrder:   0,
	})
	var verr *errors.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Create() with order 0 error = %v, want *ValidationError", err)
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, constants.CollectionEntries, map[string]any{
		constants.FieldProfile: "p1",
		constants.FieldDate:    "2024-03-01",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	updated, err := store.Update(ctx, constants.CollectionEntries, created.ID, map[string]any{
		constants.FieldBonusNotes: "sunny all day",
	})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if updated.GetString(constants.FieldBonusNotes) != "sunny all day" {
		t.Errorf("Update() notes = %q, want %q", updated.GetString(constants.FieldBonusNotes), "sunny all day")
	}
	if updated.GetString(constants.FieldProfile) != "p1" {
		t.Error("Update() should preserve untouched fields")
	}
	if !updated.Updated.After(created.Updated) {
		t.Error("Update() should advance the updated timestamp")
	}
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Update(context.Background(), constants.CollectionEntries, "nope", map[string]any{})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, _ := store.Create(ctx, constants.CollectionEntries, map[string]any{
		constants.FieldProfile: "p1",
		constants.FieldDate:    "2024-03-01",
	})

	if err := store.Delete(ctx, constants.CollectionEntries, created.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.GetOne(ctx, constants.CollectionEntries, created.ID, Options{}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetOne() after delete error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, constants.CollectionEntries, created.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreGetFullListFilterAndSort(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, day := range []string{"2024-03-02", "2024-03-01", "2024-03-03"} {
		if _, err := store.Create(ctx, constants.CollectionEntries, map[string]any{
			constants.FieldProfile: "p1",
			constants.FieldDate:    day,
		}); err != nil {
			t.Fatalf("Create(%s) failed: %v", day, err)
		}
	}
	// Another profile's entry must not leak through the filter.
	if _, err := store.Create(ctx, constants.CollectionEntries, map[string]any{
		constants.FieldProfile: "p2",
		constants.FieldDate:    "2024-03-01",
	}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	got, err := store.GetFullList(ctx, constants.CollectionEntries, Options{
		Filter: Eq(constants.FieldProfile, "p1"),
		Sort:   "-" + constants.FieldDate,
	})
	if err != nil {
		t.Fatalf("GetFullList() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("GetFullList() returned %d records, want 3", len(got))
	}
	wantOrder := []string{"2024-03-03", "2024-03-02", "2024-03-01"}
	for i, rec := range got {
		if rec.GetString(constants.FieldDate) != wantOrder[i] {
			t.Errorf("record %d date = %q, want %q", i, rec.GetString(constants.FieldDate), wantOrder[i])
		}
	}
}

func TestMemoryStoreGetListPagination(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Create(ctx, constants.CollectionProfiles, map[string]any{
			constants.FieldName: "profile",
		}); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	page1, err := store.GetList(ctx, constants.CollectionProfiles, 1, 2, Options{})
	if err != nil {
		t.Fatalf("GetList() failed: %v", err)
	}
	if page1.TotalItems != 5 || len(page1.Items) != 2 {
		t.Errorf("page 1: total = %d, items = %d, want 5 and 2", page1.TotalItems, len(page1.Items))
	}

	page3, err := store.GetList(ctx, constants.CollectionProfiles, 3, 2, Options{})
	if err != nil {
		t.Fatalf("GetList() failed: %v", err)
	}
	if len(page3.Items) != 1 {
		t.Errorf("page 3: items = %d, want 1", len(page3.Items))
	}

	past, err := store.GetList(ctx, constants.CollectionProfiles, 10, 2, Options{})
	if err != nil {
		t.Fatalf("GetList() failed: %v", err)
	}
	if len(past.Items) != 0 {
		t.Errorf("page past the end: items = %d, want 0", len(past.Items))
	}
}

func TestMemoryStoreExpand(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	profile, err := store.Create(ctx, constants.CollectionProfiles, map[string]any{
		constants.FieldName: "Maya",
	})
	if err != nil {
		t.Fatalf("Create(profile) failed: %v", err)
	}
	entry, err := store.Create(ctx, constants.CollectionEntries, map[string]any{
		constants.FieldProfile: profile.ID,
		constants.FieldDate:    "2024-03-01",
	})
	if err != nil {
		t.Fatalf("Create(entry) failed: %v", err)
	}

	got, err := store.GetOne(ctx, constants.CollectionEntries, entry.ID, Options{
		Expand: constants.FieldProfile,
	})
	if err != nil {
		t.Fatalf("GetOne() failed: %v", err)
	}
	joined, ok := got.Expand[constants.FieldProfile]
	if !ok {
		t.Fatal("GetOne() should resolve the profile expand")
	}
	if joined.GetString(constants.FieldName) != "Maya" {
		t.Errorf("expanded name = %q, want %q", joined.GetString(constants.FieldName), "Maya")
	}
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Create(ctx, constants.CollectionProfiles, map[string]any{constants.FieldName: "x"}); err == nil {
		t.Error("Create() with cancelled context should fail")
	}
	if _, err := store.GetFullList(ctx, constants.CollectionProfiles, Options{}); err == nil {
		t.Error("GetFullList() with cancelled context should fail")
	}
}
