package reactions

import (
	"context"
	"testing"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/record"
)

func seedProfile(t *testing.T, store record.Store, name string) record.Record {
	t.Helper()
	rec, err := store.Create(context.Background(), constants.CollectionProfiles, map[string]any{
		constants.FieldName: name,
	})
	if err != nil {
		t.Fatalf("seed profile %s: %v", name, err)
	}
	return rec
}

func seedReaction(t *testing.T, store record.Store, thingID, profileID, emoji string) record.Record {
	t.Helper()
	rec, err := store.Create(context.Background(), constants.CollectionReactions, map[string]any{
		constants.FieldThing:   thingID,
		constants.FieldProfile: profileID,
		constants.FieldEmoji:   emoji,
	})
	if err != nil {
		t.Fatalf("seed reaction: %v", err)
	}
	return rec
}

func TestFetchForThingsGroupsByThing(t *testing.T) {
	store := record.NewMemoryStore()
	svc := New(store)
	ctx := context.Background()

	pat := seedProfile(t, store, "Pat")
	sam := seedProfile(t, store, "Sam")
	seedReaction(t, store, "thing1", pat.ID, "❤️")
	seedReaction(t, store, "thing1", sam.ID, "🎉")
	seedReaction(t, store, "thing2", pat.ID, "😂")
	seedReaction(t, store, "other", sam.ID, "😮")

	if err := svc.FetchForThings(ctx, []string{"thing1", "thing2"}); err != nil {
		t.Fatalf("FetchForThings() failed: %v", err)
	}

	if got := svc.ForThing("thing1"); len(got) != 2 {
		t.Errorf("ForThing(thing1) = %d, want 2", len(got))
	}
	if got := svc.ForThing("thing2"); len(got) != 1 {
		t.Errorf("ForThing(thing2) = %d, want 1", len(got))
	}
	// The unrequested thing was never loaded.
	if got := svc.ForThing("other"); len(got) != 0 {
		t.Errorf("ForThing(other) = %d, want 0", len(got))
	}
}

func TestFetchForThingsReplacesStaleGroups(t *testing.T) {
	store := record.NewMemoryStore()
	svc := New(store)
	ctx := context.Background()

	pat := seedProfile(t, store, "Pat")
	rec := seedReaction(t, store, "thing1", pat.ID, "❤️")

	if err := svc.FetchForThings(ctx, []string{"thing1"}); err != nil {
		t.Fatalf("FetchForThings() failed: %v", err)
	}
	if err := store.Delete(ctx, constants.CollectionReactions, rec.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := svc.FetchForThings(ctx, []string{"thing1"}); err != nil {
		t.Fatalf("refetch failed: %v", err)
	}

	if got := svc.ForThing("thing1"); len(got) != 0 {
		t.Errorf("ForThing() = %d after server-side delete, want 0", len(got))
	}
}

func TestFetchForThingsEmptyIDs(t *testing.T) {
	svc := New(record.NewMemoryStore())
	if err := svc.FetchForThings(context.Background(), nil); err != nil {
		t.Errorf("FetchForThings(nil) failed: %v", err)
	}
}

func TestFetchForThingsResolvesProfileNames(t *testing.T) {
	store := record.NewMemoryStore()
	svc := New(store)
	ctx := context.Background()

	pat := seedProfile(t, store, "Pat")
	seedReaction(t, store, "thing1", pat.ID, "❤️")
	seedReaction(t, store, "thing1", "gone-profile", "🎉")

	if err := svc.FetchForThings(ctx, []string{"thing1"}); err != nil {
		t.Fatalf("FetchForThings() failed: %v", err)
	}

	byProfile := make(map[string]string)
	for _, r := range svc.ForThing("thing1") {
		byProfile[r.ProfileID] = r.ProfileName
	}
	if byProfile[pat.ID] != "Pat" {
		t.Errorf("name = %q, want Pat", byProfile[pat.ID])
	}
	// An unresolvable profile keeps the placeholder name.
	if byProfile["gone-profile"] != "Unknown" {
		t.Errorf("name = %q, want Unknown", byProfile["gone-profile"])
	}
}

func TestCountsExcludeViewer(t *testing.T) {
	store := record.NewMemoryStore()
	svc := New(store)
	ctx := context.Background()

	pat := seedProfile(t, store, "Pat")
	sam := seedProfile(t, store, "Sam")
	kim := seedProfile(t, store, "Kim")
	seedReaction(t, store, "thing1", pat.ID, "❤️")
	seedReaction(t, store, "thing1", sam.ID, "❤️")
	seedReaction(t, store, "thing1", kim.ID, "🎉")

	if err := svc.FetchForThings(ctx, []string{"thing1"}); err != nil {
		t.Fatalf("FetchForThings() failed: %v", err)
	}

	counts := svc.Counts("thing1", pat.ID)
	if counts["❤️"] != 1 || counts["🎉"] != 1 {
		t.Errorf("Counts() = %v, want viewer's heart excluded", counts)
	}

	all := svc.Counts("thing1", "")
	if all["❤️"] != 2 {
		t.Errorf("Counts() without exclusion = %v", all)
	}
}

func TestToggleCycle(t *testing.T) {
	store := record.NewMemoryStore()
	svc := New(store)
	ctx := context.Background()

	pat := seedProfile(t, store, "Pat")

	// No reaction yet: toggle creates one.
	if err := svc.Toggle(ctx, "thing1", pat.ID, "❤️"); err != nil {
		t.Fatalf("first Toggle() failed: %v", err)
	}
	mine := svc.MyReaction("thing1", pat.ID)
	if mine == nil || mine.Emoji != "❤️" {
		t.Fatalf("MyReaction() = %+v, want heart", mine)
	}
	if mine.ProfileName != "Pat" {
		t.Errorf("ProfileName = %q, want Pat", mine.ProfileName)
	}

	// A different emoji replaces in place, keeping one record.
	if err := svc.Toggle(ctx, "thing1", pat.ID, "🎉"); err != nil {
		t.Fatalf("replace Toggle() failed: %v", err)
	}
	mine = svc.MyReaction("thing1", pat.ID)
	if mine == nil || mine.Emoji != "🎉" {
		t.Fatalf("MyReaction() = %+v, want celebrate", mine)
	}
	recs, err := store.GetFullList(ctx, constants.CollectionReactions, record.Options{})
	if err != nil {
		t.Fatalf("GetFullList() failed: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("reactions = %d after replace, want 1", len(recs))
	}

	// The same emoji again removes the reaction entirely.
	if err := svc.Toggle(ctx, "thing1", pat.ID, "🎉"); err != nil {
		t.Fatalf("remove Toggle() failed: %v", err)
	}
	if mine := svc.MyReaction("thing1", pat.ID); mine != nil {
		t.Errorf("MyReaction() = %+v after removal, want nil", mine)
	}
	recs, err = store.GetFullList(ctx, constants.CollectionReactions, record.Options{})
	if err != nil {
		t.Fatalf("GetFullList() failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("reactions = %d after removal, want 0", len(recs))
	}
}

func TestToggleUnknownProfileDegrades(t *testing.T) {
	store := record.NewMemoryStore()
	svc := New(store)

	if err := svc.Toggle(context.Background(), "thing1", "ghost", "❤️"); err != nil {
		t.Fatalf("Toggle() failed: %v", err)
	}
	mine := svc.MyReaction("thing1", "ghost")
	if mine == nil || mine.ProfileName != "Unknown" {
		t.Errorf("MyReaction() = %+v, want Unknown placeholder name", mine)
	}
}

func TestClear(t *testing.T) {
	store := record.NewMemoryStore()
	svc := New(store)
	ctx := context.Background()

	pat := seedProfile(t, store, "Pat")
	seedReaction(t, store, "thing1", pat.ID, "❤️")
	if err := svc.FetchForThings(ctx, []string{"thing1"}); err != nil {
		t.Fatalf("FetchForThings() failed: %v", err)
	}

	svc.Clear()
	if got := svc.ForThing("thing1"); len(got) != 0 {
		t.Errorf("ForThing() = %d after Clear(), want 0", len(got))
	}
}

func TestEmojiPalette(t *testing.T) {
	if len(All) == 0 {
		t.Fatal("empty palette")
	}
	for _, e := range All {
		if e.Code == "" || e.Emoji == "" || e.Label == "" {
			t.Errorf("incomplete palette entry %+v", e)
		}
		if got := EmojiByCode(e.Code); got != e.Emoji {
			t.Errorf("EmojiByCode(%q) = %q, want %q", e.Code, got, e.Emoji)
		}
		if code := CodeByEmoji(e.Emoji); code != e.Code {
			t.Errorf("CodeByEmoji(%q) = %q, want %q", e.Emoji, code, e.Code)
		}
	}
	if got := EmojiByCode("nope"); got != "" {
		t.Errorf("EmojiByCode(nope) = %q, want empty", got)
	}
}
