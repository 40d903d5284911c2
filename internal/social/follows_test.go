package social

import (
	"context"
	"testing"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/errors"
	"github.com/daybook-app/daybook/internal/record"
)

// seedProfile creates a bare profile with a share code.
func seedProfile(t *testing.T, store record.Store, name, shareCode string) record.Record {
	t.Helper()
	rec, err := store.Create(context.Background(), constants.CollectionProfiles, map[string]any{
		constants.FieldName:      name,
		constants.FieldIsManaged: false,
		constants.FieldShareCode: shareCode,
	})
	if err != nil {
		t.Fatalf("seed profile %s: %v", name, err)
	}
	return rec
}

func TestFollowByCode(t *testing.T) {
	store := record.NewMemoryStore()
	svc := NewFollowService(store)
	ctx := context.Background()

	me := seedProfile(t, store, "Pat", "AAA-BBB-CCC")
	target := seedProfile(t, store, "Sam", "XYZ-234-QRS")

	// Lowercase and padding are tolerated.
	follow, err := svc.FollowByCode(ctx, me.ID, "  xyz-234-qrs ")
	if err != nil {
		t.Fatalf("FollowByCode() failed: %v", err)
	}
	if follow.Status != constants.FollowPending {
		t.Errorf("status = %q, want pending", follow.Status)
	}
	if follow.Profile == nil || follow.Profile.ID != target.ID {
		t.Errorf("followed profile = %+v, want Sam", follow.Profile)
	}

	// The new follow lands at the front of the cache, still pending.
	pending := svc.PendingFollowing()
	if len(pending) != 1 || pending[0].ID != follow.ID {
		t.Errorf("PendingFollowing() = %+v", pending)
	}
	if accepted := svc.Accepted(); len(accepted) != 0 {
		t.Errorf("Accepted() = %+v, want none", accepted)
	}
}

func TestFollowByCodeRejections(t *testing.T) {
	store := record.NewMemoryStore()
	svc := NewFollowService(store)
	ctx := context.Background()

	me := seedProfile(t, store, "Pat", "AAA-BBB-CCC")
	seedProfile(t, store, "Sam", "XYZ-234-QRS")

	t.Run("blank code", func(t *testing.T) {
		_, err := svc.FollowByCode(ctx, me.ID, "   ")
		var verr *errors.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("error = %v, want *ValidationError", err)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := svc.FollowByCode(ctx, me.ID, "NOP-NOP-NOP")
		if !errors.Is(err, errors.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("own code", func(t *testing.T) {
		_, err := svc.FollowByCode(ctx, me.ID, "AAA-BBB-CCC")
		if !errors.Is(err, ErrSelfFollow) {
			t.Errorf("error = %v, want ErrSelfFollow", err)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		if _, err := svc.FollowByCode(ctx, me.ID, "XYZ-234-QRS"); err != nil {
			t.Fatalf("first follow failed: %v", err)
		}
		_, err := svc.FollowByCode(ctx, me.ID, "XYZ-234-QRS")
		if !errors.Is(err, ErrAlreadyFollowing) {
			t.Errorf("error = %v, want ErrAlreadyFollowing", err)
		}
	})
}

func TestFetchFollowingSplitsByStatus(t *testing.T) {
	store := record.NewMemoryStore()
	svc := NewFollowService(store)
	ctx := context.Background()

	me := seedProfile(t, store, "Pat", "AAA-BBB-CCC")
	sam := seedProfile(t, store, "Sam", "XYZ-234-QRS")
	kim := seedProfile(t, store, "Kim", "KKK-MMM-NNN")

	if _, err := store.Create(ctx, constants.CollectionFollowers, map[string]any{
		constants.FieldFollower:  me.ID,
		constants.FieldFollowing: sam.ID,
		constants.FieldStatus:    string(constants.FollowAccepted),
	}); err != nil {
		t.Fatalf("seed follow: %v", err)
	}
	if _, err := store.Create(ctx, constants.CollectionFollowers, map[string]any{
		constants.FieldFollower:  me.ID,
		constants.FieldFollowing: kim.ID,
		constants.FieldStatus:    string(constants.FollowPending),
	}); err != nil {
		t.Fatalf("seed follow: %v", err)
	}

	follows, err := svc.FetchFollowing(ctx, me.ID)
	if err != nil {
		t.Fatalf("FetchFollowing() failed: %v", err)
	}
	if len(follows) != 2 {
		t.Fatalf("FetchFollowing() = %d, want 2", len(follows))
	}

	accepted := svc.Accepted()
	if len(accepted) != 1 || accepted[0].Profile == nil || accepted[0].Profile.Name != "Sam" {
		t.Errorf("Accepted() = %+v, want Sam", accepted)
	}
	pending := svc.PendingFollowing()
	if len(pending) != 1 || pending[0].Profile == nil || pending[0].Profile.Name != "Kim" {
		t.Errorf("PendingFollowing() = %+v, want Kim", pending)
	}
}

func TestFetchRequests(t *testing.T) {
	store := record.NewMemoryStore()
	svc := NewFollowService(store)
	ctx := context.Background()

	mine := seedProfile(t, store, "Pat", "AAA-BBB-CCC")
	sam := seedProfile(t, store, "Sam", "XYZ-234-QRS")

	sender := NewFollowService(store)
	if _, err := sender.FollowByCode(ctx, sam.ID, "AAA-BBB-CCC"); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	requests, err := svc.FetchRequests(ctx, []string{mine.ID})
	if err != nil {
		t.Fatalf("FetchRequests() failed: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("FetchRequests() = %d, want 1", len(requests))
	}
	req := requests[0]
	if req.FollowerProfile == nil || req.FollowerProfile.Name != "Sam" {
		t.Errorf("FollowerProfile = %+v, want Sam", req.FollowerProfile)
	}
	if req.FollowingProfileID != mine.ID {
		t.Errorf("FollowingProfileID = %q, want %q", req.FollowingProfileID, mine.ID)
	}
	if got := svc.Requests(); len(got) != 1 {
		t.Errorf("Requests() = %d, want 1", len(got))
	}
}

func TestFetchRequestsEmptyProfiles(t *testing.T) {
	svc := NewFollowService(record.NewMemoryStore())

	requests, err := svc.FetchRequests(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchRequests() failed: %v", err)
	}
	if len(requests) != 0 {
		t.Errorf("FetchRequests() = %d, want 0", len(requests))
	}
}

func TestAcceptRequest(t *testing.T) {
	store := record.NewMemoryStore()
	svc := NewFollowService(store)
	ctx := context.Background()

	mine := seedProfile(t, store, "Pat", "AAA-BBB-CCC")
	sam := seedProfile(t, store, "Sam", "XYZ-234-QRS")
	sender := NewFollowService(store)
	if _, err := sender.FollowByCode(ctx, sam.ID, "AAA-BBB-CCC"); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	requests, err := svc.FetchRequests(ctx, []string{mine.ID})
	if err != nil {
		t.Fatalf("FetchRequests() failed: %v", err)
	}
	if err := svc.AcceptRequest(ctx, requests[0].ID); err != nil {
		t.Fatalf("AcceptRequest() failed: %v", err)
	}

	rec, err := store.GetOne(ctx, constants.CollectionFollowers, requests[0].ID, record.Options{})
	if err != nil {
		t.Fatalf("GetOne() failed: %v", err)
	}
	if rec.GetString(constants.FieldStatus) != string(constants.FollowAccepted) {
		t.Errorf("status = %q, want accepted", rec.GetString(constants.FieldStatus))
	}
	if got := svc.Requests(); len(got) != 0 {
		t.Errorf("Requests() = %d after accept, want 0", len(got))
	}
}

func TestDeclineRequestDeletesRecord(t *testing.T) {
	store := record.NewMemoryStore()
	svc := NewFollowService(store)
	ctx := context.Background()

	mine := seedProfile(t, store, "Pat", "AAA-BBB-CCC")
	sam := seedProfile(t, store, "Sam", "XYZ-234-QRS")
	sender := NewFollowService(store)
	if _, err := sender.FollowByCode(ctx, sam.ID, "AAA-BBB-CCC"); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	requests, err := svc.FetchRequests(ctx, []string{mine.ID})
	if err != nil {
		t.Fatalf("FetchRequests() failed: %v", err)
	}
	if err := svc.DeclineRequest(ctx, requests[0].ID); err != nil {
		t.Fatalf("DeclineRequest() failed: %v", err)
	}

	// A decline deletes the record, so the same follower may ask again.
	if _, err := store.GetOne(ctx, constants.CollectionFollowers, requests[0].ID, record.Options{}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("record still exists after decline: %v", err)
	}
	if _, err := sender.FollowByCode(ctx, sam.ID, "AAA-BBB-CCC"); err != nil {
		t.Errorf("re-follow after decline failed: %v", err)
	}
}

func TestUnfollow(t *testing.T) {
	store := record.NewMemoryStore()
	svc := NewFollowService(store)
	ctx := context.Background()

	me := seedProfile(t, store, "Pat", "AAA-BBB-CCC")
	seedProfile(t, store, "Sam", "XYZ-234-QRS")
	follow, err := svc.FollowByCode(ctx, me.ID, "XYZ-234-QRS")
	if err != nil {
		t.Fatalf("FollowByCode() failed: %v", err)
	}

	if err := svc.Unfollow(ctx, follow.ID); err != nil {
		t.Fatalf("Unfollow() failed: %v", err)
	}
	if _, err := store.GetOne(ctx, constants.CollectionFollowers, follow.ID, record.Options{}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("follow record still exists: %v", err)
	}
	if got := svc.PendingFollowing(); len(got) != 0 {
		t.Errorf("cache still holds the follow: %+v", got)
	}
}

func TestFollowClear(t *testing.T) {
	store := record.NewMemoryStore()
	svc := NewFollowService(store)
	ctx := context.Background()

	me := seedProfile(t, store, "Pat", "AAA-BBB-CCC")
	seedProfile(t, store, "Sam", "XYZ-234-QRS")
	if _, err := svc.FollowByCode(ctx, me.ID, "XYZ-234-QRS"); err != nil {
		t.Fatalf("FollowByCode() failed: %v", err)
	}

	svc.Clear()
	if len(svc.PendingFollowing()) != 0 || len(svc.Requests()) != 0 {
		t.Error("Clear() left cached state behind")
	}
}
