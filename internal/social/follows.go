package social

import (
	"context"
	goerrors "errors"
	"fmt"
	"strings"
	"sync"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/errors"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/record"
)

var (
	ErrAlreadyFollowing = goerrors.New("already following this profile")
	ErrSelfFollow       = goerrors.New("cannot follow your own profile")
)

// FollowService tracks who a profile follows and the incoming follow
// requests for the profiles the user manages.
type FollowService struct {
	store record.Store

	mu        sync.Mutex
	following []models.Follow
	requests  []models.FollowRequest
}

func NewFollowService(store record.Store) *FollowService {
	return &FollowService{store: store}
}

// FetchFollowing loads the profiles the given profile follows, both
// accepted and still-pending.
func (s *FollowService) FetchFollowing(ctx context.Context, profileID string) ([]models.Follow, error) {
	recs, err := s.store.GetFullList(ctx, constants.CollectionFollowers, record.Options{
		Filter: record.Eq(constants.FieldFollower, profileID),
		Sort:   "-created",
		Expand: constants.FieldFollowing,
	})
	if err != nil {
		return nil, err
	}

	follows := make([]models.Follow, 0, len(recs))
	for _, rec := range recs {
		f := models.Follow{
			ID:      rec.ID,
			Status:  constants.FollowStatus(rec.GetString(constants.FieldStatus)),
			Created: rec.Created,
		}
		if joined, ok := rec.Expand[constants.FieldFollowing]; ok {
			p := models.ProfileFromRecord(joined)
			f.Profile = &p
		}
		follows = append(follows, f)
	}

	s.mu.Lock()
	s.following = follows
	s.mu.Unlock()
	return follows, nil
}

// Accepted returns the accepted follows from the cache.
func (s *FollowService) Accepted() []models.Follow {
	return s.filtered(constants.FollowAccepted)
}

// PendingFollowing returns follows still awaiting approval.
func (s *FollowService) PendingFollowing() []models.Follow {
	return s.filtered(constants.FollowPending)
}

func (s *FollowService) filtered(status constants.FollowStatus) []models.Follow {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Follow
	for _, f := range s.following {
		if f.Status == status {
			out = append(out, f)
		}
	}
	return out
}

// FetchRequests loads pending follow requests aimed at any of the given
// profiles (typically every profile the user manages).
func (s *FollowService) FetchRequests(ctx context.Context, profileIDs []string) ([]models.FollowRequest, error) {
	if len(profileIDs) == 0 {
		s.mu.Lock()
		s.requests = nil
		s.mu.Unlock()
		return nil, nil
	}

	recs, err := s.store.GetFullList(ctx, constants.CollectionFollowers, record.Options{
		Filter: record.And(
			record.AnyOf(constants.FieldFollowing, profileIDs...),
			record.Eq(constants.FieldStatus, string(constants.FollowPending)),
		),
		Sort:   "-created",
		Expand: constants.FieldFollower,
	})
	if err != nil {
		return nil, err
	}

	requests := make([]models.FollowRequest, 0, len(recs))
	for _, rec := range recs {
		req := models.FollowRequest{
			ID:                 rec.ID,
			FollowingProfileID: rec.GetString(constants.FieldFollowing),
			Created:            rec.Created,
		}
		if joined, ok := rec.Expand[constants.FieldFollower]; ok {
			p := models.ProfileFromRecord(joined)
			req.FollowerProfile = &p
		}
		requests = append(requests, req)
	}

	s.mu.Lock()
	s.requests = requests
	s.mu.Unlock()
	return requests, nil
}

// Requests returns a copy of the cached incoming requests.
func (s *FollowService) Requests() []models.FollowRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FollowRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// FollowByCode looks up a profile by share code and creates a pending
// follow from followerID. Following yourself or a profile you already
// follow is rejected before any write.
func (s *FollowService) FollowByCode(ctx context.Context, followerID, shareCode string) (models.Follow, error) {
	code := strings.TrimSpace(strings.ToUpper(shareCode))
	if code == "" {
		return models.Follow{}, &errors.ValidationError{Field: "share code", Reason: "cannot be blank"}
	}

	targets, err := s.store.GetList(ctx, constants.CollectionProfiles, 1, 1, record.Options{
		Filter: record.Eq(constants.FieldShareCode, code),
	})
	if err != nil {
		return models.Follow{}, err
	}
	if len(targets.Items) == 0 {
		return models.Follow{}, fmt.Errorf("no profile with share code %s: %w", code, errors.ErrNotFound)
	}
	target := models.ProfileFromRecord(targets.Items[0])

	if target.ID == followerID {
		return models.Follow{}, ErrSelfFollow
	}

	existing, err := s.store.GetList(ctx, constants.CollectionFollowers, 1, 1, record.Options{
		Filter: record.And(
			record.Eq(constants.FieldFollower, followerID),
			record.Eq(constants.FieldFollowing, target.ID),
		),
	})
	if err != nil {
		return models.Follow{}, err
	}
	if len(existing.Items) > 0 {
		return models.Follow{}, ErrAlreadyFollowing
	}

	rec, err := s.store.Create(ctx, constants.CollectionFollowers, map[string]any{
		constants.FieldFollower:  followerID,
		constants.FieldFollowing: target.ID,
		constants.FieldStatus:    string(constants.FollowPending),
	})
	if err != nil {
		return models.Follow{}, err
	}

	follow := models.Follow{
		ID:      rec.ID,
		Status:  constants.FollowPending,
		Profile: &target,
		Created: rec.Created,
	}
	s.mu.Lock()
	s.following = append([]models.Follow{follow}, s.following...)
	s.mu.Unlock()
	return follow, nil
}

// AcceptRequest approves a pending follow request.
func (s *FollowService) AcceptRequest(ctx context.Context, requestID string) error {
	if _, err := s.store.Update(ctx, constants.CollectionFollowers, requestID, map[string]any{
		constants.FieldStatus: string(constants.FollowAccepted),
	}); err != nil {
		return err
	}
	s.removeRequest(requestID)
	return nil
}

// DeclineRequest removes a pending follow request. Declines delete the
// record outright so the follower can ask again later.
func (s *FollowService) DeclineRequest(ctx context.Context, requestID string) error {
	if err := s.store.Delete(ctx, constants.CollectionFollowers, requestID); err != nil {
		return err
	}
	s.removeRequest(requestID)
	return nil
}

// Unfollow deletes a follow relationship by its record id.
func (s *FollowService) Unfollow(ctx context.Context, followID string) error {
	if err := s.store.Delete(ctx, constants.CollectionFollowers, followID); err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.following {
		if s.following[i].ID == followID {
			s.following = append(s.following[:i], s.following[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Clear drops cached follow state, for logout.
func (s *FollowService) Clear() {
	s.mu.Lock()
	s.following = nil
	s.requests = nil
	s.mu.Unlock()
}

func (s *FollowService) removeRequest(requestID string) {
	s.mu.Lock()
	for i := range s.requests {
		if s.requests[i].ID == requestID {
			s.requests = append(s.requests[:i], s.requests[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
}
