// Package social covers the profile graph around the journal: the
// profiles a user manages and the follow relationships between profiles.
package social

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/errors"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/record"
)

// ProfileService tracks the profiles the session user manages: their
// self profile plus any managed profiles they administer for others.
type ProfileService struct {
	store record.Store

	mu       sync.Mutex
	profiles []models.Profile
	activeID string
}

func NewProfileService(store record.Store) *ProfileService {
	return &ProfileService{store: store}
}

// Fetch loads all profiles the user manages via the manager join
// collection. The active profile defaults to the self profile when the
// previous selection is gone.
func (s *ProfileService) Fetch(ctx context.Context, userID string) ([]models.Profile, error) {
	recs, err := s.store.GetFullList(ctx, constants.CollectionProfileManagers, record.Options{
		Filter: record.Eq(constants.FieldUser, userID),
		Expand: constants.FieldProfile,
	})
	if err != nil {
		return nil, err
	}

	profiles := make([]models.Profile, 0, len(recs))
	for _, rec := range recs {
		joined, ok := rec.Expand[constants.FieldProfile]
		if !ok {
			continue
		}
		profiles = append(profiles, models.ProfileFromRecord(joined))
	}

	s.mu.Lock()
	s.profiles = profiles
	if s.lookupLocked(s.activeID) == nil {
		if self := s.selfLocked(); self != nil {
			s.activeID = self.ID
		} else if len(profiles) > 0 {
			s.activeID = profiles[0].ID
		}
	}
	s.mu.Unlock()

	return profiles, nil
}

// Profiles returns a copy of the loaded profile list.
func (s *ProfileService) Profiles() []models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Profile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// IDs returns the ids of every profile the user manages.
func (s *ProfileService) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.profiles))
	for i, p := range s.profiles {
		ids[i] = p.ID
	}
	return ids
}

// Active returns the selected profile, falling back to the first loaded
// one. Nil when nothing is loaded.
func (s *ProfileService) Active() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.lookupLocked(s.activeID); p != nil {
		return p
	}
	if len(s.profiles) > 0 {
		p := s.profiles[0]
		return &p
	}
	return nil
}

// Self returns the user's own (non-managed) profile, or nil.
func (s *ProfileService) Self() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selfLocked()
}

// Managed returns the managed profiles only.
func (s *ProfileService) Managed() []models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Profile
	for _, p := range s.profiles {
		if p.IsManaged {
			out = append(out, p)
		}
	}
	return out
}

// SetActive selects the active profile by id.
func (s *ProfileService) SetActive(profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupLocked(profileID) == nil {
		return fmt.Errorf("profile %s: %w", profileID, errors.ErrNotFound)
	}
	s.activeID = profileID
	return nil
}

// CreateManaged creates a managed profile plus its manager link, with
// fresh share and management codes.
func (s *ProfileService) CreateManaged(ctx context.Context, userID, name string) (models.Profile, error) {
	if strings.TrimSpace(name) == "" {
		return models.Profile{}, &errors.ValidationError{Field: "name", Reason: "cannot be blank"}
	}

	rec, err := s.store.Create(ctx, constants.CollectionProfiles, map[string]any{
		constants.FieldName:      strings.TrimSpace(name),
		constants.FieldIsManaged: true,
		constants.FieldCreatedBy: userID,
		constants.FieldShareCode: NewShareCode(),
		constants.FieldMgmtCode:  NewManagementCode(),
	})
	if err != nil {
		return models.Profile{}, err
	}

	if _, err := s.store.Create(ctx, constants.CollectionProfileManagers, map[string]any{
		constants.FieldProfile: rec.ID,
		constants.FieldUser:    userID,
	}); err != nil {
		return models.Profile{}, err
	}

	profile := models.ProfileFromRecord(rec)
	s.mu.Lock()
	s.profiles = append(s.profiles, profile)
	s.mu.Unlock()
	return profile, nil
}

// Update changes a profile's fields and refreshes the cached copy.
func (s *ProfileService) Update(ctx context.Context, profileID string, fields map[string]any) (models.Profile, error) {
	rec, err := s.store.Update(ctx, constants.CollectionProfiles, profileID, fields)
	if err != nil {
		return models.Profile{}, err
	}
	profile := models.ProfileFromRecord(rec)

	s.mu.Lock()
	for i := range s.profiles {
		if s.profiles[i].ID == profileID {
			s.profiles[i] = profile
			break
		}
	}
	s.mu.Unlock()
	return profile, nil
}

// EnsureSelfProfile guarantees the user has a self profile, creating one
// on first login. The profile name falls back to the local part of the
// user's email.
func (s *ProfileService) EnsureSelfProfile(ctx context.Context, user record.Record) (models.Profile, error) {
	recs, err := s.store.GetFullList(ctx, constants.CollectionProfileManagers, record.Options{
		Filter: record.Eq(constants.FieldUser, user.ID),
		Expand: constants.FieldProfile,
	})
	if err != nil {
		return models.Profile{}, err
	}
	for _, rec := range recs {
		if joined, ok := rec.Expand[constants.FieldProfile]; ok && !joined.GetBool(constants.FieldIsManaged) {
			return models.ProfileFromRecord(joined), nil
		}
	}

	name := user.GetString(constants.FieldName)
	if name == "" {
		name = strings.SplitN(user.GetString("email"), "@", 2)[0]
	}

	rec, err := s.store.Create(ctx, constants.CollectionProfiles, map[string]any{
		constants.FieldName:      name,
		constants.FieldIsManaged: false,
		constants.FieldCreatedBy: user.ID,
		constants.FieldShareCode: NewShareCode(),
	})
	if err != nil {
		return models.Profile{}, err
	}
	if _, err := s.store.Create(ctx, constants.CollectionProfileManagers, map[string]any{
		constants.FieldProfile: rec.ID,
		constants.FieldUser:    user.ID,
	}); err != nil {
		return models.Profile{}, err
	}
	return models.ProfileFromRecord(rec), nil
}

func (s *ProfileService) lookupLocked(id string) *models.Profile {
	if id == "" {
		return nil
	}
	for i := range s.profiles {
		if s.profiles[i].ID == id {
			p := s.profiles[i]
			return &p
		}
	}
	return nil
}

func (s *ProfileService) selfLocked() *models.Profile {
	for i := range s.profiles {
		if !s.profiles[i].IsManaged {
			p := s.profiles[i]
			return &p
		}
	}
	return nil
}
