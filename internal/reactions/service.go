package reactions

import (
	"context"
	"fmt"
	"sync"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/errors"
	"github.com/daybook-app/daybook/internal/logger"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/record"
)

// Service loads and mutates the reactions attached to things. Reactions
// are cached grouped by thing id.
type Service struct {
	store record.Store

	mu      sync.Mutex
	byThing map[string][]models.Reaction
}

func New(store record.Store) *Service {
	return &Service{store: store, byThing: make(map[string][]models.Reaction)}
}

// FetchForThings loads every reaction on the given things in one
// request and replaces the cached groups for those ids.
func (s *Service) FetchForThings(ctx context.Context, thingIDs []string) error {
	if len(thingIDs) == 0 {
		return nil
	}

	recs, err := s.store.GetFullList(ctx, constants.CollectionReactions, record.Options{
		Filter: record.AnyOf(constants.FieldThing, thingIDs...),
		Expand: constants.FieldProfile,
	})
	if err != nil {
		return err
	}

	grouped := make(map[string][]models.Reaction)
	for _, rec := range recs {
		r := models.ReactionFromRecord(rec)
		grouped[r.ThingID] = append(grouped[r.ThingID], r)
	}

	s.mu.Lock()
	for _, id := range thingIDs {
		s.byThing[id] = grouped[id]
	}
	s.mu.Unlock()
	return nil
}

// ForThing returns the cached reactions on a thing.
func (s *Service) ForThing(thingID string) []models.Reaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Reaction, len(s.byThing[thingID]))
	copy(out, s.byThing[thingID])
	return out
}

// Counts tallies reactions on a thing per emoji, skipping the excluded
// profile (the viewer's own reaction is shown separately).
func (s *Service) Counts(thingID, excludeProfileID string) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int)
	for _, r := range s.byThing[thingID] {
		if r.ProfileID == excludeProfileID {
			continue
		}
		counts[r.Emoji]++
	}
	return counts
}

// MyReaction returns the viewer's own reaction on a thing, or nil.
func (s *Service) MyReaction(thingID, profileID string) *models.Reaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.byThing[thingID] {
		if r.ProfileID == profileID {
			out := r
			return &out
		}
	}
	return nil
}

// Toggle changes the viewer's reaction on a thing: reacting with the
// emoji already set removes it, a different emoji replaces it, and no
// existing reaction creates one.
func (s *Service) Toggle(ctx context.Context, thingID, profileID, emoji string) error {
	existing := s.MyReaction(thingID, profileID)

	switch {
	case existing != nil && existing.Emoji == emoji:
		if err := s.store.Delete(ctx, constants.CollectionReactions, existing.ID); err != nil {
			return err
		}
		s.removeLocal(thingID, existing.ID)
		return nil

	case existing != nil:
		rec, err := s.store.Update(ctx, constants.CollectionReactions, existing.ID, map[string]any{
			constants.FieldEmoji: emoji,
		})
		if err != nil {
			return err
		}
		s.replaceLocal(thingID, existing.ID, s.withProfileName(ctx, rec, profileID))
		return nil

	default:
		rec, err := s.store.Create(ctx, constants.CollectionReactions, map[string]any{
			constants.FieldThing:   thingID,
			constants.FieldProfile: profileID,
			constants.FieldEmoji:   emoji,
		})
		if err != nil {
			return err
		}
		r := s.withProfileName(ctx, rec, profileID)
		s.mu.Lock()
		s.byThing[thingID] = append(s.byThing[thingID], r)
		s.mu.Unlock()
		return nil
	}
}

// withProfileName fills in the reactor's display name. Create and
// update responses carry no expand, so the profile is looked up
// separately and the name degrades to the model default on failure.
func (s *Service) withProfileName(ctx context.Context, rec record.Record, profileID string) models.Reaction {
	r := models.ReactionFromRecord(rec)
	prof, err := s.store.GetOne(ctx, constants.CollectionProfiles, profileID, record.Options{})
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			logger.Debug(fmt.Sprintf("reaction profile lookup failed: %v", err))
		}
		return r
	}
	if name := prof.GetString(constants.FieldName); name != "" {
		r.ProfileName = name
	}
	return r
}

// Clear drops all cached reactions, for logout.
func (s *Service) Clear() {
	s.mu.Lock()
	s.byThing = make(map[string][]models.Reaction)
	s.mu.Unlock()
}

func (s *Service) removeLocal(thingID, reactionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byThing[thingID]
	for i := range list {
		if list[i].ID == reactionID {
			s.byThing[thingID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (s *Service) replaceLocal(thingID, reactionID string, r models.Reaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byThing[thingID]
	for i := range list {
		if list[i].ID == reactionID {
			list[i] = r
			return
		}
	}
}
