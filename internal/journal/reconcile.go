package journal

import (
	"context"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/logger"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/record"
	"github.com/daybook-app/daybook/internal/utils"
)

// ReconcileEntries repairs duplicate entries for one (profile, day).
// Duplicates happen when two clients race find-or-create; the server has
// no uniqueness constraint, so the in-process lock cannot prevent them
// across machines. The earliest-created entry wins, every duplicate's
// things migrate onto it (renumbered after its existing items), bonus
// notes are kept from the winner unless it has none, and the duplicates
// are deleted. Returns the number of duplicate entries removed.
func (s *Service) ReconcileEntries(ctx context.Context, profileID, day string) (int, error) {
	nextDay, err := utils.NextDay(day)
	if err != nil {
		return 0, err
	}

	unlock := s.locks.Lock(entryKey(profileID, day))
	defer unlock()

	recs, err := s.store.GetFullList(ctx, constants.CollectionEntries, record.Options{
		Filter: record.And(
			record.Eq(constants.FieldProfile, profileID),
			record.DayRange(constants.FieldDate, day, nextDay),
		),
		Sort: "created",
	})
	if err != nil {
		return 0, err
	}
	if len(recs) <= 1 {
		return 0, nil
	}

	keep := models.EntryFromRecord(recs[0])
	logger.Warn("reconciling duplicate entries", "profile", profileID, "day", day, "count", len(recs))

	keepThings, err := s.fetchThings(ctx, keep.ID)
	if err != nil {
		return 0, err
	}
	nextOrder := len(keepThings) + 1

	removed := 0
	for _, dup := range recs[1:] {
		dupEntry := models.EntryFromRecord(dup)

		things, err := s.fetchThings(ctx, dupEntry.ID)
		if err != nil {
			return removed, err
		}
		for _, th := range things {
			_, err := s.store.Update(ctx, constants.CollectionThings, th.ID, map[string]any{
				constants.FieldEntry: keep.ID,
				constants.FieldOrder: nextOrder,
			})
			if err != nil {
				return removed, err
			}
			nextOrder++
		}

		if keep.BonusNotes == "" && dupEntry.BonusNotes != "" {
			if _, err := s.store.Update(ctx, constants.CollectionEntries, keep.ID, map[string]any{
				constants.FieldBonusNotes: dupEntry.BonusNotes,
			}); err != nil {
				return removed, err
			}
			keep.BonusNotes = dupEntry.BonusNotes
		}

		if err := s.store.Delete(ctx, constants.CollectionEntries, dupEntry.ID); err != nil {
			return removed, err
		}
		removed++
	}

	// The cached view may reference a deleted duplicate; reload it.
	s.mu.Lock()
	stale := s.current != nil && s.profileID == profileID && s.day == day
	s.mu.Unlock()
	if stale {
		s.mu.Lock()
		e := keep
		s.current = &e
		s.mu.Unlock()
		if _, err := s.FetchThings(ctx); err != nil {
			return removed, err
		}
	}

	return removed, nil
}
