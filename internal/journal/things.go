package journal

import (
	"context"
	"strings"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/errors"
	"github.com/daybook-app/daybook/internal/logger"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/record"
)

// FetchThings reloads the thing list for the current entry, sorted by
// order. With no entry the list is empty, not an error.
func (s *Service) FetchThings(ctx context.Context) ([]models.Thing, error) {
	s.mu.Lock()
	cur := s.current
	s.mu.Unlock()

	if cur == nil {
		s.mu.Lock()
		s.things = nil
		s.mu.Unlock()
		s.notify()
		return []models.Thing{}, nil
	}

	seq := s.thingsSeq.Add(1)
	things, err := s.fetchThings(ctx, cur.ID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if seq != s.thingsSeq.Load() {
		s.mu.Unlock()
		return nil, errors.ErrSuperseded
	}
	if s.current != nil && s.current.ID == cur.ID {
		s.things = things
	}
	s.mu.Unlock()

	s.notify()
	return things, nil
}

func (s *Service) fetchThings(ctx context.Context, entryID string) ([]models.Thing, error) {
	recs, err := s.store.GetFullList(ctx, constants.CollectionThings, record.Options{
		Filter: record.Eq(constants.FieldEntry, entryID),
		Sort:   constants.FieldOrder,
	})
	if err != nil {
		return nil, err
	}
	things := make([]models.Thing, len(recs))
	for i, rec := range recs {
		things[i] = models.ThingFromRecord(rec)
	}
	return things, nil
}

// SaveThing commits the content at a zero-based list position.
//
//   - no record at index, blank content: nothing happens
//   - record at index, non-blank content: content updated in place
//   - record at index, blank content: record deleted, later things
//     compacted down by one
//   - no record at index, non-blank content: entry materialized if
//     needed, new thing appended at the next contiguous order
//
// Creation treats any index at or past the end as the append position,
// so a save at a far slot cannot open a gap in the order values.
func (s *Service) SaveThing(ctx context.Context, index int, content string) error {
	trimmed := strings.TrimSpace(content)

	s.mu.Lock()
	var existing *models.Thing
	if index >= 0 && index < len(s.things) {
		t := s.things[index]
		existing = &t
	}
	s.mu.Unlock()

	if existing == nil && trimmed == "" {
		return nil
	}

	if existing == nil {
		entry, err := s.EnsureEntry(ctx)
		if err != nil {
			return err
		}

		unlock := s.locks.Lock("things:" + entry.ID)
		defer unlock()

		// A past-the-end index still appends at the next contiguous
		// position; orders never get a gap.
		s.mu.Lock()
		order := len(s.things) + 1
		s.mu.Unlock()

		rec, err := s.store.Create(ctx, constants.CollectionThings, map[string]any{
			constants.FieldEntry:   entry.ID,
			constants.FieldContent: trimmed,
			constants.FieldOrder:   order,
		})
		if err != nil {
			return err
		}

		th := models.ThingFromRecord(rec)
		s.mu.Lock()
		if s.current != nil && s.current.ID == entry.ID {
			s.things = append(s.things, th)
		}
		s.mu.Unlock()
		s.notify()
		return nil
	}

	unlock := s.locks.Lock("things:" + existing.EntryID)
	defer unlock()

	if trimmed == "" {
		if err := s.deleteAt(ctx, index, existing.ID); err != nil {
			return err
		}
		return s.ReorderThings(ctx)
	}

	rec, err := s.store.Update(ctx, constants.CollectionThings, existing.ID, map[string]any{
		constants.FieldContent: trimmed,
	})
	if err != nil {
		return err
	}

	updated := models.ThingFromRecord(rec)
	s.mu.Lock()
	if index < len(s.things) && s.things[index].ID == updated.ID {
		s.things[index] = updated
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// RemoveThing deletes the thing at a zero-based position and compacts
// the order values of everything after it. Out-of-range indexes are a
// no-op.
func (s *Service) RemoveThing(ctx context.Context, index int) error {
	s.mu.Lock()
	var target *models.Thing
	if index >= 0 && index < len(s.things) {
		t := s.things[index]
		target = &t
	}
	s.mu.Unlock()

	if target == nil {
		return nil
	}

	unlock := s.locks.Lock("things:" + target.EntryID)
	defer unlock()

	if err := s.deleteAt(ctx, index, target.ID); err != nil {
		return err
	}
	return s.ReorderThings(ctx)
}

func (s *Service) deleteAt(ctx context.Context, index int, id string) error {
	if err := s.store.Delete(ctx, constants.CollectionThings, id); err != nil {
		return err
	}
	s.mu.Lock()
	if index < len(s.things) && s.things[index].ID == id {
		s.things = append(s.things[:index], s.things[index+1:]...)
	}
	s.mu.Unlock()
	return nil
}

// ReorderThings is the compaction primitive: every thing whose stored
// order disagrees with its list position gets one update, restoring the
// contiguous 1..N range. Cost is bounded by the number of items after
// the mutation point. The pass is not transactional; a crash midway
// leaves orders that the next full pass repairs.
func (s *Service) ReorderThings(ctx context.Context) error {
	s.mu.Lock()
	things := make([]models.Thing, len(s.things))
	copy(things, s.things)
	s.mu.Unlock()

	for i, th := range things {
		if th.Order == i+1 {
			continue
		}
		rec, err := s.store.Update(ctx, constants.CollectionThings, th.ID, map[string]any{
			constants.FieldOrder: i + 1,
		})
		if err != nil {
			return err
		}
		updated := models.ThingFromRecord(rec)
		s.mu.Lock()
		if i < len(s.things) && s.things[i].ID == th.ID {
			s.things[i] = updated
		}
		s.mu.Unlock()
	}

	s.notify()
	return nil
}

// AppendThing creates a thing at the end of an entry's list, computing
// the next order value from a descending fetch of what is stored. It
// does not require the entry to be the active context; if it is, the
// local list picks up the new thing.
func (s *Service) AppendThing(ctx context.Context, entryID, content string) (models.Thing, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Thing{}, &errors.ValidationError{Field: "content", Reason: "cannot be blank"}
	}

	unlock := s.locks.Lock("things:" + entryID)
	defer unlock()

	existing, err := s.store.GetFullList(ctx, constants.CollectionThings, record.Options{
		Filter: record.Eq(constants.FieldEntry, entryID),
		Sort:   "-" + constants.FieldOrder,
	})
	if err != nil {
		return models.Thing{}, err
	}
	maxOrder := 0
	if len(existing) > 0 {
		maxOrder = models.ThingFromRecord(existing[0]).Order
	}

	rec, err := s.store.Create(ctx, constants.CollectionThings, map[string]any{
		constants.FieldEntry:   entryID,
		constants.FieldContent: content,
		constants.FieldOrder:   maxOrder + 1,
	})
	if err != nil {
		return models.Thing{}, err
	}

	th := models.ThingFromRecord(rec)
	logger.Debug("appended thing", "entry", entryID, "order", th.Order)

	s.mu.Lock()
	if s.current != nil && s.current.ID == entryID {
		s.things = append(s.things, th)
	}
	s.mu.Unlock()
	s.notify()
	return th, nil
}
