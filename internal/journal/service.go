// Package journal owns the entry lifecycle and the ordered thing list
// for the currently viewed (profile, date) context. Entries are lazy:
// nothing is written until the first thing or bonus note with real
// content, or an accepted suggestion, forces one into existence.
package journal

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/errors"
	"github.com/daybook-app/daybook/internal/logger"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/record"
	"github.com/daybook-app/daybook/internal/utils"
)

// Service is the entry lifecycle manager and thing ordering engine. It
// holds one active (profile, date) context at a time, set by LoadForDate
// and replaced by the next LoadForDate call.
type Service struct {
	store record.Store
	locks *LockTable

	mu        sync.Mutex
	profileID string
	day       string
	current   *models.Entry
	things    []models.Thing

	listeners  map[int]func()
	listenerID int

	// Monotonic tags per logical query. A fetch result is applied only
	// if no newer fetch of the same view was issued while it was in
	// flight; stale responses are discarded, never applied out of order.
	loadSeq   atomic.Uint64
	thingsSeq atomic.Uint64
}

func New(store record.Store) *Service {
	return &Service{
		store:     store,
		locks:     NewLockTable(),
		listeners: make(map[int]func()),
	}
}

// Subscribe registers a listener called after every state change. The
// returned function cancels the subscription.
func (s *Service) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listenerID++
	id := s.listenerID
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Service) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Entry returns the current entry, or nil if the viewed day has none.
func (s *Service) Entry() *models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	e := *s.current
	return &e
}

// Things returns a copy of the current ordered thing list.
func (s *Service) Things() []models.Thing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Thing, len(s.things))
	copy(out, s.things)
	return out
}

// Context returns the active (profile, day) pair.
func (s *Service) Context() (profileID, day string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileID, s.day
}

// LoadForDate makes (profileID, date) the active context and returns the
// day's entry, or nil if none exists yet. Absence is not an error; the
// entry will be created lazily when content is first saved. The thing
// list is loaded alongside the entry.
func (s *Service) LoadForDate(ctx context.Context, profileID string, date time.Time) (*models.Entry, error) {
	if profileID == "" {
		return nil, nil
	}

	day := utils.DayString(date)
	nextDay := utils.DayString(date.AddDate(0, 0, 1))
	seq := s.loadSeq.Add(1)

	// Context switches immediately so lazy creates after a navigation
	// target the day the user is looking at, not the one still loading.
	s.mu.Lock()
	s.profileID = profileID
	s.day = day
	s.mu.Unlock()

	list, err := s.store.GetList(ctx, constants.CollectionEntries, 1, 1, record.Options{
		Filter: record.And(
			record.Eq(constants.FieldProfile, profileID),
			record.DayRange(constants.FieldDate, day, nextDay),
		),
	})
	if err != nil {
		return nil, err
	}

	var entry *models.Entry
	var things []models.Thing
	if len(list.Items) > 0 {
		e := models.EntryFromRecord(list.Items[0])
		entry = &e
		things, err = s.fetchThings(ctx, e.ID)
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	if seq != s.loadSeq.Load() {
		s.mu.Unlock()
		return nil, errors.ErrSuperseded
	}
	s.current = entry
	s.things = things
	s.mu.Unlock()

	s.notify()
	return entry, nil
}

// EnsureEntry returns the active context's entry, creating it if the day
// has none. Idempotent: a second call returns the same entry without a
// create request. Fails if no context has been loaded.
func (s *Service) EnsureEntry(ctx context.Context) (models.Entry, error) {
	s.mu.Lock()
	if s.current != nil {
		e := *s.current
		s.mu.Unlock()
		return e, nil
	}
	profileID, day := s.profileID, s.day
	s.mu.Unlock()

	if profileID == "" || day == "" {
		return models.Entry{}, errors.ErrNoActiveContext
	}

	entry, err := s.MaterializeEntry(ctx, profileID, day)
	if err != nil {
		return models.Entry{}, err
	}

	s.mu.Lock()
	if s.profileID == profileID && s.day == day {
		e := entry
		s.current = &e
	}
	s.mu.Unlock()

	s.notify()
	return entry, nil
}

// MaterializeEntry finds or creates the entry for an arbitrary
// (profile, day), independent of the active context. The check-then-create
// runs under a per-(profile, day) lock so in-process callers cannot race
// each other into duplicates; the server has no uniqueness constraint, so
// other clients still can (see ReconcileEntries).
func (s *Service) MaterializeEntry(ctx context.Context, profileID, day string) (models.Entry, error) {
	nextDay, err := utils.NextDay(day)
	if err != nil {
		return models.Entry{}, err
	}

	unlock := s.locks.Lock(entryKey(profileID, day))
	defer unlock()

	list, err := s.store.GetList(ctx, constants.CollectionEntries, 1, 1, record.Options{
		Filter: record.And(
			record.Eq(constants.FieldProfile, profileID),
			record.DayRange(constants.FieldDate, day, nextDay),
		),
	})
	if err != nil {
		return models.Entry{}, err
	}
	if len(list.Items) > 0 {
		return models.EntryFromRecord(list.Items[0]), nil
	}

	rec, err := s.store.Create(ctx, constants.CollectionEntries, map[string]any{
		constants.FieldProfile:    profileID,
		constants.FieldDate:       day,
		constants.FieldBonusNotes: "",
	})
	if err != nil {
		return models.Entry{}, err
	}
	logger.Debug("created entry", "profile", profileID, "day", day, "id", rec.ID)
	return models.EntryFromRecord(rec), nil
}

// SaveBonusNotes updates the entry's free-text notes, creating the entry
// first if needed. Saving empty notes when no entry exists is a no-op so
// blank days never materialize records.
func (s *Service) SaveBonusNotes(ctx context.Context, notes string) error {
	s.mu.Lock()
	hasEntry := s.current != nil
	s.mu.Unlock()

	if strings.TrimSpace(notes) == "" && !hasEntry {
		return nil
	}

	entry, err := s.EnsureEntry(ctx)
	if err != nil {
		return err
	}

	// Serialize concurrent note saves against the same entry.
	unlock := s.locks.Lock("notes:" + entry.ID)
	defer unlock()

	rec, err := s.store.Update(ctx, constants.CollectionEntries, entry.ID, map[string]any{
		constants.FieldBonusNotes: notes,
	})
	if err != nil {
		return err
	}

	updated := models.EntryFromRecord(rec)
	s.mu.Lock()
	if s.current != nil && s.current.ID == updated.ID {
		s.current = &updated
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// EntriesForMonth lists a profile's entries for one month, newest first.
// The range is inclusive on both ends.
func (s *Service) EntriesForMonth(ctx context.Context, profileID string, year int, month time.Month) ([]models.Entry, error) {
	first, last := utils.MonthRange(year, month)
	recs, err := s.store.GetFullList(ctx, constants.CollectionEntries, record.Options{
		Filter: record.And(
			record.Eq(constants.FieldProfile, profileID),
			record.Gte(constants.FieldDate, first),
			record.Lte(constants.FieldDate, last),
		),
		Sort: "-date",
	})
	if err != nil {
		return nil, err
	}
	entries := make([]models.Entry, len(recs))
	for i, rec := range recs {
		entries[i] = models.EntryFromRecord(rec)
	}
	return entries, nil
}

// Clear drops the active context and cached state.
func (s *Service) Clear() {
	s.mu.Lock()
	s.profileID = ""
	s.day = ""
	s.current = nil
	s.things = nil
	s.mu.Unlock()
	s.notify()
}

func entryKey(profileID, day string) string {
	return "entry:" + profileID + "|" + day
}
