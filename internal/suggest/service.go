// Package suggest implements the cross-profile suggestion workflow:
// a follower proposes content for a followed profile's day, and the
// recipient accepts it into their journal or declines it.
package suggest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/daybook-app/daybook/internal/constants"
	"github.com/daybook-app/daybook/internal/errors"
	"github.com/daybook-app/daybook/internal/logger"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/record"
	"github.com/daybook-app/daybook/internal/utils"
)

// Journal is the slice of the journal service acceptance needs: entry
// materialization and ordered appends. The workflow orchestrates both
// but owns neither invariant.
type Journal interface {
	MaterializeEntry(ctx context.Context, profileID, day string) (models.Entry, error)
	AppendThing(ctx context.Context, entryID, content string) (models.Thing, error)
}

// Service tracks two pending views: everything addressed to the user's
// managed profiles (badge counts) and the narrower per-day view.
type Service struct {
	store   record.Store
	journal Journal

	mu      sync.Mutex
	pending []models.Suggestion
	forDate []models.Suggestion

	listeners  map[int]func()
	listenerID int

	pendingSeq atomic.Uint64
	forDateSeq atomic.Uint64
}

func New(store record.Store, journal Journal) *Service {
	return &Service{
		store:     store,
		journal:   journal,
		listeners: make(map[int]func()),
	}
}

// Subscribe registers a listener called after every cache change. The
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

// Pending returns a copy of the managed-profiles pending list.
func (s *Service) Pending() []models.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Suggestion, len(s.pending))
	copy(out, s.pending)
	return out
}

// PendingCount reports how many suggestions await a decision.
func (s *Service) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// ForDate returns a copy of the per-day pending list.
func (s *Service) ForDate() []models.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Suggestion, len(s.forDate))
	copy(out, s.forDate)
	return out
}

// Create proposes content for a profile's day. All fields are required;
// validation happens before any network call. New suggestions are always
// pending.
func (s *Service) Create(ctx context.Context, fromProfileID, toProfileID, day, content string) (models.Suggestion, error) {
	switch {
	case strings.TrimSpace(fromProfileID) == "":
		return models.Suggestion{}, &errors.ValidationError{Field: "from_profile", Reason: "cannot be blank"}
	case strings.TrimSpace(toProfileID) == "":
		return models.Suggestion{}, &errors.ValidationError{Field: "to_profile", Reason: "cannot be blank"}
	case strings.TrimSpace(day) == "":
		return models.Suggestion{}, &errors.ValidationError{Field: "date", Reason: "cannot be blank"}
	case strings.TrimSpace(content) == "":
		return models.Suggestion{}, &errors.ValidationError{Field: "content", Reason: "cannot be blank"}
	}
	if _, err := utils.ParseDay(day); err != nil {
		return models.Suggestion{}, &errors.ValidationError{Field: "date", Reason: err.Error()}
	}

	rec, err := s.store.Create(ctx, constants.CollectionSuggestions, map[string]any{
		constants.FieldFrom:    fromProfileID,
		constants.FieldTo:      toProfileID,
		constants.FieldDate:    day,
		constants.FieldContent: strings.TrimSpace(content),
		constants.FieldStatus:  string(constants.SuggestionPending),
	})
	if err != nil {
		return models.Suggestion{}, err
	}
	return models.SuggestionFromRecord(rec), nil
}

// FetchPending loads all pending suggestions addressed to any of the
// given profiles, joined with the sender's profile, newest first. An
// empty profile set yields an empty result without a network call.
func (s *Service) FetchPending(ctx context.Context, managedProfileIDs []string) ([]models.Suggestion, error) {
	seq := s.pendingSeq.Add(1)

	if len(managedProfileIDs) == 0 {
		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
		s.notify()
		return []models.Suggestion{}, nil
	}

	recs, err := s.store.GetFullList(ctx, constants.CollectionSuggestions, record.Options{
		Filter: record.And(
			record.AnyOf(constants.FieldTo, managedProfileIDs...),
			record.Eq(constants.FieldStatus, string(constants.SuggestionPending)),
		),
		Sort:   "-created",
		Expand: constants.FieldFrom,
	})
	if err != nil {
		return nil, err
	}

	suggestions := make([]models.Suggestion, len(recs))
	for i, rec := range recs {
		suggestions[i] = models.SuggestionFromRecord(rec)
	}

	s.mu.Lock()
	if seq != s.pendingSeq.Load() {
		s.mu.Unlock()
		return nil, errors.ErrSuperseded
	}
	s.pending = suggestions
	s.mu.Unlock()

	s.notify()
	return suggestions, nil
}

// FetchForDate loads pending suggestions for one profile and one
// calendar day, newest first.
func (s *Service) FetchForDate(ctx context.Context, profileID, day string) ([]models.Suggestion, error) {
	seq := s.forDateSeq.Add(1)

	if profileID == "" || day == "" {
		s.mu.Lock()
		s.forDate = nil
		s.mu.Unlock()
		s.notify()
		return []models.Suggestion{}, nil
	}

	nextDay, err := utils.NextDay(day)
	if err != nil {
		return nil, err
	}

	recs, err := s.store.GetFullList(ctx, constants.CollectionSuggestions, record.Options{
		Filter: record.And(
			record.Eq(constants.FieldTo, profileID),
			record.DayRange(constants.FieldDate, day, nextDay),
			record.Eq(constants.FieldStatus, string(constants.SuggestionPending)),
		),
		Sort:   "-created",
		Expand: constants.FieldFrom,
	})
	if err != nil {
		return nil, err
	}

	suggestions := make([]models.Suggestion, len(recs))
	for i, rec := range recs {
		suggestions[i] = models.SuggestionFromRecord(rec)
	}

	s.mu.Lock()
	if seq != s.forDateSeq.Load() {
		s.mu.Unlock()
		return nil, errors.ErrSuperseded
	}
	s.forDate = suggestions
	s.mu.Unlock()

	s.notify()
	return suggestions, nil
}

// Accept materializes the target day's entry if needed, appends the
// suggested content as the last thing, and marks the suggestion
// accepted. The steps are not atomic; if thing creation fails after the
// entry was created, the entry persists and a retry finds it through the
// find-before-create path.
func (s *Service) Accept(ctx context.Context, suggestionID, profileID, day string) (models.Entry, error) {
	sug, ok := s.find(suggestionID)
	if !ok {
		return models.Entry{}, fmt.Errorf("suggestion %s: %w", suggestionID, errors.ErrNotFound)
	}

	entry, err := s.journal.MaterializeEntry(ctx, profileID, day)
	if err != nil {
		return models.Entry{}, err
	}

	if _, err := s.journal.AppendThing(ctx, entry.ID, sug.Content); err != nil {
		return models.Entry{}, err
	}

	if _, err := s.store.Update(ctx, constants.CollectionSuggestions, suggestionID, map[string]any{
		constants.FieldStatus: string(constants.SuggestionAccepted),
	}); err != nil {
		return models.Entry{}, err
	}

	logger.Info("accepted suggestion", "suggestion", suggestionID, "profile", profileID, "day", day)
	s.drop(suggestionID)
	return entry, nil
}

// Decline marks a suggestion declined. No entry or thing is touched.
func (s *Service) Decline(ctx context.Context, suggestionID string) error {
	if _, err := s.store.Update(ctx, constants.CollectionSuggestions, suggestionID, map[string]any{
		constants.FieldStatus: string(constants.SuggestionDeclined),
	}); err != nil {
		return err
	}
	s.drop(suggestionID)
	return nil
}

// Clear drops both cached views.
func (s *Service) Clear() {
	s.mu.Lock()
	s.pending = nil
	s.forDate = nil
	s.mu.Unlock()
	s.notify()
}

// find looks a suggestion up in either cached list.
func (s *Service) find(id string) (models.Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sug := range s.pending {
		if sug.ID == id {
			return sug, true
		}
	}
	for _, sug := range s.forDate {
		if sug.ID == id {
			return sug, true
		}
	}
	return models.Suggestion{}, false
}

// drop removes a now-terminal suggestion from both caches.
func (s *Service) drop(id string) {
	s.mu.Lock()
	s.pending = removeByID(s.pending, id)
	s.forDate = removeByID(s.forDate, id)
	s.mu.Unlock()
	s.notify()
}

func removeByID(list []models.Suggestion, id string) []models.Suggestion {
	// Build a fresh slice; the old one may still be held by a caller
	// of FetchPending or FetchForDate.
	out := make([]models.Suggestion, 0, len(list))
	for _, sug := range list {
		if sug.ID != id {
			out = append(out, sug)
		}
	}
	return out
}
