package record

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daybook-app/daybook/internal/errors"
)

// MemoryStore is an in-process Store. It backs the test suites and is
// handy as a scratch backend; it enforces the same collection schemas as
// the server so create failures reproduce offline.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Record
	lastStamp   time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Record),
	}
}

// nextStamp returns a strictly increasing timestamp so "-created" sorts
// are deterministic even when creates land in the same clock tick.
func (s *MemoryStore) nextStamp() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Microsecond)
	}
	s.lastStamp = now
	return now
}

func (s *MemoryStore) Create(ctx context.Context, collection string, fields map[string]any) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if err := validateFields(collection, fields); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]Record)
	}

	now := s.nextStamp()
	rec := Record{
		ID:      uuid.New().String(),
		Created: now,
		Updated: now,
		Fields:  make(map[string]any, len(fields)),
	}
	for k, v := range fields {
		rec.Fields[k] = v
	}
	s.collections[collection][rec.ID] = rec
	return rec, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return Record{}, fmt.Errorf("%s/%s: %w", collection, id, errors.ErrNotFound)
	}

	updated := Record{
		ID:      rec.ID,
		Created: rec.Created,
		Updated: s.nextStamp(),
		Fields:  make(map[string]any, len(rec.Fields)+len(fields)),
	}
	for k, v := range rec.Fields {
		updated.Fields[k] = v
	}
	for k, v := range fields {
		updated.Fields[k] = v
	}
	s.collections[collection][id] = updated
	return updated, nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, errors.ErrNotFound)
	}
	delete(s.collections[collection], id)
	return nil
}

func (s *MemoryStore) GetOne(ctx context.Context, collection, id string, opts Options) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return Record{}, fmt.Errorf("%s/%s: %w", collection, id, errors.ErrNotFound)
	}
	rec = cloneRecord(rec)
	resolveExpand(&rec, collection, opts.Expand, s.lookupLocked)
	return rec, nil
}

func (s *MemoryStore) GetList(ctx context.Context, collection string, page, perPage int, opts Options) (List, error) {
	if err := ctx.Err(); err != nil {
		return List{}, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 30
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.queryLocked(collection, opts)
	total := len(matched)

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return List{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		Items:      matched[start:end],
	}, nil
}

func (s *MemoryStore) GetFullList(ctx context.Context, collection string, opts Options) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryLocked(collection, opts), nil
}

// queryLocked filters, sorts, and expands. Callers hold at least a read
// lock.
func (s *MemoryStore) queryLocked(collection string, opts Options) []Record {
	matched := make([]Record, 0)
	for _, rec := range s.collections[collection] {
		if opts.Filter != nil && !opts.Filter.Match(rec) {
			continue
		}
		rec = cloneRecord(rec)
		resolveExpand(&rec, collection, opts.Expand, s.lookupLocked)
		matched = append(matched, rec)
	}
	if opts.Sort == "" {
		// No sort requested: map iteration is random, so fall back to
		// creation order for stable output.
		sortRecords(matched, "created")
	} else {
		sortRecords(matched, opts.Sort)
	}
	return matched
}

func (s *MemoryStore) lookupLocked(collection, id string) (Record, bool) {
	rec, ok := s.collections[collection][id]
	if ok {
		rec = cloneRecord(rec)
	}
	return rec, ok
}

func cloneRecord(rec Record) Record {
	fields := make(map[string]any, len(rec.Fields))
	for k, v := range rec.Fields {
		fields[k] = v
	}
	rec.Fields = fields
	rec.Expand = nil
	return rec
}
