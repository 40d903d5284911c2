package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/daybook-app/daybook/internal/errors"
)

// SQLiteStore keeps records in a local database file. It is the offline
// backend: the same Store contract as the remote server, one generic
// records table, filters and sorts applied in-process. There is no sync;
// a local file is its own world.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			created TEXT NOT NULL,
			updated TEXT NOT NULL,
			fields TEXT NOT NULL,
			PRIMARY KEY (collection, id)
		)`)
	if err != nil {
		return fmt.Errorf("failed to create records table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("local store not initialized, run 'daybook init' first")
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, collection string, fields map[string]any) (Record, error) {
	if err := validateFields(collection, fields); err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:     uuid.New().String(),
		Fields: fields,
	}
	now := nowUTC()
	rec.Created = now
	rec.Updated = now

	data, err := json.Marshal(fields)
	if err != nil {
		return Record{}, fmt.Errorf("failed to serialize fields: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO records (collection, id, created, updated, fields) VALUES (?, ?, ?, ?, ?)",
		collection, rec.ID, formatTimestamp(rec.Created), formatTimestamp(rec.Updated), string(data),
	)
	if err != nil {
		return Record{}, fmt.Errorf("failed to insert record: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) Update(ctx context.Context, collection, id string, fields map[string]any) (Record, error) {
	rec, err := s.getOne(ctx, collection, id)
	if err != nil {
		return Record{}, err
	}

	for k, v := range fields {
		rec.Fields[k] = v
	}
	rec.Updated = nowUTC()

	data, err := json.Marshal(rec.Fields)
	if err != nil {
		return Record{}, fmt.Errorf("failed to serialize fields: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE records SET updated = ?, fields = ? WHERE collection = ? AND id = ?",
		formatTimestamp(rec.Updated), string(data), collection, id,
	)
	if err != nil {
		return Record{}, fmt.Errorf("failed to update record: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM records WHERE collection = ? AND id = ?", collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, errors.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) GetOne(ctx context.Context, collection, id string, opts Options) (Record, error) {
	rec, err := s.getOne(ctx, collection, id)
	if err != nil {
		return Record{}, err
	}
	resolveExpand(&rec, collection, opts.Expand, s.lookup(ctx))
	return rec, nil
}

func (s *SQLiteStore) GetList(ctx context.Context, collection string, page, perPage int, opts Options) (List, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 30
	}

	matched, err := s.query(ctx, collection, opts)
	if err != nil {
		return List{}, err
	}
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

func (s *SQLiteStore) GetFullList(ctx context.Context, collection string, opts Options) ([]Record, error) {
	return s.query(ctx, collection, opts)
}

func (s *SQLiteStore) getOne(ctx context.Context, collection, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, created, updated, fields FROM records WHERE collection = ? AND id = ?",
		collection, id)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return Record{}, fmt.Errorf("%s/%s: %w", collection, id, errors.ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to read record: %w", err)
	}
	return rec, nil
}

// query loads a whole collection and applies filter/sort/expand in
// process. Collections here are per-user journals; row counts stay small
// enough that pushing predicates into SQL is not worth a filter
// compiler.
func (s *SQLiteStore) query(ctx context.Context, collection string, opts Options) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, created, updated, fields FROM records WHERE collection = ? ORDER BY created",
		collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	matched := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if opts.Filter != nil && !opts.Filter.Match(rec) {
			continue
		}
		matched = append(matched, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortRecords(matched, opts.Sort)
	if opts.Expand != "" {
		lookup := s.lookup(ctx)
		for i := range matched {
			resolveExpand(&matched[i], collection, opts.Expand, lookup)
		}
	}
	return matched, nil
}

func (s *SQLiteStore) lookup(ctx context.Context) lookupFunc {
	return func(collection, id string) (Record, bool) {
		rec, err := s.getOne(ctx, collection, id)
		if err != nil {
			return Record{}, false
		}
		return rec, true
	}
}

func scanRecord(scan func(dest ...any) error) (Record, error) {
	var rec Record
	var created, updated, fields string
	if err := scan(&rec.ID, &created, &updated, &fields); err != nil {
		return Record{}, err
	}
	rec.Created = parseTimestamp(created)
	rec.Updated = parseTimestamp(updated)
	if err := json.Unmarshal([]byte(fields), &rec.Fields); err != nil {
		return Record{}, fmt.Errorf("failed to parse record fields: %w", err)
	}
	return rec, nil
}
