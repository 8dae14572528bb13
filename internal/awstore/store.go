// Package awstore reads buckets and events straight from an aw-server-rust
// sqlite database, for when the server is not running.
package awstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/suykerbuyk/aw-digest/internal/events"
)

const bucketsQuery = `SELECT name, type, client, hostname FROM buckets`

const rangeQuery = `
SELECT e.id, e.starttime, e.endtime, e.data
FROM events e JOIN buckets b ON e.bucketrow = b.id
WHERE b.name = ? AND e.starttime < ? AND (e.endtime > ? OR e.starttime >= ?)
ORDER BY e.starttime ASC`

const previousQuery = `
SELECT e.id, e.starttime, e.endtime, e.data
FROM events e JOIN buckets b ON e.bucketrow = b.id
WHERE b.name = ? AND e.starttime <= ?
ORDER BY e.starttime DESC
LIMIT ?`

// Store is a read-only view of an aw-server-rust database.
type Store struct {
	db       *sql.DB
	lookback int
}

// Open opens the existing database at path. A missing file is an error;
// sqlite would otherwise create it. lookback <= 0 uses events.DefaultLookback.
func Open(path string, lookback int) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &events.TransportError{Op: "open database", Err: fmt.Errorf("database not found: %s", path)}
		}
		return nil, &events.TransportError{Op: "open database", Err: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &events.TransportError{Op: "open database", Err: fmt.Errorf("%s: %w", path, err)}
	}
	// query_only is per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA query_only = ON"); err != nil {
		db.Close()
		return nil, &events.TransportError{Op: "open database", Err: fmt.Errorf("%s: %w", path, err)}
	}
	if lookback <= 0 {
		lookback = events.DefaultLookback
	}
	return &Store{db: db, lookback: lookback}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Buckets lists every bucket keyed by bucket id.
func (s *Store) Buckets(ctx context.Context) (map[string]events.Bucket, error) {
	rows, err := s.db.QueryContext(ctx, bucketsQuery)
	if err != nil {
		return nil, &events.TransportError{Op: "get bucket info", Err: err}
	}
	defer rows.Close()

	out := make(map[string]events.Bucket)
	for rows.Next() {
		var b events.Bucket
		if err := rows.Scan(&b.ID, &b.Type, &b.Client, &b.Hostname); err != nil {
			return nil, &events.TransportError{Op: "get bucket info", Err: err}
		}
		out[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, &events.TransportError{Op: "get bucket info", Err: err}
	}
	return out, nil
}

// Events returns the events of bucketID intersecting [start, end), including
// earlier events that run into the range.
func (s *Store) Events(ctx context.Context, bucketID string, start, end time.Time) ([]events.Event, error) {
	op := fmt.Sprintf("get bucket '%s' contents", bucketID)
	inRange, err := s.query(ctx, op, rangeQuery, bucketID, end.UnixNano(), start.UnixNano(), start.UnixNano())
	if err != nil {
		return nil, err
	}

	op = fmt.Sprintf("get previous bucket '%s' contents", bucketID)
	previous, err := s.query(ctx, op, previousQuery, bucketID, start.UnixNano(), s.lookback)
	if err != nil {
		return nil, err
	}

	return events.WithLookback(inRange, previous, start), nil
}

func (s *Store) query(ctx context.Context, op, q string, args ...any) ([]events.Event, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, &events.TransportError{Op: op, Err: err}
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var (
			id         int64
			start, end int64
			data       string
		)
		if err := rows.Scan(&id, &start, &end, &data); err != nil {
			return nil, &events.TransportError{Op: op, Err: err}
		}

		e := events.Event{
			ID:        id,
			Timestamp: time.Unix(0, start).UTC(),
			Duration:  time.Duration(end - start).Seconds(),
		}
		if data != "" {
			if err := json.Unmarshal([]byte(data), &e.Data); err != nil {
				return nil, &events.TransportError{Op: op, Err: fmt.Errorf("event %d data: %w", id, err)}
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &events.TransportError{Op: op, Err: err}
	}
	return out, nil
}
