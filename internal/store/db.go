package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"visitor-console/internal/model"

	sqlite3 "github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when no row matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a row with the same key exists.
	ErrDuplicate = errors.New("record already exists")
)

// Record is a schemaless JSON object as the remote API stores it.
type Record = map[string]any

// Store persists the stand-in API's tables in sqlite.
type Store struct {
	db *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS equipment (
		user_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (user_id, timestamp)
	);`,
	`CREATE TABLE IF NOT EXISTS visits (
		user_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		location TEXT NOT NULL,
		PRIMARY KEY (user_id, timestamp)
	);`,
	`CREATE TABLE IF NOT EXISTS qualifications (
		user_id TEXT PRIMARY KEY,
		last_updated TEXT NOT NULL,
		data TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);`,
}

// Open connects to the sqlite file at path and creates missing tables.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

func isDuplicate(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func keyOf(rec Record) (string, string) {
	userID, _ := rec["user_id"].(string)
	ts, _ := rec["timestamp"].(string)
	return userID, ts
}

// InsertEquipment stores a new equipment log keyed by its user_id and timestamp.
func (s *Store) InsertEquipment(ctx context.Context, rec Record) error {
	userID, ts := keyOf(rec)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO equipment (user_id, timestamp, data) VALUES (?, ?, ?)`, userID, ts, string(data))
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// GetEquipment fetches one equipment log.
func (s *Store) GetEquipment(ctx context.Context, userID, ts string) (Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM equipment WHERE user_id = ? AND timestamp = ?`, userID, ts).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListEquipment returns the newest equipment logs, optionally for one user.
func (s *Store) ListEquipment(ctx context.Context, userID string, limit int) ([]Record, error) {
	query := `SELECT data FROM equipment ORDER BY timestamp DESC LIMIT ?`
	args := []any{limit}
	if userID != "" {
		query = `SELECT data FROM equipment WHERE user_id = ? ORDER BY timestamp DESC LIMIT ?`
		args = []any{userID, limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var rec Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ReplaceEquipment overwrites the stored log with the same user_id and
// timestamp as rec.
func (s *Store) ReplaceEquipment(ctx context.Context, rec Record) error {
	userID, ts := keyOf(rec)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE equipment SET data = ? WHERE user_id = ? AND timestamp = ?`, string(data), userID, ts)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertVisit records a visit.
func (s *Store) InsertVisit(ctx context.Context, v model.Visit) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO visits (user_id, timestamp, location) VALUES (?, ?, ?)`, v.UserID, v.Timestamp, v.Location)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// ListVisits returns the newest visits, optionally for one user.
func (s *Store) ListVisits(ctx context.Context, userID string, limit int) ([]model.Visit, error) {
	query := `SELECT user_id, timestamp, location FROM visits ORDER BY timestamp DESC LIMIT ?`
	args := []any{limit}
	if userID != "" {
		query = `SELECT user_id, timestamp, location FROM visits WHERE user_id = ? ORDER BY timestamp DESC LIMIT ?`
		args = []any{userID, limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Visit{}
	for rows.Next() {
		var v model.Visit
		if err := rows.Scan(&v.UserID, &v.Timestamp, &v.Location); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// PutQualifications inserts or replaces a user's qualifications.
func (s *Store) PutQualifications(ctx context.Context, q model.Qualifications) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO qualifications (user_id, last_updated, data) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET last_updated = excluded.last_updated, data = excluded.data`,
		q.UserID, q.LastUpdated, string(data))
	return err
}

// GetQualifications fetches a user's qualifications.
func (s *Store) GetQualifications(ctx context.Context, userID string) (model.Qualifications, error) {
	var q model.Qualifications
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM qualifications WHERE user_id = ?`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return q, ErrNotFound
	}
	if err != nil {
		return q, err
	}
	err = json.Unmarshal([]byte(data), &q)
	return q, err
}

// TouchQualifications stamps every record with lastUpdated and returns the
// number of records touched.
func (s *Store) TouchQualifications(ctx context.Context, lastUpdated string) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM qualifications`)
	if err != nil {
		return 0, err
	}
	var all []model.Qualifications
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			rows.Close()
			return 0, err
		}
		var q model.Qualifications
		if err := json.Unmarshal([]byte(data), &q); err != nil {
			rows.Close()
			return 0, err
		}
		all = append(all, q)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, q := range all {
		q.LastUpdated = lastUpdated
		if err := s.PutQualifications(ctx, q); err != nil {
			return 0, err
		}
	}
	return len(all), nil
}

// InsertUser stores a registration.
func (s *Store) InsertUser(ctx context.Context, rec Record) error {
	userID, _ := keyOf(rec)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (user_id, data) VALUES (?, ?)`, userID, string(data))
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// GetUser fetches a registration.
func (s *Store) GetUser(ctx context.Context, userID string) (Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM users WHERE user_id = ?`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	err = json.Unmarshal([]byte(data), &rec)
	return rec, err
}
