package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteShiftStore implements ShiftStore backed by SQLite.
type SQLiteShiftStore struct {
	db *sql.DB
}

// NewSQLiteShiftStore returns a new SQLiteShiftStore.
func NewSQLiteShiftStore(db *sql.DB) *SQLiteShiftStore {
	return &SQLiteShiftStore{db: db}
}

const shiftSelect = `
	SELECT s.id, s.name, s.location, s.start_time, s.end_time, s.capacity, s.created_at,
	       (SELECT COUNT(*) FROM shift_signups ss WHERE ss.shift_id = s.id)
	FROM shifts s`

// CreateShift inserts shift.
func (s *SQLiteShiftStore) CreateShift(ctx context.Context, shift *Shift) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (id, name, location, start_time, end_time, capacity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		shift.ID, shift.Name, shift.Location, shift.StartTime.UTC(), shift.EndTime.UTC(),
		shift.Capacity, shift.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("shift %q: %w", shift.ID, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("inserting shift: %w", err)
	}
	return nil
}

// GetShift returns the shift with id, or nil if none exists.
func (s *SQLiteShiftStore) GetShift(ctx context.Context, id string) (*Shift, error) {
	row := s.db.QueryRowContext(ctx, shiftSelect+` WHERE s.id = ?`, id)
	shift, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning shift: %w", err)
	}
	return shift, nil
}

// ListShifts returns all shifts ordered by start time.
func (s *SQLiteShiftStore) ListShifts(ctx context.Context) (shifts []*Shift, err error) {
	rows, err := s.db.QueryContext(ctx, shiftSelect+` ORDER BY s.start_time, s.rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying shifts: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	shifts = make([]*Shift, 0)
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning shift row: %w", err)
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shift rows: %w", err)
	}
	return shifts, nil
}

// AddSignup records a signup if the shift still has a free place.
func (s *SQLiteShiftStore) AddSignup(ctx context.Context, shiftID, userID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO shift_signups (shift_id, user_id, created_at)
		SELECT s.id, ?, ?
		FROM shifts s
		WHERE s.id = ?
		  AND (s.capacity = 0
		       OR (SELECT COUNT(*) FROM shift_signups ss WHERE ss.shift_id = s.id) < s.capacity)`,
		userID, at.UTC(), shiftID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("signup for shift %q: %w", shiftID, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("inserting signup: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking inserted signup: %w", err)
	}
	if n > 0 {
		return nil
	}
	return s.explainRejectedSignup(ctx, shiftID, userID)
}

// explainRejectedSignup reports why AddSignup inserted nothing.
func (s *SQLiteShiftStore) explainRejectedSignup(ctx context.Context, shiftID, userID string) error {
	var shifts, existing int
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM shifts WHERE id = ?),
		       (SELECT COUNT(*) FROM shift_signups WHERE shift_id = ? AND user_id = ?)`,
		shiftID, shiftID, userID,
	).Scan(&shifts, &existing)
	if err != nil {
		return fmt.Errorf("checking rejected signup: %w", err)
	}
	switch {
	case shifts == 0:
		return fmt.Errorf("shift %q: %w", shiftID, ErrNotFound)
	case existing > 0:
		return fmt.Errorf("signup for shift %q: %w", shiftID, ErrConflict)
	default:
		return fmt.Errorf("shift %q: %w", shiftID, ErrFull)
	}
}

// RemoveSignup deletes a signup and reports whether it existed.
func (s *SQLiteShiftStore) RemoveSignup(ctx context.Context, shiftID, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM shift_signups WHERE shift_id = ? AND user_id = ?`, shiftID, userID)
	if err != nil {
		return false, fmt.Errorf("deleting signup: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted signups: %w", err)
	}
	return n > 0, nil
}

func scanShift(r rowScanner) (*Shift, error) {
	var sh Shift
	if err := r.Scan(&sh.ID, &sh.Name, &sh.Location, &sh.StartTime, &sh.EndTime,
		&sh.Capacity, &sh.CreatedAt, &sh.SignupCount); err != nil {
		return nil, err
	}
	return &sh, nil
}
