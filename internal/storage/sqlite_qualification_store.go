package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"
)

// SQLiteQualificationStore implements QualificationStore backed by SQLite.
type SQLiteQualificationStore struct {
	db *sql.DB
}

// NewSQLiteQualificationStore returns a new SQLiteQualificationStore.
func NewSQLiteQualificationStore(db *sql.DB) *SQLiteQualificationStore {
	return &SQLiteQualificationStore{db: db}
}

// AddQualification inserts q.
func (s *SQLiteQualificationStore) AddQualification(ctx context.Context, q *Qualification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO qualifications (id, user_id, title, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		q.ID, q.UserID, q.Title, q.ExpiresAt.UTC(), q.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting qualification: %w", err)
	}
	return nil
}

// ListQualifications returns the user's qualifications ordered by expiry.
func (s *SQLiteQualificationStore) ListQualifications(ctx context.Context, userID string) (quals []*Qualification, err error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, expires_at, expiry_notified_at, created_at
		FROM qualifications WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying qualifications: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	quals = make([]*Qualification, 0)
	for rows.Next() {
		var q Qualification
		var notified sql.NullTime
		if err := rows.Scan(&q.ID, &q.UserID, &q.Title, &q.ExpiresAt, &notified, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning qualification row: %w", err)
		}
		if notified.Valid {
			q.ExpiryNotifiedAt = &notified.Time
		}
		quals = append(quals, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating qualification rows: %w", err)
	}
	sort.SliceStable(quals, func(i, j int) bool { return quals[i].ExpiresAt.Before(quals[j].ExpiresAt) })
	return quals, nil
}

// ListExpiredUnnotified returns un-notified qualifications expired at or before now.
// Expiry is compared in Go so the result does not depend on how timestamps
// are serialized.
func (s *SQLiteQualificationStore) ListExpiredUnnotified(ctx context.Context, now time.Time) (out []*ExpiredQualification, err error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.user_id, q.title, q.expires_at, q.created_at,
		       u.id, u.first_name, u.last_name, u.email, u.is_admin, u.volunteer_type, u.created_at
		FROM qualifications q
		JOIN users u ON u.id = q.user_id
		WHERE q.expiry_notified_at IS NULL
		ORDER BY q.rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying expired qualifications: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	out = make([]*ExpiredQualification, 0)
	for rows.Next() {
		var eq ExpiredQualification
		var isAdmin int
		if err := rows.Scan(&eq.ID, &eq.UserID, &eq.Title, &eq.ExpiresAt, &eq.CreatedAt,
			&eq.User.ID, &eq.User.FirstName, &eq.User.LastName, &eq.User.Email, &isAdmin,
			&eq.User.VolunteerType, &eq.User.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning expired qualification row: %w", err)
		}
		eq.User.IsAdmin = isAdmin != 0
		if eq.ExpiresAt.After(now) {
			continue
		}
		out = append(out, &eq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expired qualification rows: %w", err)
	}
	return out, nil
}

// MarkExpiryNotified stamps the qualification as notified at at.
func (s *SQLiteQualificationStore) MarkExpiryNotified(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE qualifications SET expiry_notified_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("marking qualification %q notified: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("qualification %q not found", id)
	}
	return nil
}
