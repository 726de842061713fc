package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteUserStore implements UserStore backed by SQLite.
type SQLiteUserStore struct {
	db *sql.DB
}

// NewSQLiteUserStore returns a new SQLiteUserStore.
func NewSQLiteUserStore(db *sql.DB) *SQLiteUserStore {
	return &SQLiteUserStore{db: db}
}

const userColumns = `id, first_name, last_name, email, is_admin, volunteer_type, created_at`

// CreateUser inserts u.
func (s *SQLiteUserStore) CreateUser(ctx context.Context, u *User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.FirstName, u.LastName, u.Email, boolToInt(u.IsAdmin), u.VolunteerType, u.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %q: %w", u.Email, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// GetUser returns the user with id, or nil if none exists.
func (s *SQLiteUserStore) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUserRow(row)
}

// GetUserByEmail returns the user with email, or nil if none exists.
func (s *SQLiteUserStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUserRow(row)
}

// ListUsers returns users matching filter in insertion order.
func (s *SQLiteUserStore) ListUsers(ctx context.Context, filter UserFilter) (users []*User, err error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if filter.IsAdmin != nil {
		query += ` WHERE is_admin = ?`
		args = append(args, boolToInt(*filter.IsAdmin))
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	users = make([]*User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}
	return users, nil
}

// CreateVolunteerTypeRequest inserts req.
func (s *SQLiteUserStore) CreateVolunteerTypeRequest(ctx context.Context, req *VolunteerTypeRequest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO volunteer_type_requests (id, user_id, volunteer_type, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		req.ID, req.UserID, req.VolunteerType, req.Status, req.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting volunteer type request: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(r rowScanner) (*User, error) {
	var u User
	var isAdmin int
	if err := r.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &isAdmin, &u.VolunteerType, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.IsAdmin = isAdmin != 0
	return &u, nil
}

func scanUserRow(row *sql.Row) (*User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
