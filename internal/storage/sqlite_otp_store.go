package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteOTPStore implements OTPStore backed by SQLite.
type SQLiteOTPStore struct {
	db *sql.DB
}

// NewSQLiteOTPStore returns a new SQLiteOTPStore.
func NewSQLiteOTPStore(db *sql.DB) *SQLiteOTPStore {
	return &SQLiteOTPStore{db: db}
}

// SaveOTP upserts rec.
func (s *SQLiteOTPStore) SaveOTP(ctx context.Context, rec OTPRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO otp_codes (email, code_hash, expires_at, attempts, created_at)
		VALUES (?, ?, ?, 0, ?)
		ON CONFLICT(email) DO UPDATE SET
			code_hash  = excluded.code_hash,
			expires_at = excluded.expires_at,
			attempts   = 0,
			created_at = excluded.created_at`,
		rec.Email, rec.CodeHash, rec.ExpiresAt.UTC(), rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving otp: %w", err)
	}
	return nil
}

// GetOTP returns the outstanding code for email, or nil.
func (s *SQLiteOTPStore) GetOTP(ctx context.Context, email string) (*OTPRecord, error) {
	var rec OTPRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT email, code_hash, expires_at, attempts, created_at
		FROM otp_codes WHERE email = ?`, email,
	).Scan(&rec.Email, &rec.CodeHash, &rec.ExpiresAt, &rec.Attempts, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying otp: %w", err)
	}
	return &rec, nil
}

// ReserveOTPAttempt increments the attempt counter for email unless it has
// already reached max. The check and the increment are one statement.
func (s *SQLiteOTPStore) ReserveOTPAttempt(ctx context.Context, email string, max int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE otp_codes SET attempts = attempts + 1 WHERE email = ? AND attempts < ?`, email, max)
	if err != nil {
		return false, fmt.Errorf("reserving otp attempt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking otp attempt: %w", err)
	}
	return n > 0, nil
}

// DeleteOTP removes the code for email.
func (s *SQLiteOTPStore) DeleteOTP(ctx context.Context, email string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM otp_codes WHERE email = ?`, email); err != nil {
		return fmt.Errorf("deleting otp: %w", err)
	}
	return nil
}

// DeleteExpiredOTPs removes every code that expired at or before now.
// Expiry is compared in Go since the driver stores times as text.
func (s *SQLiteOTPStore) DeleteExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT email, expires_at FROM otp_codes`)
	if err != nil {
		return 0, fmt.Errorf("listing otps: %w", err)
	}
	var expired []string
	for rows.Next() {
		var (
			email     string
			expiresAt time.Time
		)
		if err := rows.Scan(&email, &expiresAt); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("scanning otp: %w", err)
		}
		if !expiresAt.After(now) {
			expired = append(expired, email)
		}
	}
	if err := rows.Close(); err != nil {
		return 0, fmt.Errorf("closing otp rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterating otps: %w", err)
	}

	for _, email := range expired {
		if err := s.DeleteOTP(ctx, email); err != nil {
			return 0, err
		}
	}
	return int64(len(expired)), nil
}
