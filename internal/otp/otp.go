// Package otp issues and verifies one-time login codes. Codes are stored
// only as bcrypt hashes, one outstanding code per email.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

// Errors returned by Issue and Verify.
var (
	ErrRateLimited     = errors.New("too many login code requests")
	ErrInvalidCode     = errors.New("invalid login code")
	ErrExpired         = errors.New("login code expired")
	ErrTooManyAttempts = errors.New("too many failed attempts")
)

// Config controls code shape, lifetime and request limits.
type Config struct {
	CodeLength  int
	TTL         time.Duration
	MaxAttempts int
	// RequestInterval and RequestBurst limit Issue calls per email.
	RequestInterval time.Duration
	RequestBurst    int
	BcryptCost      int
}

// DefaultConfig provides the production settings.
var DefaultConfig = Config{
	CodeLength:      6,
	TTL:             10 * time.Minute,
	MaxAttempts:     5,
	RequestInterval: 30 * time.Second,
	RequestBurst:    3,
	BcryptCost:      bcrypt.DefaultCost,
}

// Service issues and verifies login codes.
type Service struct {
	store   storage.OTPStore
	cfg     Config
	limiter *limiter
	now     func() time.Time
}

// NewService creates a Service. Zero fields in cfg take DefaultConfig values.
func NewService(store storage.OTPStore, cfg Config) *Service {
	if cfg.CodeLength <= 0 || cfg.CodeLength > 18 {
		cfg.CodeLength = DefaultConfig.CodeLength
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig.TTL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig.MaxAttempts
	}
	if cfg.RequestInterval <= 0 {
		cfg.RequestInterval = DefaultConfig.RequestInterval
	}
	if cfg.RequestBurst <= 0 {
		cfg.RequestBurst = DefaultConfig.RequestBurst
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = DefaultConfig.BcryptCost
	}
	return &Service{
		store:   store,
		cfg:     cfg,
		limiter: newLimiter(cfg.RequestInterval, cfg.RequestBurst),
		now:     time.Now,
	}
}

// Issue generates a new code for email, replacing any outstanding one, and
// returns it in clear text for delivery.
func (s *Service) Issue(ctx context.Context, email string) (string, error) {
	email = normalize(email)
	if email == "" {
		return "", fmt.Errorf("email is required")
	}
	if !s.limiter.allow(email, s.now()) {
		return "", ErrRateLimited
	}

	code, err := generateCode(s.cfg.CodeLength)
	if err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing code: %w", err)
	}

	now := s.now()
	if err := s.store.SaveOTP(ctx, storage.OTPRecord{
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(s.cfg.TTL),
		CreatedAt: now,
	}); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks code against the outstanding code for email. A successful
// verification consumes the code.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	email = normalize(email)
	rec, err := s.store.GetOTP(ctx, email)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrInvalidCode
	}
	if !s.now().Before(rec.ExpiresAt) {
		if err := s.store.DeleteOTP(ctx, email); err != nil {
			return err
		}
		return ErrExpired
	}
	// Every comparison spends an attempt up front so concurrent guesses
	// cannot exceed MaxAttempts.
	granted, err := s.store.ReserveOTPAttempt(ctx, email, s.cfg.MaxAttempts)
	if err != nil {
		return err
	}
	if !granted {
		return ErrTooManyAttempts
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(strings.TrimSpace(code))) != nil {
		return ErrInvalidCode
	}
	return s.store.DeleteOTP(ctx, email)
}

// PurgeExpired deletes every expired code and returns how many were removed.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredOTPs(ctx, s.now())
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateCode returns a uniformly random decimal code of n digits (n <= 18).
func generateCode(n int) (string, error) {
	upper := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v.Int64()), nil
}
