package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/freshcart/freshcart-api/internal/domain"
	otpgen "github.com/freshcart/freshcart-api/internal/pkg/otp"
)

// Store is the minimal key-value contract the OTP service needs. The record
// store must provide per-key atomic increments; everything else is plain
// put/get/delete.
type Store interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, channel, identifier string) (*domain.OTPRecord, error)
	IncrementAttempts(ctx context.Context, channel, identifier string) (int, error)
	Delete(ctx context.Context, channel, identifier string) error
}

// Service issues and verifies one-time passwords for email/phone verification.
type Service struct {
	store       Store
	expiry      time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewService(store Store, expiry time.Duration, maxAttempts int) *Service {
	return &Service{
		store:       store,
		expiry:      expiry,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// GenerateAndStore creates a fresh code for (channel, identifier), replacing
// any previous one, and returns the plaintext code for delivery.
func (s *Service) GenerateAndStore(ctx context.Context, channel, identifier string) (string, error) {
	code, err := otpgen.GenerateCode()
	if err != nil {
		return "", err
	}
	now := s.now()
	rec := &domain.OTPRecord{
		Identifier: identifier,
		Channel:    channel,
		Code:       code,
		Attempts:   0,
		CreatedAt:  now.Unix(),
		ExpiresAt:  now.Add(s.expiry).Unix(),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Verify checks a submitted code. Every call burns an attempt, matching or
// not; once attempts exceed the ceiling the record is destroyed and even the
// correct code is rejected. A successful match consumes the record.
func (s *Service) Verify(ctx context.Context, channel, identifier, submitted string) (bool, error) {
	rec, err := s.load(ctx, channel, identifier)
	if err != nil {
		return false, err
	}

	attempts, err := s.store.IncrementAttempts(ctx, channel, identifier)
	if err != nil {
		// The record can vanish between Get and the increment (TTL sweep or a
		// concurrent success). Treat that exactly like an absent record.
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrOTPExpiredOrNotFound
		}
		return false, fmt.Errorf("increment otp attempts: %w", err)
	}
	if attempts > s.maxAttempts {
		if derr := s.store.Delete(ctx, channel, identifier); derr != nil {
			return false, fmt.Errorf("delete exhausted otp: %w", derr)
		}
		return false, domain.ErrMaxAttemptsExceeded
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(submitted)) != 1 {
		return false, nil
	}

	if err := s.store.Delete(ctx, channel, identifier); err != nil {
		return false, fmt.Errorf("delete verified otp: %w", err)
	}
	return true, nil
}

// RemainingAttempts reports how many verification attempts are left, 0 when
// no live record exists.
func (s *Service) RemainingAttempts(ctx context.Context, channel, identifier string) (int, error) {
	rec, err := s.load(ctx, channel, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrOTPExpiredOrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	left := s.maxAttempts - rec.Attempts
	if left < 0 {
		left = 0
	}
	return left, nil
}

// RemainingSeconds reports the seconds until the live record expires, 0 when
// no live record exists.
func (s *Service) RemainingSeconds(ctx context.Context, channel, identifier string) (int, error) {
	rec, err := s.load(ctx, channel, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrOTPExpiredOrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	left := rec.ExpiresAt - s.now().Unix()
	if left < 0 {
		left = 0
	}
	return int(left), nil
}

// Invalidate discards any live code for (channel, identifier).
func (s *Service) Invalidate(ctx context.Context, channel, identifier string) error {
	return s.store.Delete(ctx, channel, identifier)
}

// load fetches the record, translating absence and lazy-TTL leftovers into
// the user-facing expired/not-found error.
func (s *Service) load(ctx context.Context, channel, identifier string) (*domain.OTPRecord, error) {
	rec, err := s.store.Get(ctx, channel, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrOTPExpiredOrNotFound
		}
		return nil, fmt.Errorf("load otp: %w", err)
	}
	if rec.ExpiresAt <= s.now().Unix() {
		// TTL deletion is lazy; an expired record is as good as gone.
		if derr := s.store.Delete(ctx, channel, identifier); derr != nil {
			return nil, fmt.Errorf("delete expired otp: %w", derr)
		}
		return nil, domain.ErrOTPExpiredOrNotFound
	}
	return rec, nil
}
