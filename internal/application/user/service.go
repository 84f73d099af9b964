package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/pkg/id"
	pkgtoken "github.com/freshcart/freshcart-api/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxRefreshTokens   = 5
	maxPasswordHistory = 5
)

// TokenPair is what a successful login, verification, or refresh hands back.
type TokenPair struct {
	Bearer       string       `json:"access_token"`
	RefreshToken string       `json:"-"`
	ExpiresIn    int          `json:"expires_in"`
	User         *domain.User `json:"user,omitempty"`
}

type ListResult struct {
	Users      []domain.User `json:"users"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type Store interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	IncrementLoginAttempts(ctx context.Context, userID string) (int, error)
	SoftDelete(ctx context.Context, userID string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

// OTPManager issues and checks one-time codes.
type OTPManager interface {
	GenerateAndStore(ctx context.Context, channel, identifier string) (string, error)
	Verify(ctx context.Context, channel, identifier, code string) (bool, error)
}

// Notifier delivers codes and account notices out of band.
type Notifier interface {
	SendOTPAsync(channel, identifier, code string)
	NotifyPasswordChanged(email string)
	NotifyAccountLocked(email string)
}

type TokenSigner interface {
	Sign(userID, email, role string) (string, error)
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	VerifyEmail(ctx context.Context, req domain.VerifyOTPRequest, dev domain.DeviceInfo) (*TokenPair, error)
	VerifyPhone(ctx context.Context, req domain.VerifyOTPRequest) error
	ResendOTP(ctx context.Context, req domain.ResendOTPRequest) error
	Login(ctx context.Context, req domain.LoginRequest, dev domain.DeviceInfo) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string, dev domain.DeviceInfo) (*TokenPair, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	List(ctx context.Context, limit int32, cursor string) (*ListResult, error)
	AdminUpdate(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
}

type ServiceDeps struct {
	UserRepo         Store
	OTP              OTPManager
	Notifier         Notifier
	JWTProvider      TokenSigner
	JWTExpiry        time.Duration
	RefreshTokenDur  time.Duration
	LockoutThreshold int
	LockoutDuration  time.Duration
}

type service struct {
	deps ServiceDeps
	now  func() time.Time
}

func NewService(deps ServiceDeps) Service {
	return &service{deps: deps, now: time.Now}
}

// Register creates a disabled-verification account and fires the email OTP.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.deps.UserRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateAccount
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if req.Phone != nil {
		if _, err := s.deps.UserRepo.GetByPhone(ctx, *req.Phone); err == nil {
			return nil, domain.ErrDuplicateAccount
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("check phone: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.deps.UserRepo.Put(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	code, err := s.deps.OTP.GenerateAndStore(ctx, domain.ChannelEmail, email)
	if err != nil {
		// The account exists; the client can hit resend-otp.
		slog.Error("otp generation failed after register", "user_id", u.UserID, "err", err)
		return u, nil
	}
	s.deps.Notifier.SendOTPAsync(domain.ChannelEmail, email, code)
	return u, nil
}

// VerifyEmail consumes the email OTP and, on success, marks the address
// verified and logs the user in.
func (s *service) VerifyEmail(ctx context.Context, req domain.VerifyOTPRequest, dev domain.DeviceInfo) (*TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Identifier))
	u, err := s.deps.UserRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrOTPExpiredOrNotFound
		}
		return nil, err
	}

	ok, err := s.deps.OTP.Verify(ctx, domain.ChannelEmail, email, req.Code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("invalid verification code: %w", domain.ErrBadRequest)
	}

	u.EmailVerified = true
	pair, tokens, err := s.issueTokens(u, dev, nil)
	if err != nil {
		return nil, err
	}
	err = s.deps.UserRepo.Update(ctx, u.UserID, map[string]interface{}{
		"email_verified": true,
		"refresh_tokens": tokens,
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// VerifyPhone consumes the phone OTP and marks the number verified.
func (s *service) VerifyPhone(ctx context.Context, req domain.VerifyOTPRequest) error {
	u, err := s.deps.UserRepo.GetByPhone(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrOTPExpiredOrNotFound
		}
		return err
	}

	ok, err := s.deps.OTP.Verify(ctx, domain.ChannelPhone, req.Identifier, req.Code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("invalid verification code: %w", domain.ErrBadRequest)
	}
	return s.deps.UserRepo.Update(ctx, u.UserID, map[string]interface{}{
		"phone_verified": true,
	})
}

// ResendOTP issues a fresh code for an account that has not yet verified the
// requested channel. The previous code, if any, stops working.
func (s *service) ResendOTP(ctx context.Context, req domain.ResendOTPRequest) error {
	var u *domain.User
	var err error
	switch req.Channel {
	case domain.ChannelEmail:
		u, err = s.deps.UserRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Identifier)))
	case domain.ChannelPhone:
		u, err = s.deps.UserRepo.GetByPhone(ctx, req.Identifier)
	default:
		return fmt.Errorf("unknown channel %q: %w", req.Channel, domain.ErrBadRequest)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("account not found: %w", domain.ErrNotFound)
		}
		return err
	}

	if req.Channel == domain.ChannelEmail && u.EmailVerified {
		return fmt.Errorf("email already verified: %w", domain.ErrBadRequest)
	}
	if req.Channel == domain.ChannelPhone && u.PhoneVerified {
		return fmt.Errorf("phone already verified: %w", domain.ErrBadRequest)
	}

	code, err := s.deps.OTP.GenerateAndStore(ctx, req.Channel, req.Identifier)
	if err != nil {
		return err
	}
	s.deps.Notifier.SendOTPAsync(req.Channel, req.Identifier, code)
	return nil
}

// Login authenticates with email and password. Failed attempts count toward a
// lockout; the error message never reveals whether the email exists.
func (s *service) Login(ctx context.Context, req domain.LoginRequest, dev domain.DeviceInfo) (*TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	u, err := s.deps.UserRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.Enable {
		return nil, domain.ErrInvalidCredentials
	}
	now := s.now().UTC()
	if u.Locked(now) {
		return nil, domain.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, s.recordFailedLogin(ctx, u, now)
	}

	if !u.EmailVerified {
		// Nudge the user back into the verification flow.
		if code, oerr := s.deps.OTP.GenerateAndStore(ctx, domain.ChannelEmail, email); oerr == nil {
			s.deps.Notifier.SendOTPAsync(domain.ChannelEmail, email, code)
		}
		return nil, domain.ErrEmailNotVerified
	}

	pair, tokens, err := s.issueTokens(u, dev, u.RefreshTokens)
	if err != nil {
		return nil, err
	}
	err = s.deps.UserRepo.Update(ctx, u.UserID, map[string]interface{}{
		"login_attempts": 0,
		"lock_until":     nil,
		"last_login":     now.Format(time.RFC3339),
		"last_login_ip":  dev.IP,
		"refresh_tokens": tokens,
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// recordFailedLogin bumps the counter, trips the lockout at the threshold,
// and always reports invalid credentials to the caller.
func (s *service) recordFailedLogin(ctx context.Context, u *domain.User, now time.Time) error {
	if u.LockUntil != nil && !u.LockUntil.After(now) {
		// A lapsed lockout ends the previous strike series; this failure
		// opens a new one.
		err := s.deps.UserRepo.Update(ctx, u.UserID, map[string]interface{}{
			"login_attempts": 1,
			"lock_until":     nil,
		})
		if err != nil {
			slog.Error("failed-login reset failed", "user_id", u.UserID, "err", err)
		}
		return domain.ErrInvalidCredentials
	}

	attempts, err := s.deps.UserRepo.IncrementLoginAttempts(ctx, u.UserID)
	if err != nil {
		slog.Error("failed-login increment failed", "user_id", u.UserID, "err", err)
		return domain.ErrInvalidCredentials
	}
	if attempts >= s.deps.LockoutThreshold {
		until := now.Add(s.deps.LockoutDuration)
		err := s.deps.UserRepo.Update(ctx, u.UserID, map[string]interface{}{
			"lock_until": until.Format(time.RFC3339),
		})
		if err != nil {
			slog.Error("lockout update failed", "user_id", u.UserID, "err", err)
		}
		s.deps.Notifier.NotifyAccountLocked(u.Email)
	}
	return domain.ErrInvalidCredentials
}

// Refresh rotates a refresh token: the presented token is retired and a new
// pair is issued. Tokens are single-use; presenting an unknown or already
// rotated token revokes the whole session set.
func (s *service) Refresh(ctx context.Context, refreshToken string, dev domain.DeviceInfo) (*TokenPair, error) {
	userID, ok := splitRefreshToken(refreshToken)
	if !ok {
		return nil, domain.ErrInvalidRefreshToken
	}
	u, err := s.deps.UserRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}
	now := s.now().UTC()
	rt, live := u.LiveToken(refreshToken, now)
	if !live {
		// Replay of a rotated token means the token leaked. Burn everything.
		if uerr := s.deps.UserRepo.Update(ctx, u.UserID, map[string]interface{}{
			"refresh_tokens": []domain.RefreshToken{},
		}); uerr != nil {
			slog.Error("session revocation failed", "user_id", u.UserID, "err", uerr)
		}
		return nil, domain.ErrInvalidRefreshToken
	}
	if rt.Device != dev.UserAgent {
		return nil, domain.ErrInvalidRefreshToken
	}

	kept := make([]domain.RefreshToken, 0, len(u.RefreshTokens))
	for _, t := range u.RefreshTokens {
		if t.Token != refreshToken {
			kept = append(kept, t)
		}
	}
	pair, tokens, err := s.issueTokens(u, dev, kept)
	if err != nil {
		return nil, err
	}
	err = s.deps.UserRepo.Update(ctx, u.UserID, map[string]interface{}{
		"refresh_tokens": tokens,
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *service) Logout(ctx context.Context, userID, refreshToken string) error {
	u, err := s.deps.UserRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	kept := make([]domain.RefreshToken, 0, len(u.RefreshTokens))
	for _, t := range u.RefreshTokens {
		if t.Token != refreshToken {
			kept = append(kept, t)
		}
	}
	return s.deps.UserRepo.Update(ctx, userID, map[string]interface{}{
		"refresh_tokens": kept,
	})
}

func (s *service) LogoutAll(ctx context.Context, userID string) error {
	return s.deps.UserRepo.Update(ctx, userID, map[string]interface{}{
		"refresh_tokens": []domain.RefreshToken{},
	})
}

// ChangePassword rejects reuse of any of the last few passwords and revokes
// every session on success.
func (s *service) ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error {
	u, err := s.deps.UserRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.NewPassword)) == nil {
		return fmt.Errorf("new password matches a recent password: %w", domain.ErrBadRequest)
	}
	for _, rec := range u.PasswordHistory {
		if bcrypt.CompareHashAndPassword([]byte(rec.Hash), []byte(req.NewPassword)) == nil {
			return fmt.Errorf("new password matches a recent password: %w", domain.ErrBadRequest)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	history := append(u.PasswordHistory, domain.PasswordRecord{Hash: u.PasswordHash, ChangedAt: now})
	if len(history) > maxPasswordHistory {
		history = history[len(history)-maxPasswordHistory:]
	}
	err = s.deps.UserRepo.Update(ctx, userID, map[string]interface{}{
		"password_hash":    string(hash),
		"password_history": history,
		"refresh_tokens":   []domain.RefreshToken{},
	})
	if err != nil {
		return err
	}
	s.deps.Notifier.NotifyPasswordChanged(u.Email)
	return nil
}

func (s *service) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.deps.UserRepo.Get(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		// A new number must be re-verified.
		updates["phone"] = *req.Phone
		updates["phone_verified"] = false
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.deps.UserRepo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.deps.UserRepo.Get(ctx, userID)
}

func (s *service) List(ctx context.Context, limit int32, cursor string) (*ListResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	users, next, err := s.deps.UserRepo.ScanPage(ctx, limit, cursor)
	if err != nil {
		return nil, err
	}
	return &ListResult{Users: users, NextCursor: next}, nil
}

// AdminUpdate can additionally change role and enable.
func (s *service) AdminUpdate(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	if _, err := s.deps.UserRepo.Get(ctx, userID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
		updates["phone_verified"] = false
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Enable != nil {
		updates["enable"] = *req.Enable
		if !*req.Enable {
			updates["refresh_tokens"] = []domain.RefreshToken{}
		}
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.deps.UserRepo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.deps.UserRepo.Get(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID string) error {
	if _, err := s.deps.UserRepo.Get(ctx, userID); err != nil {
		return err
	}
	return s.deps.UserRepo.SoftDelete(ctx, userID)
}

// issueTokens builds a bearer/refresh pair and the refresh-token list to
// persist. existing should already exclude the token being rotated out;
// expired entries are pruned and the list is capped, oldest first.
func (s *service) issueTokens(u *domain.User, dev domain.DeviceInfo, existing []domain.RefreshToken) (*TokenPair, []domain.RefreshToken, error) {
	bearer, err := s.deps.JWTProvider.Sign(u.UserID, u.Email, u.Role)
	if err != nil {
		return nil, nil, err
	}
	random, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, nil, err
	}
	now := s.now().UTC()
	refresh := u.UserID + "." + random

	tokens := make([]domain.RefreshToken, 0, len(existing)+1)
	for _, t := range existing {
		if t.ExpiresAt.After(now) {
			tokens = append(tokens, t)
		}
	}
	tokens = append(tokens, domain.RefreshToken{
		Token:     refresh,
		Device:    dev.UserAgent,
		IP:        dev.IP,
		CreatedAt: now,
		ExpiresAt: now.Add(s.deps.RefreshTokenDur),
	})
	if len(tokens) > maxRefreshTokens {
		tokens = tokens[len(tokens)-maxRefreshTokens:]
	}

	sanitized := *u
	sanitized.PasswordHash = ""
	return &TokenPair{
		Bearer:       bearer,
		RefreshToken: refresh,
		ExpiresIn:    int(s.deps.JWTExpiry.Seconds()),
		User:         &sanitized,
	}, tokens, nil
}

// splitRefreshToken recovers the owning user ID from the composite token.
func splitRefreshToken(token string) (string, bool) {
	userID, rest, found := strings.Cut(token, ".")
	if !found || userID == "" || rest == "" {
		return "", false
	}
	return userID, true
}
