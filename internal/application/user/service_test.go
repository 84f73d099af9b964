package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) IncrementLoginAttempts(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
func (m *mockUserStore) SoftDelete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *mockUserStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	users, _ := args.Get(0).([]domain.User)
	return users, args.String(1), args.Error(2)
}

type mockOTP struct{ mock.Mock }

func (m *mockOTP) GenerateAndStore(ctx context.Context, channel, identifier string) (string, error) {
	args := m.Called(ctx, channel, identifier)
	return args.String(0), args.Error(1)
}
func (m *mockOTP) Verify(ctx context.Context, channel, identifier, code string) (bool, error) {
	args := m.Called(ctx, channel, identifier, code)
	return args.Bool(0), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) SendOTPAsync(channel, identifier, code string) {
	m.Called(channel, identifier, code)
}
func (m *mockNotifier) NotifyPasswordChanged(email string) { m.Called(email) }
func (m *mockNotifier) NotifyAccountLocked(email string)   { m.Called(email) }

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID, email, role string) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}

// --- builder ---

func newService(us *mockUserStore, otp *mockOTP, nt *mockNotifier, jwt *mockSigner) Service {
	return NewService(ServiceDeps{
		UserRepo:         us,
		OTP:              otp,
		Notifier:         nt,
		JWTProvider:      jwt,
		JWTExpiry:        15 * time.Minute,
		RefreshTokenDur:  7 * 24 * time.Hour,
		LockoutThreshold: 5,
		LockoutDuration:  2 * time.Hour,
	})
}

func hashOf(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func verifiedUser(t *testing.T, pw string) *domain.User {
	return &domain.User{
		UserID:        "u1",
		Email:         "a@b.com",
		PasswordHash:  hashOf(t, pw),
		Role:          domain.RoleCustomer,
		EmailVerified: true,
		Enable:        true,
	}
}

var dev = domain.DeviceInfo{UserAgent: "test-agent", IP: "1.2.3.4"}

// --- Register ---

func TestRegister_DuplicateEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{UserID: "u1"}, nil)

	svc := newService(us, nil, nil, nil)
	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email: "A@B.com", Password: "password123", FirstName: "A", LastName: "B",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateAccount))
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestRegister_HappyPath_SendsEmailOTP(t *testing.T) {
	us := &mockUserStore{}
	otp := &mockOTP{}
	nt := &mockNotifier{}

	us.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "a@b.com" && u.Role == domain.RoleCustomer &&
			!u.EmailVerified && u.PasswordHash != "password123" && u.UserID != ""
	})).Return(nil)
	otp.On("GenerateAndStore", mock.Anything, domain.ChannelEmail, "a@b.com").Return("123456", nil)
	nt.On("SendOTPAsync", domain.ChannelEmail, "a@b.com", "123456").Return()

	svc := newService(us, otp, nt, nil)
	u, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email: "A@B.com ", Password: "password123", FirstName: "A", LastName: "B",
	})

	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)
	us.AssertExpectations(t)
	otp.AssertExpectations(t)
	nt.AssertExpectations(t)
}

// --- VerifyEmail ---

func TestVerifyEmail_WrongCode(t *testing.T) {
	us := &mockUserStore{}
	otp := &mockOTP{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{UserID: "u1", Email: "a@b.com"}, nil)
	otp.On("Verify", mock.Anything, domain.ChannelEmail, "a@b.com", "000000").Return(false, nil)

	svc := newService(us, otp, nil, nil)
	_, err := svc.VerifyEmail(context.Background(), domain.VerifyOTPRequest{
		Identifier: "a@b.com", Code: "000000",
	}, dev)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestVerifyEmail_HappyPath_LogsIn(t *testing.T) {
	us := &mockUserStore{}
	otp := &mockOTP{}
	jwt := &mockSigner{}

	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{
		UserID: "u1", Email: "a@b.com", Role: domain.RoleCustomer, Enable: true,
	}, nil)
	otp.On("Verify", mock.Anything, domain.ChannelEmail, "a@b.com", "123456").Return(true, nil)
	jwt.On("Sign", "u1", "a@b.com", domain.RoleCustomer).Return("bearer-token", nil)
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		verified, _ := m["email_verified"].(bool)
		tokens, _ := m["refresh_tokens"].([]domain.RefreshToken)
		return verified && len(tokens) == 1
	})).Return(nil)

	svc := newService(us, otp, nil, jwt)
	pair, err := svc.VerifyEmail(context.Background(), domain.VerifyOTPRequest{
		Identifier: "a@b.com", Code: "123456",
	}, dev)

	require.NoError(t, err)
	assert.Equal(t, "bearer-token", pair.Bearer)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Empty(t, pair.User.PasswordHash)
	us.AssertExpectations(t)
}

// --- Login ---

func TestLogin_UnknownEmail_UniformError(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound)

	svc := newService(us, nil, nil, nil)
	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@b.com", Password: "x"}, dev)
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
}

func TestLogin_LockedAccount(t *testing.T) {
	us := &mockUserStore{}
	until := time.Now().Add(time.Hour)
	u := verifiedUser(t, "password123")
	u.LockUntil = &until
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(u, nil)

	svc := newService(us, nil, nil, nil)
	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@b.com", Password: "password123"}, dev)
	assert.True(t, errors.Is(err, domain.ErrAccountLocked))
}

func TestLogin_WrongPassword_TripsLockoutAtThreshold(t *testing.T) {
	us := &mockUserStore{}
	nt := &mockNotifier{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(verifiedUser(t, "password123"), nil)
	us.On("IncrementLoginAttempts", mock.Anything, "u1").Return(5, nil)
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		_, ok := m["lock_until"]
		return ok
	})).Return(nil)
	nt.On("NotifyAccountLocked", "a@b.com").Return()

	svc := newService(us, nil, nt, nil)
	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@b.com", Password: "wrong"}, dev)

	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	us.AssertExpectations(t)
	nt.AssertExpectations(t)
}

func TestLogin_WrongPassword_BelowThreshold_NoLockout(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(verifiedUser(t, "password123"), nil)
	us.On("IncrementLoginAttempts", mock.Anything, "u1").Return(2, nil)

	svc := newService(us, nil, nil, nil)
	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@b.com", Password: "wrong"}, dev)

	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	us.AssertExpectations(t)
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_WrongPassword_AfterLapsedLockout_ResetsCounter(t *testing.T) {
	us := &mockUserStore{}
	past := time.Now().Add(-time.Minute)
	u := verifiedUser(t, "password123")
	u.LoginAttempts = 5
	u.LockUntil = &past
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(u, nil)
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		n, _ := m["login_attempts"].(int)
		return n == 1
	})).Return(nil)

	svc := newService(us, nil, nil, nil)
	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@b.com", Password: "wrong"}, dev)

	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	us.AssertExpectations(t)
	us.AssertNotCalled(t, "IncrementLoginAttempts", mock.Anything, mock.Anything)
}

func TestLogin_EmailNotVerified_ResendsOTP(t *testing.T) {
	us := &mockUserStore{}
	otp := &mockOTP{}
	nt := &mockNotifier{}
	u := verifiedUser(t, "password123")
	u.EmailVerified = false
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(u, nil)
	otp.On("GenerateAndStore", mock.Anything, domain.ChannelEmail, "a@b.com").Return("654321", nil)
	nt.On("SendOTPAsync", domain.ChannelEmail, "a@b.com", "654321").Return()

	svc := newService(us, otp, nt, nil)
	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@b.com", Password: "password123"}, dev)

	assert.True(t, errors.Is(err, domain.ErrEmailNotVerified))
	otp.AssertExpectations(t)
	nt.AssertExpectations(t)
}

func TestLogin_HappyPath_ResetsCountersAndStoresToken(t *testing.T) {
	us := &mockUserStore{}
	jwt := &mockSigner{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(verifiedUser(t, "password123"), nil)
	jwt.On("Sign", "u1", "a@b.com", domain.RoleCustomer).Return("bearer-token", nil)
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		n, _ := m["login_attempts"].(int)
		tokens, _ := m["refresh_tokens"].([]domain.RefreshToken)
		return n == 0 && len(tokens) == 1 && tokens[0].Device == "test-agent"
	})).Return(nil)

	svc := newService(us, nil, nil, jwt)
	pair, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@b.com", Password: "password123"}, dev)

	require.NoError(t, err)
	assert.Equal(t, "bearer-token", pair.Bearer)
	assert.Equal(t, 900, pair.ExpiresIn)
	us.AssertExpectations(t)
}

// --- Refresh ---

func refreshUser(t *testing.T, token string, expiresAt time.Time) *domain.User {
	u := verifiedUser(t, "password123")
	u.RefreshTokens = []domain.RefreshToken{{
		Token:     token,
		Device:    "test-agent",
		ExpiresAt: expiresAt,
	}}
	return u
}

func TestRefresh_RotatesToken(t *testing.T) {
	us := &mockUserStore{}
	jwt := &mockSigner{}
	old := "u1.oldrandom"
	us.On("Get", mock.Anything, "u1").Return(refreshUser(t, old, time.Now().Add(time.Hour)), nil)
	jwt.On("Sign", "u1", "a@b.com", domain.RoleCustomer).Return("bearer-token", nil)
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		tokens, _ := m["refresh_tokens"].([]domain.RefreshToken)
		return len(tokens) == 1 && tokens[0].Token != old
	})).Return(nil)

	svc := newService(us, nil, nil, jwt)
	pair, err := svc.Refresh(context.Background(), old, dev)

	require.NoError(t, err)
	assert.NotEqual(t, old, pair.RefreshToken)
	us.AssertExpectations(t)
}

func TestRefresh_ReplayedToken_RevokesAllSessions(t *testing.T) {
	us := &mockUserStore{}
	u := refreshUser(t, "u1.current", time.Now().Add(time.Hour))
	us.On("Get", mock.Anything, "u1").Return(u, nil)
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		tokens, _ := m["refresh_tokens"].([]domain.RefreshToken)
		return len(tokens) == 0
	})).Return(nil)

	svc := newService(us, nil, nil, nil)
	_, err := svc.Refresh(context.Background(), "u1.rotated-out", dev)

	assert.True(t, errors.Is(err, domain.ErrInvalidRefreshToken))
	us.AssertExpectations(t)
}

func TestRefresh_DeviceMismatch(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(refreshUser(t, "u1.current", time.Now().Add(time.Hour)), nil)

	svc := newService(us, nil, nil, nil)
	_, err := svc.Refresh(context.Background(), "u1.current", domain.DeviceInfo{UserAgent: "other-agent"})

	assert.True(t, errors.Is(err, domain.ErrInvalidRefreshToken))
}

func TestRefresh_MalformedToken(t *testing.T) {
	svc := newService(nil, nil, nil, nil)
	_, err := svc.Refresh(context.Background(), "no-separator", dev)
	assert.True(t, errors.Is(err, domain.ErrInvalidRefreshToken))
}

// --- ChangePassword ---

func TestChangePassword_RejectsRecentReuse(t *testing.T) {
	us := &mockUserStore{}
	u := verifiedUser(t, "currentpw123")
	u.PasswordHistory = []domain.PasswordRecord{{Hash: hashOf(t, "oldpw123456")}}
	us.On("Get", mock.Anything, "u1").Return(u, nil)

	svc := newService(us, nil, nil, nil)
	err := svc.ChangePassword(context.Background(), "u1", domain.ChangePasswordRequest{
		CurrentPassword: "currentpw123",
		NewPassword:     "oldpw123456",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(verifiedUser(t, "currentpw123"), nil)

	svc := newService(us, nil, nil, nil)
	err := svc.ChangePassword(context.Background(), "u1", domain.ChangePasswordRequest{
		CurrentPassword: "nope",
		NewPassword:     "freshpw12345",
	})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestChangePassword_HappyPath_RevokesSessions(t *testing.T) {
	us := &mockUserStore{}
	nt := &mockNotifier{}
	u := verifiedUser(t, "currentpw123")
	us.On("Get", mock.Anything, "u1").Return(u, nil)
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		hash, _ := m["password_hash"].(string)
		history, _ := m["password_history"].([]domain.PasswordRecord)
		tokens, _ := m["refresh_tokens"].([]domain.RefreshToken)
		return hash != "" && hash != u.PasswordHash && len(history) == 1 && len(tokens) == 0
	})).Return(nil)
	nt.On("NotifyPasswordChanged", "a@b.com").Return()

	svc := newService(us, nil, nt, nil)
	err := svc.ChangePassword(context.Background(), "u1", domain.ChangePasswordRequest{
		CurrentPassword: "currentpw123",
		NewPassword:     "freshpw12345",
	})
	require.NoError(t, err)
	us.AssertExpectations(t)
	nt.AssertExpectations(t)
}
