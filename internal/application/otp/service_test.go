package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, rec *domain.OTPRecord) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *mockStore) Get(ctx context.Context, channel, identifier string) (*domain.OTPRecord, error) {
	args := m.Called(ctx, channel, identifier)
	if r, _ := args.Get(0).(*domain.OTPRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) IncrementAttempts(ctx context.Context, channel, identifier string) (int, error) {
	args := m.Called(ctx, channel, identifier)
	return args.Int(0), args.Error(1)
}
func (m *mockStore) Delete(ctx context.Context, channel, identifier string) error {
	return m.Called(ctx, channel, identifier).Error(0)
}

func newTestService(st *mockStore) *Service {
	return NewService(st, 10*time.Minute, 3)
}

func liveRecord(code string, attempts int) *domain.OTPRecord {
	now := time.Now()
	return &domain.OTPRecord{
		Identifier: "a@b.com",
		Channel:    domain.ChannelEmail,
		Code:       code,
		Attempts:   attempts,
		CreatedAt:  now.Unix(),
		ExpiresAt:  now.Add(5 * time.Minute).Unix(),
	}
}

// --- GenerateAndStore ---

func TestGenerateAndStore_PutsSixDigitCode(t *testing.T) {
	st := &mockStore{}
	var stored *domain.OTPRecord
	st.On("Put", mock.Anything, mock.AnythingOfType("*domain.OTPRecord")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.OTPRecord) }).
		Return(nil)

	svc := newTestService(st)
	code, err := svc.GenerateAndStore(context.Background(), domain.ChannelEmail, "a@b.com")

	require.NoError(t, err)
	assert.Len(t, code, 6)
	require.NotNil(t, stored)
	assert.Equal(t, code, stored.Code)
	assert.Equal(t, 0, stored.Attempts)
	assert.Equal(t, stored.CreatedAt+600, stored.ExpiresAt)
	st.AssertExpectations(t)
}

func TestGenerateAndStore_StoreError(t *testing.T) {
	st := &mockStore{}
	st.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))

	svc := newTestService(st)
	_, err := svc.GenerateAndStore(context.Background(), domain.ChannelEmail, "a@b.com")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrBadRequest))
}

// --- Verify ---

func TestVerify_NoRecord_ReturnsExpiredOrNotFound(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, domain.ChannelEmail, "a@b.com").Return(nil, domain.ErrNotFound)

	svc := newTestService(st)
	ok, err := svc.Verify(context.Background(), domain.ChannelEmail, "a@b.com", "123456")

	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOTPExpiredOrNotFound))
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestVerify_ExpiredRecord_DeletedAndRejected(t *testing.T) {
	st := &mockStore{}
	rec := liveRecord("123456", 0)
	rec.ExpiresAt = time.Now().Add(-1 * time.Minute).Unix()
	st.On("Get", mock.Anything, domain.ChannelEmail, "a@b.com").Return(rec, nil)
	st.On("Delete", mock.Anything, domain.ChannelEmail, "a@b.com").Return(nil)

	svc := newTestService(st)
	ok, err := svc.Verify(context.Background(), domain.ChannelEmail, "a@b.com", "123456")

	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOTPExpiredOrNotFound))
	st.AssertExpectations(t)
}

func TestVerify_WrongCode_BurnsAttempt(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, domain.ChannelEmail, "a@b.com").Return(liveRecord("123456", 0), nil)
	st.On("IncrementAttempts", mock.Anything, domain.ChannelEmail, "a@b.com").Return(1, nil)

	svc := newTestService(st)
	ok, err := svc.Verify(context.Background(), domain.ChannelEmail, "a@b.com", "654321")

	require.NoError(t, err)
	assert.False(t, ok)
	st.AssertExpectations(t)
}

func TestVerify_CorrectCode_ConsumesRecord(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, domain.ChannelEmail, "a@b.com").Return(liveRecord("123456", 1), nil)
	st.On("IncrementAttempts", mock.Anything, domain.ChannelEmail, "a@b.com").Return(2, nil)
	st.On("Delete", mock.Anything, domain.ChannelEmail, "a@b.com").Return(nil)

	svc := newTestService(st)
	ok, err := svc.Verify(context.Background(), domain.ChannelEmail, "a@b.com", "123456")

	require.NoError(t, err)
	assert.True(t, ok)
	st.AssertExpectations(t)
}

func TestVerify_AttemptsExhausted_RejectsEvenCorrectCode(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, domain.ChannelEmail, "a@b.com").Return(liveRecord("123456", 3), nil)
	st.On("IncrementAttempts", mock.Anything, domain.ChannelEmail, "a@b.com").Return(4, nil)
	st.On("Delete", mock.Anything, domain.ChannelEmail, "a@b.com").Return(nil)

	svc := newTestService(st)
	ok, err := svc.Verify(context.Background(), domain.ChannelEmail, "a@b.com", "123456")

	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMaxAttemptsExceeded))
	st.AssertExpectations(t)
}

func TestVerify_RecordVanishedDuringIncrement(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, domain.ChannelEmail, "a@b.com").Return(liveRecord("123456", 0), nil)
	st.On("IncrementAttempts", mock.Anything, domain.ChannelEmail, "a@b.com").Return(0, domain.ErrNotFound)

	svc := newTestService(st)
	ok, err := svc.Verify(context.Background(), domain.ChannelEmail, "a@b.com", "123456")

	assert.False(t, ok)
	assert.True(t, errors.Is(err, domain.ErrOTPExpiredOrNotFound))
}

// --- RemainingAttempts / RemainingSeconds ---

func TestRemainingAttempts(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, domain.ChannelEmail, "a@b.com").Return(liveRecord("123456", 2), nil)

	svc := newTestService(st)
	left, err := svc.RemainingAttempts(context.Background(), domain.ChannelEmail, "a@b.com")

	require.NoError(t, err)
	assert.Equal(t, 1, left)
}

func TestRemainingAttempts_NoRecord_IsZero(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, domain.ChannelEmail, "a@b.com").Return(nil, domain.ErrNotFound)

	svc := newTestService(st)
	left, err := svc.RemainingAttempts(context.Background(), domain.ChannelEmail, "a@b.com")

	require.NoError(t, err)
	assert.Equal(t, 0, left)
}

func TestRemainingSeconds_LiveRecord(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, domain.ChannelEmail, "a@b.com").Return(liveRecord("123456", 0), nil)

	svc := newTestService(st)
	secs, err := svc.RemainingSeconds(context.Background(), domain.ChannelEmail, "a@b.com")

	require.NoError(t, err)
	assert.Greater(t, secs, 0)
	assert.LessOrEqual(t, secs, 300)
}
