package domain

import "time"

// RefreshToken is one live refresh token on a user account. Each token is
// single-use: rotation removes it and appends a replacement.
type RefreshToken struct {
	Token     string    `json:"-" dynamodbav:"token"`
	Device    string    `json:"device" dynamodbav:"device"`
	IP        string    `json:"ip" dynamodbav:"ip"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt time.Time `json:"expires_at" dynamodbav:"expires_at"`
}

// PasswordRecord is a retired password hash kept for reuse-prevention policy.
type PasswordRecord struct {
	Hash      string    `json:"-" dynamodbav:"hash"`
	ChangedAt time.Time `json:"-" dynamodbav:"changed_at"`
}

type User struct {
	UserID       string  `json:"id" dynamodbav:"user_id"`
	Email        string  `json:"email" dynamodbav:"email"`
	Phone        *string `json:"phone,omitempty" dynamodbav:"phone"`
	PasswordHash string  `json:"-" dynamodbav:"password_hash"`
	Role         string  `json:"role" dynamodbav:"role"`
	FirstName    string  `json:"first_name" dynamodbav:"first_name"`
	LastName     string  `json:"last_name" dynamodbav:"last_name"`

	EmailVerified bool `json:"email_verified" dynamodbav:"email_verified"`
	PhoneVerified bool `json:"phone_verified" dynamodbav:"phone_verified"`

	LoginAttempts int        `json:"-" dynamodbav:"login_attempts"`
	LockUntil     *time.Time `json:"-" dynamodbav:"lock_until"`
	LastLogin     *time.Time `json:"last_login,omitempty" dynamodbav:"last_login"`
	LastLoginIP   string     `json:"-" dynamodbav:"last_login_ip"`

	RefreshTokens   []RefreshToken   `json:"-" dynamodbav:"refresh_tokens"`
	PasswordHistory []PasswordRecord `json:"-" dynamodbav:"password_history"`

	Enable    bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" dynamodbav:"updated_at"`
}

// Locked reports whether the account is inside an active lockout window.
func (u *User) Locked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// LiveToken returns the refresh-token record matching token if it exists and
// has not expired.
func (u *User) LiveToken(token string, now time.Time) (RefreshToken, bool) {
	for _, rt := range u.RefreshTokens {
		if rt.Token == token && rt.ExpiresAt.After(now) {
			return rt, true
		}
	}
	return RefreshToken{}, false
}

type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	Phone     *string `json:"phone" validate:"omitempty,e164"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Code       string `json:"code" validate:"required,len=6,numeric"`
}

type ResendOTPRequest struct {
	Channel    string `json:"channel" validate:"required,oneof=email phone"`
	Identifier string `json:"identifier" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type UpdateUserRequest struct {
	Phone     *string `json:"phone" validate:"omitempty,e164"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin manager customer"`
	Enable    *bool   `json:"enable"`
}

// DeviceInfo is the client fingerprint recorded with issued refresh tokens.
type DeviceInfo struct {
	UserAgent string
	IP        string
}
