package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/infrastructure/smtp"
	"github.com/freshcart/freshcart-api/internal/infrastructure/sns"
)

// Dispatcher routes verification codes and account notices to the right
// transport for a channel.
type Dispatcher struct {
	mailer smtp.Mailer
	sms    sns.SMSSender
}

func NewDispatcher(mailer smtp.Mailer, sms sns.SMSSender) *Dispatcher {
	return &Dispatcher{mailer: mailer, sms: sms}
}

// SendOTP delivers a verification code over the given channel. The identifier
// is an email address for the email channel and an E.164 number for phone.
func (d *Dispatcher) SendOTP(ctx context.Context, channel, identifier, code string) error {
	switch channel {
	case domain.ChannelEmail:
		body := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
		return d.mailer.SendEmail(identifier, "Your verification code", body)
	case domain.ChannelPhone:
		return d.sms.SendSMS(ctx, identifier, "Your verification code is "+code)
	default:
		return fmt.Errorf("unknown channel %q: %w", channel, domain.ErrBadRequest)
	}
}

// SendOTPAsync fires SendOTP without blocking the caller. Delivery failures
// are logged, never surfaced; the client can always request a resend.
func (d *Dispatcher) SendOTPAsync(channel, identifier, code string) {
	go func() {
		if err := d.SendOTP(context.Background(), channel, identifier, code); err != nil {
			slog.Error("otp delivery failed", "channel", channel, "err", err)
		}
	}()
}

// NotifyPasswordChanged emails a security notice after a password change.
func (d *Dispatcher) NotifyPasswordChanged(email string) {
	go func() {
		err := d.mailer.SendEmail(email, "Your password was changed",
			"Your account password was just changed. If this wasn't you, contact support immediately.")
		if err != nil {
			slog.Error("password-change notice failed", "err", err)
		}
	}()
}

// NotifyAccountLocked emails a notice when the login lockout trips.
func (d *Dispatcher) NotifyAccountLocked(email string) {
	go func() {
		err := d.mailer.SendEmail(email, "Account temporarily locked",
			"Too many failed login attempts. Your account is locked for 2 hours.")
		if err != nil {
			slog.Error("lockout notice failed", "err", err)
		}
	}()
}
