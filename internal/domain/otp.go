package domain

// OTP verification channels.
const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

// OTPRecord is the ephemeral one-time-password record. It lives in the otps
// table under (identifier, channel) and auto-expires via the expires_at TTL
// attribute. At most one live record exists per pair: a new Put overwrites.
type OTPRecord struct {
	Identifier string `dynamodbav:"identifier"`
	Channel    string `dynamodbav:"channel"`
	Code       string `dynamodbav:"code"`
	Attempts   int    `dynamodbav:"attempts"`
	CreatedAt  int64  `dynamodbav:"created_at"`
	ExpiresAt  int64  `dynamodbav:"expires_at"` // unix seconds, DynamoDB TTL
}
