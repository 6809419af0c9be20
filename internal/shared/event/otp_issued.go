package event

const OtpIssuedDestination string = "phoneotp.otp-issued"

// OtpIssuedMessage announces a new challenge. It never carries the code.
type OtpIssuedMessage struct {
	Phone     string `json:"phone"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}
