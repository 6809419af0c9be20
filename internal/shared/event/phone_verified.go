package event

const PhoneVerifiedDestination string = "phoneotp.phone-verified"

type PhoneVerifiedMessage struct {
	Phone      string `json:"phone"`
	VerifiedAt int64  `json:"verified_at"`
}
