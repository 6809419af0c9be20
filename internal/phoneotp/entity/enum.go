package entity

// ConsumeResult is what a store reports for a single consume attempt.
type ConsumeResult int8

const (
	// ConsumeNotFound mean there is no record for the key.
	ConsumeNotFound ConsumeResult = 0

	// ConsumeMatched mean the code matched before expiry and the record was deleted.
	ConsumeMatched ConsumeResult = 1

	// ConsumeMismatched mean the code did not match; the record is kept for retry.
	ConsumeMismatched ConsumeResult = 2

	// ConsumeExpired mean the record was past expiry and has been deleted.
	ConsumeExpired ConsumeResult = 3
)

func (c ConsumeResult) String() string {
	switch c {
	case ConsumeMatched:
		return "Matched"
	case ConsumeMismatched:
		return "Mismatched"
	case ConsumeExpired:
		return "Expired"
	default:
		return "NotFound"
	}
}

// VerifyOutcome is the single result of a verification attempt.
type VerifyOutcome int8

const (
	// VerifyOutcomeUnknown is the zero value and is never returned by a successful call.
	VerifyOutcomeUnknown VerifyOutcome = 0

	// VerifyOutcomeVerified mean the code was correct; the challenge is consumed.
	VerifyOutcomeVerified VerifyOutcome = 1

	// VerifyOutcomeInvalidPhone mean the phone did not normalize.
	VerifyOutcomeInvalidPhone VerifyOutcome = 2

	// VerifyOutcomeNoPendingChallenge mean nothing was issued, or it was already used.
	VerifyOutcomeNoPendingChallenge VerifyOutcome = 3

	// VerifyOutcomeIncorrectCode mean the challenge is live but the code is wrong.
	VerifyOutcomeIncorrectCode VerifyOutcome = 4

	// VerifyOutcomeChallengeExpired mean the challenge outlived its TTL and is gone now.
	VerifyOutcomeChallengeExpired VerifyOutcome = 5
)

func (v VerifyOutcome) String() string {
	switch v {
	case VerifyOutcomeVerified:
		return "Verified"
	case VerifyOutcomeInvalidPhone:
		return "InvalidPhone"
	case VerifyOutcomeNoPendingChallenge:
		return "NoPendingChallenge"
	case VerifyOutcomeIncorrectCode:
		return "IncorrectCode"
	case VerifyOutcomeChallengeExpired:
		return "ChallengeExpired"
	default:
		return "Unknown"
	}
}

// VerifyOutcomeFromConsume maps a store result onto the verification outcome.
func VerifyOutcomeFromConsume(c ConsumeResult) VerifyOutcome {
	switch c {
	case ConsumeMatched:
		return VerifyOutcomeVerified
	case ConsumeMismatched:
		return VerifyOutcomeIncorrectCode
	case ConsumeExpired:
		return VerifyOutcomeChallengeExpired
	default:
		return VerifyOutcomeNoPendingChallenge
	}
}
