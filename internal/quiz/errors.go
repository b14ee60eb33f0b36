package quiz

import "errors"

// Submission and confirmation errors.
var (
	// ErrMalformedAnswer means an answer references an option of another item.
	ErrMalformedAnswer = errors.New("malformed answer")
	// ErrResponseCountMismatch means fewer responses were persisted than items exist.
	ErrResponseCountMismatch = errors.New("response count mismatch")
	// ErrScoreInvariantViolation means the recounted trait score does not cover every item.
	ErrScoreInvariantViolation = errors.New("score invariant violation")
	// ErrAlreadyCompleted means the identity already has recommendations.
	ErrAlreadyCompleted = errors.New("quiz already completed")
	// ErrIdentityNotFound means no assessment record exists for the identity.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrCandidateNotRecommended means the candidate is not among the identity's recommendations.
	ErrCandidateNotRecommended = errors.New("candidate not recommended")
	// ErrAlreadyConfirmedSame means the same candidate was already confirmed.
	ErrAlreadyConfirmedSame = errors.New("outcome already confirmed")
	// ErrConfirmationImmutable means a different candidate was already confirmed.
	ErrConfirmationImmutable = errors.New("outcome confirmation is immutable")

	ErrInvalidMetadata = errors.New("invalid metadata")
	ErrInvalidRating   = errors.New("satisfaction rating must be between 1 and 5")
	ErrInvalidProfile  = errors.New("invalid trait profile")
	ErrEmptyIdentity   = errors.New("identity is required")
)

var expected = []error{
	ErrMalformedAnswer,
	ErrAlreadyCompleted,
	ErrIdentityNotFound,
	ErrCandidateNotRecommended,
	ErrAlreadyConfirmedSame,
	ErrConfirmationImmutable,
	ErrInvalidMetadata,
	ErrInvalidRating,
	ErrInvalidProfile,
	ErrEmptyIdentity,
}

// IsExpected reports whether err is an ordinary outcome to show to the user
// as-is rather than a failure to log.
func IsExpected(err error) bool {
	for _, target := range expected {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
