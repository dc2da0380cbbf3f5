package domain

import "errors"

var (
	// ErrInvalidZipCode is returned when a zip code is not exactly five digits.
	ErrInvalidZipCode = errors.New("zip code must be exactly 5 digits")
	// ErrIncompleteAnswers is returned when an evaluation is submitted before all questions are answered.
	ErrIncompleteAnswers = errors.New("all evaluation questions must be answered")
	// ErrInvalidAnswer indicates an answer referencing an unknown question or option.
	ErrInvalidAnswer = errors.New("answer does not match the question catalog")
	// ErrUnauthenticated is returned when no valid identity backs the request; callers must re-authenticate.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrEmailTaken is returned when signing up with an email that already has credentials.
	ErrEmailTaken = errors.New("email already registered")
	// ErrBadCredentials is returned when sign-in email/password do not match.
	ErrBadCredentials = errors.New("invalid email or password")
	// ErrUserNotFound indicates the user document does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEvaluationRequired indicates the user has no evaluation result yet.
	ErrEvaluationRequired = errors.New("evaluation not completed")
	// ErrTaskIndexOutOfRange indicates a toggle for an index outside the weekly set.
	ErrTaskIndexOutOfRange = errors.New("task index out of range")
	// ErrInvalidBill indicates a budget bill with an empty name or negative amount.
	ErrInvalidBill = errors.New("bill must have a name and a non-negative amount")
	// ErrStorageUnavailable wraps transient document-store failures; the operation may be retried.
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

// IsValidationError reports whether err stems from malformed caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidZipCode) ||
		errors.Is(err, ErrIncompleteAnswers) ||
		errors.Is(err, ErrInvalidAnswer) ||
		errors.Is(err, ErrTaskIndexOutOfRange) ||
		errors.Is(err, ErrInvalidBill)
}
