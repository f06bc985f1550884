package service

import "errors"

var (
	// ErrAlreadyEnrolled is returned when the (student, course) pair already
	// has an enrollment. No money is moved in that case.
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")

	// ErrInsufficientFunds is returned when the conditional debit found the
	// balance too low. The balance is untouched.
	ErrInsufficientFunds = errors.New("insufficient balance to purchase this course")

	// ErrInvalidTransition is returned when the enrollment state machine does
	// not allow the requested change.
	ErrInvalidTransition = errors.New("enrollment status does not allow this operation")

	// ErrValidation is returned for malformed input such as progress outside 0-100.
	ErrValidation = errors.New("invalid input")
)
