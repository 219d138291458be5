package common

import "errors"

var (
	// Session errors.
	ErrAuthMissing        = errors.New("auth token missing or expired")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Expected absence: the account has not registered as a seller yet.
	ErrProfileNotFound = errors.New("seller profile not found")

	// Device errors.
	ErrLocationUnavailable = errors.New("location unavailable")

	// Input rejected before any network call.
	ErrValidation = errors.New("validation error")

	// The caller's seller profile does not own the product or transaction.
	ErrNotOwner = errors.New("not owned by the current seller")

	// Lifecycle errors.
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrActionInProgress  = errors.New("action already in progress")
)
