package service

import "errors"

var (
	// ErrNotLoggedIn is returned when an operation requires a resolved
	// identity and the session has none.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrAuthentication is returned when the identity provider rejects the
	// supplied credentials or authorization code.
	ErrAuthentication = errors.New("authentication failed")

	// ErrSettingsIncomplete is returned when a required retrieval setting
	// (knowledge base, data source, bucket, or model) is empty.
	ErrSettingsIncomplete = errors.New("retrieval settings incomplete")

	// ErrOwnershipViolation is returned when a caller addresses an object
	// outside their own prefix.
	ErrOwnershipViolation = errors.New("object not owned by caller")

	// ErrNotFound is returned when the addressed resource does not exist.
	ErrNotFound = errors.New("not found")
)
