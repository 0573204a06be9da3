package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")

	// Provider errors. ErrProvider is fatal for collection-level operations
	// (listing, create, add, remove); per-track search failures are absorbed
	// by the engine after retry exhaustion and never abort a run.
	ErrProvider           = fmt.Errorf("provider request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrCollectionNotFound = fmt.Errorf("collection not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// ErrReviewAborted signals an interrupted review callback; the engine
	// treats it as "select nothing", not as a failure.
	ErrReviewAborted = fmt.Errorf("review aborted")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
