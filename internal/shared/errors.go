package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingHost   = fmt.Errorf("missing robot host")

	// Connection errors
	ErrNotConnected = fmt.Errorf("not connected")
	ErrTimeout      = fmt.Errorf("operation timed out")

	// API errors
	ErrAPIRequest    = fmt.Errorf("API request failed")
	ErrAssetNotFound = fmt.Errorf("asset not found")
	ErrFaceNotFound  = fmt.Errorf("face not found")

	// Subscription errors
	ErrSubscriptionClosed = fmt.Errorf("subscription closed")
	ErrUnknownEvent       = fmt.Errorf("unknown event type")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
