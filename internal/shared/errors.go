package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Remote service errors
	ErrNetworkFailure     = fmt.Errorf("network failure")
	ErrNotFound           = fmt.Errorf("movie not found")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Collection errors
	ErrInvalidRating  = fmt.Errorf("rating must be between 1 and 5")
	ErrWorkflowClosed = fmt.Errorf("rating workflow already closed")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
