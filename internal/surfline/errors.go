package surfline

import "fmt"

// APIError represents an error from the Surfline API
type APIError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Surfline API error: %s: %v", e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("Surfline API error: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("Surfline API error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new Surfline API error
func NewAPIError(message string, err error) *APIError {
	return &APIError{
		Message: message,
		Err:     err,
	}
}

// InvalidSpotError is returned for spot IDs the widget is not configured for
type InvalidSpotError struct {
	SpotID string
}

func (e *InvalidSpotError) Error() string {
	return fmt.Sprintf("unknown spot: %s", e.SpotID)
}

func NewInvalidSpotError(spotID string) *InvalidSpotError {
	return &InvalidSpotError{SpotID: spotID}
}
