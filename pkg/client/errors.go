package client

import (
	"errors"
	"fmt"
	"strings"
)

// FallbackMessage is shown when a failure carries no usable detail.
const FallbackMessage = "Failed to generate content"

// NetworkError reports a transport failure: the request never produced an
// HTTP response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("client: network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError reports a response the generation API marked as failed, either a
// non-2xx status or a 2xx body with success set to false.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("client: api error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("client: api error (status %d): %s", e.StatusCode, e.Detail)
}

// Message converts a submission failure into the single string shown to the
// user. Only an API detail survives; everything else uses FallbackMessage.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if detail := strings.TrimSpace(apiErr.Detail); detail != "" {
			return apiErr.Detail
		}
	}
	return FallbackMessage
}
