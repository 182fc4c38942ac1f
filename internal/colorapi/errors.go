package colorapi

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a request to the color service failed.
type Kind int

const (
	// KindUnknown is reported for errors that did not come from this package.
	KindUnknown Kind = iota
	// KindRequest means the request could not be built.
	KindRequest
	// KindNoResponse means the request was sent but nothing came back.
	KindNoResponse
	// KindStatus means the service answered with an error status.
	KindStatus
	// KindDecode means the service answered 2xx with an unreadable body.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request error"
	case KindNoResponse:
		return "no response"
	case KindStatus:
		return "server error"
	case KindDecode:
		return "invalid response"
	default:
		return "error"
	}
}

// Error is returned by every Client method.
type Error struct {
	Kind       Kind
	Op         string
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Op, e.Kind)
	switch e.Kind {
	case KindStatus:
		fmt.Fprintf(&b, ": %s %s returned status %d", e.Method, e.Path, e.StatusCode)
		if e.Body != "" {
			fmt.Fprintf(&b, ": %s", e.Body)
		}
	default:
		if e.Err != nil {
			fmt.Fprintf(&b, ": %v", e.Err)
		}
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// Describe renders err for display, naming the failure class so that
// server errors, lost responses and malformed requests read differently.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch apiErr.Kind {
	case KindStatus:
		msg := fmt.Sprintf("Server responded with status %d", apiErr.StatusCode)
		if apiErr.Body != "" {
			msg += ": " + apiErr.Body
		}
		return msg
	case KindNoResponse:
		return fmt.Sprintf("No response received from the server: %v", apiErr.Err)
	case KindRequest:
		return fmt.Sprintf("Error setting up the request: %v", apiErr.Err)
	case KindDecode:
		return fmt.Sprintf("Unreadable response from the server: %v", apiErr.Err)
	default:
		return apiErr.Error()
	}
}
