package domain

import "fmt"

// RawFailure is an unstructured failure as received from a transport or
// application call site, prior to classification. The shape matches a
// generic HTTP client error: an optional transport code, a free-text
// message, and the structured response when one was received.
type RawFailure struct {
	Code     string
	Message  string
	Response *RawResponse
}

// RawResponse carries the structured part of an HTTP failure.
type RawResponse struct {
	Status int
	Detail string
}

func (f *RawFailure) Error() string {
	if f == nil {
		return "<nil>"
	}
	if f.Response != nil {
		return fmt.Sprintf("request failed with status %d: %s", f.Response.Status, f.Message)
	}
	if f.Code != "" {
		return fmt.Sprintf("%s: %s", f.Code, f.Message)
	}
	return f.Message
}

// ClassifiedError wraps an original failure with its classification so that
// callers can branch on the taxonomy via errors.As while still unwrapping
// the underlying cause.
type ClassifiedError struct {
	Info ErrorInfo
	Err  error
}

func (e *ClassifiedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Info.Type, e.Err)
	}
	return string(e.Info.Type)
}

func (e *ClassifiedError) Unwrap() error { return e.Err }
