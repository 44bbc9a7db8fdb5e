package classify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vietddude/sentinel/internal/core/domain"
)

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect domain.ErrorType
	}{
		{"connection refused", &domain.RawFailure{Message: "dial tcp: connection refused"}, domain.ErrorTypeNetwork},
		{"aborted code", &domain.RawFailure{Code: CodeConnectionAborted, Message: "request aborted"}, domain.ErrorTypeNetwork},
		{"timeout message", &domain.RawFailure{Message: "request timed out after 30s"}, domain.ErrorTypeTimeout},
		{"timeout code", &domain.RawFailure{Code: CodeTimeout, Message: "gave up"}, domain.ErrorTypeTimeout},
		{"status 400", &domain.RawFailure{Message: "bad request", Response: &domain.RawResponse{Status: 400}}, domain.ErrorTypeValidation},
		{"status 413", &domain.RawFailure{Message: "entity too large", Response: &domain.RawResponse{Status: 413}}, domain.ErrorTypeUpload},
		{"status 422", &domain.RawFailure{Message: "unprocessable", Response: &domain.RawResponse{Status: 422}}, domain.ErrorTypeValidation},
		{"status 429", &domain.RawFailure{Message: "too many requests", Response: &domain.RawResponse{Status: 429}}, domain.ErrorTypeNetwork},
		{"status 500", &domain.RawFailure{Message: "internal error", Response: &domain.RawResponse{Status: 500}}, domain.ErrorTypeUnknown},
		{"status 503", &domain.RawFailure{Message: "unavailable", Response: &domain.RawResponse{Status: 503}}, domain.ErrorTypeUnknown},
		{"forecast keyword", errors.New("prophet model failed to converge"), domain.ErrorTypeForecast},
		{"session keyword", errors.New("session expired, please log in again"), domain.ErrorTypeSession},
		{"memory keyword", errors.New("worker killed: out of memory"), domain.ErrorTypeMemory},
		{"fallback", errors.New("???"), domain.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Type != tt.expect {
				t.Errorf("Classify(%v).Type = %s, want %s", tt.err, got.Type, tt.expect)
			}
		})
	}
}

// A well-formed HTTP error is never miscategorized by keyword overlap in
// its message body: status dispatch runs before message sniffing.
func TestClassifyStatusBeatsKeywords(t *testing.T) {
	err := &domain.RawFailure{
		Message:  "forecast service rejected the session payload",
		Response: &domain.RawResponse{Status: 422},
	}
	if got := Classify(err); got.Type != domain.ErrorTypeValidation {
		t.Errorf("expected validation, got %s", got.Type)
	}
}

func TestClassifyTotality(t *testing.T) {
	inputs := []error{
		nil,
		errors.New(""),
		&domain.RawFailure{},
		&domain.RawFailure{Response: &domain.RawResponse{Status: 418}},
		fmt.Errorf("wrapped: %w", &domain.RawFailure{}),
	}

	for _, err := range inputs {
		info := Classify(err)
		if info.UserMessage == "" {
			t.Errorf("Classify(%v) returned empty UserMessage", err)
		}
		if info.Type == "" {
			t.Errorf("Classify(%v) returned empty Type", err)
		}
		if info.PrivacyMessage == "" {
			t.Errorf("Classify(%v) returned empty PrivacyMessage", err)
		}
	}
}

func TestClassifyUnknownDefaults(t *testing.T) {
	info := Classify(errors.New("???"))
	if info.Type != domain.ErrorTypeUnknown {
		t.Errorf("expected unknown, got %s", info.Type)
	}
	if info.Severity != domain.SeverityMedium {
		t.Errorf("expected medium severity, got %s", info.Severity)
	}
	if !info.Retryable {
		t.Error("expected unknown errors to be retryable")
	}
}

func TestClassifyUploadRemediation(t *testing.T) {
	info := Classify(&domain.RawFailure{Response: &domain.RawResponse{Status: 413}})
	if info.Severity != domain.SeverityMedium {
		t.Errorf("expected medium severity, got %s", info.Severity)
	}
	if !info.Retryable {
		t.Error("expected 413 to be retryable")
	}
	found := false
	for _, a := range info.Actions {
		if a.ActionID == "reduce_size" {
			found = true
		}
	}
	if !found {
		t.Error("expected a smaller-input remediation action")
	}
}

func TestClassifySessionNotRetryable(t *testing.T) {
	info := Classify(errors.New("session invalidated"))
	if info.Type != domain.ErrorTypeSession {
		t.Fatalf("expected session, got %s", info.Type)
	}
	if info.Retryable {
		t.Error("session errors must not be retryable")
	}
}

func TestClassifyValidationDetail(t *testing.T) {
	err := &domain.RawFailure{
		Message:  "bad request",
		Response: &domain.RawResponse{Status: 400, Detail: "column 'date' must be a date"},
	}
	info := Classify(err)
	if info.UserMessage != "column 'date' must be a date" {
		t.Errorf("expected detail to become the user message, got %q", info.UserMessage)
	}
	if info.Severity != domain.SeverityLow {
		t.Errorf("expected low severity, got %s", info.Severity)
	}
}

func TestClassifyRateLimitPrivacyNote(t *testing.T) {
	info := Classify(&domain.RawFailure{Response: &domain.RawResponse{Status: 429}})
	if info.Type != domain.ErrorTypeNetwork {
		t.Fatalf("expected network, got %s", info.Type)
	}
	if info.PrivacyMessage == "" {
		t.Error("expected a rate-limit privacy note")
	}
}
