package classify

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/vietddude/sentinel/internal/core/domain"
)

// Transport codes set by HTTP client adapters when no response was received.
const (
	CodeConnectionAborted = "connection_aborted"
	CodeConnectionRefused = "connection_refused"
	CodeTimeout           = "timeout"
)

const defaultPrivacyMessage = "Your data remains on your device and was not shared."

// Classify maps a raw failure to a structured, privacy-safe ErrorInfo.
// It is total: every input, however malformed, yields a valid result.
// Precedence runs from most structural (transport signals) to least
// (free-text keyword sniffing) so a well-formed HTTP error is never
// miscategorized by accidental keyword overlap in its message body.
func Classify(err error) domain.ErrorInfo {
	if err == nil {
		return unknownInfo()
	}

	var raw *domain.RawFailure
	if !errors.As(err, &raw) {
		raw = &domain.RawFailure{Message: err.Error()}
	}
	msg := strings.ToLower(raw.Message)

	// 1. Transport-level failure: no response and a connection signal.
	if raw.Response == nil && isConnectionFailure(err, raw.Code, msg) {
		return networkInfo()
	}

	// 2. Timeout: abort code or a timeout indicator in the message.
	if isTimeout(err, raw.Code, msg) {
		return timeoutInfo()
	}

	// 3. Structured response status, dispatched by value.
	if raw.Response != nil {
		if info, ok := classifyStatus(raw.Response); ok {
			return info
		}
	}

	// 4-5. Message keyword rules.
	switch {
	case strings.Contains(msg, "forecast") || strings.Contains(msg, "prophet"):
		return forecastInfo()
	case strings.Contains(msg, "session") || strings.Contains(msg, "expired"):
		return sessionInfo()
	case strings.Contains(msg, "out of memory") || strings.Contains(msg, "memory limit"):
		return memoryInfo()
	}

	// 6. Fallback.
	return unknownInfo()
}

func isConnectionFailure(err error, code, msg string) bool {
	if code == CodeConnectionAborted || code == CodeConnectionRefused {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && !netErr.Timeout() {
		return true
	}

	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"broken pipe",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func isTimeout(err error, code, msg string) bool {
	if code == CodeTimeout {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") ||
		strings.Contains(msg, "deadline exceeded")
}

func classifyStatus(resp *domain.RawResponse) (domain.ErrorInfo, bool) {
	switch {
	case resp.Status == 400:
		msg := "The request could not be processed. Please check your input."
		if resp.Detail != "" {
			msg = resp.Detail
		}
		return domain.ErrorInfo{
			Type:           domain.ErrorTypeValidation,
			Severity:       domain.SeverityLow,
			UserMessage:    msg,
			PrivacyMessage: defaultPrivacyMessage,
			Retryable:      true,
			Actions: []domain.RemedyAction{
				{Label: "Review input", ActionID: "review_input", Style: "primary"},
			},
		}, true

	case resp.Status == 413:
		return domain.ErrorInfo{
			Type:           domain.ErrorTypeUpload,
			Severity:       domain.SeverityMedium,
			UserMessage:    "The file is too large to process.",
			PrivacyMessage: defaultPrivacyMessage,
			Retryable:      true,
			Actions: []domain.RemedyAction{
				{Label: "Use a smaller file", ActionID: "reduce_size", Style: "primary"},
			},
		}, true

	case resp.Status == 422:
		return domain.ErrorInfo{
			Type:           domain.ErrorTypeValidation,
			Severity:       domain.SeverityLow,
			UserMessage:    "Some values could not be validated.",
			PrivacyMessage: defaultPrivacyMessage,
			Retryable:      true,
			Actions: []domain.RemedyAction{
				{Label: "Check the data format", ActionID: "check_format", Style: "primary"},
			},
		}, true

	case resp.Status == 429:
		return domain.ErrorInfo{
			Type:           domain.ErrorTypeNetwork,
			Severity:       domain.SeverityMedium,
			UserMessage:    "Too many requests. Please wait a moment before trying again.",
			PrivacyMessage: "Rate limiting prevents data accumulation on our servers.",
			Retryable:      true,
			Actions: []domain.RemedyAction{
				{Label: "Try again", ActionID: "retry", Style: "secondary"},
			},
		}, true

	case resp.Status >= 500:
		return domain.ErrorInfo{
			Type:           domain.ErrorTypeUnknown,
			Severity:       domain.SeverityHigh,
			UserMessage:    "The service encountered an internal problem.",
			PrivacyMessage: defaultPrivacyMessage,
			Retryable:      true,
			Actions: []domain.RemedyAction{
				{Label: "Report issue", ActionID: "report_issue", Style: "secondary"},
			},
		}, true
	}

	return domain.ErrorInfo{}, false
}

func networkInfo() domain.ErrorInfo {
	return domain.ErrorInfo{
		Type:           domain.ErrorTypeNetwork,
		Severity:       domain.SeverityMedium,
		UserMessage:    "Unable to reach the forecasting service. Please check your connection.",
		PrivacyMessage: defaultPrivacyMessage,
		Retryable:      true,
		Actions: []domain.RemedyAction{
			{Label: "Try again", ActionID: "retry", Style: "primary"},
		},
	}
}

func timeoutInfo() domain.ErrorInfo {
	return domain.ErrorInfo{
		Type:           domain.ErrorTypeTimeout,
		Severity:       domain.SeverityMedium,
		UserMessage:    "The operation took too long and was stopped.",
		PrivacyMessage: "The operation was stopped and any partially processed data was discarded.",
		Retryable:      true,
		Actions: []domain.RemedyAction{
			{Label: "Try again", ActionID: "retry", Style: "primary"},
		},
	}
}

func forecastInfo() domain.ErrorInfo {
	return domain.ErrorInfo{
		Type:           domain.ErrorTypeForecast,
		Severity:       domain.SeverityMedium,
		UserMessage:    "The forecast could not be generated. The model may need different data.",
		PrivacyMessage: defaultPrivacyMessage,
		Retryable:      true,
		Actions: []domain.RemedyAction{
			{Label: "Adjust settings", ActionID: "adjust_settings", Style: "primary"},
		},
	}
}

// Session failures are never retryable: the session must be re-established,
// replaying the same call cannot succeed.
func sessionInfo() domain.ErrorInfo {
	return domain.ErrorInfo{
		Type:           domain.ErrorTypeSession,
		Severity:       domain.SeverityMedium,
		UserMessage:    "Your session has ended. Please start over to continue.",
		PrivacyMessage: "Session data was removed; nothing was stored on the server.",
		Retryable:      false,
		Actions: []domain.RemedyAction{
			{Label: "Start over", ActionID: "restart", Style: "primary"},
		},
	}
}

func memoryInfo() domain.ErrorInfo {
	return domain.ErrorInfo{
		Type:           domain.ErrorTypeMemory,
		Severity:       domain.SeverityHigh,
		UserMessage:    "The operation ran out of memory. Try a smaller dataset.",
		PrivacyMessage: defaultPrivacyMessage,
		Retryable:      true,
		Actions: []domain.RemedyAction{
			{Label: "Use a smaller dataset", ActionID: "reduce_size", Style: "primary"},
		},
	}
}

func unknownInfo() domain.ErrorInfo {
	return domain.ErrorInfo{
		Type:           domain.ErrorTypeUnknown,
		Severity:       domain.SeverityMedium,
		UserMessage:    "Something went wrong. Please try again.",
		PrivacyMessage: defaultPrivacyMessage,
		Retryable:      true,
		Actions: []domain.RemedyAction{
			{Label: "Try again", ActionID: "retry", Style: "primary"},
		},
	}
}
