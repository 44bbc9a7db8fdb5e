package handler

import (
	"fmt"
	"strings"

	"github.com/vietddude/sentinel/internal/core/domain"
)

// FieldViolation describes one failed form field check. Only the field name
// and rule travel further; the rejected value never does.
type FieldViolation struct {
	Field string
	Rule  string
}

// FormHandler specializes the facade for client-side validation failures.
// Validation outcomes are deterministic, so it never schedules retries.
type FormHandler struct {
	h *Handler
}

// NewFormHandler wraps h.
func NewFormHandler(h *Handler) *FormHandler {
	return &FormHandler{h: h}
}

// HandleViolations records a single validation error covering the given
// violations and returns its classification.
func (f *FormHandler) HandleViolations(violations []FieldViolation) domain.ErrorInfo {
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}

	info := domain.ErrorInfo{
		Type:           domain.ErrorTypeValidation,
		Severity:       domain.SeverityLow,
		UserMessage:    fmt.Sprintf("Please check the following fields: %s.", strings.Join(fields, ", ")),
		PrivacyMessage: "Entered values are validated locally and never leave your device.",
		Retryable:      false,
		Actions: []domain.RemedyAction{
			{Label: "Review input", ActionID: "review_input", Style: "primary"},
		},
	}

	f.h.agg.Record(info, map[string]any{"fields": fields})
	f.h.notifyError(info)
	return info
}
