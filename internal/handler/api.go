package handler

import (
	"context"

	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/retry"
)

// APIHandler specializes the facade for remote compute calls: it runs the
// action once, and on failure hands classification and retries to Handle.
type APIHandler struct {
	h *Handler
}

// NewAPIHandler wraps h.
func NewAPIHandler(h *Handler) *APIHandler {
	return &APIHandler{h: h}
}

// Call invokes action, retrying on retryable failures. The operation name
// doubles as the request id, so concurrent calls for the same logical
// operation share one attempt budget.
func (a *APIHandler) Call(ctx context.Context, operation string, action retry.Retryable) (any, error) {
	result, err := action.Invoke(ctx)
	if err == nil {
		return result, nil
	}

	info, out := a.h.Handle(ctx, err, Options{
		RequestID: operation,
		Action:    action,
		Context:   map[string]any{"operation": operation},
	})
	if out != nil {
		if out.Success {
			return out.Result, nil
		}
		info = out.ErrorInfo
	}
	return nil, &domain.ClassifiedError{Info: info, Err: err}
}

// CallFunc is Call with a plain function.
func (a *APIHandler) CallFunc(ctx context.Context, operation string, fn func(ctx context.Context) (any, error)) (any, error) {
	return a.Call(ctx, operation, retry.RetryableFunc(fn))
}
