package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/davidbz/lumen/internal/domain"
	"github.com/davidbz/lumen/internal/observability"
)

const (
	msgValidation     = "Validation error"
	msgTimeout        = "Request timeout"
	msgOpenAIError    = "OpenAI API error"
	msgUpstreamError  = "Upstream API error"
	msgUnavailable    = "Upstream unavailable"
	msgConfiguration  = "Server configuration error"
	msgSearchFailed   = "Failed to process search request"
	detailTimeout     = "The request took too long to complete"
	detailExternal    = "External API error"
	detailUnreachable = "External API unreachable"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// writeSearchError maps a search failure to its HTTP response. Upstream
// bodies and causes are only exposed in development.
func (h *Handler) writeSearchError(ctx context.Context, w http.ResponseWriter, err error) {
	status, resp := h.mapSearchError(err)
	if status >= http.StatusInternalServerError {
		observability.FromContext(ctx).Error("search request failed",
			observability.Int("status", status),
			observability.Error(err))
	}
	writeJSON(ctx, w, status, resp)
}

func (h *Handler) mapSearchError(err error) (int, errorResponse) {
	dev := h.app.IsDevelopment()

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, errorResponse{Error: msgValidation, Details: validationErr.Details}
	}

	var upstreamErr *domain.UpstreamError
	if !errors.As(err, &upstreamErr) {
		return http.StatusInternalServerError, errorResponse{Error: msgSearchFailed, Details: devDetail(dev, err.Error())}
	}

	switch upstreamErr.Class {
	case domain.FailureTimeout:
		return http.StatusGatewayTimeout, errorResponse{Error: msgTimeout, Details: detailTimeout}
	case domain.FailureUpstreamHTTP:
		title := msgUpstreamError
		if h.search.UpstreamName() == "openai" {
			title = msgOpenAIError
		}
		details := detailExternal
		if dev {
			details = upstreamErr.Body
		}
		return http.StatusBadGateway, errorResponse{Error: title, Details: details}
	case domain.FailureNetwork:
		details := detailUnreachable
		if dev {
			details = upstreamErr.Error()
		}
		return http.StatusBadGateway, errorResponse{Error: msgUnavailable, Details: details}
	case domain.FailureConfiguration:
		return http.StatusInternalServerError, errorResponse{Error: msgConfiguration, Details: upstreamErr.Message}
	case domain.FailureMalformedResponse, domain.FailureUnknown:
		return http.StatusInternalServerError, errorResponse{Error: msgSearchFailed, Details: devDetail(dev, err.Error())}
	default:
		return http.StatusInternalServerError, errorResponse{Error: msgSearchFailed, Details: devDetail(dev, err.Error())}
	}
}

// devDetail returns detail in development and nil otherwise, which omits the field.
func devDetail(dev bool, detail string) any {
	if !dev {
		return nil
	}
	return detail
}
