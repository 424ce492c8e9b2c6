package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	// MinQueryLength is the shortest accepted query after trimming.
	MinQueryLength = 2
	// MaxQueryLength is the longest accepted query after trimming.
	MaxQueryLength = 500

	queryField = "query"
)

const (
	msgQueryRequired = "Search query is required"
	msgQueryType     = "Query must be a string"
	msgQueryLength   = "Query must be between 2 and 500 characters"
)

// ValidateQuery trims raw and checks it is a string of accepted length.
// It performs no I/O.
func ValidateQuery(raw any) (Query, error) {
	if raw == nil {
		return "", &ValidationError{Details: []FieldError{
			fieldError(msgQueryRequired, ""),
			fieldError(msgQueryLength, ""),
		}}
	}

	text, ok := raw.(string)
	if !ok {
		return "", &ValidationError{Details: []FieldError{fieldError(msgQueryType, raw)}}
	}

	trimmed := strings.TrimSpace(text)
	var details []FieldError
	if trimmed == "" {
		details = append(details, fieldError(msgQueryRequired, trimmed))
	}
	if n := utf8.RuneCountInString(trimmed); n < MinQueryLength || n > MaxQueryLength {
		details = append(details, fieldError(msgQueryLength, trimmed))
	}
	if len(details) > 0 {
		return "", &ValidationError{Details: details}
	}

	return Query(trimmed), nil
}

func fieldError(msg string, value any) FieldError {
	return FieldError{
		Type:     "field",
		Msg:      msg,
		Path:     queryField,
		Location: "body",
		Value:    value,
	}
}
