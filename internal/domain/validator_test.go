package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/lumen/internal/domain"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		want     domain.Query
		wantMsgs []string
	}{
		{
			name: "trims surrounding whitespace",
			raw:  "  What is artificial intelligence?  ",
			want: "What is artificial intelligence?",
		},
		{
			name: "accepts minimum length",
			raw:  "ai",
			want: "ai",
		},
		{
			name: "accepts maximum length",
			raw:  strings.Repeat("q", domain.MaxQueryLength),
			want: domain.Query(strings.Repeat("q", domain.MaxQueryLength)),
		},
		{
			name:     "rejects absent query",
			raw:      nil,
			wantMsgs: []string{"Search query is required", "Query must be between 2 and 500 characters"},
		},
		{
			name:     "rejects whitespace only",
			raw:      "    ",
			wantMsgs: []string{"Search query is required", "Query must be between 2 and 500 characters"},
		},
		{
			name:     "rejects single character",
			raw:      "a",
			wantMsgs: []string{"Query must be between 2 and 500 characters"},
		},
		{
			name:     "rejects single character after trim",
			raw:      "  a  ",
			wantMsgs: []string{"Query must be between 2 and 500 characters"},
		},
		{
			name:     "rejects over maximum length",
			raw:      strings.Repeat("q", domain.MaxQueryLength+1),
			wantMsgs: []string{"Query must be between 2 and 500 characters"},
		},
		{
			name:     "rejects number",
			raw:      42.0,
			wantMsgs: []string{"Query must be a string"},
		},
		{
			name:     "rejects object",
			raw:      map[string]any{"q": "x"},
			wantMsgs: []string{"Query must be a string"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ValidateQuery(tt.raw)

			if tt.wantMsgs == nil {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
				return
			}

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Empty(t, got)

			msgs := make([]string, 0, len(validationErr.Details))
			for _, detail := range validationErr.Details {
				require.Equal(t, "query", detail.Path)
				require.Equal(t, "body", detail.Location)
				require.Equal(t, "field", detail.Type)
				msgs = append(msgs, detail.Msg)
			}
			require.Equal(t, tt.wantMsgs, msgs)
		})
	}
}

func TestValidateQuery_CountsRunes(t *testing.T) {
	query := strings.Repeat("é", domain.MaxQueryLength)

	got, err := domain.ValidateQuery(query)

	require.NoError(t, err)
	require.Equal(t, domain.Query(query), got)
}
