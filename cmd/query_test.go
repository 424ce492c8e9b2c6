package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/davidbz/lumen/internal/client"
	"github.com/davidbz/lumen/internal/domain"
)

func TestRenderQuery(t *testing.T) {
	resp := &client.Response{
		Result: &domain.SearchResult{
			Result:    "Go is a programming language.",
			Duration:  42,
			Timestamp: "2024-01-15T09:30:00.000Z",
		},
		CacheHit: true,
	}

	t.Run("should render text", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, renderQuery(&buf, outputText, "what is go", resp))

		require.Contains(t, buf.String(), "Go is a programming language.")
		require.Contains(t, buf.String(), "42ms, cache HIT")
	})

	t.Run("should render json", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, renderQuery(&buf, outputJSON, "what is go", resp))

		var out queryOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		require.Equal(t, "what is go", out.Query)
		require.Equal(t, "HIT", out.Cache)
		require.Equal(t, int64(42), out.Duration)
	})

	t.Run("should render yaml", func(t *testing.T) {
		var buf bytes.Buffer
		miss := &client.Response{Result: resp.Result}

		require.NoError(t, renderQuery(&buf, outputYAML, "what is go", miss))

		var out queryOutput
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
		require.Equal(t, "MISS", out.Cache)
		require.Equal(t, "2024-01-15T09:30:00.000Z", out.Timestamp)
	})
}

func TestQueryCmd(t *testing.T) {
	t.Run("should reject unknown output format", func(t *testing.T) {
		cmd := newQueryCmd()
		cmd.SetArgs([]string{"--output", "xml", "hello"})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})

		err := cmd.Execute()

		require.ErrorContains(t, err, `unknown output format "xml"`)
	})

	t.Run("should require exactly one argument", func(t *testing.T) {
		cmd := newQueryCmd()
		cmd.SetArgs([]string{})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})

		require.Error(t, cmd.Execute())
	})
}
