package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davidbz/lumen/internal/client"
	"github.com/davidbz/lumen/internal/domain"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// queryOutput is the printable form of a search answer.
type queryOutput struct {
	Query     string `json:"query"     yaml:"query"`
	Result    string `json:"result"    yaml:"result"`
	Duration  int64  `json:"duration"  yaml:"duration"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Cache     string `json:"cache"     yaml:"cache"`
}

func newQueryCmd() *cobra.Command {
	var (
		baseURL    string
		output     string
		timeout    time.Duration
		retries    int
		retryDelay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Send a search query to a running gateway",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case outputText, outputJSON, outputYAML:
			default:
				return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
			}

			c := client.NewClient(baseURL, timeout, domain.NewRetryPolicy(retries, retryDelay))

			resp, err := c.Search(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("query failed: %w", err)
			}

			return renderQuery(cmd.OutOrStdout(), output, args[0], resp)
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", client.DefaultBaseURL, "gateway base URL")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	cmd.Flags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "per-attempt timeout")
	cmd.Flags().IntVar(&retries, "retries", domain.DefaultRetryAttempts, "maximum attempts for timeouts and network errors")
	cmd.Flags().DurationVar(&retryDelay, "retry-delay", domain.DefaultRetryDelay, "delay between attempts")

	return cmd
}

func renderQuery(w io.Writer, format, query string, resp *client.Response) error {
	out := queryOutput{
		Query:     query,
		Result:    resp.Result.Result,
		Duration:  resp.Result.Duration,
		Timestamp: resp.Result.Timestamp,
		Cache:     "MISS",
	}
	if resp.CacheHit {
		out.Cache = "HIT"
	}

	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintf(w, "%s\n\n(%dms, cache %s, %s)\n", out.Result, out.Duration, out.Cache, out.Timestamp)
		return err
	}
}
