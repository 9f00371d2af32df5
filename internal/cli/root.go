// Package cli implements the fq command-line client.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/firequery/internal/version"
	firequery "github.com/kailas-cloud/firequery/pkg/sdk"
)

// Environment variables read when the matching flag is not given.
const (
	EnvProjectID = "FIRESTORE_PROJECT_ID"
	EnvBaseURL   = "FIRESTORE_BASE_URL"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ProjectID string
	BaseURL   string
	Timeout   time.Duration
	Compact   bool
}

// NewRootCommand creates the root command for fq.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fq",
		Short: "fq - query Firestore from the command line",
		Long: `fq lists and fetches Firestore documents through the REST API and
prints them as plain JSON records.

The project and endpoint come from --project and --base-url, or from the
FIRESTORE_PROJECT_ID and FIRESTORE_BASE_URL environment variables.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ProjectID, "project", "p", "", "project id (env "+EnvProjectID+")")
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", "", "endpoint base URL (env "+EnvBaseURL+")")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per-request timeout")
	cmd.PersistentFlags().BoolVar(&opts.Compact, "compact", false, "print JSON on a single line")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))

	return cmd
}

// client builds an SDK client from flags, falling back to the environment.
func (o *RootOptions) client() (*firequery.Client, error) {
	project := o.ProjectID
	if project == "" {
		project = os.Getenv(EnvProjectID)
	}
	if project == "" {
		return nil, fmt.Errorf("project id required: use --project or set %s", EnvProjectID)
	}

	baseURL := o.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv(EnvBaseURL)
	}

	c, err := firequery.New(project,
		firequery.WithBaseURL(baseURL),
		firequery.WithTimeout(o.Timeout),
		firequery.WithUserAgent(version.UserAgent("fq")),
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

// writeJSON prints v to w, indented unless --compact is set.
func (o *RootOptions) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if !o.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
