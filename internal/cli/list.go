package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	firequery "github.com/kailas-cloud/firequery/pkg/sdk"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Where     []string
	Select    []string
	OrderBy   string
	Direction string
	Limit     int
	Offset    int
	Group     bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list <collection-path>",
		Short: "Query a collection",
		Long: `Query a collection and print the matching records as a JSON array.
Each record carries its document id under "id".

Filters are field:operator:value. The value is read as JSON when it parses
(numbers, true/false, null, arrays, quoted strings) and as a plain string
otherwise.

Example:
  fq list users --where 'age:>=:18' --where 'tags:array-contains:go' \
      --order-by age --direction desc --limit 10
  fq list messages --group --select text,sentAt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, "filter field:op:value (repeatable, ANDed)")
	cmd.Flags().StringSliceVarP(&opts.Select, "select", "s", nil, "fields to return")
	cmd.Flags().StringVar(&opts.OrderBy, "order-by", "", "field to sort by")
	cmd.Flags().StringVar(&opts.Direction, "direction", "asc", "sort direction (asc|desc)")
	cmd.Flags().IntVar(&opts.Limit, "limit", -1, "maximum number of records (unset when negative)")
	cmd.Flags().IntVar(&opts.Offset, "offset", -1, "number of records to skip (unset when negative)")
	cmd.Flags().BoolVar(&opts.Group, "group", false, "query every collection with this id")

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions, path string) error {
	qo, err := opts.queryOptions()
	if err != nil {
		return err
	}

	client, err := opts.client()
	if err != nil {
		return err
	}

	recs, err := client.List(cmd.Context(), path, qo)
	if err != nil {
		return err
	}
	return opts.writeJSON(cmd.OutOrStdout(), recs)
}

func (o *ListOptions) queryOptions() (*firequery.QueryOptions, error) {
	qo := &firequery.QueryOptions{
		Group:     o.Group,
		Select:    o.Select,
		OrderBy:   o.OrderBy,
		Direction: firequery.Direction(o.Direction),
	}
	if o.Limit >= 0 {
		qo.Limit = firequery.Int(o.Limit)
	}
	if o.Offset >= 0 {
		qo.Offset = firequery.Int(o.Offset)
	}
	for _, raw := range o.Where {
		w, err := parseWhere(raw)
		if err != nil {
			return nil, err
		}
		qo.Where = append(qo.Where, w)
	}
	return qo, nil
}

// parseWhere reads "field:op:value". The value may itself contain colons.
func parseWhere(s string) (firequery.Where, error) {
	field, rest, ok := strings.Cut(s, ":")
	if !ok || field == "" {
		return firequery.Where{}, fmt.Errorf("invalid --where %q: want field:op:value", s)
	}
	op, raw, ok := strings.Cut(rest, ":")
	if !ok || op == "" {
		return firequery.Where{}, fmt.Errorf("invalid --where %q: want field:op:value", s)
	}
	return firequery.Where{Field: field, Op: firequery.Operator(op), Value: parseValue(raw)}, nil
}

// parseValue decodes JSON literals, keeping numbers textual, and falls back
// to the raw string.
func parseValue(raw string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return v
}
