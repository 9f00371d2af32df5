package cli

import (
	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <collection-path> <id>...",
		Short: "Fetch documents by id",
		Long: `Fetch one or more documents of a collection.

With one id the record is printed as a JSON object, or null when the
document does not exist. With several ids the lookups run concurrently and
the output is an array in argument order, with null for missing documents.

Example:
  fq get users u1
  fq get users/u1/messages m1 m2 m3`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, rootOpts, args[0], args[1:])
		},
	}
	return cmd
}

func runGet(cmd *cobra.Command, opts *RootOptions, path string, ids []string) error {
	client, err := opts.client()
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		rec, err := client.Get(cmd.Context(), path, ids[0])
		if err != nil {
			return err
		}
		return opts.writeJSON(cmd.OutOrStdout(), rec)
	}

	recs, err := client.GetMany(cmd.Context(), path, ids)
	if err != nil {
		return err
	}
	return opts.writeJSON(cmd.OutOrStdout(), recs)
}
