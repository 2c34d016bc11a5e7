// cli/fetch.go
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newFetchCommand(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch <tag> <timestamp>",
		Short: "Fetch entries",
		Long:  `Print the payload IOVs of a tag valid at a timestamp.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			timestamp, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid timestamp %q: %w", args[1], err)
			}

			db, err := opts.database()
			if err != nil {
				return err
			}

			entries, err := db.FetchPayloads(cmd.Context(), args[0], timestamp)
			if err != nil {
				return fmt.Errorf("tag %s may not exist: %w", args[0], err)
			}
			return printEntries(opts.stdout, entries, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format (json or table)")
	return cmd
}
