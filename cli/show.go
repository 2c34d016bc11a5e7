// cli/show.go
package cli

import (
	"strings"

	"github.com/deploymenttheory/go-xpload/payloaddb"
	"github.com/spf13/cobra"
)

func newShowCommand(opts *options) *cobra.Command {
	var (
		id     int64
		output string
	)

	cmd := &cobra.Command{
		Use:       "show <" + strings.Join(payloaddb.Components(), "|") + ">",
		Short:     "Show entries",
		Long:      `List every entry of a component, or the one entry with --id.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: payloaddb.Components(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			db, err := opts.database()
			if err != nil {
				return err
			}

			var idFilter *int64
			if cmd.Flags().Changed("id") {
				idFilter = &id
			}

			entries, err := db.FetchEntries(cmd.Context(), args[0], idFilter)
			if err != nil {
				return err
			}
			return printEntries(opts.stdout, entries, output)
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "unique id")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format (json or table)")
	return cmd
}
