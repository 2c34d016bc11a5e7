// cli/version.go
package cli

import (
	"fmt"

	"github.com/deploymenttheory/go-xpload/version"
	"github.com/spf13/cobra"
)

func newVersionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(opts.stdout, "%s %s (%s)\n", version.GetAppName(), version.GetVersion(), version.HTTPLibraryUserAgent())
		},
	}
}
