// cli/post.go
package cli

import (
	"fmt"
	"strconv"

	"github.com/deploymenttheory/go-xpload/fetch"
	"github.com/deploymenttheory/go-xpload/httpclient"
	"github.com/spf13/cobra"
)

func newPostCommand(opts *options) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "post [timestamp]",
		Short: "Post the fixed form",
		Long: `Send the fixed form to the fixed endpoint. The response is discarded and failures are only
logged, so the command succeeds either way.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var timestamp uint64
			if len(args) == 1 {
				var err error
				if timestamp, err = strconv.ParseUint(args[0], 10, 64); err != nil {
					return fmt.Errorf("invalid timestamp %q: %w", args[0], err)
				}
			}

			clientConfig, err := opts.clientConfig()
			if err != nil {
				return err
			}
			client, err := httpclient.BuildClient(clientConfig, nil)
			if err != nil {
				return err
			}

			if value, ok := fetch.New(client, client.Logger, fetch.WithURL(url)).Fetch(cmd.Context(), timestamp); ok {
				fmt.Fprintln(opts.stdout, value)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", fetch.DefaultURL, "endpoint to post to")
	return cmd
}
