// cli/push.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPushCommand(opts *options) *cobra.Command {
	var start int64

	cmd := &cobra.Command{
		Use:   "push <tag> <domain> <payload>",
		Short: "Insert an entry",
		Long:  `Register a payload file for a domain in a tag, creating the tag, domain and payload list when missing.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, domain, payload := args[0], args[1], args[2]

			db, err := opts.database()
			if err != nil {
				return err
			}

			result, err := db.PushPayload(cmd.Context(), tag, domain, payload, start)
			if result.TagCreated {
				fmt.Fprintf(opts.stdout, "Tag %s does not exist. Created %d\n", tag, result.TagID)
			}
			if result.DomainCreated {
				fmt.Fprintf(opts.stdout, "Domain %s does not exist. Created %d\n", domain, result.DomainID)
			}
			if result.PayloadCreated {
				fmt.Fprintf(opts.stdout, "Payload %s does not exist. Created %d\n", payload, result.PayloadID)
			}
			return err
		},
	}

	cmd.Flags().Int64VarP(&start, "start", "s", 0, "start of interval when the payload is applied")
	return cmd
}
