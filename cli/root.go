// cli/root.go
/* Package cli implements the xpload command line: listing and pushing payload database entries and
posting to the fixed endpoint. Data goes to standard output; logs go to standard error. */
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-xpload/config"
	"github.com/deploymenttheory/go-xpload/httpclient"
	"github.com/deploymenttheory/go-xpload/payloaddb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit statuses returned by Execute.
const (
	ExitOK     = 0
	ExitError  = 1
	ExitConfig = 78 // EX_CONFIG
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configName string
	logLevel   string
	stdout     io.Writer
}

// NewRootCommand returns the xpload command tree writing its results to stdout.
func NewRootCommand(stdout io.Writer) *cobra.Command {
	opts := &options{stdout: stdout}

	rootCmd := &cobra.Command{
		Use:           "xpload",
		Short:         "Manipulate payload entries",
		Long:          `Show, push and fetch entries of the conditions payload database.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadEnvFiles()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configName, "config", "c", "", "config file with database connection parameters")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides XPLOAD_LOG_LEVEL")

	rootCmd.AddCommand(
		newShowCommand(opts),
		newPushCommand(opts),
		newFetchCommand(opts),
		newPostCommand(opts),
		newVersionCommand(opts),
	)
	return rootCmd
}

// Execute runs the command line with args and returns the process exit status. Errors are printed
// to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand(stdout)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return ExitCode(err)
	}
	return ExitOK
}

// ExitCode maps an error returned by a command to an exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, config.ErrConfigNotFound):
		return ExitConfig
	default:
		return ExitError
	}
}

// clientConfig reads the HTTP client settings from the environment and applies --log-level.
func (o *options) clientConfig() (httpclient.ClientConfig, error) {
	clientConfig, err := config.LoadClientConfig()
	if err != nil {
		return httpclient.ClientConfig{}, err
	}

	if o.logLevel != "" {
		level, err := config.NormalizeLogLevel(o.logLevel)
		if err != nil {
			return httpclient.ClientConfig{}, err
		}
		clientConfig.LogLevel = level
	}
	return clientConfig, nil
}

// database locates the database config and returns a client for it.
func (o *options) database() (*payloaddb.Client, error) {
	dbConfig, err := config.Locate(o.configName)
	if err != nil {
		return nil, err
	}

	clientConfig, err := o.clientConfig()
	if err != nil {
		return nil, err
	}

	db, err := payloaddb.NewClient(dbConfig.URL(), clientConfig)
	if err != nil {
		return nil, err
	}
	db.Logger().Debug("Using database config", zap.String("file", dbConfig.Source), zap.String("url", dbConfig.URL()))
	return db, nil
}
