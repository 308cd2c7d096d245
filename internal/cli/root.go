// Package cli provides the chatctl operator commands.
package cli

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iyunix/go-chatrelay/internal/config"
)

// Version is set at build time.
var Version = "0.1.0"

type rootOptions struct {
	verbose bool
	cfg     *config.Config
}

// NewRootCmd builds the chatctl command tree. Configuration is read from the
// same environment as the server.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "chatctl",
		Short: "Operator tooling for the chatrelay server",
		Long: `chatctl manages a chatrelay deployment.

It reads the same environment variables (and .env file) as the server,
so provisioning and token minting target the configured database and
signing secret unless overridden by flags.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.cfg = config.Load()
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newProvisionCmd(opts))
	root.AddCommand(newTokenCmd(opts))
	return root
}

// Execute runs chatctl with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) logger(out io.Writer) logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(logrus.WarnLevel)
	if o.verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log.WithField("service", "chatctl")
}
