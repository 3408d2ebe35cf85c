package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/bjulian5/bbpr/cmd/auth"
	"github.com/bjulian5/bbpr/cmd/pullrequest"
	"github.com/bjulian5/bbpr/internal/common"
	"github.com/bjulian5/bbpr/internal/config"
	"github.com/bjulian5/bbpr/internal/ui"
)

// opts holds the global flags
var opts = &common.Options{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCommand(opts)

// NewRootCommand builds the command tree around opts
func NewRootCommand(opts *common.Options) *cobra.Command {
	root := &cobra.Command{
		Use:   "bbpr",
		Short: "Bitbucket pull requests for build-tools managed sites",
		Long: `bbpr creates, lists and closes Bitbucket pull requests for a site whose
repository is managed by a build-tools workflow.

Without --site, the git repository in the current directory is used.
Sites hosted anywhere other than Bitbucket are reported and skipped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")

	commands := []Command{
		&pullrequest.Command{Opts: opts},
		&auth.Command{Opts: opts},
	}

	for _, cmd := range commands {
		cmd.Register(root)
	}
	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.Error(err.Error())
		os.Exit(1)
	}
}
