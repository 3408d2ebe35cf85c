package auth

import (
	"github.com/spf13/cobra"

	"github.com/bjulian5/bbpr/internal/common"
)

// Command is the parent command for credential management
type Command struct {
	Opts *common.Options
}

// Register registers the auth command and its subcommands
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Bitbucket credentials",
		Long: `Store, inspect and remove the Bitbucket credentials bbpr uses.

Credentials are looked up in this order:
  1. BITBUCKET_TOKEN, or BITBUCKET_USER and BITBUCKET_PASS
  2. the OS keyring, written by 'bbpr auth login'`,
	}

	(&LoginCommand{Opts: c.Opts}).Register(cmd)
	(&LogoutCommand{}).Register(cmd)
	(&StatusCommand{Opts: c.Opts}).Register(cmd)

	parent.AddCommand(cmd)
}
