package pullrequest

import (
	"github.com/spf13/cobra"

	"github.com/bjulian5/bbpr/cmd/pullrequest/closecmd"
	"github.com/bjulian5/bbpr/cmd/pullrequest/create"
	"github.com/bjulian5/bbpr/cmd/pullrequest/list"
	"github.com/bjulian5/bbpr/internal/common"
)

// subcommand is implemented by create, list and close
type subcommand interface {
	Register(parent *cobra.Command)
	// RegisterShortcut adds the command at the top level under its colon-style names
	RegisterShortcut(root *cobra.Command)
}

// Command is the parent command for all pull request subcommands
type Command struct {
	Opts *common.Options
}

// Register registers the pull-request command, its subcommands and their
// top-level shortcuts (bitbucket:pull-request:create, bitbucket:pr:create, bb:pr:create, pr-create, ...)
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "pull-request",
		Aliases: []string{"pr"},
		Short:   "Bitbucket pull request operations",
		Long:    `Commands for creating, listing and closing Bitbucket pull requests on a site's repository.`,
	}

	subcommands := []subcommand{
		&create.Command{Opts: c.Opts},
		&list.Command{Opts: c.Opts},
		&closecmd.Command{Opts: c.Opts},
	}
	for _, sub := range subcommands {
		sub.Register(cmd)
		sub.RegisterShortcut(parent)
	}

	parent.AddCommand(cmd)
}
