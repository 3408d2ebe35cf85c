package closecmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bjulian5/bbpr/internal/common"
	"github.com/bjulian5/bbpr/internal/pullrequest"
	"github.com/bjulian5/bbpr/internal/ui"
)

type Command struct {
	Options pullrequest.CloseOptions

	Opts *common.Options
	Env  *common.Env
	// Interactive defaults to ui.IsInteractive
	Interactive func() bool
}

func (c *Command) Register(parent *cobra.Command) {
	parent.AddCommand(c.command("close [id]", []string{"decline"}))
}

func (c *Command) RegisterShortcut(root *cobra.Command) {
	use, aliases := common.ShortcutNames("close")
	cmd := c.command(use+" [id]", aliases)
	cmd.Hidden = true
	root.AddCommand(cmd)
}

func (c *Command) command(use string, aliases []string) *cobra.Command {
	command := &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   "Close (decline) a pull request",
		Long: `Close a Bitbucket pull request by declining it.

Without an id, open pull requests are listed in a fuzzy finder to pick from.
You are asked to confirm unless --yes is given.

Example:
  bbpr pr close 42
  bbpr pr close --site my-site
  bbpr pr close 42 --yes`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				id, err := strconv.Atoi(args[0])
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid pull request id %q: must be a positive number", args[0])
				}
				c.Options.ID = id
			}
			var err error
			c.Env, err = common.InitService(c.Opts)
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return c.Run(cobraCmd.Context())
		},
	}

	flags := command.Flags()
	flags.StringVar(&c.Options.Site, "site", "", "Site name (default: the repository in the current directory)")
	flags.BoolVarP(&c.Options.Yes, "yes", "y", false, "Skip the confirmation prompt")

	return command
}

func (c *Command) Run(ctx context.Context) error {
	interactive := c.Interactive
	if interactive == nil {
		interactive = ui.IsInteractive
	}
	if c.Options.ID == 0 && !interactive() {
		return fmt.Errorf("a pull request id is required when stdin is not a terminal")
	}
	if !c.Options.Yes && !interactive() {
		return fmt.Errorf("refusing to close without confirmation: stdin is not a terminal, pass --yes")
	}

	result, err := c.Env.Service.Close(ctx, c.Options)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case pullrequest.OutcomeNotApplicable:
		common.ReportNotApplicable(result.Site)
	case pullrequest.OutcomeAborted:
		ui.Info("Cancelled, nothing was closed")
	default:
		ui.Successf("Pull request %d has been closed.", result.ID)
	}
	return nil
}
