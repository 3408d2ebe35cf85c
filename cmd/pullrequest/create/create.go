package create

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bjulian5/bbpr/internal/common"
	"github.com/bjulian5/bbpr/internal/pullrequest"
	"github.com/bjulian5/bbpr/internal/ui"
)

type Command struct {
	Options pullrequest.CreateOptions

	Opts *common.Options
	Env  *common.Env
}

func (c *Command) Register(parent *cobra.Command) {
	parent.AddCommand(c.command("create", nil))
}

func (c *Command) RegisterShortcut(root *cobra.Command) {
	use, aliases := common.ShortcutNames("create")
	cmd := c.command(use, aliases)
	cmd.Hidden = true
	root.AddCommand(cmd)
}

func (c *Command) command(use string, aliases []string) *cobra.Command {
	command := &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   "Create a pull request",
		Long: `Create a Bitbucket pull request for a site.

The source branch defaults to the branch of the site's build (or the current
branch when run inside the repository). Without --target, Bitbucket uses the
repository's main branch.

Example:
  bbpr pr create --target main
  bbpr pr create --site my-site --source feature/x --title "Add search" --close
  bbpr pr create --reviewers "{5e1f6c0a-9d0e-4f2b-8a1d-3c9b7e2f1a00}"`,
		Args: cobra.NoArgs,
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
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
	flags.StringVar(&c.Options.Source, "source", "", "Source branch (default: the build's branch)")
	flags.StringVar(&c.Options.Target, "target", "", "Destination branch (default: the repository's main branch)")
	flags.StringVar(&c.Options.Title, "title", "", "Title (default: \""+pullrequest.DefaultTitle+"\")")
	flags.StringVar(&c.Options.Description, "description", "", "Description")
	flags.StringSliceVar(&c.Options.Reviewers, "reviewers", nil, "Comma-separated reviewer UUIDs")
	flags.BoolVar(&c.Options.Close, "close", false, "Close the source branch after the pull request is merged")

	return command
}

func (c *Command) Run(ctx context.Context) error {
	result, err := c.Env.Service.Create(ctx, c.Options)
	if err != nil {
		return err
	}

	if result.Outcome == pullrequest.OutcomeNotApplicable {
		common.ReportNotApplicable(result.Site)
		return nil
	}

	ui.Successf("Created pull request #%d: %s", result.PullRequest.ID, result.URL())
	return nil
}
