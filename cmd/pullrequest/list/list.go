package list

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bjulian5/bbpr/internal/common"
	"github.com/bjulian5/bbpr/internal/pullrequest"
	"github.com/bjulian5/bbpr/internal/ui"
)

type Command struct {
	Options pullrequest.ListOptions
	Format  string
	Fields  []string

	format ui.Format
	fields []string

	Opts *common.Options
	Env  *common.Env
}

func (c *Command) Register(parent *cobra.Command) {
	parent.AddCommand(c.command("list", []string{"ls"}))
}

func (c *Command) RegisterShortcut(root *cobra.Command) {
	use, aliases := common.ShortcutNames("list")
	cmd := c.command(use, aliases)
	cmd.Hidden = true
	root.AddCommand(cmd)
}

func (c *Command) command(use string, aliases []string) *cobra.Command {
	command := &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   "List pull requests",
		Long: `List Bitbucket pull requests for a site, newest activity first as
Bitbucket returns them. Every page of results is fetched.

States: ` + strings.Join(pullrequest.StateFilterNames, ", ") + `
Fields: ` + strings.Join(pullrequest.Fields, ", ") + `

Example:
  bbpr pr list
  bbpr pr list --state all --fields id,title,state,url
  bbpr pr list --id 42
  bbpr pr list --site my-site --format json`,
		Args: cobra.NoArgs,
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			var err error
			if c.format, err = ui.ParseFormat(c.Format); err != nil {
				return err
			}
			if c.fields, err = ui.ParseFields(c.Fields); err != nil {
				return err
			}
			c.Env, err = common.InitService(c.Opts)
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return c.Run(cobraCmd.Context())
		},
	}

	flags := command.Flags()
	flags.StringVar(&c.Options.Site, "site", "", "Site name (default: the repository in the current directory)")
	flags.IntVar(&c.Options.ID, "id", 0, "Show a single pull request; --state is ignored")
	flags.StringVar(&c.Options.State, "state", pullrequest.DefaultState, "State filter: "+strings.Join(pullrequest.StateFilterNames, "|"))
	flags.StringVar(&c.Format, "format", string(ui.FormatTable), "Output format: table|json|yaml")
	flags.StringSliceVar(&c.Fields, "fields", nil, "Comma-separated fields to show (default: "+strings.Join(pullrequest.DefaultFields, ",")+")")

	return command
}

func (c *Command) Run(ctx context.Context) error {
	result, err := c.Env.Service.List(ctx, c.Options)
	if err != nil {
		return err
	}

	if result.Outcome == pullrequest.OutcomeNotApplicable {
		common.ReportNotApplicable(result.Site)
		return nil
	}

	if c.format != ui.FormatTable {
		return ui.WriteRows(ui.Stdout, c.format, result.Rows, c.fields)
	}

	if len(result.Rows) == 0 {
		ui.Infof("No pull requests found for %s", result.Project)
		return nil
	}

	if c.Options.ID > 0 {
		ui.Println(ui.RenderPullRequestDetails(result.Rows[0]))
		return nil
	}

	if err := ui.WriteRows(ui.Stdout, c.format, result.Rows, c.fields); err != nil {
		return err
	}

	states := make([]string, len(result.Rows))
	for i, row := range result.Rows {
		states[i] = row.State
	}
	ui.Println(ui.FormatStateSummary(ui.CountByState(states)))
	return nil
}
