package auth

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/bjulian5/bbpr/internal/common"
	"github.com/bjulian5/bbpr/internal/config"
	"github.com/bjulian5/bbpr/internal/credential"
	"github.com/bjulian5/bbpr/internal/pullrequest"
	"github.com/bjulian5/bbpr/internal/ui"
)

type StatusCommand struct {
	Opts        *common.Options
	Config      *config.Config
	Credentials pullrequest.CredentialSource
}

func (c *StatusCommand) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "status",
		Short: "Show which Bitbucket credentials are in use",
		Args:  cobra.NoArgs,
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			var err error
			c.Config, _, err = common.LoadConfig(c.Opts)
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return c.Run(cobraCmd.Context())
		},
	}

	parent.AddCommand(command)
}

func (c *StatusCommand) Run(ctx context.Context) error {
	source := c.Credentials
	if source == nil {
		source = credential.NewResolver()
	}

	creds, err := source.Resolve()
	if errors.Is(err, credential.ErrNoCredentials) {
		ui.Warning("Not logged in to Bitbucket")
		ui.Println(ui.Dim("Set BITBUCKET_TOKEN, or BITBUCKET_USER and BITBUCKET_PASS, or run 'bbpr auth login'"))
		return nil
	}
	if err != nil {
		return err
	}

	method := "app password"
	if creds.Token != "" {
		method = "access token"
	}
	pairs := map[string]string{
		"API":    c.Config.API.BaseURL,
		"Source": string(creds.Source),
		"Method": method,
	}
	keys := []string{"API", "Source", "Method"}
	if creds.Username != "" {
		pairs["Username"] = creds.Username
		keys = append(keys, "Username")
	}

	user, err := verify(ctx, common.NewBitbucketClient(c.Config, creds))
	if err != nil {
		ui.Println(ui.RenderKeyValueList(pairs, keys))
		return err
	}

	ui.Header("Bitbucket")
	ui.Successf("Logged in to Bitbucket as %s", user.Name())
	ui.Println(ui.RenderKeyValueList(pairs, keys))
	return nil
}
