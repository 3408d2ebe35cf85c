package auth

import (
	"context"
	"fmt"

	"github.com/99designs/keyring"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bjulian5/bbpr/internal/bitbucket"
	"github.com/bjulian5/bbpr/internal/common"
	"github.com/bjulian5/bbpr/internal/config"
	"github.com/bjulian5/bbpr/internal/credential"
	"github.com/bjulian5/bbpr/internal/ui"
)

type LoginCommand struct {
	Token string

	Opts   *common.Options
	Config *config.Config
	Log    *zap.Logger
	// Prompt and OpenKeyring are swapped out in tests
	Prompt      func(ctx context.Context) (*ui.Login, error)
	OpenKeyring func() (keyring.Keyring, error)
}

func (c *LoginCommand) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "login",
		Short: "Store Bitbucket credentials in the OS keyring",
		Long: `Prompt for a Bitbucket username and app password, check them against the
Bitbucket API and store them in the OS keyring.

Example:
  bbpr auth login
  bbpr auth login --token "$ACCESS_TOKEN"`,
		Args: cobra.NoArgs,
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			var err error
			c.Config, c.Log, err = common.LoadConfig(c.Opts)
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return c.Run(cobraCmd.Context())
		},
	}

	command.Flags().StringVar(&c.Token, "token", "", "Store an access token instead of a username and app password")

	parent.AddCommand(command)
}

func (c *LoginCommand) Run(ctx context.Context) error {
	creds := credential.Credentials{Token: c.Token, Source: credential.SourceKeyring}
	if creds.Token == "" {
		prompt := c.Prompt
		if prompt == nil {
			prompt = ui.PromptLogin
		}
		login, err := prompt(ctx)
		if err != nil {
			return fmt.Errorf("failed to read credentials: %w", err)
		}
		if login == nil {
			ui.Info("Login cancelled")
			return nil
		}
		creds.Username = login.Username
		creds.Password = login.Password
	}

	c.Log.Debug("verifying credentials", zap.String("api", c.Config.API.BaseURL))
	user, err := verify(ctx, common.NewBitbucketClient(c.Config, creds))
	if err != nil {
		return err
	}

	openKeyring := c.OpenKeyring
	if openKeyring == nil {
		openKeyring = credential.OpenKeyring
	}
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	if err := credential.Save(ring, creds); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	ui.Successf("Logged in to Bitbucket as %s", user.Name())
	return nil
}

// verify checks credentials by fetching the authenticated user
func verify(ctx context.Context, client *bitbucket.Client) (*bitbucket.User, error) {
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("bitbucket rejected the credentials: %w", err)
	}
	return user, nil
}
