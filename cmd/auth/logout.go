package auth

import (
	"github.com/99designs/keyring"
	"github.com/spf13/cobra"

	"github.com/bjulian5/bbpr/internal/credential"
	"github.com/bjulian5/bbpr/internal/ui"
)

type LogoutCommand struct {
	OpenKeyring func() (keyring.Keyring, error)
}

func (c *LogoutCommand) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored Bitbucket credentials",
		Long: `Remove the credentials 'bbpr auth login' stored in the OS keyring.
Environment variables are not affected.`,
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return c.Run()
		},
	}

	parent.AddCommand(command)
}

func (c *LogoutCommand) Run() error {
	openKeyring := c.OpenKeyring
	if openKeyring == nil {
		openKeyring = credential.OpenKeyring
	}
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	if err := credential.Clear(ring); err != nil {
		return err
	}

	ui.Success("Removed stored Bitbucket credentials")
	return nil
}
