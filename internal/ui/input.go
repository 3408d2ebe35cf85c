package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// HuhPrompter asks yes/no questions with a huh confirm field
type HuhPrompter struct{}

// Confirm implements pullrequest.Prompter. An aborted prompt (Ctrl+C) counts as "no".
func (HuhPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Login holds the values collected by PromptLogin
type Login struct {
	Username string
	Password string
}

// PromptLogin asks for a Bitbucket username and app password. The password is not echoed.
// Returns nil if the user aborted the form.
func PromptLogin(ctx context.Context) (*Login, error) {
	var login Login
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Description("Your Bitbucket username (not your email address)").
				Value(&login.Username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("App password").
				Description("Create one under Personal settings > App passwords").
				EchoMode(huh.EchoModePassword).
				Value(&login.Password).
				Validate(validateRequired("App password")),
		),
	).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	login.Username = strings.TrimSpace(login.Username)
	return &login, nil
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}
