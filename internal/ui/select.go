package ui

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/bjulian5/bbpr/internal/bitbucket"
)

func init() {
	// Force lipgloss to initialize and detect terminal before fuzzy finder starts
	// This prevents ANSI escape sequences from leaking into the finder input
	_ = lipgloss.NewStyle().Render("")
	_ = lipgloss.HasDarkBackground()
}

// FuzzySelector picks a pull request with a fuzzy finder
type FuzzySelector struct{}

// SelectPullRequest presents a fuzzy finder over prs.
// Returns nil if the user cancelled the selection.
func (FuzzySelector) SelectPullRequest(ctx context.Context, prs []bitbucket.PullRequest) (*bitbucket.PullRequest, error) {
	// Flush stdout/stderr before starting fuzzy finder to clear any ANSI sequences
	os.Stdout.Sync()
	os.Stderr.Sync()

	idx, err := fuzzyfinder.Find(
		prs,
		func(i int) string {
			return FormatPullRequestFinderLine(prs[i])
		},
		fuzzyfinder.WithContext(ctx),
		fuzzyfinder.WithHeader("Select a pull request to close"),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return FormatPullRequestPreview(prs[i])
		}),
	)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &prs[idx], nil
}
