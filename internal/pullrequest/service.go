package pullrequest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bjulian5/bbpr/internal/bitbucket"
)

// Prompter asks the operator to confirm an action
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Selector lets the operator pick one pull request. A nil result means the
// operator cancelled.
type Selector interface {
	SelectPullRequest(ctx context.Context, prs []bitbucket.PullRequest) (*bitbucket.PullRequest, error)
}

// Display controls how timestamps are rendered in rows
type Display struct {
	// DateFormat is a Go time layout
	DateFormat string
	Location   *time.Location
}

// DefaultDisplay renders timestamps as "2006-01-02 15:04:05" in local time
var DefaultDisplay = Display{DateFormat: "2006-01-02 15:04:05", Location: time.Local}

// Service implements the pull-request commands
type Service struct {
	Init     *Initializer
	Prompter Prompter
	Selector Selector
	Display  Display
	Log      *zap.Logger
}

func (s *Service) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func pullRequestsPath(project string) string {
	return fmt.Sprintf("repositories/%s/pullrequests", project)
}

func pullRequestPath(project string, id int) string {
	return fmt.Sprintf("repositories/%s/pullrequests/%d", project, id)
}

func declinePath(project string, id int) string {
	return fmt.Sprintf("repositories/%s/pullrequests/%d/decline", project, id)
}
