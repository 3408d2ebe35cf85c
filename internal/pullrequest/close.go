package pullrequest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/bjulian5/bbpr/internal/bitbucket"
)

// CloseOptions are the options of the close command
type CloseOptions struct {
	Site string
	// ID of the pull request to decline. Zero asks the Selector to pick an open one.
	ID int
	// Yes skips the confirmation prompt
	Yes bool
}

// CloseResult is the outcome of Close
type CloseResult struct {
	Outcome Outcome
	Site    string
	Project string
	ID      int
}

// Close declines a pull request after the operator confirms
func (s *Service) Close(ctx context.Context, opts CloseOptions) (*CloseResult, error) {
	if opts.ID < 0 || (opts.ID == 0 && s.Selector == nil) {
		return nil, &ValidationError{Option: "id", Value: strconv.Itoa(opts.ID), Msg: "a pull request id is required"}
	}

	sess, err := s.Init.Init(ctx, opts.Site)
	if err != nil {
		return nil, err
	}
	if !sess.Applicable() {
		return &CloseResult{Outcome: OutcomeNotApplicable, Site: sess.Site, Project: sess.Project, ID: opts.ID}, nil
	}

	id := opts.ID
	if id == 0 {
		pr, err := s.selectOpen(ctx, sess)
		if err != nil {
			return nil, err
		}
		if pr == nil {
			return &CloseResult{Outcome: OutcomeAborted, Site: sess.Site, Project: sess.Project}, nil
		}
		id = pr.ID
	}

	if !opts.Yes {
		msg := fmt.Sprintf("Are you sure you want to close PR %d for %s?", id, sess.Project)
		ok, err := s.Prompter.Confirm(ctx, msg)
		if err != nil {
			return nil, fmt.Errorf("failed to confirm: %w", err)
		}
		if !ok {
			return &CloseResult{Outcome: OutcomeAborted, Site: sess.Site, Project: sess.Project, ID: id}, nil
		}
	}

	s.log().Info("Closing PR", zap.Int("id", id), zap.String("project", sess.Project))
	if err := sess.API.Request(ctx, http.MethodPost, declinePath(sess.Project, id), nil, nil); err != nil {
		return nil, err
	}
	s.log().Info(fmt.Sprintf("Pull request %d has been closed.", id))

	return &CloseResult{Outcome: OutcomeCompleted, Site: sess.Site, Project: sess.Project, ID: id}, nil
}

// selectOpen lists open pull requests and lets the operator pick one
func (s *Service) selectOpen(ctx context.Context, sess *Session) (*bitbucket.PullRequest, error) {
	prs, err := s.fetchAll(ctx, sess, stateFilters["open"])
	if err != nil {
		return nil, err
	}
	if len(prs) == 0 {
		return nil, fmt.Errorf("no open pull requests on %s", sess.Project)
	}
	return s.Selector.SelectPullRequest(ctx, prs)
}

