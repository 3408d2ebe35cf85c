package pullrequest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bjulian5/bbpr/internal/bitbucket"
)

// DefaultState is the state filter used when none is given
const DefaultState = "open"

// stateFilters maps the operator-facing filter to Bitbucket states. Keys are case-sensitive.
var stateFilters = map[string][]string{
	"open":       {bitbucket.StateOpen},
	"closed":     {bitbucket.StateMerged, bitbucket.StateDeclined, bitbucket.StateSuperseded},
	"all":        {bitbucket.StateMerged, bitbucket.StateDeclined, bitbucket.StateSuperseded, bitbucket.StateOpen},
	"declined":   {bitbucket.StateDeclined},
	"superseded": {bitbucket.StateSuperseded},
	"merged":     {bitbucket.StateMerged},
}

// StateFilterNames lists the accepted state filters in help order
var StateFilterNames = []string{"open", "closed", "merged", "declined", "superseded", "all"}

// StatesFor returns the Bitbucket states for a state filter
func StatesFor(filter string) ([]string, error) {
	states, ok := stateFilters[filter]
	if !ok {
		return nil, &ValidationError{
			Option: "state",
			Value:  filter,
			Msg:    "state must be one of: " + strings.Join(StateFilterNames, ", "),
		}
	}
	return slices.Clone(states), nil
}

// ListOptions are the options of the list command
type ListOptions struct {
	Site string
	// ID fetches a single pull request; State is ignored when set
	ID    int
	State string
}

// ListResult is the outcome of List
type ListResult struct {
	Outcome      Outcome
	Site         string
	Project      string
	PullRequests []bitbucket.PullRequest
	Rows         []Row
}

// List fetches pull requests for the site in the order Bitbucket returns them
func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	filter := opts.State
	if filter == "" {
		filter = DefaultState
	}

	var states []string
	switch {
	case opts.ID < 0:
		return nil, &ValidationError{Option: "id", Value: strconv.Itoa(opts.ID), Msg: "id must be positive"}
	case opts.ID == 0:
		var err error
		if states, err = StatesFor(filter); err != nil {
			return nil, err
		}
	}

	sess, err := s.Init.Init(ctx, opts.Site)
	if err != nil {
		return nil, err
	}
	if !sess.Applicable() {
		return &ListResult{Outcome: OutcomeNotApplicable, Site: sess.Site, Project: sess.Project}, nil
	}

	var prs []bitbucket.PullRequest
	if opts.ID > 0 {
		s.log().Info("Fetching info for PR", zap.Int("id", opts.ID))
		var pr bitbucket.PullRequest
		if err := sess.API.Request(ctx, http.MethodGet, pullRequestPath(sess.Project, opts.ID), nil, &pr); err != nil {
			return nil, err
		}
		prs = []bitbucket.PullRequest{pr}
	} else {
		s.log().Info("Fetching PRs",
			zap.String("state", filter),
			zap.String("project", sess.Project))
		if prs, err = s.fetchAll(ctx, sess, states); err != nil {
			return nil, err
		}
	}

	rows := make([]Row, 0, len(prs))
	for i := range prs {
		rows = append(rows, ProjectRow(&prs[i], s.Display))
	}

	return &ListResult{
		Outcome:      OutcomeCompleted,
		Site:         sess.Site,
		Project:      sess.Project,
		PullRequests: prs,
		Rows:         rows,
	}, nil
}

// fetchAll drains every page of pull requests in the given states
func (s *Service) fetchAll(ctx context.Context, sess *Session, states []string) ([]bitbucket.PullRequest, error) {
	path := pullRequestsPath(sess.Project)
	query := url.Values{"state": states}

	var prs []bitbucket.PullRequest
	for raw, err := range sess.API.PagedRequest(ctx, path, query) {
		if err != nil {
			return nil, err
		}
		var pr bitbucket.PullRequest
		if err := json.Unmarshal(raw, &pr); err != nil {
			return nil, &RemoteError{Method: http.MethodGet, Path: path, Err: err}
		}
		prs = append(prs, pr)
	}
	return prs, nil
}
