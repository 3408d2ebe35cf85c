package pullrequest

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bjulian5/bbpr/internal/bitbucket"
)

// DefaultTitle is used when no title is given
const DefaultTitle = "Pull request from Terminus."

// CreateOptions are the options of the create command
type CreateOptions struct {
	Site        string
	Source      string
	Target      string
	Title       string
	Description string
	// Reviewers are user UUIDs, with or without braces
	Reviewers []string
	// Close closes the source branch once the pull request is merged
	Close bool
}

// CreateResult is the outcome of Create
type CreateResult struct {
	Outcome     Outcome
	Site        string
	Project     string
	Request     bitbucket.CreatePullRequest
	PullRequest *bitbucket.PullRequest
}

// URL returns the web URL of the created pull request
func (r *CreateResult) URL() string {
	if r.PullRequest == nil {
		return ""
	}
	return r.PullRequest.HTMLURL()
}

// NormalizeReviewers validates reviewer UUIDs and returns them in Bitbucket's braced
// form. Blank entries are skipped.
func NormalizeReviewers(ids []string) ([]string, error) {
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		u, err := uuid.Parse(id)
		if err != nil {
			return nil, &ValidationError{Option: "reviewers", Value: id, Msg: "reviewers must be user UUIDs"}
		}
		out = append(out, "{"+u.String()+"}")
	}
	return out, nil
}

// BuildCreateRequest turns options into the request body. ref is the current build
// ref, used when no source branch is given.
func BuildCreateRequest(opts CreateOptions, ref string) (bitbucket.CreatePullRequest, error) {
	reviewers, err := NormalizeReviewers(opts.Reviewers)
	if err != nil {
		return bitbucket.CreatePullRequest{}, err
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	source := opts.Source
	if source == "" {
		source = ref
	}
	if source == "" {
		return bitbucket.CreatePullRequest{}, &ConfigurationError{Msg: "no source branch: pass --source or check out a branch"}
	}

	req := bitbucket.CreatePullRequest{
		Title:             title,
		Description:       opts.Description,
		Source:            bitbucket.NewBranchRef(source),
		CloseSourceBranch: opts.Close,
	}
	if opts.Target != "" {
		dest := bitbucket.NewBranchRef(opts.Target)
		req.Destination = &dest
	}
	for _, id := range reviewers {
		req.Reviewers = append(req.Reviewers, bitbucket.Reviewer{UUID: id})
	}
	return req, nil
}

// Create opens a pull request on the site's repository
func (s *Service) Create(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	// Reviewer identifiers are checked before anything touches the network.
	if _, err := NormalizeReviewers(opts.Reviewers); err != nil {
		return nil, err
	}

	sess, err := s.Init.Init(ctx, opts.Site)
	if err != nil {
		return nil, err
	}
	if !sess.Applicable() {
		return &CreateResult{Outcome: OutcomeNotApplicable, Site: sess.Site, Project: sess.Project}, nil
	}

	req, err := BuildCreateRequest(opts, sess.Metadata.Ref)
	if err != nil {
		return nil, err
	}

	target := opts.Target
	if target == "" {
		target = "(main branch)"
	}
	s.log().Info("Creating PR",
		zap.String("title", req.Title),
		zap.String("source", req.Source.Branch.Name),
		zap.String("target", target))

	var pr bitbucket.PullRequest
	if err := sess.API.Request(ctx, http.MethodPost, pullRequestsPath(sess.Project), req, &pr); err != nil {
		return nil, err
	}

	return &CreateResult{
		Outcome:     OutcomeCompleted,
		Site:        sess.Site,
		Project:     sess.Project,
		Request:     req,
		PullRequest: &pr,
	}, nil
}
