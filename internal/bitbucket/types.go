package bitbucket

import (
	"encoding/json"
	"time"
)

// Pull request states as reported by Bitbucket Cloud
const (
	StateOpen       = "OPEN"
	StateMerged     = "MERGED"
	StateDeclined   = "DECLINED"
	StateSuperseded = "SUPERSEDED"
)

// Page is one page of a paginated collection. Next is an absolute URL, empty on the last page.
type Page struct {
	Size    int               `json:"size"`
	Page    int               `json:"page"`
	PageLen int               `json:"pagelen"`
	Next    string            `json:"next,omitempty"`
	Values  []json.RawMessage `json:"values"`
}

// PullRequest is a Bitbucket Cloud pull request
type PullRequest struct {
	ID                int       `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	State             string    `json:"state"`
	Source            BranchRef `json:"source"`
	Destination       BranchRef `json:"destination"`
	Author            *User     `json:"author"`
	MergeCommit       *Commit   `json:"merge_commit"`
	ClosedBy          *User     `json:"closed_by"`
	CloseSourceBranch bool      `json:"close_source_branch"`
	CreatedOn         time.Time `json:"created_on"`
	UpdatedOn         time.Time `json:"updated_on"`
	Links             Links     `json:"links"`
}

// HTMLURL returns the web URL of the pull request
func (pr *PullRequest) HTMLURL() string {
	return pr.Links.HTML.Href
}

// CreatePullRequest is the body of a create call. Empty fields are left out of the
// JSON, except close_source_branch which Bitbucket always receives.
type CreatePullRequest struct {
	Title             string     `json:"title,omitempty"`
	Description       string     `json:"description,omitempty"`
	Source            BranchRef  `json:"source"`
	Destination       *BranchRef `json:"destination,omitempty"`
	Reviewers         []Reviewer `json:"reviewers,omitempty"`
	CloseSourceBranch bool       `json:"close_source_branch"`
}

// BranchRef is the {branch:{name}} shape used for source and destination
type BranchRef struct {
	Branch Branch  `json:"branch"`
	Commit *Commit `json:"commit,omitempty"`
}

// NewBranchRef wraps a branch name
func NewBranchRef(name string) BranchRef {
	return BranchRef{Branch: Branch{Name: name}}
}

type Branch struct {
	Name string `json:"name"`
}

type Commit struct {
	Hash string `json:"hash"`
}

// Reviewer references a user by UUID
type Reviewer struct {
	UUID string `json:"uuid"`
}

type User struct {
	UUID        string `json:"uuid"`
	AccountID   string `json:"account_id,omitempty"`
	DisplayName string `json:"display_name"`
	Nickname    string `json:"nickname"`
}

// Name returns the nickname, falling back to the display name
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.DisplayName
}

type Links struct {
	HTML Link `json:"html"`
}

type Link struct {
	Href string `json:"href"`
}

// errorResponse is Bitbucket Cloud's error body
type errorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	} `json:"error"`
}
