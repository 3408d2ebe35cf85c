package git

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DefaultRemote is preferred over other remotes when present
const DefaultRemote = "origin"

// Client provides read-only git operations for a repository
type Client struct {
	repo *gogit.Repository
}

// Commit is the subset of commit data build metadata needs
type Commit struct {
	Hash  string
	Title string
	Date  time.Time
}

// NewClientAt creates a git client for the repository containing dir
func NewClientAt(dir string) (*Client, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("not in a git repository: %w", err)
	}

	if _, err := repo.Worktree(); err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}

	return &Client{repo: repo}, nil
}

// GetCurrentBranch returns the name of the current git branch
func (c *Client) GetCurrentBranch() (string, error) {
	head, err := c.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash().String()[:7])
	}
	return head.Name().Short(), nil
}

// GetRemoteName returns "origin" if configured, otherwise the first remote by name
func (c *Client) GetRemoteName() (string, error) {
	remotes, err := c.repo.Remotes()
	if err != nil {
		return "", fmt.Errorf("failed to get remote: %w", err)
	}
	if len(remotes) == 0 {
		return "", fmt.Errorf("no git remote configured")
	}

	names := make([]string, 0, len(remotes))
	for _, r := range remotes {
		if r.Config().Name == DefaultRemote {
			return DefaultRemote, nil
		}
		names = append(names, r.Config().Name)
	}
	sort.Strings(names)
	return names[0], nil
}

// GetRemoteURL returns the first fetch URL of the named remote
func (c *Client) GetRemoteURL(name string) (string, error) {
	remote, err := c.repo.Remote(name)
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return "", fmt.Errorf("remote %s not found", name)
		}
		return "", fmt.Errorf("failed to get remote %s: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", name)
	}
	return urls[0], nil
}

// GetCommit returns a commit by hash or ref
func (c *Client) GetCommit(ref string) (Commit, error) {
	hash, err := c.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return Commit{}, fmt.Errorf("failed to resolve %s: %w", ref, err)
	}

	obj, err := c.repo.CommitObject(*hash)
	if err != nil {
		return Commit{}, fmt.Errorf("failed to get commit %s: %w", hash, err)
	}

	title, _, _ := strings.Cut(strings.TrimSpace(obj.Message), "\n")
	return Commit{
		Hash:  obj.Hash.String(),
		Title: strings.TrimSpace(title),
		Date:  obj.Committer.When,
	}, nil
}
