package provider

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Type identifies a git hosting provider
type Type string

const (
	Unknown   Type = ""
	Bitbucket Type = "bitbucket"
	GitHub    Type = "github"
	GitLab    Type = "gitlab"
)

var hosts = map[string]Type{
	"bitbucket.org": Bitbucket,
	"github.com":    GitHub,
	"gitlab.com":    GitLab,
}

// Remote is a parsed git remote URL
type Remote struct {
	URL      string
	Host     string
	Provider Type
	// Project is the "workspace/repo_slug" path of the repository. For hosts other
	// than Bitbucket it is the repository path as found in the URL.
	Project string
}

// ParseRemote parses ssh, scp-like and http(s) remote URLs.
// Provider is Unknown for hosts other than the public Bitbucket, GitHub and GitLab.
func ParseRemote(remoteURL string) (*Remote, error) {
	if strings.TrimSpace(remoteURL) == "" {
		return nil, fmt.Errorf("remote URL is empty")
	}

	ep, err := transport.NewEndpoint(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL %q: %w", remoteURL, err)
	}
	if ep.Protocol == "file" || ep.Host == "" {
		return nil, fmt.Errorf("remote URL %q does not point at a hosting provider", remoteURL)
	}

	host := strings.ToLower(ep.Host)
	remote := &Remote{
		URL:      remoteURL,
		Host:     host,
		Provider: hosts[host],
		Project:  trimPath(ep.Path),
	}

	// Only Bitbucket Cloud paths are workspace/repo_slug; other hosts may nest
	// groups or carry prefixes such as /scm.
	if remote.Provider == Bitbucket {
		project, err := projectFromPath(ep.Path)
		if err != nil {
			return nil, fmt.Errorf("invalid remote URL %q: %w", remoteURL, err)
		}
		remote.Project = project
	}
	return remote, nil
}

func trimPath(path string) string {
	return strings.TrimSuffix(strings.Trim(path, "/"), ".git")
}

func projectFromPath(path string) (string, error) {
	path = trimPath(path)

	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("expected a workspace/repository path, got %q", path)
	}
	return parts[0] + "/" + parts[1], nil
}
