package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bjulian5/bbpr/internal/git"
)

// FileName is the build metadata file build tools deploy at the site root
const FileName = "build-metadata.json"

// DateFormat matches git's %ci format used by build tools
const DateFormat = "2006-01-02 15:04:05 -0700"

// BuildMetadata describes the git state a site was built from
type BuildMetadata struct {
	Site       string `json:"site,omitempty"`
	URL        string `json:"url"`
	Ref        string `json:"ref"`
	SHA        string `json:"sha"`
	Comment    string `json:"comment"`
	CommitDate string `json:"commit-date"`
	BuildDate  string `json:"build-date"`
}

// Local reads build metadata from a git working copy
type Local struct {
	// Now stamps build-date; defaults to time.Now
	Now func() time.Time
}

// ForDirectory returns metadata for the repository containing dir. A missing remote
// or detached HEAD leaves URL or Ref empty rather than failing.
func (l *Local) ForDirectory(ctx context.Context, dir string) (*BuildMetadata, error) {
	client, err := git.NewClientAt(dir)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if l.Now != nil {
		now = l.Now
	}

	md := &BuildMetadata{BuildDate: now().Format(DateFormat)}

	if remote, err := client.GetRemoteName(); err == nil {
		if url, err := client.GetRemoteURL(remote); err == nil {
			md.URL = url
		}
	}

	if branch, err := client.GetCurrentBranch(); err == nil {
		md.Ref = branch
	}

	if commit, err := client.GetCommit("HEAD"); err == nil {
		md.SHA = commit.Hash
		md.Comment = commit.Title
		md.CommitDate = commit.Date.Format(DateFormat)
	}

	return md, nil
}

// Remote fetches build-metadata.json from a deployed site environment
type Remote struct {
	HTTPClient  *http.Client
	URLTemplate string
	Environment string
}

// NewRemote creates a fetcher for the given URL template ({site} and {env} placeholders)
func NewRemote(urlTemplate string, environment string, timeout time.Duration) *Remote {
	return &Remote{
		HTTPClient:  &http.Client{Timeout: timeout},
		URLTemplate: urlTemplate,
		Environment: environment,
	}
}

// URLFor expands the template for site
func (r *Remote) URLFor(site string) string {
	return strings.NewReplacer("{site}", site, "{env}", r.Environment).Replace(r.URLTemplate)
}

// ForSite fetches the metadata of the site's configured environment
func (r *Remote) ForSite(ctx context.Context, site string) (*BuildMetadata, error) {
	url := r.URLFor(site)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching build metadata for %s.%s: %w", site, r.Environment, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading build metadata: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no build metadata found for %s.%s at %s", site, r.Environment, url)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d fetching build metadata for %s.%s", resp.StatusCode, site, r.Environment)
	}

	var md BuildMetadata
	if err := json.Unmarshal(body, &md); err != nil {
		return nil, fmt.Errorf("parsing build metadata for %s.%s: %w", site, r.Environment, err)
	}
	if md.Site == "" {
		md.Site = site
	}
	return &md, nil
}

// Resolver serves working-directory lookups from Local and site lookups from Remote
type Resolver struct {
	*Local
	*Remote
}
