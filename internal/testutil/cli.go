package testutil

import (
	"path/filepath"
	"testing"
)

// TestToken is the access token NewCLIEnv exports as BITBUCKET_TOKEN
const TestToken = "test-token"

// NewCLIEnv prepares everything a bbpr command reads: a working copy with
// remoteURL as origin (on branch, when not empty) as the current directory, a
// fake Bitbucket API wired through BBPR_API_BASE_URL, and a token in the
// environment. It returns the server and a config path that does not exist yet.
func NewCLIEnv(t *testing.T, remoteURL string, branch string) (*BitbucketServer, string) {
	t.Helper()

	dir := NewTestRepo(t, remoteURL)
	if branch != "" {
		CheckoutNewBranch(t, dir, branch)
	}
	t.Chdir(dir)

	srv := NewBitbucketServer(t)
	t.Setenv("BBPR_API_BASE_URL", srv.URL)
	t.Setenv("BITBUCKET_TOKEN", TestToken)
	t.Setenv("BITBUCKET_USER", "")
	t.Setenv("BITBUCKET_PASS", "")

	return srv, filepath.Join(t.TempDir(), "config.yaml")
}
