package create

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/bbpr/internal/common"
	"github.com/bjulian5/bbpr/internal/pullrequest"
	"github.com/bjulian5/bbpr/internal/testutil"
	"github.com/bjulian5/bbpr/internal/ui"
)

const createdPR = `{"id": 7, "title": "Pull request from Terminus.", "state": "OPEN",
	"links": {"html": {"href": "https://bitbucket.org/acme/site/pull-requests/7"}}}`

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	stdout, stderr := ui.Stdout, ui.Stderr
	ui.Stdout, ui.Stderr = &out, &out
	t.Cleanup(func() { ui.Stdout, ui.Stderr = stdout, stderr })

	root := &cobra.Command{Use: "bbpr", SilenceUsage: true, SilenceErrors: true}
	(&Command{Opts: &common.Options{ConfigPath: configPath}}).Register(root)
	root.SetArgs(append([]string{"create"}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCreate(t *testing.T) {
	testCases := []struct {
		desc       string
		args       []string
		expectBody map[string]any
	}{
		{
			desc: "defaults to the current branch",
			args: []string{"--target", "main"},
			expectBody: map[string]any{
				"source":              map[string]any{"branch": map[string]any{"name": "feature/x"}},
				"destination":         map[string]any{"branch": map[string]any{"name": "main"}},
				"title":               "Pull request from Terminus.",
				"close_source_branch": false,
			},
		},
		{
			desc: "every flag",
			args: []string{
				"--source", "feature/y", "--target", "develop",
				"--title", "Add search", "--description", "Adds the search page",
				"--reviewers", "5e1f6c0a-9d0e-4f2b-8a1d-3c9b7e2f1a00,{7a3c2b10-0e4d-4c1a-9f6e-2b8d1c0e5f11}",
				"--close",
			},
			expectBody: map[string]any{
				"source":      map[string]any{"branch": map[string]any{"name": "feature/y"}},
				"destination": map[string]any{"branch": map[string]any{"name": "develop"}},
				"title":       "Add search",
				"description": "Adds the search page",
				"reviewers": []any{
					map[string]any{"uuid": "{5e1f6c0a-9d0e-4f2b-8a1d-3c9b7e2f1a00}"},
					map[string]any{"uuid": "{7a3c2b10-0e4d-4c1a-9f6e-2b8d1c0e5f11}"},
				},
				"close_source_branch": true,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			srv, configPath := testutil.NewCLIEnv(t, "git@bitbucket.org:acme/site.git", "feature/x")
			srv.HandleJSON(http.MethodPost, "/repositories/acme/site/pullrequests", http.StatusCreated, createdPR)

			out, err := run(t, configPath, tc.args...)
			require.NoError(t, err)

			requests := srv.Requests()
			require.Len(t, requests, 1)
			assert.Equal(t, tc.expectBody, requests[0].Body)
			assert.Contains(t, out, "Created pull request #7: https://bitbucket.org/acme/site/pull-requests/7")
		})
	}
}

func TestCreate_InvalidReviewer(t *testing.T) {
	srv, configPath := testutil.NewCLIEnv(t, "git@bitbucket.org:acme/site.git", "feature/x")

	_, err := run(t, configPath, "--reviewers", "octocat")

	var target *pullrequest.ValidationError
	require.ErrorAs(t, err, &target)
	assert.Empty(t, srv.Requests())
}

func TestCreate_NotBitbucket(t *testing.T) {
	srv, configPath := testutil.NewCLIEnv(t, "git@github.com:acme/site.git", "feature/x")

	out, err := run(t, configPath, "--target", "main")
	require.NoError(t, err)

	assert.Contains(t, out, "does not use Bitbucket.")
	assert.Empty(t, srv.Requests())
}

func TestCreate_RemoteError(t *testing.T) {
	srv, configPath := testutil.NewCLIEnv(t, "git@bitbucket.org:acme/site.git", "feature/x")
	srv.HandleJSON(http.MethodPost, "/repositories/acme/site/pullrequests", http.StatusBadRequest,
		`{"type": "error", "error": {"message": "There are no changes to be pulled"}}`)

	_, err := run(t, configPath, "--target", "main")

	var target *pullrequest.RemoteError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, http.StatusBadRequest, target.StatusCode)
	assert.ErrorContains(t, err, "There are no changes to be pulled")
}
