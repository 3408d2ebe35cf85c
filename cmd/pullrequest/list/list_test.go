package list

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bjulian5/bbpr/internal/common"
	"github.com/bjulian5/bbpr/internal/pullrequest"
	"github.com/bjulian5/bbpr/internal/testutil"
	"github.com/bjulian5/bbpr/internal/ui"
)

const listPath = "/repositories/acme/site/pullrequests"

func pr(id int, title string, state string) string {
	return fmt.Sprintf(`{"id": %d, "title": %q, "state": %q,
		"source": {"branch": {"name": "feature/%d"}},
		"destination": {"branch": {"name": "main"}},
		"author": {"nickname": "jdoe"},
		"updated_on": "2024-01-03T11:30:00+00:00",
		"links": {"html": {"href": "https://bitbucket.org/acme/site/pull-requests/%d"}}}`, id, title, state, id, id)
}

// servePages answers the list endpoint with two pages linked by next
func servePages(srv *testutil.BitbucketServer) {
	srv.Handle(http.MethodGet, listPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprintf(w, `{"pagelen": 1, "page": 2, "values": [%s]}`, pr(2, "Fix footer", "MERGED"))
			return
		}
		next := srv.URL + listPath + "?" + r.URL.RawQuery + "&page=2"
		fmt.Fprintf(w, `{"pagelen": 1, "page": 1, "next": %q, "values": [%s]}`, next, pr(1, "Add search", "OPEN"))
	})
}

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	stdout, stderr := ui.Stdout, ui.Stderr
	ui.Stdout, ui.Stderr = &out, &out
	t.Cleanup(func() { ui.Stdout, ui.Stderr = stdout, stderr })

	root := &cobra.Command{Use: "bbpr", SilenceUsage: true, SilenceErrors: true}
	(&Command{Opts: &common.Options{ConfigPath: configPath}}).Register(root)
	root.SetArgs(append([]string{"list"}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestList_Table(t *testing.T) {
	srv, configPath := testutil.NewCLIEnv(t, "https://bitbucket.org/acme/site.git", "")
	servePages(srv)

	out, err := run(t, configPath)
	require.NoError(t, err)

	requests := srv.Requests()
	require.Len(t, requests, 2, "both pages should be fetched")
	assert.Equal(t, []string{"OPEN"}, requests[0].Query["state"])
	assert.Equal(t, "50", requests[0].Query.Get("pagelen"))

	assert.Contains(t, out, "Add search")
	assert.Contains(t, out, "Fix footer")
	assert.Contains(t, out, "Source Branch")
	assert.NotContains(t, out, "Merge Commit", "only default fields are shown")
	assert.Contains(t, out, "1 open")
	assert.Contains(t, out, "1 merged")
}

func TestList_StructuredOutput(t *testing.T) {
	testCases := []struct {
		desc   string
		format string
		decode func(t *testing.T, out string) []map[string]any
	}{
		{
			desc:   "json",
			format: "json",
			decode: func(t *testing.T, out string) []map[string]any {
				var rows []map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &rows))
				return rows
			},
		},
		{
			desc:   "yaml",
			format: "yaml",
			decode: func(t *testing.T, out string) []map[string]any {
				var rows []map[string]any
				require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
				return rows
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			srv, configPath := testutil.NewCLIEnv(t, "https://bitbucket.org/acme/site.git", "")
			servePages(srv)

			out, err := run(t, configPath, "--state", "all", "--format", tc.format, "--fields", "id,title,state,url")
			require.NoError(t, err)

			requests := srv.Requests()
			require.NotEmpty(t, requests)
			assert.Equal(t, []string{"MERGED", "DECLINED", "SUPERSEDED", "OPEN"}, requests[0].Query["state"])

			rows := tc.decode(t, out)
			require.Len(t, rows, 2)
			assert.Len(t, rows[0], 4)
			assert.EqualValues(t, 1, rows[0]["id"])
			assert.Equal(t, "Add search", rows[0]["title"])
			assert.Equal(t, "OPEN", rows[0]["state"])
			assert.Equal(t, "https://bitbucket.org/acme/site/pull-requests/1", rows[0]["url"])
			assert.Equal(t, "Fix footer", rows[1]["title"])
		})
	}
}

func TestList_ByID(t *testing.T) {
	srv, configPath := testutil.NewCLIEnv(t, "https://bitbucket.org/acme/site.git", "")
	srv.HandleJSON(http.MethodGet, listPath+"/42", http.StatusOK, pr(42, "Add search", "DECLINED"))

	out, err := run(t, configPath, "--id", "42", "--state", "bogus")
	require.NoError(t, err)

	requests := srv.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, url.Values{}, requests[0].Query)
	assert.Contains(t, out, "PR #42")
	assert.Contains(t, out, "Declined")
}

func TestList_Invalid(t *testing.T) {
	testCases := []struct {
		desc    string
		args    []string
		checkFn func(t *testing.T, err error)
	}{
		{
			desc: "unknown state",
			args: []string{"--state", "bogus"},
			checkFn: func(t *testing.T, err error) {
				var target *pullrequest.ValidationError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "state", target.Option)
			},
		},
		{
			desc: "unknown format",
			args: []string{"--format", "xml"},
			checkFn: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, `unknown format "xml"`)
			},
		},
		{
			desc: "unknown field",
			args: []string{"--fields", "id,reviewers"},
			checkFn: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, `unknown field "reviewers"`)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			srv, configPath := testutil.NewCLIEnv(t, "https://bitbucket.org/acme/site.git", "")

			_, err := run(t, configPath, tc.args...)
			tc.checkFn(t, err)
			assert.Empty(t, srv.Requests())
		})
	}
}
