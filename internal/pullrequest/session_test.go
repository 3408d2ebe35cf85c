package pullrequest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/bbpr/internal/credential"
	"github.com/bjulian5/bbpr/internal/metadata"
	"github.com/bjulian5/bbpr/internal/provider"
)

func TestInit(t *testing.T) {
	t.Run("WorkingDirectory", func(t *testing.T) {
		f := newFixture(t)

		sess, err := f.service.Init.Init(context.Background(), "")
		require.NoError(t, err)

		assert.True(t, sess.Applicable())
		assert.Equal(t, OutcomeCompleted, sess.Outcome)
		assert.Equal(t, testWorkDir, sess.Site, "site should be the working directory")
		assert.Equal(t, testWorkDir, sess.Metadata.Site)
		assert.Equal(t, "acme/site", sess.Project)
		assert.Equal(t, provider.Bitbucket, sess.Provider)
		assert.Same(t, f.api, sess.API)
		assert.Equal(t, []string{testWorkDir}, f.md.dirCalls)
		assert.Empty(t, f.md.siteCalls)
		assert.Equal(t, 1, f.apiCalls)
	})

	t.Run("NamedSite", func(t *testing.T) {
		f := newFixture(t)

		sess, err := f.service.Init.Init(context.Background(), "acme")
		require.NoError(t, err)

		assert.Equal(t, "acme", sess.Site)
		assert.Equal(t, "acme/site", sess.Project)
		assert.Equal(t, "master", sess.Metadata.Ref)
		assert.Equal(t, []string{"acme"}, f.md.siteCalls)
		assert.Empty(t, f.md.dirCalls)
	})

	t.Run("NotBitbucket", func(t *testing.T) {
		f := newFixture(t)

		sess, err := f.service.Init.Init(context.Background(), "github")
		require.NoError(t, err)

		assert.False(t, sess.Applicable())
		assert.Equal(t, OutcomeNotApplicable, sess.Outcome)
		assert.Equal(t, provider.GitHub, sess.Provider)
		assert.Nil(t, sess.API)
		assert.Zero(t, f.creds.calls, "credentials should not be resolved")
		assert.Zero(t, f.apiCalls, "no API client should be built")
	})
}

func TestInit_NotBitbucketDeepPaths(t *testing.T) {
	testCases := []struct {
		desc           string
		url            string
		expectProvider provider.Type
	}{
		{desc: "gitlab subgroup", url: "https://gitlab.com/group/sub/site.git", expectProvider: provider.GitLab},
		{desc: "bitbucket server", url: "https://bitbucket.corp.example/scm/proj/site.git", expectProvider: provider.Unknown},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			f := newFixture(t)
			f.md.sites["other"] = &metadata.BuildMetadata{Site: "other", URL: tc.url, Ref: "main"}

			sess, err := f.service.Init.Init(context.Background(), "other")
			require.NoError(t, err)

			assert.Equal(t, OutcomeNotApplicable, sess.Outcome)
			assert.Equal(t, tc.expectProvider, sess.Provider)
			assert.Zero(t, f.creds.calls)
			assert.Zero(t, f.apiCalls)

			result, err := f.service.List(context.Background(), ListOptions{Site: "other"})
			require.NoError(t, err)
			assert.Equal(t, OutcomeNotApplicable, result.Outcome)
		})
	}
}

func TestInit_Errors(t *testing.T) {
	testCases := []struct {
		desc     string
		setup    func(f *fixture)
		site     string
		checkErr func(t *testing.T, err error)
	}{
		{
			desc: "missing remote URL",
			setup: func(f *fixture) {
				f.md.dir = &metadata.BuildMetadata{Ref: "main"}
			},
			checkErr: func(t *testing.T, err error) {
				var target *ConfigurationError
				require.ErrorAs(t, err, &target)
				assert.Contains(t, err.Error(), testWorkDir)
			},
		},
		{
			desc: "unparseable remote URL",
			setup: func(f *fixture) {
				f.md.dir = &metadata.BuildMetadata{URL: "https://bitbucket.org/only-workspace"}
			},
			checkErr: func(t *testing.T, err error) {
				var target *ConfigurationError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			desc: "metadata lookup fails",
			site: "acme",
			setup: func(f *fixture) {
				f.md.err = errors.New("no build metadata found")
			},
			checkErr: func(t *testing.T, err error) {
				var target *ConfigurationError
				require.ErrorAs(t, err, &target)
				assert.ErrorContains(t, err, "no build metadata found")
			},
		},
		{
			desc: "working directory unavailable",
			setup: func(f *fixture) {
				f.service.Init.Getwd = func() (string, error) { return "", errors.New("getwd failed") }
			},
			checkErr: func(t *testing.T, err error) {
				var target *ConfigurationError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			desc: "no credentials",
			setup: func(f *fixture) {
				f.creds.creds = credential.Credentials{}
				f.creds.err = credential.ErrNoCredentials
			},
			checkErr: func(t *testing.T, err error) {
				var target *AuthenticationError
				require.ErrorAs(t, err, &target)
				assert.ErrorIs(t, err, credential.ErrNoCredentials)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			f := newFixture(t)
			tc.setup(f)

			sess, err := f.service.Init.Init(context.Background(), tc.site)
			assert.Nil(t, sess)
			tc.checkErr(t, err)
			assert.Zero(t, f.apiCalls)
		})
	}
}
