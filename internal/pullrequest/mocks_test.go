package pullrequest

import (
	"context"
	"encoding/json"
	"iter"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bjulian5/bbpr/internal/bitbucket"
	"github.com/bjulian5/bbpr/internal/credential"
	"github.com/bjulian5/bbpr/internal/metadata"
)

const testWorkDir = "/work/site"

type MockAPI struct {
	mock.Mock
}

// Request implements API.
func (m *MockAPI) Request(ctx context.Context, method string, path string, body any, result any) error {
	args := m.Called(method, path, body, result)
	return args.Error(0)
}

// PagedRequest implements API.
func (m *MockAPI) PagedRequest(ctx context.Context, path string, query url.Values) iter.Seq2[json.RawMessage, error] {
	args := m.Called(path, query)
	return args.Get(0).(iter.Seq2[json.RawMessage, error])
}

type MockPrompter struct {
	mock.Mock
}

// Confirm implements Prompter.
func (m *MockPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	args := m.Called(message)
	return args.Bool(0), args.Error(1)
}

type MockSelector struct {
	mock.Mock
}

// SelectPullRequest implements Selector.
func (m *MockSelector) SelectPullRequest(ctx context.Context, prs []bitbucket.PullRequest) (*bitbucket.PullRequest, error) {
	args := m.Called(prs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bitbucket.PullRequest), args.Error(1)
}

// fakeMetadata serves fixed metadata and counts lookups
type fakeMetadata struct {
	dir       *metadata.BuildMetadata
	sites     map[string]*metadata.BuildMetadata
	err       error
	dirCalls  []string
	siteCalls []string
}

func (f *fakeMetadata) ForDirectory(ctx context.Context, dir string) (*metadata.BuildMetadata, error) {
	f.dirCalls = append(f.dirCalls, dir)
	if f.err != nil {
		return nil, f.err
	}
	md := *f.dir
	return &md, nil
}

func (f *fakeMetadata) ForSite(ctx context.Context, site string) (*metadata.BuildMetadata, error) {
	f.siteCalls = append(f.siteCalls, site)
	if f.err != nil {
		return nil, f.err
	}
	md := *f.sites[site]
	return &md, nil
}

func (f *fakeMetadata) calls() int {
	return len(f.dirCalls) + len(f.siteCalls)
}

type fakeCredentials struct {
	creds credential.Credentials
	err   error
	calls int
}

func (f *fakeCredentials) Resolve() (credential.Credentials, error) {
	f.calls++
	return f.creds, f.err
}

// fixture wires a Service to fakes; the working directory is a Bitbucket checkout on feature/x
type fixture struct {
	md       *fakeMetadata
	creds    *fakeCredentials
	api      *MockAPI
	prompter *MockPrompter
	selector *MockSelector
	apiCalls int
	service  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		md: &fakeMetadata{
			dir: &metadata.BuildMetadata{URL: "git@bitbucket.org:acme/site.git", Ref: "feature/x"},
			sites: map[string]*metadata.BuildMetadata{
				"acme":   {Site: "acme", URL: "https://bitbucket.org/acme/site.git", Ref: "master"},
				"github": {Site: "github", URL: "git@github.com:acme/site.git", Ref: "master"},
			},
		},
		creds:    &fakeCredentials{creds: credential.Credentials{Token: "tok", Source: credential.SourceEnvironment}},
		api:      &MockAPI{},
		prompter: &MockPrompter{},
		selector: &MockSelector{},
	}
	f.service = &Service{
		Init: &Initializer{
			Metadata:    f.md,
			Credentials: f.creds,
			NewAPI: func(creds credential.Credentials) API {
				f.apiCalls++
				return f.api
			},
			Getwd: func() (string, error) { return testWorkDir, nil },
		},
		Prompter: f.prompter,
		Display:  Display{DateFormat: "2006-01-02 15:04", Location: time.UTC},
	}
	t.Cleanup(func() {
		f.api.AssertExpectations(t)
		f.prompter.AssertExpectations(t)
		f.selector.AssertExpectations(t)
	})
	return f
}

// pages yields raw JSON values the way a drained paged request would
func pages(values ...string) iter.Seq2[json.RawMessage, error] {
	return func(yield func(json.RawMessage, error) bool) {
		for _, v := range values {
			if !yield(json.RawMessage(v), nil) {
				return
			}
		}
	}
}

// failingPages yields the given values and then err
func failingPages(err error, values ...string) iter.Seq2[json.RawMessage, error] {
	return func(yield func(json.RawMessage, error) bool) {
		for _, v := range values {
			if !yield(json.RawMessage(v), nil) {
				return
			}
		}
		yield(nil, err)
	}
}
