package pullrequest

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/bjulian5/bbpr/internal/credential"
	"github.com/bjulian5/bbpr/internal/metadata"
	"github.com/bjulian5/bbpr/internal/provider"
)

// API is the authenticated Bitbucket client the commands call through
type API interface {
	Request(ctx context.Context, method string, path string, body any, result any) error
	PagedRequest(ctx context.Context, path string, query url.Values) iter.Seq2[json.RawMessage, error]
}

// MetadataSource looks up build metadata for the working directory or a named site
type MetadataSource interface {
	ForDirectory(ctx context.Context, dir string) (*metadata.BuildMetadata, error)
	ForSite(ctx context.Context, site string) (*metadata.BuildMetadata, error)
}

// CredentialSource resolves Bitbucket credentials
type CredentialSource interface {
	Resolve() (credential.Credentials, error)
}

// APIFactory builds an API client for validated credentials
type APIFactory func(creds credential.Credentials) API

// Session is the per-invocation state shared by every command
type Session struct {
	Outcome  Outcome
	Site     string
	Project  string
	Provider provider.Type
	Metadata *metadata.BuildMetadata
	// API is nil unless the site uses Bitbucket
	API API
}

// Applicable reports whether the site uses Bitbucket
func (s *Session) Applicable() bool {
	return s.Outcome != OutcomeNotApplicable
}

// Initializer resolves a site to its Bitbucket project and an API client
type Initializer struct {
	Metadata    MetadataSource
	Credentials CredentialSource
	NewAPI      APIFactory
	// Getwd defaults to os.Getwd
	Getwd func() (string, error)
	Log   *zap.Logger
}

// Init resolves site, or the working directory when site is empty. A site that is
// not hosted on Bitbucket yields a Session with OutcomeNotApplicable and a nil error.
func (i *Initializer) Init(ctx context.Context, site string) (*Session, error) {
	log := i.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("Initializing bitbucket client")

	md, err := i.buildMetadata(ctx, site)
	if err != nil {
		return nil, err
	}

	if md.URL == "" {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("no git remote URL in build metadata for %s", md.Site)}
	}

	remote, err := provider.ParseRemote(md.URL)
	if err != nil {
		return nil, &ConfigurationError{Msg: "cannot determine project from remote URL", Err: err}
	}

	sess := &Session{
		Site:     md.Site,
		Project:  remote.Project,
		Provider: remote.Provider,
		Metadata: md,
	}

	if remote.Provider != provider.Bitbucket {
		log.Debug("site is not hosted on Bitbucket",
			zap.String("site", md.Site),
			zap.String("host", remote.Host))
		sess.Outcome = OutcomeNotApplicable
		return sess, nil
	}

	creds, err := i.Credentials.Resolve()
	if err != nil {
		return nil, &AuthenticationError{Err: err}
	}
	log.Debug("using Bitbucket credentials", zap.String("source", string(creds.Source)))

	sess.API = i.NewAPI(creds)
	return sess, nil
}

func (i *Initializer) buildMetadata(ctx context.Context, site string) (*metadata.BuildMetadata, error) {
	if site != "" {
		md, err := i.Metadata.ForSite(ctx, site)
		if err != nil {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("cannot read build metadata for site %s", site), Err: err}
		}
		return md, nil
	}

	getwd := i.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	dir, err := getwd()
	if err != nil {
		return nil, &ConfigurationError{Msg: "cannot determine working directory", Err: err}
	}

	md, err := i.Metadata.ForDirectory(ctx, dir)
	if err != nil {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("cannot read build metadata from %s", dir), Err: err}
	}
	// Downstream lookups expect a site; the working directory stands in for it.
	md.Site = dir
	return md, nil
}
