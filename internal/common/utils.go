package common

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bjulian5/bbpr/internal/bitbucket"
	"github.com/bjulian5/bbpr/internal/config"
	"github.com/bjulian5/bbpr/internal/credential"
	"github.com/bjulian5/bbpr/internal/logger"
	"github.com/bjulian5/bbpr/internal/metadata"
	"github.com/bjulian5/bbpr/internal/pullrequest"
	"github.com/bjulian5/bbpr/internal/ui"
)

// Options are the global flags shared by every command
type Options struct {
	ConfigPath string
	Debug      bool
}

// Env is what a command needs for one invocation
type Env struct {
	Config  *config.Config
	Log     *zap.Logger
	Service *pullrequest.Service
}

// LoadConfig reads the configuration and builds the logger.
// --debug overrides log.level.
func LoadConfig(opts *Options) (*config.Config, *zap.Logger, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.Log.Level
	if opts.Debug {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// NewBitbucketClient builds an API client from configuration
func NewBitbucketClient(cfg *config.Config, creds credential.Credentials) *bitbucket.Client {
	return bitbucket.NewClient(cfg.API.BaseURL, creds,
		bitbucket.WithPageLength(cfg.API.PageLength),
		bitbucket.WithTimeout(cfg.API.Timeout))
}

// InitService wires the pull request service with its real collaborators
// Returns an error that is suitable for use in PreRunE hooks
func InitService(opts *Options) (*Env, error) {
	cfg, log, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	service := &pullrequest.Service{
		Init: &pullrequest.Initializer{
			Metadata: metadata.Resolver{
				Local:  &metadata.Local{},
				Remote: metadata.NewRemote(cfg.Metadata.URLTemplate, cfg.Metadata.Environment, cfg.API.Timeout),
			},
			Credentials: credential.NewResolver(),
			NewAPI: func(creds credential.Credentials) pullrequest.API {
				return NewBitbucketClient(cfg, creds)
			},
			Log: log,
		},
		Prompter: ui.HuhPrompter{},
		Selector: ui.FuzzySelector{},
		Display:  pullrequest.Display{DateFormat: cfg.Display.DateFormat, Location: loc},
		Log:      log,
	}

	return &Env{Config: cfg, Log: log, Service: service}, nil
}

// ShortcutNames returns the top-level colon-style name and aliases of a pull request subcommand
func ShortcutNames(name string) (use string, aliases []string) {
	return "bitbucket:pull-request:" + name, []string{"bitbucket:pr:" + name, "bb:pr:" + name, "pr-" + name}
}

// ReportNotApplicable tells the operator a site was skipped
func ReportNotApplicable(site string) {
	ui.Errorf("Site %q does not use Bitbucket.", site)
}
