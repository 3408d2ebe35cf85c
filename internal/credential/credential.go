package credential

import (
	"errors"
	"os"

	"github.com/99designs/keyring"
)

// Environment variables read before the keyring
const (
	EnvUser  = "BITBUCKET_USER"
	EnvPass  = "BITBUCKET_PASS"
	EnvToken = "BITBUCKET_TOKEN"
)

// ErrNoCredentials is returned when neither the environment nor the keyring hold credentials
var ErrNoCredentials = errors.New("no Bitbucket credentials found: set BITBUCKET_TOKEN, or BITBUCKET_USER and BITBUCKET_PASS, or run 'bbpr auth login'")

// Source describes where credentials were found
type Source string

const (
	SourceNone        Source = ""
	SourceEnvironment Source = "environment"
	SourceKeyring     Source = "keyring"
)

// Credentials authenticate against the Bitbucket API.
// A token takes precedence over username/app password.
type Credentials struct {
	Username string
	Password string
	Token    string
	Source   Source
}

// Valid reports whether the credentials are usable
func (c Credentials) Valid() bool {
	return c.Token != "" || (c.Username != "" && c.Password != "")
}

// Resolver looks up credentials in the environment, then the keyring
type Resolver struct {
	// Getenv defaults to os.Getenv
	Getenv func(string) string
	// OpenKeyring defaults to OpenKeyring. A failure to open is treated as an empty keyring.
	OpenKeyring func() (keyring.Keyring, error)
}

// NewResolver creates a resolver backed by the process environment and OS keyring
func NewResolver() *Resolver {
	return &Resolver{Getenv: os.Getenv, OpenKeyring: OpenKeyring}
}

// Resolve returns the first valid set of credentials, or ErrNoCredentials
func (r *Resolver) Resolve() (Credentials, error) {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	env := Credentials{
		Username: getenv(EnvUser),
		Password: getenv(EnvPass),
		Token:    getenv(EnvToken),
		Source:   SourceEnvironment,
	}
	if env.Valid() {
		return env, nil
	}

	if r.OpenKeyring == nil {
		return Credentials{}, ErrNoCredentials
	}
	ring, err := r.OpenKeyring()
	if err != nil {
		return Credentials{}, ErrNoCredentials
	}

	stored := Credentials{Source: SourceKeyring}
	if stored.Username, err = get(ring, keyUsername); err != nil {
		return Credentials{}, err
	}
	if stored.Password, err = get(ring, keyPassword); err != nil {
		return Credentials{}, err
	}
	if stored.Token, err = get(ring, keyToken); err != nil {
		return Credentials{}, err
	}
	if stored.Valid() {
		return stored, nil
	}

	return Credentials{}, ErrNoCredentials
}
