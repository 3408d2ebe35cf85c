package auth

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bjulian5/bbpr/internal/config"
	"github.com/bjulian5/bbpr/internal/credential"
	"github.com/bjulian5/bbpr/internal/testutil"
	"github.com/bjulian5/bbpr/internal/ui"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	stdout, stderr := ui.Stdout, ui.Stderr
	ui.Stdout, ui.Stderr = &out, &out
	t.Cleanup(func() { ui.Stdout, ui.Stderr = stdout, stderr })
	return &out
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{API: config.APIConfig{BaseURL: baseURL, PageLength: 50, Timeout: 5 * time.Second}}
}

// stored reads back whatever is in ring
func stored(t *testing.T, ring keyring.Keyring) (credential.Credentials, error) {
	t.Helper()
	r := &credential.Resolver{
		Getenv:      func(string) string { return "" },
		OpenKeyring: func() (keyring.Keyring, error) { return ring, nil },
	}
	return r.Resolve()
}

func TestLogin(t *testing.T) {
	testCases := []struct {
		desc         string
		cmd          func(ring keyring.Keyring, baseURL string) *LoginCommand
		expectStored credential.Credentials
	}{
		{
			desc: "prompted app password",
			cmd: func(ring keyring.Keyring, baseURL string) *LoginCommand {
				return &LoginCommand{
					Config: testConfig(baseURL),
					Log:    zap.NewNop(),
					Prompt: func(ctx context.Context) (*ui.Login, error) {
						return &ui.Login{Username: "jdoe", Password: "app-pass"}, nil
					},
					OpenKeyring: func() (keyring.Keyring, error) { return ring, nil },
				}
			},
			expectStored: credential.Credentials{Username: "jdoe", Password: "app-pass", Source: credential.SourceKeyring},
		},
		{
			desc: "token flag",
			cmd: func(ring keyring.Keyring, baseURL string) *LoginCommand {
				return &LoginCommand{
					Token:       "tok",
					Config:      testConfig(baseURL),
					Log:         zap.NewNop(),
					OpenKeyring: func() (keyring.Keyring, error) { return ring, nil },
				}
			},
			expectStored: credential.Credentials{Token: "tok", Source: credential.SourceKeyring},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			out := captureOutput(t)
			srv := testutil.NewBitbucketServer(t)
			srv.HandleJSON(http.MethodGet, "/user", http.StatusOK, `{"uuid": "{u}", "display_name": "Jane Doe", "nickname": "jdoe"}`)
			ring := keyring.NewArrayKeyring(nil)

			err := tc.cmd(ring, srv.URL).Run(context.Background())
			require.NoError(t, err)

			creds, err := stored(t, ring)
			require.NoError(t, err)
			assert.Equal(t, tc.expectStored, creds)
			assert.Contains(t, out.String(), "Logged in to Bitbucket as jdoe")
		})
	}
}

func TestLogin_Rejected(t *testing.T) {
	captureOutput(t)
	srv := testutil.NewBitbucketServer(t)
	srv.HandleJSON(http.MethodGet, "/user", http.StatusUnauthorized, `{"type": "error", "error": {"message": "Invalid credentials"}}`)
	ring := keyring.NewArrayKeyring(nil)

	cmd := &LoginCommand{
		Token:       "bad",
		Config:      testConfig(srv.URL),
		Log:         zap.NewNop(),
		OpenKeyring: func() (keyring.Keyring, error) { return ring, nil },
	}
	err := cmd.Run(context.Background())
	assert.ErrorContains(t, err, "Invalid credentials")

	_, err = stored(t, ring)
	assert.ErrorIs(t, err, credential.ErrNoCredentials, "nothing should be stored")
}

func TestLogin_Cancelled(t *testing.T) {
	out := captureOutput(t)
	srv := testutil.NewBitbucketServer(t)

	cmd := &LoginCommand{
		Config: testConfig(srv.URL),
		Log:    zap.NewNop(),
		Prompt: func(ctx context.Context) (*ui.Login, error) { return nil, nil },
	}
	require.NoError(t, cmd.Run(context.Background()))

	assert.Contains(t, out.String(), "Login cancelled")
	assert.Empty(t, srv.Requests())
}

func TestLogout(t *testing.T) {
	captureOutput(t)
	ring := keyring.NewArrayKeyring(nil)
	require.NoError(t, credential.Save(ring, credential.Credentials{Username: "jdoe", Password: "app-pass"}))

	cmd := &LogoutCommand{OpenKeyring: func() (keyring.Keyring, error) { return ring, nil }}
	require.NoError(t, cmd.Run())

	_, err := stored(t, ring)
	assert.ErrorIs(t, err, credential.ErrNoCredentials)
}

type fixedCredentials struct {
	creds credential.Credentials
	err   error
}

func (f fixedCredentials) Resolve() (credential.Credentials, error) {
	return f.creds, f.err
}

func TestStatus(t *testing.T) {
	t.Run("LoggedIn", func(t *testing.T) {
		out := captureOutput(t)
		srv := testutil.NewBitbucketServer(t)
		srv.HandleJSON(http.MethodGet, "/user", http.StatusOK, `{"display_name": "Jane Doe"}`)

		cmd := &StatusCommand{
			Config:      testConfig(srv.URL),
			Credentials: fixedCredentials{creds: credential.Credentials{Username: "jdoe", Password: "p", Source: credential.SourceEnvironment}},
		}
		require.NoError(t, cmd.Run(context.Background()))

		assert.Contains(t, out.String(), "Logged in to Bitbucket as Jane Doe")
		assert.Contains(t, out.String(), "environment")
		assert.Contains(t, out.String(), "app password")
	})

	t.Run("NotLoggedIn", func(t *testing.T) {
		out := captureOutput(t)

		cmd := &StatusCommand{
			Config:      testConfig("http://127.0.0.1:0"),
			Credentials: fixedCredentials{err: credential.ErrNoCredentials},
		}
		require.NoError(t, cmd.Run(context.Background()))

		assert.Contains(t, out.String(), "Not logged in to Bitbucket")
	})
}
