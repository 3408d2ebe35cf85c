package bitbucket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/bjulian5/bbpr/internal/credential"
)

// DefaultBaseURL is the Bitbucket Cloud REST API root
const DefaultBaseURL = "https://api.bitbucket.org/2.0"

// DefaultPageLength is the pagelen sent on paginated requests
const DefaultPageLength = 50

// Client is a thin HTTP client for the Bitbucket Cloud REST API.
// It authenticates with an access token (Bearer) or a username/app password pair.
// It does not retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	username   string
	password   string
	pageLength int
}

// Option configures a Client
type Option func(*Client)

// WithPageLength sets pagelen for paginated requests
func WithPageLength(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageLength = n
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client for baseURL authenticated with creds
func NewClient(baseURL string, creds credential.Credentials, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageLength: DefaultPageLength,
	}

	if creds.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token})
		c.httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		c.httpClient = &http.Client{}
		c.username = creds.Username
		c.password = creds.Password
	}
	c.httpClient.Timeout = 30 * time.Second

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request issues a single call against path (relative to the API root) and decodes
// the response into result when it is not nil.
func (c *Client) Request(ctx context.Context, method string, path string, body any, result any) error {
	return c.do(ctx, method, c.url(path), path, body, result)
}

// PagedRequest lazily walks every page of the collection at path. Pages are fetched
// one at a time, following each page's next link. Iteration stops at the first error.
func (c *Client) PagedRequest(ctx context.Context, path string, query url.Values) iter.Seq2[json.RawMessage, error] {
	return func(yield func(json.RawMessage, error) bool) {
		q := url.Values{}
		for k, v := range query {
			q[k] = append([]string(nil), v...)
		}
		if q.Get("pagelen") == "" {
			q.Set("pagelen", strconv.Itoa(c.pageLength))
		}

		next := c.url(path) + "?" + q.Encode()
		var err error
		for next != "" {
			var page Page
			if err := c.do(ctx, http.MethodGet, next, path, nil, &page); err != nil {
				yield(nil, err)
				return
			}
			for _, v := range page.Values {
				if !yield(v, nil) {
					return
				}
			}
			if next, err = c.nextPage(page.Next); err != nil {
				yield(nil, &RemoteError{Method: http.MethodGet, Path: path, Err: err})
				return
			}
		}
	}
}

// CurrentUser returns the authenticated user
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.Request(ctx, http.MethodGet, "user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// nextPage resolves a page's next link against the API root. Every request carries
// credentials, so links to another host are refused.
func (c *Client) nextPage(link string) (string, error) {
	if link == "" {
		return "", nil
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	next, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid next page link %q: %w", link, err)
	}
	next = base.ResolveReference(next)
	if next.Scheme != base.Scheme || !strings.EqualFold(next.Host, base.Host) {
		return "", fmt.Errorf("refusing to follow next page link to %s", next.Host)
	}
	return next.String(), nil
}

func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// do executes a request against an absolute URL. path is only used in errors.
func (c *Client) do(ctx context.Context, method string, rawURL string, path string, body any, result any) error {
	remoteErr := func(err error) error {
		return &RemoteError{Method: method, Path: path, Err: err}
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return remoteErr(err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return remoteErr(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return remoteErr(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return remoteErr(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rerr := &RemoteError{Method: method, Path: path, StatusCode: resp.StatusCode}
		var bbErr errorResponse
		if json.Unmarshal(respBody, &bbErr) == nil && bbErr.Error.Message != "" {
			rerr.Message = bbErr.Error.Message
			rerr.Detail = bbErr.Error.Detail
		} else {
			rerr.Message = strings.TrimSpace(string(respBody))
		}
		return rerr
	}

	if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return remoteErr(err)
	}
	return nil
}
