package bitbucket

import (
	"fmt"
	"strings"
)

// RemoteError is any failure of an API call: a non-2xx response, a transport
// failure or an undecodable body.
type RemoteError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Detail     string
	Err        error
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "bitbucket API error (%d) on %s %s", e.StatusCode, e.Method, e.Path)
	} else {
		fmt.Fprintf(&b, "bitbucket API request %s %s failed", e.Method, e.Path)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Detail != "" {
		b.WriteString(" (" + e.Detail + ")")
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
