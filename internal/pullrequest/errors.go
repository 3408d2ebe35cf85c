package pullrequest

import (
	"fmt"

	"github.com/bjulian5/bbpr/internal/bitbucket"
)

// ConfigurationError reports missing or unusable build metadata: no remote URL,
// an unparseable remote, or metadata that could not be read.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// AuthenticationError reports that no usable Bitbucket credentials are available
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("bitbucket authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// ValidationError reports an invalid option. It is always returned before any network call.
type ValidationError struct {
	Option string
	Value  string
	Msg    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid --%s %q: %s", e.Option, e.Value, e.Msg)
}

// RemoteError is any failure returned by the Bitbucket API client
type RemoteError = bitbucket.RemoteError

// Outcome distinguishes a completed command from the non-error ways it can end early
type Outcome int

const (
	// OutcomeCompleted means the API call was made and succeeded
	OutcomeCompleted Outcome = iota
	// OutcomeNotApplicable means the site is not hosted on Bitbucket; nothing was done
	OutcomeNotApplicable
	// OutcomeAborted means the operator declined to continue; nothing was done
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeNotApplicable:
		return "not applicable"
	case OutcomeAborted:
		return "aborted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}
