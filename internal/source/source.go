package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/edgeinbox/internal/message"
	"github.com/nhle/edgeinbox/internal/pager"
)

// AuthError indicates that the endpoint rejected the configured credential.
// It is returned by query clients when a 401 or 403 response is received.
type AuthError struct {
	Backend Backend
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Backend, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// StatusError is returned for any non-200 response. Body is the raw
// response text, shown to the user as-is.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// AsStatusError returns the StatusError in err's chain, if any.
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

// Backend identifies where messages are read from.
type Backend string

const (
	BackendLibsql Backend = "libsql"
	BackendLocal  Backend = "local"
)

// Querier runs a page query against a message store.
type Querier interface {
	// Backend returns the backend identifier.
	Backend() Backend

	// QueryPage runs q and returns its rows in the order the statement
	// produced them.
	QueryPage(ctx context.Context, q pager.Query) (*message.QueryResult, error)
}
