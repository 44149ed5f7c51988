package portal

import (
	"errors"
	"fmt"
)

// ErrNotRegistered matches any *AuthorizationError through errors.Is.
var ErrNotRegistered = errors.New("email not registered for the BER public search database")

// AuthorizationError reports a login the portal accepted at the HTTP level
// but answered with its "not registered" page.
type AuthorizationError struct {
	Identity string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s does not have access to the BER Public search database, "+
		"please log in to %s, respond to your registration email and try again", e.Identity, e.Identity)
}

func (e *AuthorizationError) Is(target error) bool {
	return target == ErrNotRegistered
}

// TransportError reports a failed HTTP exchange: either the request never
// completed (Err set) or the portal answered with a non-2xx status.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed: unexpected status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StorageError reports a local filesystem failure on the destination file.
// The file may be left partially written.
type StorageError struct {
	Path string
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("error %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
