package recinject

import (
	"errors"
	"fmt"
)

var (
	// ErrHeroTitleRequired is wrapped by the ConfigError returned when the
	// page doesn't declare a non-empty data-hero-title.
	ErrHeroTitleRequired = errors.New("data-hero-title is required on <html>")

	// ErrResourceTooLarge is wrapped by the FetchError returned when the
	// shared resource is bigger than the Fetcher accepts.
	ErrResourceTooLarge = errors.New("resource too large")
)

// FetchErrorKind tells apart the two ways retrieving a resource can fail.
type FetchErrorKind string

const (
	// FetchErrorStatus means the server answered with a non-success
	// status code.
	FetchErrorStatus FetchErrorKind = "status"

	// FetchErrorTransport means no response was obtained at all: the
	// network is down, the scheme isn't served (a page opened from
	// file://), or the body couldn't be read.
	FetchErrorTransport FetchErrorKind = "transport"
)

// FetchError is returned when the shared resource can't be retrieved.
type FetchError struct {
	URL        string
	Kind       FetchErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchErrorStatus {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// TemplateMissingError is returned when a slot references a template id that
// the shared resource doesn't define.
type TemplateMissingError struct {
	ID string
}

func (e *TemplateMissingError) Error() string {
	return fmt.Sprintf("template not found: %s", e.ID)
}

// ConfigError is returned when the page's declarative attributes can't
// produce a valid hero.
type ConfigError struct {
	Attribute string
	Err       error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Attribute, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// isTransportFailure reports whether err comes from a fetch that never got a
// response.
func isTransportFailure(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr) && fetchErr.Kind == FetchErrorTransport
}
