// Package errors provides standardized error handling for docbrowse.
// It defines the error kinds surfaced by the browser views, typed errors for
// API and configuration failures, and helpers for creating, wrapping and
// classifying them.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// NetworkOrServer covers transport failures and any non-2xx response.
	NetworkOrServer
	// PreviewTooLarge is the 413 answer of the preview endpoint.
	PreviewTooLarge
	// PopupBlocked means the signed URL could not be opened externally.
	PopupBlocked
	// DownloadFailed means a signed URL could not be saved locally.
	DownloadFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
)

// String returns a short human readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case NetworkOrServer:
		return "network or server failure"
	case PreviewTooLarge:
		return "preview too large"
	case PopupBlocked:
		return "popup blocked"
	case DownloadFailed:
		return "download failed"
	case InvalidConfig:
		return "invalid config"
	case ConfigNotFound:
		return "config not found"
	default:
		return "unknown"
	}
}

// ErrPreviewTooLarge matches, via Is, the 413 answer of the preview endpoint.
var ErrPreviewTooLarge = NewAPIErrorKind(PreviewTooLarge, "file too large for preview (max 50KB)", "", http.StatusRequestEntityTooLarge, nil)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// APIError represents a failed call to the browse API.
type APIError struct {
	ApplicationError
	endpoint string
	status   int
}

// NewAPIError creates a NetworkOrServer API error. Status 0 means the request
// never produced a response.
func NewAPIError(msg string, endpoint string, status int, err error) *APIError {
	return NewAPIErrorKind(NetworkOrServer, msg, endpoint, status, err)
}

// NewAPIErrorKind creates an API error of a specific kind, for endpoints that
// give a status its own meaning.
func NewAPIErrorKind(kind ErrorKind, msg string, endpoint string, status int, err error) *APIError {
	return &APIError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		endpoint: endpoint,
		status:   status,
	}
}

// Error returns the API error message
func (e *APIError) Error() string {
	detail := e.msg
	if e.status != 0 {
		detail = fmt.Sprintf("%s (HTTP %d)", e.msg, e.status)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", detail, e.err)
	}
	return detail
}

// Is matches API errors of the same kind so callers can compare against
// ErrPreviewTooLarge.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.kind == e.kind && (t.status == 0 || t.status == e.status)
}

// Endpoint returns the request path that failed
func (e *APIError) Endpoint() string {
	return e.endpoint
}

// Status returns the HTTP status code, or 0 for transport failures
func (e *APIError) Status() int {
	return e.status
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// NewKind creates an error of the given kind.
func NewKind(kind ErrorKind, msg string, err error) error {
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: kind,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the first known kind found in err's chain.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(interface{ Kind() ErrorKind }); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsPreviewTooLarge checks if the error is the preview size-ceiling answer
func IsPreviewTooLarge(err error) bool {
	return KindOf(err) == PreviewTooLarge
}

// IsPopupBlocked checks if the error came from a failed external open
func IsPopupBlocked(err error) bool {
	return KindOf(err) == PopupBlocked
}

// IsNetworkOrServer checks if the error is a generic API failure
func IsNetworkOrServer(err error) bool {
	return KindOf(err) == NetworkOrServer
}

// IsConfigNotFound checks if the error reports a missing config file
func IsConfigNotFound(err error) bool {
	return KindOf(err) == ConfigNotFound
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}
