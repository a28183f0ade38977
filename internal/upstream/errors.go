package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrUpstream is matched by every *UpstreamError.
var ErrUpstream = errors.New("upstream error")

// UpstreamError reports a network failure, a non-2xx status or a payload that
// could not be interpreted.
type UpstreamError struct {
	Source     string
	Op         string
	StatusCode int
	Transient  bool
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: HTTP %d: %v", e.Source, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Source, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

func malformed(source, op string, format string, args ...any) error {
	return &UpstreamError{Source: source, Op: op, Err: fmt.Errorf("malformed payload: "+format, args...)}
}

// transientStatus reports status codes worth retrying.
func transientStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return true
	}
	return code >= 500
}

// transientNetErr treats every transport failure except caller cancellation
// as transient. Client timeouts surface as context.DeadlineExceeded and are
// retried.
func transientNetErr(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// IsTransient reports whether err is an upstream failure worth retrying.
func IsTransient(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Transient
}
