package api

import (
	"errors"
	"fmt"
)

// ErrorKind buckets API failures the way the views need to react to them:
// transport failures keep the last-known snapshot, auth failures make the
// shell re-authenticate, rejections are shown verbatim in the workflow.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindAuth      ErrorKind = "auth"
	KindRejected  ErrorKind = "rejected"
	KindNotFound  ErrorKind = "not_found"
	KindServer    ErrorKind = "server"
)

// Error is the structured failure returned by every client call.
type Error struct {
	Kind     ErrorKind
	Op       string // e.g. "arrivals", "checkOut"
	EntityID int64  // 0 for collection fetches
	Status   int    // HTTP status, 0 on transport failure
	Message  string // server-provided message, verbatim, for rejections
	Err      error
}

func (e *Error) Error() string {
	switch {
	case e.EntityID != 0 && e.Message != "":
		return fmt.Sprintf("api.%s #%d: %s", e.Op, e.EntityID, e.Message)
	case e.EntityID != 0:
		return fmt.Sprintf("api.%s #%d: %v", e.Op, e.EntityID, e.Err)
	case e.Message != "":
		return fmt.Sprintf("api.%s: %s", e.Op, e.Message)
	default:
		return fmt.Sprintf("api.%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// kindForStatus classifies an HTTP status. 401/403 are kept apart from
// validation rejections so the shell can redirect to re-authentication
// instead of showing a correction form.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 404:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindRejected
	default:
		return KindServer
	}
}

func errKind(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsAuth reports whether err means the session is stale or unauthorized.
func IsAuth(err error) bool { return errKind(err) == KindAuth }

// IsRejected reports whether err is a server-side validation rejection whose
// Message should be shown to the user verbatim.
func IsRejected(err error) bool { return errKind(err) == KindRejected }

// IsTransport reports whether err means no usable response arrived at all.
func IsTransport(err error) bool { return errKind(err) == KindTransport }

// Message extracts the user-facing text of an API error, falling back to a
// generic notice for transport failures that carry nothing displayable.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "request failed, please try again"
}
