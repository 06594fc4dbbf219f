package errinfo

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a workflow failure so callers can decide whether to
// re-prompt, refresh, or retry.
type Kind int

const (
	KindValidation Kind = iota
	KindAuthorization
	KindInvalidTransition
	KindNotFound
	KindPartialFailure
	KindUnavailable
)

const (
	MsgWrongUser       = "Incorrect username or user does not exist."
	MsgNoPermission    = "You do not have permission for this action."
	MsgProjectNotFound = "Project not found."
	MsgBidNotFound     = "Bid not found."
	MsgServer          = "Something went wrong. Please try again."
)

// Error is the typed domain error surfaced by the project and bid
// workflows. Reason is always safe to show to the user.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

func Authorizationf(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Reason: fmt.Sprintf(format, args...)}
}

func InvalidTransitionf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidTransition, Reason: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...)}
}

func PartialFailuref(format string, args ...any) *Error {
	return &Error{Kind: KindPartialFailure, Reason: fmt.Sprintf(format, args...)}
}

func Unavailablef(format string, args ...any) *Error {
	return &Error{Kind: KindUnavailable, Reason: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a workflow error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatus maps an error kind to the response status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindInvalidTransition:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindPartialFailure:
		return http.StatusInternalServerError
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Send writes err as a JSON error response. Unclassified errors are
// hidden behind a generic server message.
func Send(w http.ResponseWriter, err error) {
	var e *Error
	if !errors.As(err, &e) {
		jsonError(w, http.StatusInternalServerError, MsgServer)
		return
	}
	jsonError(w, HTTPStatus(e.Kind), e.Reason)
}

func jsonError(w http.ResponseWriter, status int, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error": %q}`, reason)
}
