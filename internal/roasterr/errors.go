// Package roasterr holds the error taxonomy shared by the hardware, session
// and service layers. Every error carries a stable, machine-readable Code.
package roasterr

import (
	"errors"
	"fmt"
)

// Code is a stable identifier callers can switch on.
type Code string

const (
	CodeNotConnected     Code = "NOT_CONNECTED"
	CodeConnectionFailed Code = "CONNECTION_FAILED"
	CodeInvalidCommand   Code = "INVALID_COMMAND"
	CodeNoActiveRoast    Code = "NO_ACTIVE_ROAST"
	CodeBeansNotAdded    Code = "BEANS_NOT_ADDED"
)

// Error is the concrete error type for every taxonomy member.
type Error struct {
	Code    Code
	Message string
	Command string // set for INVALID_COMMAND
	Reason  string // set for INVALID_COMMAND
	Detail  string // set for CONNECTION_FAILED
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Command != "":
		return fmt.Sprintf("%s: %s: %s", e.Message, e.Command, e.Reason)
	case e.Detail != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Message, e.Detail, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Code, so sentinels work with errors.Is
// even when the concrete value carries extra detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrNotConnected     = &Error{Code: CodeNotConnected, Message: "roaster not connected"}
	ErrConnectionFailed = &Error{Code: CodeConnectionFailed, Message: "connection failed"}
	ErrInvalidCommand   = &Error{Code: CodeInvalidCommand, Message: "invalid command"}
	ErrNoActiveRoast    = &Error{Code: CodeNoActiveRoast, Message: "no active roast session"}
	ErrBeansNotAdded    = &Error{Code: CodeBeansNotAdded, Message: "beans not added yet (charge not detected)"}
)

// ConnectionFailed wraps a transport error with a human-readable detail.
func ConnectionFailed(detail string, err error) error {
	return &Error{Code: CodeConnectionFailed, Message: ErrConnectionFailed.Message, Detail: detail, Err: err}
}

// InvalidCommand reports a rejected command and why.
func InvalidCommand(command, reason string) error {
	return &Error{Code: CodeInvalidCommand, Message: ErrInvalidCommand.Message, Command: command, Reason: reason}
}

// CodeOf returns the taxonomy code of err, or "" if err is not a roasterr.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
