package errors

import "fmt"

type InvalidStateError struct {
	msg string
}

func NewInvalidStateError(msg string) *InvalidStateError {
	return &InvalidStateError{msg: msg}
}

func (e *InvalidStateError) Error() string {
	return e.msg
}

type NilArgumentError struct {
	argument string
}

func NewNilArgumentError(argument string) *NilArgumentError {
	return &NilArgumentError{argument: argument}
}

func (e *NilArgumentError) Error() string {
	return fmt.Sprintf("argument '%s' must not be nil", e.argument)
}

// ValidationError reports malformed input rejected before any side effect.
type ValidationError struct {
	Field string
	msg   string
}

func NewValidationError(field string, msg string) *ValidationError {
	return &ValidationError{Field: field, msg: msg}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.msg)
}

// PersistenceError wraps a failed or timed-out account store call.
type PersistenceError struct {
	Err error
}

func NewPersistenceError(err error) *PersistenceError {
	return &PersistenceError{Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotificationError wraps a failed or timed-out notifier call. The state change
// that preceded the notification is kept.
type NotificationError struct {
	Err error
}

func NewNotificationError(err error) *NotificationError {
	return &NotificationError{Err: err}
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failure: %v", e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
