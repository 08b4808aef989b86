package errors

import (
	"errors"
	"fmt"
)

// ResourceNotFoundError is returned when a resource is missing either locally or on the server.
type ResourceNotFoundError struct {
	kind string
	id   string
}

func (e *ResourceNotFoundError) Error() string {
	if e.id == "" {
		return fmt.Sprintf("%s not found", e.kind)
	}
	return fmt.Sprintf("%s %q not found", e.kind, e.id)
}

func NewObjectNotFoundError(id string) error {
	return &ResourceNotFoundError{kind: "object", id: id}
}

func NewUserNotFoundError(id string) error {
	return &ResourceNotFoundError{kind: "user", id: id}
}

func NewScheduleNotFoundError() error {
	return &ResourceNotFoundError{kind: "schedule"}
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// NotConnectedError is returned when a call is made on a connection that is not open.
type NotConnectedError struct{}

func (e *NotConnectedError) Error() string {
	return "connection is not open"
}

func NewNotConnectedError() error {
	return &NotConnectedError{}
}

func IsNotConnectedError(err error) bool {
	var e *NotConnectedError
	return errors.As(err, &e)
}

// WaitCanceledError is returned when a wait on an object is abandoned before its predicate passed.
type WaitCanceledError struct {
	ID string
	// Last is the error returned by the predicate on the last evaluated state.
	Last  error
	cause error
}

func (e *WaitCanceledError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("wait on object %q canceled: %v", e.ID, e.cause)
	}
	return fmt.Sprintf("wait on object %q canceled: %v (last predicate error: %v)", e.ID, e.cause, e.Last)
}

func (e *WaitCanceledError) Unwrap() error {
	return e.cause
}

func NewWaitCanceledError(id string, last, cause error) error {
	return &WaitCanceledError{ID: id, Last: last, cause: cause}
}

func IsWaitCanceledError(err error) bool {
	var e *WaitCanceledError
	return errors.As(err, &e)
}
