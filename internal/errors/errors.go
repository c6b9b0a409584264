package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType string

func (s ErrorType) String() string {
	return strings.ToLower(string(s))
}

const (
	ErrInternalError   ErrorType = "Internal Error"
	ErrNotFound        ErrorType = "Not Found"
	ErrInvalidArgument ErrorType = "Invalid Argument"
	ErrFailedPrecond   ErrorType = "Failed Precondition"
)

type DomainError struct {
	ErrorType  ErrorType
	Entity     string
	Message    string
	WrappedErr error
}

func NewError(errType ErrorType, entity, msg string) *DomainError {
	return &DomainError{
		ErrorType: errType,
		Entity:    entity,
		Message:   msg,
	}
}

func InternalError(entity, msg string, err error) *DomainError {
	return &DomainError{
		ErrorType:  ErrInternalError,
		Entity:     entity,
		Message:    msg,
		WrappedErr: err,
	}
}

func InvalidArgument(entity, msg string) *DomainError {
	return NewError(ErrInvalidArgument, entity, msg)
}

func NotFound(entity, msg string) *DomainError {
	return NewError(ErrNotFound, entity, msg)
}

func FailedPrecondition(entity, msg string) *DomainError {
	return NewError(ErrFailedPrecond, entity, msg)
}

// Wrap keeps the type and message of a DomainError and only swaps its cause.
// Any other error is wrapped as an internal error of the given entity.
func Wrap(entity, msg string, err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return &DomainError{
			ErrorType:  de.ErrorType,
			Entity:     entity,
			Message:    msg + ": " + de.Message,
			WrappedErr: de.WrappedErr,
		}
	}
	return InternalError(entity, msg, err)
}

func (e *DomainError) Error() string {
	if e.WrappedErr != nil {
		return fmt.Sprintf("%v for entity %v: %v: %v",
			e.ErrorType.String(), e.Entity, e.Message, e.WrappedErr)
	}
	return fmt.Sprintf("%v for entity %v: %v",
		e.ErrorType.String(), e.Entity, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.WrappedErr
}

func IsErrorType(err error, errType ErrorType) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.ErrorType == errType
	}
	return false
}
