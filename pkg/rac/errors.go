// Package rac implements the request/response object model, wire codec,
// and fragmentation protocol for remote object-dictionary access: the
// common 3-byte header, the return-stack routing mechanism, and the
// five request/response kinds (Read, Write, ObjectEnum, ObjectInfo,
// Ping).
package rac

import "errors"

// InvalidArgumentError reports that a caller supplied a value violating
// a method's contract, e.g. constructing a response with AbortCode OK.
type InvalidArgumentError struct{ msg string }

func (e *InvalidArgumentError) Error() string { return e.msg }

func newInvalidArgument(msg string) error { return &InvalidArgumentError{msg: msg} }

// LogicErrorError reports an operation invoked in a state where it is
// meaningless, e.g. reading indices from a response whose result is not
// OK.
type LogicErrorError struct{ msg string }

func (e *LogicErrorError) Error() string { return e.msg }

func newLogicError(msg string) error { return &LogicErrorError{msg: msg} }

// RuntimeErrorError reports a transient or protocol failure: timeout,
// inbox overflow, unexpected response type, non-OK abort code.
type RuntimeErrorError struct{ msg string }

func (e *RuntimeErrorError) Error() string { return e.msg }

func newRuntimeError(msg string) error { return &RuntimeErrorError{msg: msg} }

var (
	// ErrUnknownTypeCode is returned when a header's type code does not
	// match any known request/response kind.
	ErrUnknownTypeCode = errors.New("rac: unknown type code")

	// ErrUnsupportedVersion is returned when a header's version is newer
	// than the latest version this package knows how to decode.
	ErrUnsupportedVersion = errors.New("rac: unsupported version")

	// ErrEmptyReturnStack is returned by ReturnStack.Pop on an empty
	// stack.
	ErrEmptyReturnStack = errors.New("rac: return stack is empty")
)
