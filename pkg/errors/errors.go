// Package errors provides the unified error type and factory functions for
// CIM.  Every layer of the application (domain, application, infrastructure,
// interfaces) uses AppError as the single carrier for structured error
// information, so the CLI can map any failure onto a message and an exit
// status without inspecting strings.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Stack capture
// ─────────────────────────────────────────────────────────────────────────────

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		// Trim standard-library noise to keep traces readable.
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout CIM.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work across layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeMissingColumn, "column Smiles not found")
//	return errors.Wrap(err, errors.ErrCodeLoadFailed, "failed to read compounds.csv")
//	return errors.UnsupportedFormat("mol2").WithDetail("input=compounds.mol2")
type AppError struct {
	// Code is the typed error code that identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error.
	Message string

	// Detail carries supplementary context (file names, column names, record
	// numbers) that aids debugging.
	Detail string

	// Cause is the underlying error that triggered this AppError.
	Cause error

	// Stack contains the call-stack captured at the point of error creation.
	// It is not part of Error() output; the logger attaches it at debug level.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>: <cause>"
// Empty segments are omitted.
func (e *AppError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Code.String(), e.Message)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// ExitStatus returns the process exit status the CLI should use for e.
func (e *AppError) ExitStatus() int {
	if e == nil {
		return ExitOK
	}
	return ExitStatusForCode(e.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Fluent builder methods
// ─────────────────────────────────────────────────────────────────────────────

// WithDetail returns a shallow copy of the receiver with Detail set to the
// supplied string.  It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithDetailf is WithDetail with fmt.Sprintf formatting.
func (e *AppError) WithDetailf(format string, args ...interface{}) *AppError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Primary factory functions
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.
// If err is nil, Wrap returns nil so it can be used inline.
//
// When err is already an *AppError and code is CodeUnknown the original code is
// preserved, so adding context never loses the original classification.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
//
//	if errors.IsCode(err, errors.ErrCodeDirectoryExists) { ... }
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError found in err's chain.
// If no *AppError is present, CodeUnknown is returned.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// ExitStatus returns the exit status for the first *AppError in err's chain,
// ExitOK for nil and ExitFailure for foreign errors.
func ExitStatus(err error) int {
	if err == nil {
		return ExitOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.ExitStatus()
	}
	return ExitFailure
}

// Is and As re-export the standard library helpers so callers importing this
// package under the name errors do not also need the stdlib one.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }

// ─────────────────────────────────────────────────────────────────────────────
// Convenience factory functions
// ─────────────────────────────────────────────────────────────────────────────

// UnsupportedFormat reports a format name or file extension the tool does not
// handle in the requested direction.
func UnsupportedFormat(format string) *AppError {
	return &AppError{
		Code:    ErrCodeUnsupportedFormat,
		Message: DefaultMessageForCode(ErrCodeUnsupportedFormat),
		Detail:  "format=" + format,
		Stack:   captureStack(1),
	}
}

// MissingColumn reports a column name absent from a table.
func MissingColumn(column string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingColumn,
		Message: DefaultMessageForCode(ErrCodeMissingColumn),
		Detail:  "column=" + column,
		Stack:   captureStack(1),
	}
}

// InvalidRelation reports a relational operator outside the supported set.
func InvalidRelation(relation string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidRelation,
		Message: DefaultMessageForCode(ErrCodeInvalidRelation),
		Detail:  "relation=" + relation,
		Stack:   captureStack(1),
	}
}

// InvalidSMILES reports a SMILES string that could not be parsed.
func InvalidSMILES(smiles, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeMoleculeInvalidSMILES,
		Message: DefaultMessageForCode(ErrCodeMoleculeInvalidSMILES),
		Detail:  fmt.Sprintf("%q: %s", smiles, reason),
		Stack:   captureStack(1),
	}
}

//Personal.AI order the ending
