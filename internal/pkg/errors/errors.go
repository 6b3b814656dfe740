// Package errors provides the typed error model for clipforge. Every failure
// surfaced to a caller carries a Code so the HTTP layer and the CLI can map
// it without string matching.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Code categorizes an error.
type Code string

const (
	CodeInternal   Code = "INTERNAL_ERROR"
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeTimeout    Code = "TIMEOUT"

	// Render pipeline codes.
	CodeInvalidEditSpec Code = "INVALID_EDIT_SPEC"
	CodeSourceNotFound  Code = "SOURCE_NOT_FOUND"
	CodeEngineTimeout   Code = "ENGINE_TIMEOUT"
	CodeEngineFailure   Code = "ENGINE_FAILURE"
	CodeInvocation      Code = "INVOCATION_ERROR"
)

// Error is the platform error type.
type Error struct {
	// Code categorizes the error.
	Code Code
	// Message is the human-readable error message.
	Message string
	// Op is the operation that failed (e.g. "render.invoke").
	Op string
	// Err is the underlying error, if any.
	Err error
	// Fields carries structured context (source ref, stderr tail, ...).
	Fields map[string]any
	// Stack holds the frames captured at creation.
	Stack []Frame
}

// Frame is a single captured stack frame.
type Frame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Code != "" {
		b.WriteString("[")
		b.WriteString(string(e.Code))
		b.WriteString("] ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code so errors.Is works against sentinel *Error values.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithField attaches a structured context field.
func (e *Error) WithField(key string, value any) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// HTTPStatus maps the code to an HTTP response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation, CodeInvalidEditSpec:
		return 400
	case CodeNotFound, CodeSourceNotFound:
		return 404
	case CodeConflict:
		return 409
	case CodeTimeout, CodeEngineTimeout:
		return 504
	case CodeEngineFailure, CodeInvocation:
		return 502
	default:
		return 500
	}
}

// StackTrace renders the captured frames one per line.
func (e *Error) StackTrace() string {
	var b strings.Builder
	for _, f := range e.Stack {
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
	}
	return b.String()
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Stack: captureStack(2)}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Stack: captureStack(2)}
}

// Wrap wraps err with an operation and message. The code of an already-typed
// error is preserved; everything else becomes CodeInternal.
func Wrap(err error, op string, message string) *Error {
	if err == nil {
		return nil
	}
	code := CodeInternal
	var e *Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return &Error{Code: code, Message: message, Op: op, Err: err, Stack: captureStack(2)}
}

// WrapWithCode wraps err under an explicit code.
func WrapWithCode(err error, code Code, op string, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Op: op, Err: err, Stack: captureStack(2)}
}

// InvalidEditSpec reports a rejected edit specification.
func InvalidEditSpec(message string) *Error {
	return New(CodeInvalidEditSpec, message)
}

// InvalidEditSpecf reports a rejected edit specification with formatting.
func InvalidEditSpecf(format string, args ...any) *Error {
	return Newf(CodeInvalidEditSpec, format, args...)
}

// SourceNotFound reports a source ref that did not resolve to a readable file.
func SourceNotFound(ref string) *Error {
	return New(CodeSourceNotFound, fmt.Sprintf("source not found: %s", ref)).
		WithField("source_ref", ref)
}

// EngineTimeout reports a render process killed after exceeding its budget.
func EngineTimeout(budget string) *Error {
	return New(CodeEngineTimeout, fmt.Sprintf("render exceeded %s budget", budget)).
		WithField("budget", budget)
}

// EngineFailure reports a non-zero engine exit, with the diagnostic tail.
func EngineFailure(exitCode int, stderr string) *Error {
	return New(CodeEngineFailure, fmt.Sprintf("engine exited with code %d", exitCode)).
		WithField("exit_code", exitCode).
		WithField("stderr", stderr)
}

// Invocation reports that the engine process could not be started at all.
func Invocation(err error) *Error {
	return WrapWithCode(err, CodeInvocation, "render.spawn", "engine could not be started")
}

// NotFound reports a missing resource.
func NotFound(resource, id string) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s not found: %s", resource, id)).
		WithField("resource", resource).
		WithField("id", id)
}

// Validation reports a rejected request field.
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// GetCode extracts the code from any error; untyped errors are internal.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// GetFields extracts structured fields, or nil.
func GetFields(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool { return GetCode(err) == code }

// HTTPStatus maps any error to an HTTP status.
func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return 500
}

func captureStack(skip int) []Frame {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip+1, pcs[:])

	frames := make([]Frame, 0, n)
	callersFrames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := callersFrames.Next()
		if strings.Contains(frame.File, "runtime/") {
			if !more {
				break
			}
			continue
		}
		frames = append(frames, Frame{File: frame.File, Line: frame.Line, Function: frame.Function})
		if !more || len(frames) >= 10 {
			break
		}
	}
	return frames
}

// As is a convenience wrapper for errors.As.
func As(err error, target any) bool { return errors.As(err, target) }

// Is is a convenience wrapper for errors.Is.
func Is(err, target error) bool { return errors.Is(err, target) }
