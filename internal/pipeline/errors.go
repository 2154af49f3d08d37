package pipeline

import (
	"errors"
	"fmt"
)

// ErrorKind is a stable machine-readable failure code. HTTP handlers choose
// statuses and user messages off the kind, never off message text.
type ErrorKind string

const (
	// KindParseError means the model output was not parseable JSON
	KindParseError ErrorKind = "PARSE_ERROR"
	// KindInvalidResponse means required top-level survey fields are missing
	KindInvalidResponse ErrorKind = "INVALID_RESPONSE"
	// KindInvalidQuestion means a specific question entry is malformed
	KindInvalidQuestion ErrorKind = "INVALID_QUESTION"
	// KindInvalidOptions means a choice question lacks usable options and no repair was possible
	KindInvalidOptions ErrorKind = "INVALID_OPTIONS"
	// KindNotImplemented means the requested export platform has no implementation
	KindNotImplemented ErrorKind = "NOT_IMPLEMENTED"
	// KindConversionInput means the converter was handed a structurally invalid survey
	KindConversionInput ErrorKind = "CONVERSION_INPUT_ERROR"
)

// Error is the typed failure returned by the validator and converter
type Error struct {
	Kind    ErrorKind
	Message string

	// QuestionIndex is the index of the offending question, -1 when the
	// failure is not tied to one question.
	QuestionIndex int
	QuestionText  string

	// RawText preserves the original model output on parse failures so the
	// caller can log it. Never sent to end users.
	RawText string

	cause error
}

func (e *Error) Error() string {
	if e.QuestionIndex >= 0 {
		return fmt.Sprintf("%s: %s (question %d)", e.Kind, e.Message, e.QuestionIndex)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf returns the ErrorKind carried by err, or "" for foreign errors
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), QuestionIndex: -1}
}

func questionError(kind ErrorKind, index int, text, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), QuestionIndex: index, QuestionText: text}
}
