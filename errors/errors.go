package errors

import (
	"errors"
	"fmt"
)

const (
	CodeTechnical = iota
	CodeMalformed
	CodeNotFound
	CodeIO
	CodeUnwritable
)

type CustomError struct {
	Code    int
	Field   string
	Path    string
	Message string
	Err     error
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

func Technical(message string) error {
	return &CustomError{
		Code:    CodeTechnical,
		Message: message,
	}
}

// Malformed reports input that is missing a required identity field.
func Malformed(field string) error {
	return &CustomError{
		Code:    CodeMalformed,
		Field:   field,
		Message: fmt.Sprintf("missing required field %q", field),
	}
}

func MalformedDocument(path string, err error) error {
	return &CustomError{
		Code:    CodeMalformed,
		Path:    path,
		Message: fmt.Sprintf("malformed document %s", path),
		Err:     err,
	}
}

func NotFound(message string) error {
	return &CustomError{
		Code:    CodeNotFound,
		Message: message,
	}
}

// IO wraps a failure to read an input file. Callers skip the file and continue.
func IO(path string, err error) error {
	return &CustomError{
		Code:    CodeIO,
		Path:    path,
		Message: fmt.Sprintf("could not read %s", path),
		Err:     err,
	}
}

// Unwritable wraps a failure to write one output. It is fatal for that output only.
func Unwritable(path string, err error) error {
	return &CustomError{
		Code:    CodeUnwritable,
		Path:    path,
		Message: fmt.Sprintf("could not write %s", path),
		Err:     err,
	}
}

// GetCode extracts the error kind, CodeTechnical for foreign errors.
func GetCode(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return CodeTechnical
}

func IsMalformed(err error) bool {
	return GetCode(err) == CodeMalformed
}

// MissingField returns the field named by a Malformed error, if any.
func MissingField(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Field
	}
	return ""
}
