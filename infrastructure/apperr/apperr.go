// Package apperr carries coded errors across the template store, the
// editor and the HTTP layer.
package apperr

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInvalidOperation Code = "INVALID_OPERATION"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// Metadata describes how a code is surfaced. UserFacing codes become
// notifications in the editor; the others are programmer errors.
type Metadata struct {
	HTTPStatus     int
	PublicMessage  string
	UserFacing     bool
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusUnprocessableEntity,
		PublicMessage:  "la plantilla no es válida",
		UserFacing:     true,
		DetailsAllowed: true,
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "no se pudo cargar o guardar la plantilla",
		UserFacing:    true,
	},
	CodeInvalidOperation: {
		HTTPStatus:    http.StatusConflict,
		PublicMessage: "operación no permitida",
		UserFacing:    true,
	},
	CodeInvalidArgument: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "invalid argument",
		DetailsAllowed: true,
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "internal server error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches any *Error carrying the same code, so sentinel values such
// as ErrNotFound work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.message == "" && t.code == e.code
}

// Code sentinels for errors.Is checks.
var (
	ErrValidation       = &Error{code: CodeValidation}
	ErrNotFound         = &Error{code: CodeNotFound}
	ErrInvalidOperation = &Error{code: CodeInvalidOperation}
	ErrInvalidArgument  = &Error{code: CodeInvalidArgument}
)

// As returns the first *Error in err's chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf reports the code of err, CodeInternal for untyped errors.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

// IsUserFacing reports whether err should be shown to the user as a
// notification rather than treated as a programming error.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MetadataFor(CodeOf(err)).UserFacing
}
