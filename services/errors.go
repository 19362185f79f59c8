package services

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"pos-backend/repositories"
	"pos-backend/utils"
)

// Error is a failure the API reports to the client as-is.
type Error struct {
	Message    string
	StatusCode int
	Code       string
	Details    []string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

func NotFound(message string) *Error {
	return &Error{Message: message, StatusCode: http.StatusNotFound, Code: "NOT_FOUND"}
}

func Validation(message string) *Error {
	return &Error{Message: message, StatusCode: http.StatusBadRequest, Code: "VALIDATION_ERROR"}
}

func Validationf(format string, args ...interface{}) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

func Conflict(message string) *Error {
	return &Error{Message: message, StatusCode: http.StatusConflict, Code: "CONFLICT"}
}

func Unauthorized(message string) *Error {
	return &Error{Message: message, StatusCode: http.StatusUnauthorized, Code: "UNAUTHORIZED"}
}

// AsError extracts a service error from err's chain.
func AsError(err error) (*Error, bool) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// validate runs struct tag validation and reports every failed field.
func validate(input interface{}) error {
	if err := utils.Validate(input); err != nil {
		e := Validation("Validation failed")
		e.Details = utils.ValidationMessages(err)
		return e
	}
	return nil
}

const duplicateRecord = "Record already exists"

// translate maps repository sentinels to API errors. notFound is the message
// used for missing records; conflict for unique violations, falling back to
// duplicateRecord.
func translate(err error, notFound, conflict string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return NotFound(notFound)
	case errors.Is(err, repositories.ErrDuplicateKey):
		if conflict == "" {
			conflict = duplicateRecord
		}
		return Conflict(conflict)
	}
	return err
}
