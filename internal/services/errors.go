// internal/services/errors.go
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Error kinds. Every error returned by a service matches exactly one of these
// under errors.Is, or none when it is unexpected.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUpstream     = errors.New("upstream failure")
)

// Machine-readable error codes.
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidDiscount   = "INVALID_DISCOUNT"
	CodeInvalidQuantity   = "INVALID_QUANTITY"
	CodeInvalidPrice      = "INVALID_PRICE"
	CodeInvalidImage      = "INVALID_IMAGE"
	CodeImageTooLarge     = "IMAGE_TOO_LARGE"
	CodeProductNotFound   = "PRODUCT_NOT_FOUND"
	CodeBrandNotFound     = "BRAND_NOT_FOUND"
	CodeCategoryNotFound  = "CATEGORY_NOT_FOUND"
	CodeImageNotFound     = "IMAGE_NOT_FOUND"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeOrderNotFound     = "ORDER_NOT_FOUND"
	CodeInvalidPassword   = "INVALID_PASSWORD"
	CodeDuplicateProduct  = "DUPLICATE_PRODUCT"
	CodeAmbiguousProduct  = "AMBIGUOUS_PRODUCT"
	CodeBrandInUse        = "BRAND_IN_USE"
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeReferenceViolated = "REFERENCE_VIOLATION"
	CodeUploadFailed      = "UPLOAD_FAILED"
	CodeDatabaseError     = "DATABASE_ERROR"
)

// Error is a classified service error.
type Error struct {
	Kind    error
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: cause}
}

func validationError(code, message string, details interface{}) *Error {
	return &Error{Kind: ErrValidation, Code: code, Message: message, Details: details}
}

func notFoundError(code, message string) *Error {
	return &Error{Kind: ErrNotFound, Code: code, Message: message}
}

func conflictError(code, message string, details interface{}) *Error {
	return &Error{Kind: ErrConflict, Code: code, Message: message, Details: details}
}

// dbError classifies a gorm error. notFound is returned for
// gorm.ErrRecordNotFound; constraint violations become conflicts and anything
// else is an upstream failure.
func dbError(err error, notFound *Error) error {
	var svcErr *Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &svcErr):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return newError(ErrConflict, CodeAlreadyExists, "record already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return newError(ErrConflict, CodeReferenceViolated, "referenced record is missing or still in use", err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return newError(ErrValidation, CodeInvalidInput, "value violates a constraint", err)
	default:
		return newError(ErrUpstream, CodeDatabaseError, "database error", err)
	}
}
