// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate        *validator.Validate
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.@+-]+$`)
	idNumberPattern = regexp.MustCompile(`^[0-9]{16}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	validate.RegisterValidation("username", validateUsername)
	validate.RegisterValidation("id_number", validateIDNumber)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// decimalValue lets numeric tags (min, max, gte...) apply to decimals.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// Username should be 1-50 letters, digits or @/./+/-/_ characters
func validateUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	if len(username) == 0 || len(username) > 50 {
		return false
	}
	return usernamePattern.MatchString(username)
}

func validateIDNumber(fl validator.FieldLevel) bool {
	return idNumberPattern.MatchString(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// GetValidationErrors flattens validator errors. Field paths are relative to
// the validated struct, e.g. "products[2].price".
func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fieldPath(e.Namespace()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min", "gte":
		if isNumeric(e.Kind()) {
			return e.Field() + " must be at least " + e.Param()
		}
		return e.Field() + " must have at least " + e.Param() + " items or characters"
	case "max", "lte":
		if isNumeric(e.Kind()) {
			return e.Field() + " must be at most " + e.Param()
		}
		return e.Field() + " must have at most " + e.Param() + " items or characters"
	case "datetime":
		return e.Field() + " must be a date formatted as " + e.Param()
	case "username":
		return "Username must be 1-50 characters of letters, digits and @/./+/-/_ only"
	case "id_number":
		return e.Field() + " must be exactly 16 digits"
	default:
		return e.Field() + " is invalid"
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
