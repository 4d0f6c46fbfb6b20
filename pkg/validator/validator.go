package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"anoa.com/collegeattendance/pkg/apperror"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterJSONTagNames makes gin's validator report fields by their json
// name, so field errors line up with the request payload.
func RegisterJSONTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ToValidationError converts binding errors into field-level messages.
// Errors that are not validator errors (bad JSON etc.) come back as a
// single "body" entry.
func ToValidationError(err error) *apperror.ValidationError {
	out := &apperror.ValidationError{}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			out.Add(fieldError.Field(), getFieldErrorMessage(fieldError))
		}
		return out
	}

	out.Add("body", "malformed request body")
	return out
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, getFieldName(fe.Param()))
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"hall_ticket_id":   "Hall Ticket ID",
		"HallTicketID":     "Hall Ticket ID",
		"password":         "Password",
		"password_confirm": "Password confirmation",
		"PasswordConfirm":  "Password confirmation",
		"Password":         "Password",
		"username":         "Username",
		"name":             "Name",
		"subject":          "Subject",
		"topic":            "Topic",
		"branch":           "Branch",
		"year":             "Year",
		"role":             "Role",
		"date":             "Date",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
