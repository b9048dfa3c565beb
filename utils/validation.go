package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/nocturnelux/storefront/models"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// RegisterValidators adds the storefront's custom binding tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v.RegisterValidation("size", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || models.IsValidSize(s)
	})
}

// ValidationDetails turns a binding error into per-field messages. Errors that
// are not validator errors (malformed JSON, wrong types) become a single entry.
func ValidationDetails(err error) FieldValidationErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldValidationErrors{{Field: "body", Message: err.Error()}}
	}
	out := make(FieldValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldValidationError{
			Field:   lowerFirst(fe.Field()),
			Message: describeTag(fe),
		})
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "email":
		return "must be a valid email"
	case "size":
		return "must be one of " + strings.Join(models.SizeLabels, ", ")
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// BindJSON binds the request body and answers 400 with field details on failure.
func BindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		LogDebug("Invalid request body for %s: %v", c.Request.URL.Path, err)
		BadRequest(c, "Invalid request body", ValidationDetails(err))
		return false
	}
	return true
}
