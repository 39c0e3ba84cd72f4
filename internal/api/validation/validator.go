package validation

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/allinsys/contactforms/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators registers custom validators
func RegisterValidators(v *validator.Validate) {
	v.RegisterValidation("notblank", validateNotBlank)
	v.RegisterValidation("website", validateWebsite)
	v.RegisterValidation("contactsource", validateSource)
	v.RegisterValidation("url", validateURL)
	v.RegisterTagNameFunc(jsonFieldName)
}

// RegisterGinValidators installs the custom validators on gin's binding engine
func RegisterGinValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			RegisterValidators(v)
		}
	})
}

// validateNotBlank rejects whitespace-only strings
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateWebsite checks the website allow-list
func validateWebsite(fl validator.FieldLevel) bool {
	return models.Website(fl.Field().String()).IsValid()
}

// validateSource checks the source enumeration
func validateSource(fl validator.FieldLevel) bool {
	return models.Source(fl.Field().String()).IsValid()
}

// validateURL accepts absolute http(s) URLs only
func validateURL(fl validator.FieldLevel) bool {
	urlStr := fl.Field().String()
	if urlStr == "" {
		return true // Allow empty URLs
	}
	u, err := url.ParseRequestURI(urlStr)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// jsonFieldName reports fields by their JSON/form name instead of the Go name
func jsonFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

// ValidationError represents a validation error
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value,omitempty"`
}

// FormatValidationError formats validation errors into a user-friendly response
func FormatValidationError(err error) []ValidationError {
	var errs []ValidationError
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errs = append(errs, ValidationError{
				Field: e.Field(),
				Tag:   e.Tag(),
				Value: e.Param(),
			})
		}
	}
	return errs
}
