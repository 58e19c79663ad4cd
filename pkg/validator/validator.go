// Package validator provides request validation utilities
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pulseboard/pulseboard/internal/domain"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationErrors is a slice of ValidationError
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	var messages []string
	for _, e := range ve {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}

// Init initializes the validator with custom validators
func Init() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			validate = v

			// Register custom tag name function to use JSON tags
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})

			// Register custom validators
			_ = v.RegisterValidation("widgetkind", validateWidgetKind)
			_ = v.RegisterValidation("widthclass", validateWidthClass)
			_ = v.RegisterValidation("heightclass", validateHeightClass)
			_ = v.RegisterValidation("priority", validatePriority)
			_ = v.RegisterValidation("impact", validateImpact)
			_ = v.RegisterValidation("thememode", validateThemeMode)
			_ = v.RegisterValidation("exportformat", validateExportFormat)
		}
	})
}

// Get returns the validator instance
func Get() *validator.Validate {
	Init()
	return validate
}

// ParseValidationErrors converts validator.ValidationErrors to ValidationErrors
func ParseValidationErrors(err error) ValidationErrors {
	var validationErrors ValidationErrors

	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, e := range ve {
			field := e.Field()
			tag := e.Tag()

			validationErrors = append(validationErrors, ValidationError{
				Field:   field,
				Tag:     tag,
				Message: formatErrorMessage(field, tag, e.Param()),
			})
		}
	}

	return validationErrors
}

// formatErrorMessage creates a human-readable error message
func formatErrorMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + param + " characters"
	case "max":
		return field + " must be at most " + param + " characters"
	case "oneof":
		return field + " must be one of: " + param
	case "widgetkind":
		return field + " must be a supported widget kind"
	case "widthclass":
		return field + " must be one of: small, medium, large, full"
	case "heightclass":
		return field + " must be one of: small, medium, large"
	case "priority":
		return field + " must be one of: low, medium, high, critical"
	case "impact":
		return field + " must be one of: low, medium, high"
	case "thememode":
		return field + " must be one of: light, dark"
	case "exportformat":
		return field + " must be one of: pdf, csv, excel, png"
	case "gte":
		return field + " must be greater than or equal to " + param
	case "lte":
		return field + " must be less than or equal to " + param
	case "gt":
		return field + " must be greater than " + param
	case "lt":
		return field + " must be less than " + param
	default:
		return field + " is invalid"
	}
}

// Custom validators

func validateWidgetKind(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Let required handle empty
	}
	return domain.WidgetKind(val).Valid()
}

func validateWidthClass(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	switch domain.WidthClass(val) {
	case domain.WidthSmall, domain.WidthMedium, domain.WidthLarge, domain.WidthFull:
		return true
	}
	return false
}

func validateHeightClass(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	switch domain.HeightClass(val) {
	case domain.HeightSmall, domain.HeightMedium, domain.HeightLarge:
		return true
	}
	return false
}

func validatePriority(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Default will be set
	}
	switch domain.Priority(val) {
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityCritical:
		return true
	}
	return false
}

func validateImpact(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	switch domain.Impact(val) {
	case domain.ImpactLow, domain.ImpactMedium, domain.ImpactHigh:
		return true
	}
	return false
}

func validateThemeMode(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	switch domain.ThemeMode(val) {
	case domain.ModeLight, domain.ModeDark:
		return true
	}
	return false
}

func validateExportFormat(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return domain.ExportFormat(val).Valid()
}
