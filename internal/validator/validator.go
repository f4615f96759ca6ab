package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/override-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps the struct-tag validator with the custom rules the override
// models carry. It is the defensive layer that re-checks assembled overrides
// right before they are committed.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new validator instance with all custom rules registered.
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate performs struct validation and translates failures into the shared
// ValidationErrors type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if translated := ToValidationErrors(err); len(translated) > 0 {
			return translated
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("import_mode", validateImportMode)
	validate.RegisterValidation("no_surrounding_space", validateNoSurroundingSpace)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateImportMode(fl validator.FieldLevel) bool {
	return models.ImportMode(fl.Field().String()).Valid()
}

func validateNoSurroundingSpace(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == strings.TrimSpace(value)
}
