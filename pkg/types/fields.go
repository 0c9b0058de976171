package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MemberFields is the closed set of fields a caller supplies when creating a
// member. Name and Gender are required; every other field is optional.
type MemberFields struct {
	Name       string `validate:"required,notblank"`
	Gender     Gender `validate:"required,gender"`
	BirthDate  string
	DeathDate  string
	PhotoURL   string `validate:"omitempty,photo"`
	BirthPlace string
	Occupation string
	Partner    string
}

// fieldsValidate is the validator instance for member field bundles.
// Initialized in init() with the custom validators below.
var fieldsValidate *validator.Validate

func init() {
	fieldsValidate = validator.New()

	_ = fieldsValidate.RegisterValidation("notblank", validateNotBlank)
	_ = fieldsValidate.RegisterValidation("gender", validateGender)
	_ = fieldsValidate.RegisterValidation("photo", validatePhoto)
}

// validateNotBlank rejects strings made only of whitespace.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateGender accepts the Gender constants only.
func validateGender(fl validator.FieldLevel) bool {
	return Gender(fl.Field().String()).Valid()
}

// validatePhoto accepts http(s) URLs and data: references, the two forms a
// photo can be supplied in.
func validatePhoto(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	return strings.HasPrefix(v, "http://") ||
		strings.HasPrefix(v, "https://") ||
		strings.HasPrefix(v, "data:")
}

// Validate checks the bundle. It returns an error wrapping ErrInvalidFields
// that names the first offending field.
func (f MemberFields) Validate() error {
	err := fieldsValidate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s fails %q", ErrInvalidFields, strings.ToLower(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalidFields, err)
}
