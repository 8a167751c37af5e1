package application

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// namePattern admits Latin and Cyrillic letters, digits, spaces and . , -
var namePattern = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9 .,\-]+$`)

// validate is a shared validator instance for service input.
var validate = func() *validator.Validate {
	v := validator.New()
	// Use JSON tag names for field names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("gallery_name", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}()

// exhibitionForm is the full set of fields checked before an exhibition save.
type exhibitionForm struct {
	Name        string     `json:"name" validate:"required,max=200,gallery_name"`
	Location    string     `json:"location" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=4000"`
	StartDate   *time.Time `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date" validate:"required"`
	Paintings   []string   `json:"paintings" validate:"min=1"`
}

func validateExhibitionForm(form exhibitionForm) *ValidationError {
	vErr := validationErrorFrom(validate.Struct(form))
	if form.StartDate != nil && form.EndDate != nil && form.EndDate.Before(*form.StartDate) {
		vErr.add("end_date", "must not be before start_date")
	}
	return vErr
}

func validatePaintingInput(input PaintingInput) *ValidationError {
	return validationErrorFrom(validate.Struct(input))
}

// validationErrorFrom converts validator errors into a ValidationError. The
// result is empty when err is nil.
func validationErrorFrom(err error) *ValidationError {
	vErr := &ValidationError{}
	if err == nil {
		return vErr
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		vErr.add("form", err.Error())
		return vErr
	}
	for _, e := range validationErrs {
		vErr.add(e.Field(), friendlyMessage(e))
	}
	return vErr
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gallery_name":
		return "may contain only letters, digits, spaces and . , -"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must include at least %s item(s)", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}
