package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// statuses a stored image may carry
var imageStatuses = map[string]struct{}{
	"active":   {},
	"deleted":  {},
	"archived": {},
}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Tell the validator to use the JSON tag as the “field name”
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("imagestatus", func(fl validator.FieldLevel) bool {
		_, ok := imageStatuses[fl.Field().String()]
		return ok
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ErrorsToMap turns validator errors into a field -> failed rule map.
// Errors of any other kind are reported under "_".
func ErrorsToMap(err error) map[string]string {
	errsMap := make(map[string]string)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errsMap["_"] = err.Error()
		return errsMap
	}
	for _, fieldErr := range fieldErrs {
		errsMap[fieldErr.Field()] = fieldErr.Tag()
	}
	return errsMap
}
