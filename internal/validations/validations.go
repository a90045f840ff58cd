package validations

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// PatchTypes are the patch kinds accepted by the service.
var PatchTypes = []string{"PUBLISH", "REFRESH", "UNPUBLISH"}

var (
	validate    *validator.Validate
	validateErr error
	once        sync.Once
)

// NewValidator returns a validator with the custom rules registered. Field
// names in errors are the json names of the fields.
func NewValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	//add custom validations
	customValidations := map[string]func(fl validator.FieldLevel) bool{
		"ocid":       validOCID,
		"not_blank":  validNotBlank,
		"patch_type": validPatchType,
	}

	for jsonTag, fnName := range customValidations {
		if err := v.RegisterValidation(jsonTag, fnName); err != nil {
			return nil, err
		}
	}

	return v, nil
}

func shared() (*validator.Validate, error) {
	once.Do(func() {
		validate, validateErr = NewValidator()
	})
	return validate, validateErr
}

// ValidateStruct validates s against its `validate` tags.
func ValidateStruct(s interface{}) error {
	v, err := shared()
	if err != nil {
		return err
	}
	if err := v.Struct(s); err != nil {
		return validationErrorMessage("structValidation", err)
	}
	return nil
}

// ValidateVar validates a single value. name is used in the error message.
func ValidateVar(name string, s interface{}, validation string) error {
	v, err := shared()
	if err != nil {
		return err
	}
	if err := v.Var(s, validation); err != nil {
		return validationErrorMessage(name, err)
	}
	return nil
}

// ocid1.<resource type>.<realm>.[region][.future use].<unique id>
var isOCID = regexp.MustCompile(`^ocid1\.[a-z0-9_]+\.[a-z0-9]+\.[a-z0-9-]*(\.[a-z0-9-]*)?\.[a-zA-Z0-9]+$`).MatchString

// IsOCID reports whether s looks like an Oracle Cloud identifier.
func IsOCID(s string) bool {
	return isOCID(s)
}

func validOCID(fl validator.FieldLevel) bool {
	// Empty values are left to `required`.
	if fl.Field().String() == "" {
		return true
	}
	return isOCID(fl.Field().String())
}

func validNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validPatchType(fl validator.FieldLevel) bool {
	for _, t := range PatchTypes {
		if fl.Field().String() == t {
			return true
		}
	}
	return false
}

// Custom error messages
func validationErrorMessage(name string, err error) error {
	var validationErrors validator.ValidationErrors
	if ok := errors.As(err, &validationErrors); ok {
		validationError := validationErrors[0]
		switch validationError.Tag() {
		case "ocid":
			return fmt.Errorf("failed validation check for '%s', on '%s', value '%v' is not a valid ocid", validationError.Tag(), fieldName(name, validationError), validationError.Value())
		case "not_blank":
			return fmt.Errorf("failed validation check for '%s', '%s' must not be blank", validationError.Tag(), fieldName(name, validationError))
		case "patch_type":
			return fmt.Errorf("failed validation check for '%s', value '%v' is invalid, types supported: '%s'", validationError.Tag(), validationError.Value(), strings.Join(PatchTypes, "', '"))
		default:
			if validationError.Field() == "" {
				return fmt.Errorf("failed validation check for '%s' '%v'", name, validationError.Param())
			}
			return fmt.Errorf("failed validation check for '%s' '%v'", validationError.Tag(), validationError.Field())
		}
	}
	return err
}

func fieldName(name string, fe validator.FieldError) string {
	if fe.Field() == "" {
		return name
	}
	return fe.Field()
}
