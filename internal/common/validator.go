package common

import (
	"fmt"
	"reflect"
	"strings"

	"campaign-lab/polystore/internal/models/dtos"
	"campaign-lab/polystore/internal/models/entities"

	"gopkg.in/go-playground/validator.v9"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report json names so messages match the request body.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Patch fields are validated on their value. Unset and null fields hold
	// the zero value, which omitempty skips.
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		return v.FieldByName("Value").Interface()
	},
		entities.Optional[string]{},
		entities.Optional[int64]{},
		entities.Optional[entities.ApplicationStatus]{},
		entities.Optional[[]dtos.RequirementPayload]{},
	)
}

// ValidateStruct checks the validate tags of s and flattens any failures
// into one error.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	reasons := make([]string, 0, len(verrs))
	for _, f := range verrs {
		reasons = append(reasons, describe(f.Namespace(), f.Tag(), f.Param()))
	}
	return fmt.Errorf("invalid request: %s", strings.Join(reasons, "; "))
}

func describe(field, tag, param string) string {
	// Drop the struct name from the namespace.
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch tag {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "email":
		return field + " must be a valid email"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	}
	return fmt.Sprintf("%s failed %s", field, tag)
}
