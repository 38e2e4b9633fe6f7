package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report wire names so ValidationError.Missing matches the JSON payload.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := jsonName(field)
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" {
		return field.Name
	}
	return name
}

// validatePayload checks the required fields of a payload decoded from data.
//
// Required means present: a field whose key is in data with a non-null value
// passes even when it holds the zero value, so an empty transcript is still a
// transcript.
func validatePayload(kind Kind, payload any, data []byte) error {
	var err error
	if present := presentRequiredFields(payload, data); len(present) > 0 {
		err = validate.StructExcept(payload, present...)
	} else {
		err = validate.Struct(payload)
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate %s payload: %w", kind, err)
	}

	missing := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		missing = append(missing, fieldErr.Field())
	}
	return &ValidationError{Kind: kind, Missing: missing}
}

// presentRequiredFields lists the Go names of required value fields whose
// keys are present in data. Pointer fields are left to the validator, which
// already tells nil from zero.
func presentRequiredFields(payload any, data []byte) []string {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil || len(keys) == 0 {
		return nil
	}

	typ := reflect.TypeOf(payload)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	var present []string
	for i := range typ.NumField() {
		field := typ.Field(i)
		if field.Anonymous || field.Type.Kind() == reflect.Pointer || !isRequired(field) {
			continue
		}
		raw, ok := keys[jsonName(field)]
		if ok && !isNull(raw) {
			present = append(present, field.Name)
		}
	}
	return present
}

func isRequired(field reflect.StructField) bool {
	for _, rule := range strings.Split(field.Tag.Get("validate"), ",") {
		if rule == "required" {
			return true
		}
	}
	return false
}
