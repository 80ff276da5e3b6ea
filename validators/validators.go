// Package validators holds the shared request-validation helper used by the
// per-area validator packages.
package validators

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CheckStruct runs tag validation and converts violations into a field ->
// message map. Returns nil when the value is valid.
func CheckStruct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": "Invalid request body!"}
	}

	errors := make(map[string]string)
	for _, v := range violations {
		field := lowerFirst(v.Field())
		switch v.Tag() {
		case "required":
			errors[field] = fmt.Sprintf("%s is required!", field)
		case "email":
			errors[field] = "Please enter a valid email!"
		case "min":
			errors[field] = fmt.Sprintf("%s must be at least %s characters long!", field, v.Param())
		case "max":
			errors[field] = fmt.Sprintf("%s can not be more than %s characters!", field, v.Param())
		case "oneof":
			errors[field] = fmt.Sprintf("%s must be one of: %s!", field, strings.ReplaceAll(v.Param(), " ", ", "))
		case "gte":
			errors[field] = fmt.Sprintf("%s can not be less than %s!", field, v.Param())
		default:
			errors[field] = fmt.Sprintf("%s is not valid!", field)
		}
	}
	return errors
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
