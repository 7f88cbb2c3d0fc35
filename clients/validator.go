package clients

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newResponseValidator reports fields by their JSON names so decode errors
// point at the backend's contract rather than at Go field names.
func newResponseValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}
