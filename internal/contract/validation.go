package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// ValidationError reports the first rule a payload broke.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()
	// Report fields by their wire names so messages match what the client sent.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	english := en.New()
	trans, _ = ut.New(english, english).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(fmt.Sprintf("contract: register translations: %v", err))
	}
}

// Validate checks v (a struct, a pointer to one, or a slice of them) against its
// validate tags and returns a *ValidationError for the first failing rule.
func Validate(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return &ValidationError{Message: "body is required"}
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return &ValidationError{Message: "body must be an array"}
		}
		for i := 0; i < rv.Len(); i++ {
			if err := Validate(rv.Index(i).Interface()); err != nil {
				var vErr *ValidationError
				if errors.As(err, &vErr) {
					return &ValidationError{
						Field:   fmt.Sprintf("[%d].%s", i, vErr.Field),
						Message: fmt.Sprintf("item %d: %s", i, vErr.Message),
					}
				}
				return err
			}
		}
		return nil
	case reflect.Struct:
		return firstError(validate.Struct(rv.Interface()))
	default:
		return nil
	}
}

func firstError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Message: fe.Translate(trans)}
	}
	return err
}

// decodeJSON unmarshals data into dst, turning decoder failures into
// validation errors with a readable message.
func decodeJSON(data []byte, dst any) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return &ValidationError{Message: "request body is required"}
	}
	err := json.Unmarshal(data, dst)
	if err == nil {
		return nil
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return &ValidationError{Message: fmt.Sprintf("body must be %s", jsonTypeName(typeErr.Type))}
		}
		return &ValidationError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be %s", typeErr.Field, jsonTypeName(typeErr.Type)),
		}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &ValidationError{Message: "request body is not valid JSON"}
	default:
		return &ValidationError{Message: err.Error()}
	}
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}
