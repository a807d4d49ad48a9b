package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/alchemorsel-ideas/backend/internal/apperr"
	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
)

var validatorOnce sync.Once

// setupValidator teaches gin's validator about Optional fields and makes it
// report json field names.
func setupValidator() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// A pointer keeps omitempty from skipping explicit zero values.
		v.RegisterCustomTypeFunc(optionalValue[string], model.Optional[string]{})
		v.RegisterCustomTypeFunc(optionalValue[int], model.Optional[int]{})
		v.RegisterCustomTypeFunc(optionalValue[bool], model.Optional[bool]{})
	})
}

func optionalValue[T any](field reflect.Value) interface{} {
	if o, ok := field.Interface().(model.Optional[T]); ok {
		return o.Ptr()
	}
	return nil
}

// bindError turns a gin binding failure into a VALIDATION_FAILED error.
// source names the request part ("body" or "query") used when no field is known.
func bindError(err error, source string) *apperr.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperr.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperr.FieldError{Path: fieldPath(fe), Message: fieldMessage(fe)})
		}
		return apperr.Validation(fields...)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := typeErr.Field
		if path == "" {
			path = source
		}
		return apperr.Validation(apperr.FieldError{
			Path:    path,
			Message: fmt.Sprintf("must be of type %s", jsonKind(typeErr.Type)),
		})
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperr.Validation(apperr.FieldError{Path: source, Message: "malformed JSON"})
	}
	if errors.Is(err, io.EOF) {
		return apperr.Validation(apperr.FieldError{Path: source, Message: "is required"})
	}
	return apperr.Validation(apperr.FieldError{Path: source, Message: err.Error()})
}

// queryError is bindError for query strings. gin reports unparsable values
// as a bare *strconv.NumError, so the offending key is found by re-parsing
// each form-tagged field of req in binding order.
func queryError(err error, req interface{}, query url.Values) *apperr.Error {
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		return bindError(err, "query")
	}
	if fe, ok := badQueryField(reflect.Indirect(reflect.ValueOf(req)).Type(), query); ok {
		return apperr.Validation(fe)
	}
	return apperr.Validation(apperr.FieldError{Path: "query", Message: "contains an invalid value"})
}

func badQueryField(t reflect.Type, query url.Values) (apperr.FieldError, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			if fe, ok := badQueryField(f.Type, query); ok {
				return fe, true
			}
			continue
		}
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		value := query.Get(name)
		if value == "" {
			continue
		}
		var perr error
		switch f.Type.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			_, perr = strconv.ParseInt(value, 10, f.Type.Bits())
		case reflect.Bool:
			_, perr = strconv.ParseBool(value)
		default:
			continue
		}
		if perr == nil {
			continue
		}
		msg := fmt.Sprintf("must be of type %s", jsonKind(f.Type))
		if errors.Is(perr, strconv.ErrRange) {
			msg = "is out of range"
		}
		return apperr.FieldError{Path: name, Message: msg}, true
	}
	return apperr.FieldError{}, false
}

// fieldPath renders a validator namespace such as
// "UpsertRecipeRequest.ingredients[0].name" as "ingredients[0].name".
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	out := parts[:0]
	for _, p := range parts {
		// Embedded structs contribute their Go type name.
		if p != "" && unicode.IsUpper(rune(p[0])) {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}

func fieldMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed the %s check", fe.Tag())
	}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
