// Package validation checks request payloads before any entity is touched and
// reports every violation as a field to messages mapping.
package validation

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator"

	"taskapi/internal/domain/errors"
	"taskapi/internal/domain/models"
)

// Errors is returned when a payload fails validation.
type Errors struct {
	Fields map[string][]string
}

func (e *Errors) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, strings.Join(e.Fields[name], " "))
	}
	return fmt.Sprintf("%s: %s", errors.ErrValidationFailed.Error(), strings.Join(parts, " "))
}

func (e *Errors) Unwrap() error {
	return errors.ErrValidationFailed
}

func (e *Errors) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	})
	// filled rejects present strings that are empty or only whitespace.
	_ = v.RegisterValidation("filled", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("task_status", func(fl validator.FieldLevel) bool {
		_, err := models.ParseTaskStatus(fl.Field().String())
		return err == nil
	})
	return v
}

// Struct validates a bound request. It returns nil or *Errors.
func Struct(req any) error {
	return Check(nil, req)
}

// Check merges a decode error from binding req with the result of validating
// req, so a type mismatch on one field does not hide violations on others.
// An empty body is validated as an empty object.
func Check(bindErr error, req any) error {
	verrs := &Errors{}

	if bindErr != nil && !stderrors.Is(bindErr, io.EOF) {
		var typeErr *json.UnmarshalTypeError
		switch {
		case stderrors.As(bindErr, &typeErr) && typeErr.Field != "":
			verrs.add(typeErr.Field, typeMessage(typeErr.Field, typeErr.Type))
		default:
			verrs.add("body", "The request body must be a valid JSON object.")
			return verrs
		}
	}

	if err := validate.Struct(req); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range fieldErrs {
			if _, seen := verrs.Fields[fe.Field()]; seen {
				continue
			}
			verrs.add(fe.Field(), message(fe))
		}
	}

	if len(verrs.Fields) == 0 {
		return nil
	}
	return verrs
}

func message(fe validator.FieldError) string {
	name := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "filled":
		return fmt.Sprintf("The %s field must have a value.", name)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", name)
	case "date":
		return fmt.Sprintf("The %s is not a valid date.", name)
	case "task_status":
		return fmt.Sprintf("The selected %s is invalid.", name)
	default:
		return fmt.Sprintf("The %s is invalid.", name)
	}
}

func typeMessage(field string, t reflect.Type) string {
	name := humanize(field)
	if t == nil {
		return fmt.Sprintf("The %s is invalid.", name)
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("The %s must be an integer.", name)
	case reflect.String:
		return fmt.Sprintf("The %s must be a string.", name)
	default:
		return fmt.Sprintf("The %s is invalid.", name)
	}
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
