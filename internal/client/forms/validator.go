// Package forms validates user input before anything is sent to the service.
package forms

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/common"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// engine returns the shared validator, initialized on first use.
func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// report fields by their json names
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseCategory(fl.Field().String())
			return ok
		})
	})
	return validate
}

// ValidationError maps field names to the message shown next to them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

// Field returns the message for one field, or "".
func (e *ValidationError) Field(name string) string { return e.Fields[name] }

// messages maps "field.tag" to the message for that failure.
type messages map[string]string

// check validates form and translates failures through msgs. Only the first
// failure per field is kept.
func check(form any, msgs messages) error {
	err := engine().Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: map[string]string{}}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out.Fields[field]; seen {
			continue
		}
		out.Fields[field] = msgs.lookup(field, fe.Tag())
	}
	return out
}

func (m messages) lookup(field, tag string) string {
	if msg, ok := m[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := m[field]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", field)
}

// merge adds a single field failure to err, creating the ValidationError if
// needed.
func merge(err error, field, msg string) error {
	var verr *ValidationError
	if err == nil {
		return &ValidationError{Fields: map[string]string{field: msg}}
	}
	if errors.As(err, &verr) {
		if _, ok := verr.Fields[field]; !ok {
			verr.Fields[field] = msg
		}
		return verr
	}
	return err
}
