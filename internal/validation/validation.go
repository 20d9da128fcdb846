// Package validation collects field violations as code strings that the
// i18n catalog can translate.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func Positive(field string, val int64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

// AtMost flags val when it exceeds max.
func AtMost(field string, val, max int64, v Violations) {
	if val > max {
		v[field] = "too_large"
	}
}

func NonNegative(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v[field] = "must_not_be_negative"
	}
}

// NotBefore flags day when its calendar date is earlier than today's.
func NotBefore(field string, day, today time.Time, v Violations) {
	if day.IsZero() {
		v[field] = "required"
		return
	}
	y1, m1, d1 := day.Date()
	y2, m2, d2 := today.Date()
	if time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC).Before(time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)) {
		v[field] = "date_in_past"
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// tagCodes maps validator tags onto violation codes.
var tagCodes = map[string]string{
	"required": "required",
	"gt":       "must_be_positive",
	"gte":      "must_not_be_negative",
	"oneof":    "invalid_choice",
	"max":      "too_long",
}

// Struct runs the `validate` struct tags of s and records every failure in v.
func Struct(s any, v Violations) {
	err := instance().Struct(s)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v["_"] = "invalid"
		return
	}
	for _, fe := range verrs {
		code, ok := tagCodes[fe.Tag()]
		if !ok {
			code = fe.Tag()
		}
		if _, exists := v[fe.Field()]; !exists {
			v[fe.Field()] = code
		}
	}
}
