package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBasicValidators(t *testing.T) {
	v := make(Violations)
	Required("name", "  ", v)
	Positive("qty", 0, v)
	NonNegative("cmm", decimal.NewFromInt(-1), v)
	AtMost("balance", 11, 10, v)
	assert.Equal(t, Violations{"name": "required", "qty": "must_be_positive", "cmm": "must_not_be_negative", "balance": "too_large"}, v)

	ok := make(Violations)
	Required("name", "Beef", ok)
	Positive("qty", 1, ok)
	NonNegative("cmm", decimal.Zero, ok)
	AtMost("balance", 10, 10, ok)
	assert.True(t, ok.Empty())
}

func TestNotBefore(t *testing.T) {
	today := time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)
	v := make(Violations)
	NotBefore("same_day", time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), today, v)
	NotBefore("yesterday", today.AddDate(0, 0, -1), today, v)
	NotBefore("missing", time.Time{}, today, v)
	assert.Equal(t, Violations{"yesterday": "date_in_past", "missing": "required"}, v)
}

type sample struct {
	Name   string `json:"name" validate:"required"`
	Qty    int64  `json:"qty" validate:"gt=0"`
	Status string `json:"status" validate:"oneof=A B"`
	Note   string `validate:"max=3"`
}

func TestStruct(t *testing.T) {
	v := make(Violations)
	Struct(sample{Qty: 0, Status: "C", Note: "long"}, v)
	assert.Equal(t, "required", v["name"])
	assert.Equal(t, "must_be_positive", v["qty"])
	assert.Equal(t, "invalid_choice", v["status"])
	assert.Equal(t, "too_long", v["Note"])

	clean := make(Violations)
	Struct(sample{Name: "x", Qty: 2, Status: "A"}, clean)
	assert.True(t, clean.Empty())
}

func TestStructKeepsFirstViolation(t *testing.T) {
	v := Violations{"name": "already_taken"}
	Struct(sample{Qty: 1, Status: "A"}, v)
	assert.Equal(t, "already_taken", v["name"])
}
