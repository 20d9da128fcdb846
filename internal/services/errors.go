package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/diewo77/go-supplies/internal/validation"
)

// Error classes. Match them with errors.Is; the typed errors below carry
// the details.
var (
	ErrValidation   = errors.New("validation_failed")
	ErrBusinessRule = errors.New("business_rule_violation")
	ErrNotFound     = errors.New("not_found")
	ErrIO           = errors.New("io_error")
)

// Business rule codes.
const (
	RuleBalanceExceeded   = "balance_exceeded"
	RuleBelowReceived     = "below_received"
	RuleReceiptOvershoot  = "receipt_overshoot"
	RuleReceiptNotAllowed = "receipt_not_allowed"
)

// ValidationError lists invalid input fields and their violation codes.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f, code := range e.Violations {
		fields = append(fields, f+"="+code)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, code string) *ValidationError {
	return &ValidationError{Violations: validation.Violations{field: code}}
}

// RuleError is a business rule violation detected before any write.
type RuleError struct {
	Code    string
	Message string
}

func (e *RuleError) Error() string { return e.Code + ": " + e.Message }

func (e *RuleError) Unwrap() error { return ErrBusinessRule }

func ruleErr(code, format string, args ...any) *RuleError {
	return &RuleError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError names the entity and key that could not be resolved.
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %v not found", e.Entity, e.Key) }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// IOError reports an unreadable or malformed import file. Row is 0 when the
// problem is not tied to a data row.
type IOError struct {
	Source string
	Row    int
	Err    error
}

func (e *IOError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("import %s: row %d: %v", e.Source, e.Row, e.Err)
	}
	return fmt.Sprintf("import %s: %v", e.Source, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }
