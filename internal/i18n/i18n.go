// Package i18n translates message codes for the JSON API.
package i18n

import (
	"context"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLang is used when no supported language is requested.
const DefaultLang = "pt"

var supported = map[string]language.Tag{
	"pt": language.BrazilianPortuguese,
	"en": language.English,
}

var catalog = map[string]map[string]string{
	"pt": {
		"required":             "Obrigatório",
		"must_be_positive":     "Deve ser maior que zero",
		"must_not_be_negative": "Não pode ser negativo",
		"date_in_past":         "A data não pode estar no passado",
		"invalid_choice":       "Opção inválida",
		"too_long":             "Texto muito longo",
		"too_large":            "Quantidade acima do limite",
		"not_editable":         "Não pode ser alterado",
		"already_exists":       "Já cadastrado",
		"invalid":              "Valor inválido",
		"validation_failed":    "Dados inválidos",
		"not_found":            "Registro não encontrado",
		"io_error":             "Arquivo ilegível ou mal formatado",
		"internal_error":       "Erro interno",
		"invalid_json":         "JSON inválido",
		"invalid_id":           "Identificador inválido",
		"balance_exceeded":     "O saldo da licitação seria excedido",
		"below_received":       "Quantidade abaixo do já recebido",
		"receipt_overshoot":    "Recebimento excede a quantidade pedida",
		"receipt_not_allowed":  "A OC não aceita recebimentos neste status",
		"autonomy_undefined":   "Indefinido",
	},
	"en": {
		"required":             "Required",
		"must_be_positive":     "Must be greater than zero",
		"must_not_be_negative": "Must not be negative",
		"date_in_past":         "Date must not be in the past",
		"invalid_choice":       "Invalid choice",
		"too_long":             "Too long",
		"too_large":            "Quantity above the limit",
		"not_editable":         "Cannot be changed",
		"already_exists":       "Already exists",
		"invalid":              "Invalid value",
		"validation_failed":    "Invalid input",
		"not_found":            "Not found",
		"io_error":             "Unreadable or malformed file",
		"internal_error":       "Internal error",
		"invalid_json":         "Invalid JSON",
		"invalid_id":           "Invalid identifier",
		"balance_exceeded":     "Contract balance would be exceeded",
		"below_received":       "Quantity below what was already received",
		"receipt_overshoot":    "Receipt exceeds the ordered quantity",
		"receipt_not_allowed":  "Order status does not accept receipts",
		"autonomy_undefined":   "Undefined",
	},
}

// DetectLanguage picks the first supported language of an Accept-Language
// header, falling back to DefaultLang.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := supported[base]; ok {
			return base
		}
	}
	return DefaultLang
}

// Supported reports whether lang has a message catalog.
func Supported(lang string) bool {
	_, ok := supported[lang]
	return ok
}

// T translates code. Unknown languages use DefaultLang and unknown codes are
// returned as is.
func T(lang, code string) string {
	if msgs, ok := catalog[lang]; ok {
		if s, ok := msgs[code]; ok {
			return s
		}
	}
	if s, ok := catalog[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Printer returns a number-aware printer for lang.
func Printer(lang string) *message.Printer {
	tag, ok := supported[lang]
	if !ok {
		tag = supported[DefaultLang]
	}
	return message.NewPrinter(tag)
}

type ctxKey struct{}

// WithLang stores lang in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFromContext returns the language stored by WithLang, or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(ctxKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}
