// Package handlers exposes the supply ledger as a local JSON API.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-supplies/internal/config"
	"github.com/diewo77/go-supplies/internal/httpx"
	"github.com/diewo77/go-supplies/internal/i18n"
	"github.com/diewo77/go-supplies/internal/services"
	"github.com/sirupsen/logrus"
)

// maxUpload bounds multipart import files.
const maxUpload = 32 << 20

// writeError maps service errors onto HTTP statuses and translated messages.
func writeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, funcName string, err error) {
	lang := i18n.LangFromContext(r.Context())

	var verr *services.ValidationError
	var rerr *services.RuleError
	var nerr *services.NotFoundError
	var ierr *services.IOError
	switch {
	case errors.As(err, &verr):
		details := make(map[string]string, len(verr.Violations))
		for field, code := range verr.Violations {
			details[field] = i18n.T(lang, code)
		}
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", i18n.T(lang, "validation_failed"), details)
	case errors.As(err, &rerr):
		httpx.JSONError(w, http.StatusConflict, rerr.Code, i18n.T(lang, rerr.Code), rerr.Message)
	case errors.As(err, &nerr):
		httpx.JSONError(w, http.StatusNotFound, "not_found", i18n.T(lang, "not_found"), nerr.Error())
	case errors.As(err, &ierr):
		httpx.JSONError(w, http.StatusBadRequest, "io_error", i18n.T(lang, "io_error"), ierr.Error())
	default:
		config.LogError(log, "handlers", funcName, r.URL.Path, err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", i18n.T(lang, "internal_error"), nil)
	}
}

func badJSON(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LangFromContext(r.Context())
	httpx.JSONError(w, http.StatusBadRequest, "invalid_json", i18n.T(lang, "invalid_json"), err.Error())
}

// pathID parses the {id} path value. It writes a 400 and returns false
// when the value is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		lang := i18n.LangFromContext(r.Context())
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", i18n.T(lang, "invalid_id"), r.PathValue("id"))
		return 0, false
	}
	return uint(id), true
}

// Date accepts "2006-01-02" as well as RFC 3339 timestamps in request
// bodies. An empty string or null leaves the zero time.
type Date time.Time

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = Date(t)
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (d Date) Time() time.Time { return time.Time(d) }
