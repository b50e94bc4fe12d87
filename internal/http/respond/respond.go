// Package respond holds the JSON plumbing shared by the API handlers.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cruce/internal/importer"
	"github.com/MrJamesThe3rd/cruce/internal/logger"
	"github.com/MrJamesThe3rd/cruce/internal/report"
	"github.com/MrJamesThe3rd/cruce/internal/run"
	"github.com/MrJamesThe3rd/cruce/internal/status"
)

// ErrBadRequest marks client errors found before reaching a service.
var ErrBadRequest = errors.New("bad request")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}

		return tag
	})

	return v
}

type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// ValidationError lists the offending fields of a request body.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func BadRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// Decode reads a JSON body into dest and validates it.
func Decode(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		return BadRequest("invalid request body: %v", err)
	}

	if err := validate.Struct(dest); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return BadRequest("%v", err)
		}

		fields := make(map[string]string, len(errs))
		for _, fe := range errs {
			fields[fe.Field()] = message(fe)
		}

		return &ValidationError{Fields: fields}
	}

	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}

	return "is invalid"
}

// ID parses the {id} URL parameter.
func ID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, BadRequest("invalid id")
	}

	return id, nil
}

func JSON(ctx context.Context, log *logger.Logger, w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(ctx, "failed to encode response", err)
	}
}

// Error writes err with the status code its kind maps to. Unexpected errors
// are logged and answered with a generic message.
func Error(ctx context.Context, log *logger.Logger, w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		JSON(ctx, log, w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Details: verr.Fields})
		return
	}

	code := StatusCode(err)
	msg := err.Error()

	if code == http.StatusInternalServerError {
		log.Error(ctx, "request failed", err)
		msg = "internal error"
	}

	JSON(ctx, log, w, code, errorResponse{Error: msg})
}

func StatusCode(err error) int {
	switch {
	case errors.Is(err, report.ErrNotFound), errors.Is(err, run.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, status.ErrInvalidTransition), errors.Is(err, run.ErrReportNotComplete):
		return http.StatusConflict
	case errors.Is(err, importer.ErrMissingColumns), errors.Is(err, importer.ErrUnknownPlatform):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, report.ErrInvalidDateRange),
		errors.Is(err, report.ErrPlatformMismatch),
		errors.Is(err, run.ErrInvalidDateRange),
		errors.Is(err, run.ErrNotEnoughReports):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
