package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"bookreviews/internal/platform/apperr"
)

// WriteError translates err into the JSON error envelope. Unclassified errors
// are reported as persistence failures.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	e := apperr.From(err, "Internal server error")

	details := e.Details
	if !e.Kind.ClientCaused() {
		if cause := e.Cause(); cause != nil && details == nil {
			details = cause.Error()
		}
		if logger != nil {
			logger.ErrorContext(r.Context(), "request failed",
				slog.String("request_id", RequestIDFrom(r)),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
		}
	}

	JSONError(w, r, e.HTTPStatus(), string(e.Kind), e.Message, details)
}

// DecodeJSON reads a single JSON object from the request body into dst.
// An empty body decodes as {} and leaves dst untouched.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.Validation("Request body too large")
		case errors.Is(err, io.EOF):
			return nil
		default:
			return apperr.Validation("Invalid JSON body")
		}
	}
	return nil
}
