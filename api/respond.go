package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rpupo63/research-portal-backend/errs"
	"github.com/rpupo63/research-portal-backend/services"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	// Marshal the data first to check size and handle errors
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Check if response is too large (e.g., > 10MB)
	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large, truncating")

		status = http.StatusRequestEntityTooLarge
		jsonData, _ = json.Marshal(map[string]interface{}{
			"error":        "Response too large",
			"message":      "The requested data exceeds the maximum response size",
			"maxSizeMB":    maxResponseSize / (1024 * 1024),
			"actualSizeMB": len(jsonData) / (1024 * 1024),
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSONStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error:  "Internal Server Error",
			Status: "error",
			Kind:   string(errs.KindUnknown),
		})
		return
	}

	response := ErrorResponse{
		Error:   apiErr.Message(),
		Status:  "error",
		Kind:    string(apiErr.Kind),
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	// Full error chain for debugging database errors
	if apiErr.Cause != nil {
		response.Cause = apiErr.GetFullError()
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Err(err).Str("cause", response.Cause).Msg("request failed")
	}

	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}

// WriteResult flattens a service result. Failures take their status from the error.
func (r Responder) WriteResult(w http.ResponseWriter, res services.Result, successStatus int) {
	if res.Success {
		r.WriteJSONStatus(w, successStatus, res)
		return
	}

	status := http.StatusInternalServerError
	body := ResultResponse{Result: res, Kind: string(res.Kind())}
	var apiErr *errs.ApiErr
	if errors.As(res.Err, &apiErr) {
		status = apiErr.StatusCode
		body.Field = apiErr.Field
	}
	r.WriteJSONStatus(w, status, body)
}

// decodeJSON reads a JSON body into dst. Unknown fields are rejected. An empty body
// is accepted only when allowEmpty is set.
func decodeJSON(req *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(req.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return errs.NewInvalidJSONError(err)
	}
	return nil
}
