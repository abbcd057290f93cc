package web

// errors.go provides unified error response handling for the web layer.
//
// Handlers call respondError with whatever the domain layer returned.
// The technical error is logged with the request ID for correlation;
// the client receives a user-friendly message with an action
// suggestion and a short code to quote to support.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amsfield/pricebook/internal/cache"
	"github.com/amsfield/pricebook/internal/catalog"
	"github.com/amsfield/pricebook/internal/importer"
	"github.com/amsfield/pricebook/internal/logging"
)

// UserMessage is what the client sees instead of a raw error.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again; quote the request ID to support if it persists",
	Code:    "ERR000",
}

// MapError converts a domain error into its user-facing message.
//
// Codes: CAT0xx catalog data, IMP0xx imports, NET0xx connectivity.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		parseErr   *catalog.ParseError
		schemaErr  *catalog.SchemaError
		formatErr  *importer.FormatError
		priceErr   *importer.PriceFormatError
		emptyErr   *importer.EmptyImportError
		unavailErr *cache.UnavailableError
	)

	switch {
	case errors.As(err, &parseErr):
		return UserMessage{
			Message: "The catalog file is not valid JSON",
			Action:  "Re-export the catalog from the admin import tool",
			Code:    "CAT001",
		}
	case errors.As(err, &schemaErr):
		return UserMessage{
			Message: "The catalog data is structurally invalid: " + schemaErr.Reason,
			Action:  "Fix the offending package in the source export and re-import",
			Code:    "CAT002",
		}
	case errors.As(err, &emptyErr):
		return UserMessage{
			Message: "The import contained no usable rows",
			Action:  "Check that the export has identifier, name, and price columns with data",
			Code:    "IMP003",
		}
	case errors.As(err, &priceErr):
		return UserMessage{
			Message: "A row carried a price that could not be read",
			Action:  "Remove currency text and use plain decimal prices",
			Code:    "IMP002",
		}
	case errors.As(err, &formatErr):
		return UserMessage{
			Message: "The uploaded file could not be parsed: " + formatErr.Reason,
			Action:  "Upload a CSV or XLSX export with the expected columns",
			Code:    "IMP001",
		}
	case errors.As(err, &unavailErr):
		return UserMessage{
			Message: "You appear to be offline and no cached copy exists yet",
			Action:  "Reconnect and retry; the catalog is cached after the first sync",
			Code:    "NET001",
		}
	default:
		return defaultMessage
	}
}

// respondError logs the technical error server-side and writes the
// mapped user message as JSON.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:  userMsg.Message,
		Action: userMsg.Action,
		Code:   userMsg.Code,
	})
}

// respondJSON writes a success payload.
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// statusFor picks the HTTP status for a domain error: data problems
// are the client's to fix, connectivity is a gateway problem.
func statusFor(err error) int {
	var unavailErr *cache.UnavailableError
	if errors.As(err, &unavailErr) {
		return http.StatusServiceUnavailable
	}
	return http.StatusUnprocessableEntity
}
