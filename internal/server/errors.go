package server

import (
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/flamelink/pkg/errors"
	"github.com/matzehuels/flamelink/pkg/observability"
)

type errorJSON struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type errorResponse struct {
	Error     errorJSON `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

func errorBody(r *http.Request, code, message string, details map[string]string) errorResponse {
	return errorResponse{
		Error:     errorJSON{Code: code, Message: message, Details: details},
		RequestID: RequestID(r.Context()),
	}
}

// statusFor maps an error code to an HTTP status. Problems with the posted
// flame are the client's; catalog-authoring defects are the server's.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidParameter,
		errors.ErrCodeUnknownVariation, errors.ErrCodeUnknownParameter, errors.ErrCodeIncompatibleGeometry:
		return http.StatusBadRequest
	case errors.ErrCodeConflictingOrder:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	id := RequestID(r.Context())
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, id, err)

	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody(r, string(errors.ErrCodeInvalidInput), "request body too large", nil))
		return
	}

	var e *errors.Error
	if !stderrors.As(err, &e) {
		if r.Context().Err() != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorBody(r, "TIMEOUT", "request cancelled", nil))
			return
		}
		s.logger.Error("unclassified error", "error", err, "request_id", id)
		writeJSON(w, http.StatusInternalServerError, errorBody(r, string(errors.ErrCodeInternal), "internal server error", nil))
		return
	}

	status := statusFor(e.Code)
	if status >= 500 {
		s.logger.Error("compose failed", "error", err, "request_id", id)
	}
	writeJSON(w, status, errorBody(r, string(e.Code), e.Message, e.Details))
}
