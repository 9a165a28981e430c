package domain

import "net/http"

// ScoringErrorKind enumerates the closed set of serving-path failures.
// Every error surfaced by the scoring runtime or the request adapter is one
// of these kinds; nothing else crosses the serving boundary.
type ScoringErrorKind string

const (
	KindModelNotLoaded      ScoringErrorKind = "model_not_loaded"
	KindModelWrongFormat    ScoringErrorKind = "model_wrong_format"
	KindMissingEnv          ScoringErrorKind = "missing_env"
	KindUnsupportedPayload  ScoringErrorKind = "unsupported_payload"
	KindEmptyData           ScoringErrorKind = "empty_data"
	KindDataNotSupported    ScoringErrorKind = "data_not_supported"
	KindCannotReadData      ScoringErrorKind = "cannot_read_data"
	KindCouldNotReturnData  ScoringErrorKind = "could_not_return_data"
	KindRequestNotSupported ScoringErrorKind = "request_not_supported"
)

// ScoringError is the wire-level error value for the serving path. It carries
// an HTTP status code and an optional diagnostic payload merged into the
// response body alongside the message.
type ScoringError struct {
	Kind       ScoringErrorKind
	Message    string
	StatusCode int
	Payload    map[string]any
}

func (e *ScoringError) Error() string { return e.Message }

// Body returns the JSON-serializable response body. Payload keys are carried
// through; "message" always reflects the error message.
func (e *ScoringError) Body() map[string]any {
	body := make(map[string]any, len(e.Payload)+1)
	for k, v := range e.Payload {
		body[k] = v
	}
	body["message"] = e.Message
	return body
}

func newScoringError(kind ScoringErrorKind, message string, status int, payload map[string]any) *ScoringError {
	return &ScoringError{Kind: kind, Message: message, StatusCode: status, Payload: payload}
}

func ModelNotLoaded(payload map[string]any) *ScoringError {
	return newScoringError(KindModelNotLoaded, "Model could not be loaded", http.StatusInternalServerError, payload)
}

func ModelWrongFormat(payload map[string]any) *ScoringError {
	return newScoringError(KindModelWrongFormat, "Supplied model is in wrong format", http.StatusInternalServerError, payload)
}

func MissingEnv(payload map[string]any) *ScoringError {
	return newScoringError(KindMissingEnv, "Endpoint environment is not configured properly", http.StatusInternalServerError, payload)
}

func UnsupportedPayload(payload map[string]any) *ScoringError {
	return newScoringError(KindUnsupportedPayload, "Model supports JSON inputs only", http.StatusUnsupportedMediaType, payload)
}

func EmptyData(payload map[string]any) *ScoringError {
	return newScoringError(KindEmptyData, "Received empty data file", http.StatusBadRequest, payload)
}

func DataNotSupported(payload map[string]any) *ScoringError {
	return newScoringError(KindDataNotSupported, "Model does not support supplied data schema", http.StatusBadRequest, payload)
}

func CannotReadData(payload map[string]any) *ScoringError {
	return newScoringError(KindCannotReadData, "Could not read input data", http.StatusInternalServerError, payload)
}

func CouldNotReturnData(payload map[string]any) *ScoringError {
	return newScoringError(KindCouldNotReturnData, "Could not return data to caller", http.StatusRequestedRangeNotSatisfiable, payload)
}

func RequestNotSupported(payload map[string]any) *ScoringError {
	return newScoringError(KindRequestNotSupported, "No handler for JSON content", http.StatusBadRequest, payload)
}

// AsScoringError returns err as a *ScoringError, wrapping foreign errors as
// model_not_loaded so the taxonomy stays exhaustive for callers.
func AsScoringError(err error) *ScoringError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*ScoringError); ok {
		return se
	}
	return ModelNotLoaded(map[string]any{"cause": err.Error()})
}
