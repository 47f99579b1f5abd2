package viewmodel

// Error codes returned in the envelope
const (
	CodeLandmarkNotFound    = "LANDMARK_NOT_FOUND"
	CodeBoundaryNotFound    = "ADM_BOUNDARY_NOT_FOUND"
	CodeDataNotFound        = "DATA_NOT_FOUND"
	CodeNoteNotFound        = "NOTE_NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED_ACCESS"
	CodeForbidden           = "FORBIDDEN"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternal            = "INTERNAL_SERVER_ERROR"
)

// ApiResponse is the envelope of every JSON API response.
type ApiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *ApiError `json:"error,omitempty"`
}

type ApiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func OK(data any) ApiResponse {
	return ApiResponse{Success: true, Data: data}
}

func Fail(code, message string) ApiResponse {
	return ApiResponse{Error: &ApiError{Message: message, Code: code}}
}
