package dto

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidParams    = "INVALID_PARAMS"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeIndexUnavailable = "INDEX_UNAVAILABLE"
	CodeIndexQuery       = "INDEX_QUERY_FAILED"
	CodeInternal         = "INTERNAL_ERROR"
	CodePanic            = "PANIC"
)

// DashboardView is the data rendered by the dashboard template.
type DashboardView struct {
	Title       string
	CourseCount int64
	Engine      string
	Healthy     bool
	SortModes   []string
	CourseTypes []string
}
