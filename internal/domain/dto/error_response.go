package dto

import "time"

// ErrorResponse is the standard error body of the service's own endpoints.
//
// Fields:
//   - Message: human readable summary.
//   - ErrorDetails: underlying error text, omitted when empty.
//   - Timestamp: when the error was produced (UTC).
type ErrorResponse struct {
	Message      string    `json:"message" example:"symbol is required"`
	ErrorDetails string    `json:"error,omitempty" example:"invalid period"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so responses can travel through c.Error.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse, copying err's text when err is not nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// ProxyErrorResponse is the body returned by the provider proxy when the upstream call fails.
// Message distinguishes timeouts from other failures.
type ProxyErrorResponse struct {
	Error   string `json:"error" example:"Failed to fetch data from Alpha Vantage"`
	Message string `json:"message" example:"Request to Alpha Vantage timed out. Please try again later."`
}
