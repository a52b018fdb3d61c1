package dto

// ErrorBody is the body of the single-error envelope
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// ErrorResponse is returned for not found, malformed and internal failures:
//
//	{"error": {"statusCode": 404, "message": "Address Book not found"}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(statusCode int, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			StatusCode: statusCode,
			Message:    message,
		},
	}
}

// ValidationErrorResponse lists every failed field validation:
//
//	{"errors": ["Please provide first Name", "Please provide last Name"]}
type ValidationErrorResponse struct {
	Errors []string `json:"errors"`
}

// NewValidationErrorResponse creates a validation error response
func NewValidationErrorResponse(messages []string) ValidationErrorResponse {
	if messages == nil {
		messages = []string{}
	}
	return ValidationErrorResponse{Errors: messages}
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
