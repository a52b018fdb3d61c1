package dto

import (
	"net/http"

	"github.com/addressbook/backend/internal/domain/shared"
)

// MessageBadRequest is the only detail clients see for malformed requests
const MessageBadRequest = "Bad Request"

// MessageInternal is returned for failures that carry no domain message
const MessageInternal = "Internal Server Error"

// ErrorKindHTTPStatus maps domain error kinds to HTTP status codes
var ErrorKindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindNotFound:         http.StatusNotFound,
	shared.KindValidation:       http.StatusBadRequest,
	shared.KindMalformedRequest: http.StatusBadRequest,
	shared.KindInternal:         http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error kind.
// Unknown kinds map to 500.
func GetHTTPStatus(kind shared.ErrorKind) int {
	if status, ok := ErrorKindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
