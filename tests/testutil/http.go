// Package testutil provides HTTP helpers shared by the address book test suites.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DoJSON sends a request to h. A non-nil body is marshalled to JSON.
func DoJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = ToJSONReader(t, body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// JSONResponseAs parses the response body into T.
func JSONResponseAs[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var result T
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err, "Failed to parse JSON response: %s", w.Body.String())
	return result
}

// AssertErrorResponse asserts the single-error envelope with the given status.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code, "Unexpected status code")

	resp := JSONResponseAs[map[string]any](t, w)
	errMap, ok := resp["error"].(map[string]any)
	require.True(t, ok, "Expected error object in response")
	assert.Equal(t, float64(expectedStatus), errMap["statusCode"], "Unexpected statusCode")
	assert.NotEmpty(t, errMap["message"], "Expected an error message")
}

// AssertValidationResponse asserts a 400 listing exactly the given messages.
func AssertValidationResponse(t *testing.T, w *httptest.ResponseRecorder, expected ...string) {
	t.Helper()

	assert.Equal(t, http.StatusBadRequest, w.Code, "Unexpected status code")

	resp := JSONResponseAs[struct {
		Errors []string `json:"errors"`
	}](t, w)
	assert.Equal(t, expected, resp.Errors)
}

// ToJSONReader converts a value to a JSON io.Reader.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
