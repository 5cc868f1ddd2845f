package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/stretchr/testify/require"
)

// Envelope mirrors the service's success and error bodies.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Field   string `json:"field"`
	Count   *int   `json:"count"`
	Data    T      `json:"data"`
}

// BuildRequest sets standard headers for test requests. An empty jwtString
// sends the request unauthenticated.
func (h *TestHelper) BuildRequest(method, path, jwtString string, body any) *http.Request {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.T, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, h.BaseURL+path, reader)
	require.NoError(h.T, err)

	if jwtString != "" {
		req.Header.Set("Authorization", "Bearer "+jwtString)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// DoRequest performs an HTTP request and asserts that no network-level error occurred.
func (h *TestHelper) DoRequest(req *http.Request) *http.Response {
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.T, err, "HTTP request failed")
	return resp
}

// ReadBody reads the response body and returns it as a string for logging or inspection.
func (h *TestHelper) ReadBody(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return "<nil response or body>"
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	// After reading, we need to restore the body so it can be read again if needed.
	resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	require.NoError(h.T, err, "Failed to read response body")
	return string(bodyBytes)
}

// Call sends the request, requires wantStatus and decodes the envelope.
func Call[T any](h *TestHelper, req *http.Request, wantStatus int) Envelope[T] {
	resp := h.DoRequest(req)
	defer resp.Body.Close()
	body := h.ReadBody(resp)
	require.Equal(h.T, wantStatus, resp.StatusCode, "%s %s: %s", req.Method, req.URL.Path, body)

	var env Envelope[T]
	require.NoError(h.T, json.Unmarshal([]byte(body), &env), body)
	return env
}
