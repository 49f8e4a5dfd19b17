package client

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

var (
	ErrNotInitialized = errors.New("client not initialized")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrUnavailable    = errors.New("backend unavailable")
	ErrNoSession      = errors.New("no session")
)

// APIError is a non-2xx answer from the remote. Error returns the remote
// message unchanged.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap maps the HTTP status onto the package sentinels.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return ErrUnauthorized
	case e.Status >= http.StatusInternalServerError:
		return ErrUnavailable
	}
	return nil
}

// errorBody covers both GoTrue and PostgREST error shapes.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Code             any    `json:"code"`
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{Status: resp.StatusCode}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = firstNonEmpty(body.ErrorDescription, body.Msg, body.Message, body.Error)
		apiErr.Code = body.ErrorCode
		if code, ok := body.Code.(string); ok && apiErr.Code == "" {
			apiErr.Code = code
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
