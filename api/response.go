package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Response is a raw response that wraps an HTTP response.
type Response struct {
	*http.Response
}

// DecodeJSON will decode the response body to a JSON structure. This
// will consume the response body, but will not close it. Close must
// still be called.
func (r *Response) DecodeJSON(out interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(out)
}

// Error returns an error response if there is one. If there is an error,
// this will fully consume the response body, but will not close it. The
// body must still be closed manually.
func (r *Response) Error() error {
	if r.StatusCode >= 200 && r.StatusCode < 400 {
		return nil
	}

	// We have an application-level error, which we try to parse as a JSON
	// response. We buffer the body first so the raw text can be reported
	// when the payload is not the JSON we expect.
	bodyBuf := &bytes.Buffer{}
	if _, err := io.Copy(bodyBuf, r.Body); err != nil {
		return err
	}
	r.Body.Close()
	r.Body = io.NopCloser(bodyBuf)

	respErr := &ResponseError{
		HTTPMethod: r.Request.Method,
		URL:        r.Request.URL.String(),
		StatusCode: r.StatusCode,
		RequestID:  r.Request.Header.Get(RequestIDHeader),
	}

	var resp ErrorResponse
	if err := json.Unmarshal(bodyBuf.Bytes(), &resp); err != nil {
		respErr.RawError = true
		respErr.Errors = []string{strings.TrimSpace(bodyBuf.String())}
		return respErr
	}
	respErr.Errors = resp.Errors
	if len(respErr.Errors) == 0 && resp.Error != "" {
		respErr.Errors = []string{resp.Error}
	}

	return respErr
}

// ErrorResponse is the raw structure of errors when they're returned by the
// platform.
type ErrorResponse struct {
	Errors []string `json:"errors"`
	Error  string   `json:"error"`
}

// ResponseError is the error returned when the platform responds with a status code
// outside of the 200 - 399 range.
type ResponseError struct {
	// HTTPMethod is the HTTP method for the request (PUT, GET, etc).
	HTTPMethod string

	// URL is the URL of the request.
	URL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// RequestID is the identifier sent with the failed request.
	RequestID string

	// RawError marks that the underlying error messages returned by the
	// platform were not parsable. The Errors slice will contain the raw
	// response body as the first and only error string if this value is set to
	// true.
	RawError bool

	// Errors are the underlying error messages returned by the platform.
	Errors []string
}

// Error returns a human-readable error string for the response error.
func (r *ResponseError) Error() string {
	errString := "Errors"
	if r.RawError {
		errString = "Raw Message"
	}

	var errBody bytes.Buffer
	errBody.WriteString(fmt.Sprintf(
		"Error making API request.\n\n"+
			"URL: %s %s\n"+
			"Code: %d. %s:\n\n",
		r.HTTPMethod, r.URL, r.StatusCode, errString))

	if r.RawError && len(r.Errors) == 1 {
		errBody.WriteString(r.Errors[0])
	} else {
		for _, err := range r.Errors {
			errBody.WriteString(fmt.Sprintf("* %s", err))
		}
	}

	return errBody.String()
}

// IsNotFound reports whether err is a platform response with status 404.
func IsNotFound(err error) bool {
	var respErr *ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
