// Package client talks to the NeuraRead API and mirrors the results into a
// store.Store through the action dispatcher.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Messages substituted for transport failures, as the dashboard showed them
const (
	MsgServerError = "Server error, please try again later."
	MsgNotFound    = "Resource not found."
	MsgNoResponse  = "No response from server. Please check your network."
	MsgRequest     = "An error occurred during the request."
)

// Envelope is the part every API response body shares
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// APIError is a failed call. StatusCode is 0 when no response arrived.
type APIError struct {
	StatusCode int
	Severity   string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// API is a thin JSON client. The session cookie is kept in a jar; a token
// set with SetToken is also sent as a bearer header.
type API struct {
	base  string
	http  *http.Client
	token string
}

type APIOption func(*API)

// WithHTTPClient replaces the underlying client; its Jar is kept if set
func WithHTTPClient(c *http.Client) APIOption {
	return func(a *API) { a.http = c }
}

// NewAPI builds a client for base, e.g. http://localhost:8000/api/v1
func NewAPI(base string, opts ...APIOption) *API {
	jar, _ := cookiejar.New(nil)
	a := &API{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second, Jar: jar},
	}
	for _, o := range opts {
		o(a)
	}
	if a.http.Jar == nil {
		a.http.Jar = jar
	}
	return a
}

// SetToken attaches a bearer token to later requests; empty clears it
func (a *API) SetToken(token string) { a.token = token }

// JSON sends body as JSON (nil sends no body) and decodes the reply into out
func (a *API) JSON(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &APIError{Severity: "error", Message: MsgRequest, Err: err}
		}
		r = bytes.NewReader(raw)
	}
	return a.do(ctx, method, path, r, "application/json", out)
}

// File is one part of a multipart upload
type File struct {
	Field string
	Name  string
	Data  []byte
}

// Multipart sends fields and files as multipart/form-data
func (a *API) Multipart(ctx context.Context, method, path string, fields map[string]string, files []File, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return &APIError{Severity: "error", Message: MsgRequest, Err: err}
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Name)
		if err == nil {
			_, err = part.Write(f.Data)
		}
		if err != nil {
			return &APIError{Severity: "error", Message: MsgRequest, Err: err}
		}
	}
	if err := mw.Close(); err != nil {
		return &APIError{Severity: "error", Message: MsgRequest, Err: err}
	}
	return a.do(ctx, method, path, &buf, mw.FormDataContentType(), out)
}

func (a *API) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, body)
	if err != nil {
		return &APIError{Severity: "error", Message: MsgRequest, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return &APIError{Severity: "error", Message: MsgNoResponse, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Severity: "error", Message: MsgNoResponse, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return responseError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Severity: "error", Message: "Unexpected response from server", Err: err}
	}
	return nil
}

// responseError maps an error reply the way the dashboard interceptor did:
// 500 and 404 get fixed messages, anything else carries the server's.
func responseError(code int, raw []byte) *APIError {
	e := &APIError{StatusCode: code, Severity: "error"}
	switch code {
	case http.StatusInternalServerError:
		e.Message = MsgServerError
		return e
	case http.StatusNotFound:
		e.Message = MsgNotFound
		return e
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		e.Message = env.Message
		if env.Status != "" {
			e.Severity = env.Status
		}
		return e
	}
	e.Message = http.StatusText(code)
	return e
}
