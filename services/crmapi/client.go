// Package crmapi is the client of the backend REST API that owns leads, users, interviews and programs.
//
// Every response is wrapped in an envelope `{success, data, message}`. Transport failures, non-2xx statuses,
// undecodable bodies and `success: false` envelopes are all returned as an *Error.
package crmapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sendgrid/rest"

	"github.com/skillbridge/portal/core"
)

type tokenKey struct{}

// WithToken returns a context carrying the bearer token forwarded to the backend.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type Client struct {
	baseURL string
	token   string // used when the context carries none
	rest    *rest.Client
}

func New(conf core.BackendConfig, opts ...func(*Client)) *Client {
	c := &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		token:   conf.Token,
		rest:    &rest.Client{HTTPClient: &http.Client{Timeout: conf.Timeout}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) func(*Client) {
	return func(c *Client) {
		if hc != nil {
			c.rest = &rest.Client{HTTPClient: hc}
		}
	}
}

// WithTimeout sets the timeout of every call.
func WithTimeout(timeout time.Duration) func(*Client) {
	return func(c *Client) {
		if timeout > 0 {
			c.rest.HTTPClient.Timeout = timeout
		}
	}
}

func endpoint(parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return strings.Join(escaped, "/")
}

// do sends a request to path and decodes the data of the envelope into out (if not nil).
func (c *Client) do(ctx context.Context, op string, method rest.Method, path string, params map[string]string, in, out interface{}) error {
	req := rest.Request{
		Method:      method,
		BaseURL:     c.baseURL + "/" + path,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: params,
	}
	if token := tokenFrom(ctx); token != "" {
		req.Headers["Authorization"] = "Bearer " + token
	} else if c.token != "" {
		req.Headers["Authorization"] = "Bearer " + c.token
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Kind: KindTransport, Message: "encoding request", Err: err}
		}
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
	}

	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return &Error{Op: op, Kind: KindTransport, Message: "backend unreachable", Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal([]byte(res.Body), &env)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg := http.StatusText(res.StatusCode)
		if decodeErr == nil && env.Message != "" {
			msg = env.Message
		}
		return &Error{Op: op, Kind: KindApplication, StatusCode: res.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return &Error{Op: op, Kind: KindApplication, StatusCode: res.StatusCode, Message: "malformed response", Err: decodeErr}
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return &Error{Op: op, Kind: KindApplication, StatusCode: res.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err = json.Unmarshal(env.Data, out); err != nil {
			return &Error{Op: op, Kind: KindApplication, StatusCode: res.StatusCode, Message: "malformed response data", Err: err}
		}
	}
	return nil
}
