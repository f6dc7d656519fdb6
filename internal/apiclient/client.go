// Package apiclient talks to the user management REST API. Every call carries
// the session token read at dispatch time, and any 401 or 403 response logs
// the session out before the error reaches the caller.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-Id"

// SessionSource is the part of the session store the client needs.
type SessionSource interface {
	Token() string
	Logout(ctx context.Context) error
}

type Client struct {
	baseURL  string
	http     *http.Client
	sessions SessionSource
	log      zerolog.Logger
}

func New(baseURL string, timeout time.Duration, sessions SessionSource, log zerolog.Logger) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout}, sessions, log)
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client, sessions SessionSource, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		sessions: sessions,
		log:      log,
	}
}

type requestIDKey struct{}

// WithRequestID tags outbound calls made with ctx with the inbound request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs exactly one attempt. out may be nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &RequestFailed{Code: CodeEncode, Message: "invalid request payload", Err: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RequestFailed{Code: CodeNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.sessions.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := requestID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
		return &RequestFailed{Code: CodeNetwork, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestFailed{Status: resp.StatusCode, Code: CodeNetwork, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("request_id", requestID(ctx)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rf := &RequestFailed{Status: resp.StatusCode, Code: httpCode(resp.StatusCode)}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			rf.Message = eb.Message
			if rf.Message == "" {
				rf.Message = eb.Error
			}
		}
		if rf.Unauthorized() {
			c.log.Info().Int("status", resp.StatusCode).Str("path", path).Msg("session rejected by api, logging out")
			if err := c.sessions.Logout(context.WithoutCancel(ctx)); err != nil {
				c.log.Error().Err(err).Msg("logout after rejected session")
			}
		}
		return rf
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &RequestFailed{Status: resp.StatusCode, Code: CodeDecode, Message: "invalid response from server", Err: err}
	}
	return nil
}
