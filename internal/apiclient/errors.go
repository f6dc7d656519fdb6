package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNetwork = "network_error"
	CodeDecode  = "decode_error"
	CodeEncode  = "encode_error"
)

// RequestFailed is the single error type the client returns. Status is zero
// when no response arrived. Message is whatever the server said, if anything.
type RequestFailed struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *RequestFailed) Error() string {
	msg := e.Message
	if msg == "" && e.Status != 0 {
		msg = http.StatusText(e.Status)
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("request failed (%d %s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("request failed (%s): %s", e.Code, msg)
}

func (e *RequestFailed) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the response invalidated the session.
func (e *RequestFailed) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

func httpCode(status int) string {
	return fmt.Sprintf("http_%d", status)
}

// MessageOr returns the server's message from err, or fallback when the server
// did not send one.
func MessageOr(err error, fallback string) string {
	var rf *RequestFailed
	if errors.As(err, &rf) && rf.Message != "" {
		return rf.Message
	}
	return fallback
}

func IsUnauthorized(err error) bool {
	var rf *RequestFailed
	return errors.As(err, &rf) && rf.Unauthorized()
}
