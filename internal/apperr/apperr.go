// Package apperr classifies failures of remote calls and local validation
// and maps them to messages safe to show to an operator.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an error for display and status mapping
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindServer       Kind = "server"
	KindNetwork      Kind = "network"
	KindUnknown      Kind = "unknown"
)

// Display messages
const (
	MsgUnauthorized = "Your session has expired. Please log in again."
	MsgForbidden    = "You do not have permission to perform this action."
	MsgNotFound     = "The requested resource was not found."
	MsgValidation   = "The request was rejected. Please check your input."
	MsgServer       = "Server error. Please try again later."
	MsgNetwork      = "Unable to reach the server. Check your connection and try again."
	MsgUnknown      = "Something went wrong. Please try again."
)

// Error is a classified failure
type Error struct {
	Kind     Kind
	Status   int
	Messages []string
	Err      error
	// Local marks errors raised before any network call
	Local bool
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if len(e.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status to answer with when relaying this error
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		if e.Status == http.StatusBadRequest {
			return http.StatusBadRequest
		}
		return http.StatusUnprocessableEntity
	case KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// KindForStatus classifies an HTTP status code
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500 && status <= 599:
		return KindServer
	default:
		return KindUnknown
	}
}

// FromStatus builds an error from a failed response, extracting any messages from body
func FromStatus(status int, body []byte) *Error {
	return &Error{
		Kind:     KindForStatus(status),
		Status:   status,
		Messages: parseMessages(body),
	}
}

// Network wraps a transport failure
func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

// Local builds a validation error raised before any network call
func Local(messages ...string) *Error {
	return &Error{Kind: KindValidation, Messages: messages, Local: true}
}

// Localf formats a single local validation message
func Localf(format string, args ...any) *Error {
	return Local(fmt.Sprintf(format, args...))
}

// Unknown wraps an unclassified failure
func Unknown(err error) *Error {
	return &Error{Kind: KindUnknown, Err: err}
}

// As extracts an *Error from err's chain
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsKind reports whether err carries kind
func IsKind(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}

// DisplayMessage maps err to a message that never exposes internals
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	ae, ok := As(err)
	if !ok {
		return MsgUnknown
	}

	switch ae.Kind {
	case KindUnauthorized:
		return MsgUnauthorized
	case KindForbidden:
		return MsgForbidden
	case KindNotFound:
		return MsgNotFound
	case KindValidation:
		if len(ae.Messages) > 0 {
			return strings.Join(ae.Messages, "; ")
		}
		return MsgValidation
	case KindServer:
		return MsgServer
	case KindNetwork:
		return MsgNetwork
	default:
		return MsgUnknown
	}
}

// errorBody covers the shapes the backend answers with:
// {"message": "..."}, {"message": ["...", "..."]}, {"error": "..."}, {"errors": [...]}
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

func parseMessages(body []byte) []string {
	var eb errorBody
	if len(body) == 0 || json.Unmarshal(body, &eb) != nil {
		return nil
	}

	var out []string
	for _, raw := range []json.RawMessage{eb.Message, eb.Errors, eb.Error} {
		out = append(out, decodeMessages(raw)...)
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func decodeMessages(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var single string
	if json.Unmarshal(raw, &single) == nil {
		if s := strings.TrimSpace(single); s != "" {
			return []string{s}
		}
		return nil
	}

	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil {
		var out []string
		for _, item := range list {
			out = append(out, decodeMessages(item)...)
		}
		return out
	}

	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) == nil && strings.TrimSpace(obj.Message) != "" {
		return []string{strings.TrimSpace(obj.Message)}
	}
	return nil
}
