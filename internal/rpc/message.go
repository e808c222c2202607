// Package rpc implements the newline-framed JSON-RPC 2.0 subset that lets
// an external process drive the picker: requests with an id expect a
// response, id-less notifications are fire-and-forget, and the peer emits
// id-less events (ready, select, bind). Grounded on the error taxonomy and
// request/response/id shapes of original_source/sweep-lib/src/rpc.rs.
package rpc

import "encoding/json"

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Message is the wire envelope for every request, response, and
// notification/event. Only the fields relevant to a given message kind are
// populated.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// IsRequest reports whether m carries an id and therefore expects a
// response (as opposed to a notification or event).
func (m *Message) IsRequest() bool { return len(m.ID) > 0 && string(m.ID) != "null" }

// IsResponse reports whether m is a response (carries result or error but
// no method).
func (m *Message) IsResponse() bool { return m.Method == "" && (m.Result != nil || m.Error != nil) }

func newError(code int, message, data string) *Error {
	return &Error{Code: code, Message: message, Data: data}
}

// ErrMethodNotFound builds the standard method-not-found error for method.
func ErrMethodNotFound(method string) *Error {
	return newError(CodeMethodNotFound, "Method not found", method)
}

// ErrInvalidParams builds the standard invalid-params error, annotated
// with why decoding failed.
func ErrInvalidParams(reason string) *Error {
	return newError(CodeInvalidParams, "Invalid params", reason)
}

// ErrParse builds the standard parse-error. Peer.Run does not send it: a
// frame that is not valid JSON makes Run return an error, closing the peer.
func ErrParse(reason string) *Error {
	return newError(CodeParseError, "Parse error", reason)
}

// ErrInternal wraps an unexpected handler failure.
func ErrInternal(reason string) *Error {
	return newError(CodeInternalError, "Internal error", reason)
}

func result(id json.RawMessage, payload json.RawMessage) Message {
	return Message{JSONRPC: "2.0", ID: id, Result: payload}
}

func errorMessage(id json.RawMessage, err *Error) Message {
	return Message{JSONRPC: "2.0", ID: id, Error: err}
}

// Notification builds an id-less method call, used both for client
// notifications and for server-emitted events (ready, select, bind).
func Notification(method string, params json.RawMessage) Message {
	return Message{JSONRPC: "2.0", Method: method, Params: params}
}
