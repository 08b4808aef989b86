package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

const Version = "2.0"

// Error codes returned by xo-server in addition to the JSON-RPC reserved ones.
const (
	CodeNotImplemented       = 0
	CodeNoSuchObject         = 1
	CodeUnauthorized         = 2
	CodeInvalidCredentials   = 3
	CodeAlreadyAuthenticated = 4
	CodeForbiddenOperation   = 5
	CodeInvalidParameters    = 10

	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Message is a JSON-RPC 2.0 request, response or notification.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// IsNotification reports whether m is a server push (a method without id).
func (m Message) IsNotification() bool {
	return m.Method != "" && len(m.ID) == 0
}

// IsResponse reports whether m answers a request.
func (m Message) IsResponse() bool {
	return m.Method == "" && len(m.ID) != 0
}

// Error is an error returned by the remote side of a call.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Data) == 0 {
		return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, string(e.Data))
}

func NewError(code int, message string, data any) *Error {
	e := &Error{Code: code, Message: message}
	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			e.Data = raw
		}
	}
	return e
}

// IsCode reports whether err is a remote error with the given code.
func IsCode(err error, code int) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func IsNoSuchObject(err error) bool {
	return IsCode(err, CodeNoSuchObject)
}

func IsInvalidCredentials(err error) bool {
	return IsCode(err, CodeInvalidCredentials)
}

func formatID(id uint64) json.RawMessage {
	return json.RawMessage(strconv.FormatUint(id, 10))
}

func parseID(raw json.RawMessage) (uint64, bool) {
	id, err := strconv.ParseUint(string(raw), 10, 64)
	return id, err == nil
}
