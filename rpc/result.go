package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Reason classifies why a call produced no usable value.
type Reason string

const (
	ReasonUnavailable   Reason = "unavailable"
	ReasonDeclined      Reason = "declined"
	ReasonInvalidParams Reason = "invalid_params"
	ReasonUnknownMethod Reason = "unknown_method"
	ReasonInternal      Reason = "internal"
)

var (
	ErrUnavailable   = errors.New("backend unavailable")
	ErrDeclined      = errors.New("operation declined")
	ErrInvalidParams = errors.New("invalid parameters")
	ErrUnknownMethod = errors.New("unknown method")
	ErrInternal      = errors.New("backend error")
)

type Failure struct {
	Method  string `json:"method"`
	Reason  Reason `json:"reason"`
	Message string `json:"message,omitempty"`
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return fmt.Sprintf("%s: %s", f.Method, f.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", f.Method, f.Reason, f.Message)
}

func (f *Failure) Unwrap() error {
	switch f.Reason {
	case ReasonUnavailable:
		return ErrUnavailable
	case ReasonDeclined:
		return ErrDeclined
	case ReasonInvalidParams:
		return ErrInvalidParams
	case ReasonUnknownMethod:
		return ErrUnknownMethod
	default:
		return ErrInternal
	}
}

// Result is either a JSON value or a Failure, never both.
type Result struct {
	Method  string
	Value   json.RawMessage
	Failure *Failure
}

func OK(method string, value any) Result {
	raw, err := json.Marshal(value)
	if err != nil {
		return Fail(method, ReasonInternal, fmt.Sprintf("encoding result: %v", err))
	}
	return Result{Method: method, Value: raw}
}

func Fail(method string, reason Reason, message string) Result {
	return Result{Method: method, Failure: &Failure{Method: method, Reason: reason, Message: message}}
}

// FailWith maps err onto a Result, keeping the reason of a wrapped Failure.
func FailWith(method string, err error) Result {
	var f *Failure
	if errors.As(err, &f) {
		return Fail(method, f.Reason, f.Message)
	}
	switch {
	case errors.Is(err, ErrInvalidParams):
		return Fail(method, ReasonInvalidParams, err.Error())
	case errors.Is(err, ErrDeclined):
		return Fail(method, ReasonDeclined, err.Error())
	case errors.Is(err, ErrUnknownMethod):
		return Fail(method, ReasonUnknownMethod, err.Error())
	case errors.Is(err, ErrUnavailable):
		return Fail(method, ReasonUnavailable, err.Error())
	default:
		return Fail(method, ReasonInternal, err.Error())
	}
}

func (r Result) Succeeded() bool {
	return r.Failure == nil
}

func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

func (r Result) isNull() bool {
	return len(r.Value) == 0 || string(r.Value) == "null"
}

// Truthy reports whether the call succeeded with a value that counts as yes:
// true, a non-zero number, a non-empty string, or any object or array.
func (r Result) Truthy() bool {
	if !r.Succeeded() || r.isNull() {
		return false
	}
	var v any
	if err := json.Unmarshal(r.Value, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

// String returns the value when it is a JSON string.
func (r Result) String() (string, bool) {
	if !r.Succeeded() || r.isNull() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(r.Value, &s); err != nil {
		return "", false
	}
	return s, true
}

// Int64 returns the value when it is a JSON integer.
func (r Result) Int64() (int64, bool) {
	if !r.Succeeded() || r.isNull() {
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(r.Value, &n); err != nil {
		return 0, false
	}
	return n, true
}

func (r Result) Decode(v any) error {
	if err := r.Err(); err != nil {
		return err
	}
	if r.isNull() {
		return &Failure{Method: r.Method, Reason: ReasonDeclined, Message: "empty result"}
	}
	return json.Unmarshal(r.Value, v)
}
