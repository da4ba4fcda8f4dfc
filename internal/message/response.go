package message

import (
	"encoding/json"
	"fmt"
)

// Response is the result of processing one message: either a success
// payload or an error string, never both and never neither.
type Response struct {
	value any
	err   string
	isErr bool
}

// Success wraps a payload in a success response.
func Success(value any) Response {
	return Response{value: value}
}

// Error builds an error response.
func Error(msg string) Response {
	return Response{err: msg, isErr: true}
}

// Errorf builds an error response from a format string.
func Errorf(format string, args ...any) Response {
	return Error(fmt.Sprintf(format, args...))
}

// IsError reports whether this is an error response.
func (r Response) IsError() bool { return r.isErr }

// Value returns the success payload, nil for errors.
func (r Response) Value() any {
	if r.isErr {
		return nil
	}
	return r.value
}

// ErrorMessage returns the error string, "" for successes.
func (r Response) ErrorMessage() string { return r.err }

func (r Response) MarshalJSON() ([]byte, error) {
	if r.isErr {
		return json.Marshal(map[string]string{"Error": r.err})
	}
	return json.Marshal(map[string]any{"Success": r.value})
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("response must be a tagged object: %w", err)
	}
	if len(obj) != 1 {
		return fmt.Errorf("response must carry exactly one of Success or Error, got %d keys", len(obj))
	}

	if raw, ok := obj["Error"]; ok {
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			return fmt.Errorf("decoding error message: %w", err)
		}
		*r = Error(msg)
		return nil
	}
	raw, ok := obj["Success"]
	if !ok {
		return fmt.Errorf("response must carry Success or Error")
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("decoding success payload: %w", err)
	}
	*r = Success(value)
	return nil
}
