package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the uniform wrapper every backend response is sent in
type Envelope[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

// DecodeEnvelope decodes body as an Envelope. The body has to be a JSON
// object; the code and msg fields are not interpreted.
func DecodeEnvelope[T any](body []byte) (Envelope[T], error) {
	var env Envelope[T]

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return env, ErrInvalidEnvelope
	}

	if err := json.Unmarshal(trimmed, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}

	return env, nil
}
