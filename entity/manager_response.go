package entity

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// ECode is the gateway error code. The manager sends it either as a number
// or as a string.
type ECode string

func (c *ECode) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ECode(s)
		return nil
	}
	*c = ECode(data)
	return nil
}

// ManagerResponse is the body returned by the management endpoint. Gateway
// errors are left in Error/Message/ECode for the caller to interpret.
type ManagerResponse struct {
	Success json.RawMessage `json:"success,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	ECode   ECode           `json:"ecode,omitempty"`
	// Raw is the untouched response body.
	Raw []byte `json:"-"`
}

func (r *ManagerResponse) Failed() bool {
	return r.Error != "" || r.ECode != ""
}

// Decode unmarshals the success payload into v. The payload may be plain
// JSON or a JSON document wrapped in a string.
func (r *ManagerResponse) Decode(v any) error {
	if r.Failed() {
		return fmt.Errorf("gateway error %s: %s", r.ECode, r.Error)
	}
	payload := bytes.TrimSpace(r.Success)
	if len(payload) == 0 {
		return fmt.Errorf("empty success payload")
	}
	if payload[0] == '"' {
		var inner string
		if err := json.Unmarshal(payload, &inner); err != nil {
			return fmt.Errorf("decode success string: %w", err)
		}
		payload = []byte(inner)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode success: %w", err)
	}
	return nil
}

// ParseManagerResponse decodes a manager body, keeping the raw bytes. The
// whole body may arrive as a JSON string wrapping the actual document.
func ParseManagerResponse(body []byte) (*ManagerResponse, error) {
	payload := bytes.TrimSpace(body)
	if len(payload) > 0 && payload[0] == '"' {
		var inner string
		if err := json.Unmarshal(payload, &inner); err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
		payload = []byte(inner)
	}
	var response ManagerResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	response.Raw = body
	return &response, nil
}
