package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/roach88/qcal/internal/job"
)

// marshalCanonical encodes v with sorted map keys and HTML escaping off.
// The encoder's trailing newline is dropped.
func marshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// marshalConditions stores every condition except the compiled sequence,
// which has its own column, and the gate array, which is not serialisable.
func marshalConditions(c job.Conditions) (string, error) {
	keep := make(map[string]any, len(c))
	for k, v := range c {
		if k == job.KeySequence || k == job.KeyGateArray {
			continue
		}
		keep[k] = v
	}
	data, err := marshalCanonical(keep)
	if err != nil {
		return "", fmt.Errorf("marshal conditions: %w", err)
	}
	return string(data), nil
}

// sequenceText renders token sequences through their String method.
// Simulation snapshots have no text form and store as "".
func sequenceText(c job.Conditions) string {
	if s, ok := c[job.KeySequence].(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}

func marshalResult(r map[string]float64) (string, error) {
	for k, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("marshal result: outcome %q is %v", k, v)
		}
	}
	data, err := marshalCanonical(r)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(data), nil
}

func unmarshalConditions(data string) (map[string]any, error) {
	out := map[string]any{}
	if data == "" || data == "{}" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("unmarshal conditions: %w", err)
	}
	return out, nil
}

func unmarshalResult(data string) (map[string]float64, error) {
	var out map[string]float64
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return out, nil
}
