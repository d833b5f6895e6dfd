// Package job batches independent circuit executions for one dispatch round.
//
// A Job is an attribute bag plus a result written exactly once by the
// executor. A Table keeps jobs in submission order; analysis zips results
// positionally against that order, so executors must neither drop nor
// reorder jobs. Dispatch checks this contract after the executor returns.
package job

import (
	"fmt"
	"maps"
)

// Conditions is the attribute bag attached to a job: sequence length, gate
// array, shot count, compiled sequence and any protocol-specific markers.
type Conditions map[string]any

// Standard condition keys.
const (
	KeyLength    = "length"
	KeyGateArray = "gate_array"
	KeyShots     = "shot"
	KeySequence  = "sequence"

	// KeyGateCount is the number of logical gates the sequence applies,
	// used by noise models that act per gate.
	KeyGateCount = "gate_count"

	// KeyMeasured lists the layout indices of the read-out qubits in
	// bitstring order.
	KeyMeasured = "measured"
)

// Job is one circuit execution request.
type Job struct {
	conditions Conditions
	result     map[string]float64
	set        bool
}

// New returns a job with a copy of conds and no result.
func New(conds Conditions) *Job {
	return &Job{conditions: maps.Clone(conds)}
}

// Conditions returns the attribute bag. Callers must not mutate it.
func (j *Job) Conditions() Conditions { return j.conditions }

// Get returns the raw condition value for key.
func (j *Job) Get(key string) (any, bool) {
	v, ok := j.conditions[key]
	return v, ok
}

// Condition returns the condition at key asserted to T.
func Condition[T any](j *Job, key string) (T, error) {
	var zero T
	v, ok := j.conditions[key]
	if !ok {
		return zero, fmt.Errorf("job has no condition %q", key)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("condition %q is %T, want %T", key, v, zero)
	}
	return t, nil
}

// SetResult records the outcome histogram. A second call fails.
func (j *Job) SetResult(r map[string]float64) error {
	if j.set {
		return &Error{Code: ErrCodeResultAlreadySet, Message: "result already set", Index: -1}
	}
	j.result = maps.Clone(r)
	j.set = true
	return nil
}

// Result returns the outcome histogram and whether it has been set.
func (j *Job) Result() (map[string]float64, bool) {
	return j.result, j.set
}

// HasResult reports whether SetResult has been called.
func (j *Job) HasResult() bool { return j.set }

// Probability returns the recorded probability of outcome, 0 if absent.
func (j *Job) Probability(outcome string) float64 {
	return j.result[outcome]
}
