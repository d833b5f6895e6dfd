package executor

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/qcal/internal/job"
)

// Fixture is a recorded set of job results in dispatch order. Entries may be
// raw counts; they are normalised on replay.
type Fixture struct {
	Protocol string               `yaml:"protocol,omitempty"`
	Results  []map[string]float64 `yaml:"results"`
}

// LoadFixture decodes a fixture, rejecting unknown fields.
func LoadFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFixtureFile reads a fixture from path.
func LoadFixtureFile(path string) (*Fixture, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return LoadFixture(fh)
}

// Encode writes f as YAML.
func (f *Fixture) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}

// Replay fills job tables from a fixture. Successive tables consume
// successive fixture entries, so a protocol with two tables replays from
// one fixture.
type Replay struct {
	fixture *Fixture
	next    int
}

// NewReplay returns a Replay positioned at the first fixture entry.
func NewReplay(f *Fixture) *Replay {
	return &Replay{fixture: f}
}

// Remaining returns the number of unread fixture entries.
func (r *Replay) Remaining() int { return len(r.fixture.Results) - r.next }

// Drained returns an error if fixture entries were left unread. A fixture
// recorded from a larger experiment would otherwise pair its leading entries
// with the wrong jobs without complaint.
func (r *Replay) Drained() error {
	if n := r.Remaining(); n > 0 {
		return fmt.Errorf("replay: %d of %d fixture entries unused", n, len(r.fixture.Results))
	}
	return nil
}

// Execute implements job.Executor.
func (r *Replay) Execute(ctx context.Context, t *job.Table) error {
	if t.Len() > r.Remaining() {
		return fmt.Errorf("replay: table has %d jobs, fixture has %d entries left", t.Len(), r.Remaining())
	}
	for i, j := range t.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := Normalize(r.fixture.Results[r.next])
		if err != nil {
			return fmt.Errorf("replay: entry %d: %w", r.next, err)
		}
		if err := j.SetResult(res); err != nil {
			return fmt.Errorf("replay: job %d: %w", i, err)
		}
		r.next++
	}
	return nil
}

// Recorder wraps an executor and keeps every result it produces.
type Recorder struct {
	inner   job.Executor
	fixture Fixture
}

// Drained reports unread input when the wrapped executor is a Replay. Other
// executors have nothing to drain.
func (r *Recorder) Drained() error {
	if d, ok := r.inner.(interface{ Drained() error }); ok {
		return d.Drained()
	}
	return nil
}

// NewRecorder records results of inner under protocol.
func NewRecorder(inner job.Executor, protocol string) *Recorder {
	return &Recorder{inner: inner, fixture: Fixture{Protocol: protocol}}
}

// Execute implements job.Executor.
func (r *Recorder) Execute(ctx context.Context, t *job.Table) error {
	if err := r.inner.Execute(ctx, t); err != nil {
		return err
	}
	for _, j := range t.All() {
		res, _ := j.Result()
		r.fixture.Results = append(r.fixture.Results, res)
	}
	return nil
}

// Fixture returns everything recorded so far.
func (r *Recorder) Fixture() *Fixture { return &r.fixture }
