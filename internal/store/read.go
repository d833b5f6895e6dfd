package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/qcal/internal/report"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// JobRecord is a stored job.
type JobRecord struct {
	ID         string
	RunID      string
	Table      int
	Seq        int
	Length     *int
	Conditions map[string]any
	Sequence   string

	// Result is nil for jobs stored before execution.
	Result map[string]float64
}

// ReadRun returns the run with the given ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, protocol, seed, config, created_at
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %q: %w", id, err)
	}
	return run, nil
}

// ListRuns returns every run ordered by seq.
// Returns an empty slice (not nil) if the store has no runs.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, protocol, seed, config, created_at
		FROM runs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadJobs returns the run's jobs ordered by table index, then seq.
func (s *Store) ReadJobs(ctx context.Context, runID string) ([]JobRecord, error) {
	if err := s.runExists(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, table_index, seq, length, conditions, sequence, result
		FROM jobs
		WHERE run_id = ?
		ORDER BY table_index ASC, seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []JobRecord{}
	for rows.Next() {
		var (
			rec    JobRecord
			length sql.NullInt64
			conds  string
			result sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Table, &rec.Seq, &length, &conds, &rec.Sequence, &result); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if length.Valid {
			l := int(length.Int64)
			rec.Length = &l
		}
		if rec.Conditions, err = unmarshalConditions(conds); err != nil {
			return nil, err
		}
		if result.Valid {
			if rec.Result, err = unmarshalResult(result.String); err != nil {
				return nil, err
			}
		}
		jobs = append(jobs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

// ReadResults returns the run's histograms in dispatch order. It fails if
// any stored job has no result.
func (s *Store) ReadResults(ctx context.Context, runID string) ([]map[string]float64, error) {
	jobs, err := s.ReadJobs(ctx, runID)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]float64, len(jobs))
	for i, j := range jobs {
		if j.Result == nil {
			return nil, fmt.Errorf("run %q: job %d of table %d has no result", runID, j.Seq, j.Table)
		}
		out[i] = j.Result
	}
	return out, nil
}

// ReadReports returns the run's reports in write order.
func (s *Store) ReadReports(ctx context.Context, runID string) ([]*report.Report, error) {
	if err := s.runExists(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT body
		FROM reports
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := []*report.Report{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		r := &report.Report{}
		if err := json.Unmarshal([]byte(body), r); err != nil {
			return nil, fmt.Errorf("unmarshal report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

// runExists returns ErrRunNotFound unless a run with id is stored. An empty
// job list is otherwise indistinguishable from a missing run.
func (s *Store) runExists(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return fmt.Errorf("read run %q: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run     Run
		config  string
		created string
	)
	if err := sc.Scan(&run.ID, &run.Seq, &run.Protocol, &run.Seed, &config, &created); err != nil {
		return Run{}, err
	}
	run.Config = json.RawMessage(config)
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	run.CreatedAt = t
	return run, nil
}
