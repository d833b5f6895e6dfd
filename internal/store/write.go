package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/qcal/internal/job"
	"github.com/roach88/qcal/internal/report"
)

// Run is one protocol execution.
type Run struct {
	ID        string
	Seq       int64
	Protocol  string
	Seed      int64
	Config    json.RawMessage
	CreatedAt time.Time
}

// CreateRun inserts a run with the next seq. config is stored as JSON.
func (s *Store) CreateRun(ctx context.Context, id, protocol string, seed int64, config any) (Run, error) {
	cfg, err := marshalCanonical(config)
	if err != nil {
		return Run{}, fmt.Errorf("create run: marshal config: %w", err)
	}
	run := Run{ID: id, Protocol: protocol, Seed: seed, Config: cfg, CreatedAt: time.Now().UTC()}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO runs (id, seq, protocol, seed, config, created_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?)
		RETURNING seq
	`, run.ID, run.Protocol, run.Seed, string(cfg), run.CreatedAt.Format(time.RFC3339Nano)).Scan(&run.Seq)
	if err != nil {
		return Run{}, fmt.Errorf("create run: %w", err)
	}
	return run, nil
}

// WriteTable stores every job of t under the run's table index in one
// transaction. Jobs without a result store NULL.
func (s *Store) WriteTable(ctx context.Context, runID string, table int, t *job.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO jobs (id, run_id, table_index, seq, length, conditions, sequence, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	defer stmt.Close()

	for i, j := range t.All() {
		conds, err := marshalConditions(j.Conditions())
		if err != nil {
			return fmt.Errorf("write table: job %d: %w", i, err)
		}
		text := sequenceText(j.Conditions())
		id, err := JobID(runID, table, i, text)
		if err != nil {
			return fmt.Errorf("write table: job %d: %w", i, err)
		}

		var length any
		if l, err := job.Condition[int](j, job.KeyLength); err == nil {
			length = l
		}
		var result any
		if r, ok := j.Result(); ok {
			encoded, err := marshalResult(r)
			if err != nil {
				return fmt.Errorf("write table: job %d: %w", i, err)
			}
			result = encoded
		}

		if _, err := stmt.ExecContext(ctx, id, runID, table, i, length, conds, text, result); err != nil {
			return fmt.Errorf("write table: job %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// WriteReport appends r to the run's reports.
func (s *Store) WriteReport(ctx context.Context, runID string, r *report.Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (run_id, seq, name, body)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM reports WHERE run_id = ?), ?, ?)
	`, runID, runID, r.Name, string(body))
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
