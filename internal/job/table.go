package job

import "iter"

// Table is an ordered, append-only collection of jobs owned by one protocol.
type Table struct {
	jobs []*Job
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Submit appends j. No deduplication is performed.
func (t *Table) Submit(j *Job) {
	t.jobs = append(t.jobs, j)
}

// Reset empties the table.
func (t *Table) Reset() {
	t.jobs = nil
}

// Len returns the number of submitted jobs.
func (t *Table) Len() int { return len(t.jobs) }

// At returns the i-th submitted job.
func (t *Table) At(i int) *Job { return t.jobs[i] }

// Jobs returns the jobs in submission order. The slice is a copy; the jobs
// are shared.
func (t *Table) Jobs() []*Job {
	return append([]*Job(nil), t.jobs...)
}

// All iterates (index, job) in submission order.
func (t *Table) All() iter.Seq2[int, *Job] {
	return func(yield func(int, *Job) bool) {
		for i, j := range t.jobs {
			if !yield(i, j) {
				return
			}
		}
	}
}

// Pending returns the number of jobs without a result.
func (t *Table) Pending() int {
	n := 0
	for _, j := range t.jobs {
		if !j.set {
			n++
		}
	}
	return n
}
