package rb

import (
	"fmt"

	"github.com/roach88/qcal/internal/circuit"
	"github.com/roach88/qcal/internal/linalg"
)

// sequences samples s.Repetitions gate arrays. Each array holds Length-1
// random gates followed, when invert is set, by the inverse of their
// product (with the interleaved gate folded in after each random gate).
// Length 0 yields empty arrays.
func sequences(cfg Config, s Sequence, interleave *Interleave, invert bool) ([][]linalg.Matrix, error) {
	out := make([][]linalg.Matrix, s.Repetitions)
	if s.Length == 0 {
		return out, nil
	}
	per := s.Length - 1
	draws, err := cfg.Group.Sample(s.Repetitions*per, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("sample %d gates for length %d: %w", s.Repetitions*per, s.Length, err)
	}
	dim := 1 << cfg.numQubits()
	for r := range out {
		gates := make([]linalg.Matrix, 0, s.Length)
		total := linalg.Identity(dim)
		for _, g := range draws[r*per : (r+1)*per] {
			gates = append(gates, g)
			total = g.Mul(total)
			if interleave != nil {
				total = interleave.Gate.Mul(total)
			}
		}
		if invert {
			gates = append(gates, total.Dagger())
		}
		out[r] = gates
	}
	return out, nil
}

// apply plays gates on c, interleaving the reference gate after every gate
// but the last. It returns the number of logical gates played.
func apply(c *circuit.Circuit, cfg Config, gates []linalg.Matrix, interleave *Interleave) (int, error) {
	count := 0
	for pos, g := range gates {
		if err := applyUnitary(c, cfg, g); err != nil {
			return 0, fmt.Errorf("gate %d: %w", pos, err)
		}
		count++
		if interleave == nil || pos == len(gates)-1 {
			continue
		}
		if interleave.Apply != nil {
			err := interleave.Apply(c, cfg.Qubits)
			if err != nil {
				return 0, fmt.Errorf("interleaved %s after gate %d: %w", interleave.Name, pos, err)
			}
		} else if err := applyUnitary(c, cfg, interleave.Gate); err != nil {
			return 0, fmt.Errorf("interleaved %s after gate %d: %w", interleave.Name, pos, err)
		}
		count++
	}
	return count, nil
}

func applyUnitary(c *circuit.Circuit, cfg Config, g linalg.Matrix) error {
	switch g.Dim() {
	case 2:
		return c.SU2(g, cfg.Qubits[0])
	case 4:
		return c.SU4(g, cfg.cross())
	}
	return fmt.Errorf("unsupported gate dimension %d", g.Dim())
}
