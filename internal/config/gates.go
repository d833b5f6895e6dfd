package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/qcal/internal/linalg"
)

var gates = map[string]func() linalg.Matrix{
	"I":    linalg.I2,
	"X":    linalg.PauliX,
	"Y":    linalg.PauliY,
	"Z":    linalg.PauliZ,
	"H":    linalg.Hadamard,
	"S":    linalg.SGate,
	"CNOT": linalg.CNOT,
	"CZ":   func() linalg.Matrix { return linalg.Diag(1, 1, 1, -1) },
	"SWAP": func() linalg.Matrix {
		return linalg.MustFromRows(
			[]complex128{1, 0, 0, 0},
			[]complex128{0, 0, 1, 0},
			[]complex128{0, 1, 0, 0},
			[]complex128{0, 0, 0, 1},
		)
	},
}

// Gate returns the named unitary. Names are case-insensitive.
func Gate(name string) (linalg.Matrix, error) {
	g, ok := gates[strings.ToUpper(name)]
	if !ok {
		names := make([]string, 0, len(gates))
		for n := range gates {
			names = append(names, n)
		}
		sort.Strings(names)
		return linalg.Matrix{}, fmt.Errorf("unknown gate %q (known: %s)", name, strings.Join(names, ", "))
	}
	return g(), nil
}
