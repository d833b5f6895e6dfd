package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qcal/internal/config"
	"github.com/roach88/qcal/internal/decompose"
	"github.com/roach88/qcal/internal/linalg"
)

// DecomposeOptions holds flags for the decompose command.
type DecomposeOptions struct {
	*RootOptions

	// Matrix is a JSON array of rows of [re, im] pairs, used instead of a
	// named gate.
	Matrix string
}

// DecomposeResult is the decompose payload. Exactly one of SU2 and SU4 is set.
type DecomposeResult struct {
	Gate     string            `json:"gate"`
	SU2      *decompose.Angles `json:"su2,omitempty"`
	SU4      *KAKResult        `json:"su4,omitempty"`
	Residual float64           `json:"residual"`
}

// KAKResult holds the interaction coefficients of a two-qubit gate.
type KAKResult struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Text renders the result for terminals.
func (r DecomposeResult) Text() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Gate) + "\n")
	if r.SU2 != nil {
		fmt.Fprintf(&b, "%s %.6f\n", keyStyle.Render("theta1"), r.SU2.Theta1)
		fmt.Fprintf(&b, "%s %.6f\n", keyStyle.Render("theta2"), r.SU2.Theta2)
		fmt.Fprintf(&b, "%s %.6f\n", keyStyle.Render("theta3"), r.SU2.Theta3)
	}
	if r.SU4 != nil {
		fmt.Fprintf(&b, "%s %.6f\n", keyStyle.Render("x"), r.SU4.X)
		fmt.Fprintf(&b, "%s %.6f\n", keyStyle.Render("y"), r.SU4.Y)
		fmt.Fprintf(&b, "%s %.6f\n", keyStyle.Render("z"), r.SU4.Z)
	}
	fmt.Fprintf(&b, "%s %.3g\n", dimStyle.Render("residual"), r.Residual)
	return b.String()
}

// NewDecomposeCommand creates the decompose command.
func NewDecomposeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecomposeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decompose [gate]",
		Short: "Decompose a gate into native rotations",
		Long: `Decompose a one- or two-qubit unitary.

One-qubit gates print the three phase angles of Rz·Rx90·Rz·Rx90·Rz.
Two-qubit gates print the KAK interaction coefficients (x, y, z).
The residual is the entry-wise distance between the gate and the
rebuilt unitary after removing global phase.

Example:
  qcal decompose H
  qcal decompose CNOT --format json
  qcal decompose --matrix '[[[0,0],[1,0]],[[1,0],[0,0]]]'`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompose(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Matrix, "matrix", "", "unitary as JSON rows of [re, im] pairs")

	return cmd
}

func runDecompose(cmd *cobra.Command, opts *DecomposeOptions, args []string) error {
	out := opts.formatter(cmd)

	var (
		name string
		m    linalg.Matrix
		err  error
	)
	switch {
	case opts.Matrix != "" && len(args) == 0:
		name = "matrix"
		m, err = parseMatrix(opts.Matrix)
	case opts.Matrix == "" && len(args) == 1:
		name = strings.ToUpper(args[0])
		m, err = config.Gate(args[0])
	default:
		err = fmt.Errorf("give either a gate name or --matrix")
	}
	if err != nil {
		_ = out.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid gate", err)
	}

	res, err := decomposeGate(name, m)
	if err != nil {
		return out.Fail(ExitFailure, "decomposition failed", err)
	}
	return out.Success(res)
}

func decomposeGate(name string, m linalg.Matrix) (DecomposeResult, error) {
	res := DecomposeResult{Gate: name}
	switch m.Dim() {
	case 2:
		a, err := decompose.SU2(m)
		if err != nil {
			return res, err
		}
		res.SU2 = &a
		res.Residual = decompose.Residual(m, a.Matrix())
	case 4:
		k, err := decompose.Decompose(m)
		if err != nil {
			return res, err
		}
		res.SU4 = &KAKResult{X: k.X, Y: k.Y, Z: k.Z}
		res.Residual = decompose.Residual(m, k.Layers().Matrix())
	default:
		return res, fmt.Errorf("gate must be 2x2 or 4x4, got %dx%d", m.Dim(), m.Dim())
	}
	return res, nil
}

func parseMatrix(s string) (linalg.Matrix, error) {
	var rows [][][2]float64
	if err := json.Unmarshal([]byte(s), &rows); err != nil {
		return linalg.Matrix{}, fmt.Errorf("parse --matrix: %w", err)
	}
	out := make([][]complex128, len(rows))
	for i, row := range rows {
		out[i] = make([]complex128, len(row))
		for j, v := range row {
			out[i][j] = complex(v[0], v[1])
		}
	}
	return linalg.FromRows(out)
}
