// Package linalg provides the small dense complex matrix type shared by the
// decomposer, the simulation backend and the group samplers.
//
// Matrices are square, row-major and treated as values: every operation
// returns a fresh Matrix and never mutates its receiver. Only Set mutates.
//
// The gate constructors follow one convention throughout the module:
//
//	RZ(φ)  = diag(e^{-iφ/2}, e^{iφ/2})
//	RX(θ)  = exp(-iθX/2)
//	CNOT   = control on the first tensor factor
//
// Tensor products are written left to right, so Kron(a, b) places a on the
// most significant qubit.
package linalg
