// Package decompose expresses arbitrary one- and two-qubit unitaries in the
// native gate set {Rz(φ), Rx(π/2), CNOT}.
//
// SU2 returns three phase angles for the pattern
//
//	Rz(θ1)·Rx(π/2)·Rz(θ2)·Rx(π/2)·Rz(θ3)
//
// (θ3 acts first). SU4 runs a KAK decomposition in the magic basis and
// returns four layers of single-qubit pairs that, interleaved with three
// CNOTs, reproduce the input up to global phase.
//
// Outputs are computed per call and never cached. Global phase is discarded
// everywhere.
package decompose
