// Package circuit compiles logical gates onto interchangeable execution
// backends.
//
// A Layout fixes the integer index of every qubit and cross once. Backends
// implement four native capabilities (virtual-Z phase, Rx(π/2), the
// exp(-iπ/8·Z⊗X) cross-resonance interaction, reset) against those indices:
//
//   - Hardware appends opcode tokens to one stream per qubit and per cross.
//     Phases on a qubit are echoed onto every cross that targets it, and each
//     interaction tags its three streams with a shared trigger index.
//   - Simulation composes the same gates onto a state vector.
//   - Mitigated holds a Hardware and stretches every pulse by N idle waits
//     or N echo pairs.
//
// Circuit composes the native set into rotations, CNOT, state preparation,
// measurement rotation and arbitrary SU(2)/SU(4) gates. Templates build a
// fresh circuit per sequence so no state leaks between sequences.
//
// Token vocabulary (single-space separated):
//
//	Z<deg>          phase, degrees with six decimals
//	P0 HPI<q>       half rotation on qubit symbol q
//	T<n> WCR<c><t>  interaction, control stream
//	T<n> DCT<c><t>  interaction, target stream
//	T<n> DCR<c><t>  interaction, cross stream
//	WAIT<q>         idle padding (mitigated only)
package circuit
