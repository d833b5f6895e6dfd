// Package rb implements randomized benchmarking protocols: standard,
// interleaved, adjoint, unitarity and fast unitarity.
//
// Every protocol follows the same lifecycle:
//
//	Built ──Execute──▶ Executed ──Analyze──▶ Analyzed
//	  ▲                                          │
//	  └──────Build◀── Reset ◀────────────────────┘
//
// Building samples the random gate sequences, compiles one circuit per
// sequence from the configured template, and submits one job per circuit.
// Execute hands the job table to an executor and blocks until every result
// is set. Analyze groups results by sequence length and fits the decay
// models from package fit. Calling an operation out of order returns a
// *StateError.
//
// Every entry of the sequence list samples with the same seed, so a rerun
// reproduces every gate.
package rb
