// Package executor provides job.Executor implementations: a noisy
// state-vector Simulator, a YAML-backed Replay and Recorder pair, and an
// Instrumented decorator that records dispatch metrics.
//
// Executors that receive raw counts normalise them with Normalize before
// setting a result, so every job ends up with probabilities summing to one.
package executor
