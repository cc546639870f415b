// Package agent enriches detected music candidates with inferred metadata
// via pluggable strategies.
//
// Strategies live in a process-local registry: the no-op "heuristic"
// passthrough plus exec-backed strategies that shell out to an external
// text-generation CLI ("llm", "claude-code"). External strategies can join
// the registry through Register before the pipeline starts.
//
// Tool output is defensively reconciled against the original candidates:
// records match by candidate index or exact source text, anything else is
// dropped, and offsets always stay with the detector's values. Every
// failure mode degrades to returning the original candidates with a
// fallback reason, never an aborted run.
package agent
