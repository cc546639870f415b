// Package services defines shared utilities consumed by the linking
// pipeline and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp document paths, agent names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across resolvers and agents.
//
// Use these helpers when wiring new pipeline logic so operational
// behaviour (error handling, observability, retries) stays uniform.
package services
