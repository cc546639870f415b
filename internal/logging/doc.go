// Package logging constructs the process logger and standardizes the
// structured fields stamped on pipeline log records.
//
// The logger is built once at CLI entry from config and passed down;
// components never touch process-wide logging state. Console (text) and
// JSON output go to stderr so document output on stdout stays clean.
package logging
