// Package logging provides a simple leveled logging interface for the
// OpenTraceFX tools.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level comes from the LOG_LEVEL or DEBUG environment variables
// unless SetLevel is called first. A Sink may mirror every emitted line,
// which the editor uses for its log pane.
package logging
