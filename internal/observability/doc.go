// Package observability owns the process-wide zap logger: a console or JSON
// encoder on stderr, optionally teed to a rotating JSON file.
package observability
