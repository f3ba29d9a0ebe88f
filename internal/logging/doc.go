// Package logging provides opt-in file logging with rotation for the objsearch
// CLI. With --debug, structured JSON logs are written to ~/.objsearch/logs/
// and can be read back with `objsearch logs`.
//
// Without --debug the CLI logs to stderr as text, at log.level.
package logging
