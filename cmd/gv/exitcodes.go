package main

import "os"

// Exit codes shared by every command.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // No site found, unreadable or invalid config
	ExitDataError   = 3 // Malformed articles.jsonl, validation failure
	ExitNotFound    = 4 // Article or reference does not exist
)

// exitWithCode flushes the logger and exits with code.
func exitWithCode(code int) {
	_ = logger.Sync()
	os.Exit(code)
}
