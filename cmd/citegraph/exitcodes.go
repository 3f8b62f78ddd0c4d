package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // Usage error or runtime failure (including a failed extraction)
	ExitConfigError = 2 // Configuration error (unreadable or invalid config, bad manifest path)
	ExitDataError   = 3 // Data error (malformed bibliography, unreadable TeX document)
)
