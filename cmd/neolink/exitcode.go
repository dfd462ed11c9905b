package main

import "errors"

// Exit codes match spec.md §6: 0 success, 1 config error, 2 connection or
// usage error.
const (
	exitSuccess = 0
	exitConfig  = 1
	exitUsage   = 2
)

// configError wraps a failure to load or validate the config file, or to
// find the requested camera within it.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func wrapConfigError(err error) error {
	if err == nil {
		return nil
	}
	return &configError{err}
}

// connError wraps a failure to dial, log in to, or command a camera.
type connError struct{ err error }

func (e *connError) Error() string { return e.err.Error() }
func (e *connError) Unwrap() error { return e.err }

func wrapConnError(err error) error {
	if err == nil {
		return nil
	}
	return &connError{err}
}

// exitCodeFor maps a command's returned error to spec.md §6's exit codes.
func exitCodeFor(err error) int {
	if err == nil {
		return exitSuccess
	}
	var cfgErr *configError
	if errors.As(err, &cfgErr) {
		return exitConfig
	}
	return exitUsage
}
