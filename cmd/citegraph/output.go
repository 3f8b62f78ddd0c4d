package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/citegraph/citegraph/internal/config"
	"github.com/citegraph/citegraph/internal/graph"
)

// usageLine is printed after every usage error.
const usageLine = "Usage: citegraph BIBTEX-FILE PDF-DIRECTORY [TEX-DOCUMENT]"

// usageError is an invalid invocation.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newUsageError(format string, args ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// configError wraps failures to load or validate configuration.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }

func (e *configError) Unwrap() error { return e.err }

// outputJSON writes a value as formatted JSON to w.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reportError writes err to stderr and returns the process exit code.
func reportError(err error) int {
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		if usageErr.msg != "" {
			fmt.Fprintln(os.Stderr, usageErr.msg)
		}
		fmt.Fprintln(os.Stderr, usageLine)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "error: %s\n", err)

	var cfgErr *configError
	var inErr *graph.InputError
	switch {
	case errors.As(err, &cfgErr), errors.Is(err, config.ErrInvalid):
		return ExitConfigError
	case errors.As(err, &inErr):
		return ExitDataError
	}
	return ExitError
}
