package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/AnatoleLucet/incr/internal/graphdef"
)

// Process exit codes of the incr command.
const (
	ExitOK      = 0
	ExitInvalid = 1 // the graph definition was rejected
	ExitUsage   = 2 // the file could not be read or the flags were wrong
)

// exitError carries the exit code a failed command should end the process with.
type exitError struct {
	code int
	op   string
	err  error
}

func (e *exitError) Error() string { return e.op + ": " + e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, op string, err error) error {
	return &exitError{code: code, op: op, err: err}
}

// ExitCode maps an error returned by Execute to a process exit code.
// Errors that carry no code, such as cobra's flag errors, count as usage errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitUsage
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

func (f *OutputFormatter) Results(results []graphdef.Result) error {
	if f.Format == "json" {
		return f.json(results)
	}

	for _, r := range results {
		if _, err := fmt.Fprintln(f.Writer, r.String()); err != nil {
			return err
		}
	}
	return nil
}

func (f *OutputFormatter) Validation(res ValidationResult) error {
	if f.Format == "json" {
		return f.json(res)
	}

	if res.Valid {
		_, err := fmt.Fprintln(f.Writer, "ok")
		return err
	}

	for _, msg := range res.Errors {
		if _, err := fmt.Fprintln(f.Writer, msg); err != nil {
			return err
		}
	}
	return nil
}

func (f *OutputFormatter) json(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
