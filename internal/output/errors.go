package output

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fatih/color"

	"signa/internal/api"
	"signa/internal/session"
	"signa/internal/wizard"
)

// Exit codes.
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitUsageError  = 2
	ExitAPIError    = 3
	ExitConfigError = 4
	ExitAuthError   = 5
	ExitTransport   = 6
)

// CLIError is a structured error with user-facing context.
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
	Err        error
}

func (e *CLIError) Error() string { return e.Summary }

func (e *CLIError) Unwrap() error { return e.Err }

// FromError classifies err for display. A *CLIError is returned as is.
func FromError(err error) *CLIError {
	if err == nil {
		return nil
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var apiErr *api.Error
	switch {
	case errors.Is(err, session.ErrUnauthenticated):
		return &CLIError{
			Summary:    "you are not logged in",
			Suggestion: "run 'signa login' first",
			ExitCode:   ExitAuthError,
			Err:        err,
		}
	case errors.Is(err, wizard.ErrIncomplete):
		return &CLIError{Summary: err.Error(), ExitCode: ExitUsageError, Err: err}
	case errors.As(err, &apiErr):
		return fromAPIError(err, apiErr)
	}
	return &CLIError{Summary: err.Error(), ExitCode: ExitGeneral, Err: err}
}

func fromAPIError(err error, apiErr *api.Error) *CLIError {
	e := &CLIError{Summary: apiErr.Message, ExitCode: ExitAPIError, Err: err}
	switch apiErr.Kind {
	case api.KindTransport:
		e.Summary = "could not reach the Signa API"
		e.Detail = apiErr.Error()
		e.Suggestion = "check --api-url or SIGNA_API_URL"
		e.ExitCode = ExitTransport
	case api.KindDecode:
		e.Summary = "unexpected response from the Signa API"
		e.Detail = apiErr.Error()
	default:
		e.Detail = fmt.Sprintf("%s returned %d", apiErr.Op, apiErr.Status)
		if apiErr.Status == http.StatusUnauthorized {
			e.Suggestion = "your session may have expired; run 'signa login'"
			e.ExitCode = ExitAuthError
		}
	}
	return e
}

// FormatError prints a structured error message to the diagnostic writer.
func (p *Printer) FormatError(e *CLIError) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", e.Summary)
		if e.Detail != "" {
			color.New(color.Faint).Fprintf(p.err, "  %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			color.New(color.FgCyan).Fprintf(p.err, "  hint: %s\n", e.Suggestion)
		}
		return
	}
	fmt.Fprintf(p.err, "Error: %s\n", e.Summary)
	if e.Detail != "" {
		fmt.Fprintf(p.err, "  %s\n", e.Detail)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(p.err, "  hint: %s\n", e.Suggestion)
	}
}
