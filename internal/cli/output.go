package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/garnizeh/rentals/internal/seed"
	"github.com/garnizeh/rentals/pkg/models"
	"github.com/garnizeh/rentals/pkg/repository"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected input: validation, duplicate, unknown record or user
	ExitCommandError = 2 // Config, database or store failure
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Store failures map to
// ExitCommandError, anything else to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if repository.KindOf(err) != "" {
		return ExitCommandError
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

func (f *OutputFormatter) json(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Properties prints a listing table.
func (f *OutputFormatter) Properties(props []models.Property) error {
	if f.Format == "json" {
		return f.json(props)
	}
	if len(props) == 0 {
		_, err := fmt.Fprintln(f.Writer, "no properties")
		return err
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tBEDROOMS\tRENT\tFURNITURE\tDATE\tREPORTER")
	for _, p := range props {
		furniture := string(p.FurnitureTypes)
		if furniture == "" {
			furniture = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%s\n",
			p.ID, p.PropertyType, p.Bedrooms, p.MonthlyRentPrice, furniture, p.DateTime, p.ReporterName)
	}
	return tw.Flush()
}

// Property prints every field of one listing.
func (f *OutputFormatter) Property(p *models.Property) error {
	if f.Format == "json" {
		return f.json(p)
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "id:\t%d\n", p.ID)
	fmt.Fprintf(tw, "type:\t%s\n", p.PropertyType)
	fmt.Fprintf(tw, "bedrooms:\t%d\n", p.Bedrooms)
	fmt.Fprintf(tw, "date:\t%s\n", p.DateTime)
	fmt.Fprintf(tw, "rent:\t%d\n", p.MonthlyRentPrice)
	fmt.Fprintf(tw, "furniture:\t%s\n", p.FurnitureTypes)
	fmt.Fprintf(tw, "reporter:\t%s\n", p.ReporterName)
	fmt.Fprintf(tw, "notes:\t%s\n", p.Notes)
	fmt.Fprintf(tw, "description:\t%s\n", p.Description)
	fmt.Fprintf(tw, "image:\t%s\n", p.Image)
	return tw.Flush()
}

// User prints a user without its password hash.
func (f *OutputFormatter) User(u *models.User) error {
	if f.Format == "json" {
		return f.json(u)
	}
	state := "logged out"
	if u.IsLoggedIn {
		state = "logged in"
	}
	_, err := fmt.Fprintf(f.Writer, "%s (id %d, %s)\n", u.Username, u.ID, state)
	return err
}

// Seed prints the counts of an import.
func (f *OutputFormatter) Seed(res seed.Result) error {
	if f.Format == "json" {
		return f.json(res)
	}
	_, err := fmt.Fprintf(f.Writer, "imported %d, skipped %d\n", res.Inserted, res.Skipped)
	return err
}

// Message prints a one-line confirmation.
func (f *OutputFormatter) Message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if f.Format == "json" {
		return f.json(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(f.Writer, msg)
	return err
}
