// Package cli provides output helpers for the yosoku command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/yosoku/internal/models"
)

// OutputFormat is the format of command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unknown output format %q; use text or json", s)
}

// WriteScoreResult writes an exam score result to w in the given format.
func WriteScoreResult(w io.Writer, res *models.ScoreResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, res)
	}
	_, err := fmt.Fprintf(w, "%s\n", res.Display)
	return err
}

// WriteClassResult writes a personality result and its probability table to w.
func WriteClassResult(w io.Writer, res *models.ClassResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, res)
	}
	fmt.Fprintf(w, "%s\n\n", res.Display)
	width := len("Category")
	for _, p := range res.Probabilities {
		width = max(width, len(p.Label))
	}
	fmt.Fprintf(w, "%-*s  %s\n", width, "Category", "Probability")
	fmt.Fprintf(w, "%s  %s\n", strings.Repeat("─", width), strings.Repeat("─", len("Probability")))
	for _, p := range res.Probabilities {
		fmt.Fprintf(w, "%-*s  %.4f\n", width, p.Label, p.Probability)
	}
	return nil
}

// WriteModels writes the served apps and their artifacts to w.
func WriteModels(w io.Writer, resp *models.ModelsResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, resp)
	}
	if len(resp.Apps) == 0 {
		fmt.Fprintln(w, "No apps enabled.")
		return nil
	}
	for _, app := range resp.Apps {
		fmt.Fprintf(w, "%s (%s)\n", app.Title, app.Name)
		fmt.Fprintf(w, "  Contract: %s, %d features\n", app.Contract, len(app.Features))
		fmt.Fprintf(w, "  Model:    %s %s\n", app.Model.Format, app.Model.Path)
		if app.Scaler != nil {
			fmt.Fprintf(w, "  Scaler:   %s %s\n", app.Scaler.Kind, app.Scaler.Path)
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
