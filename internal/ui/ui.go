// Package ui prints command output to the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed)
	bold   = color.New(color.Bold)
)

// Printer writes formatted output to W.
type Printer struct {
	W io.Writer
}

// New returns a Printer for w, or stdout when w is nil.
func New(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{W: w}
}

// Header prints a section title underlined to its width.
func (p *Printer) Header(text string) {
	green.Fprintf(p.W, "\n%s\n%s\n", text, strings.Repeat("=", len([]rune(text))))
}

// Step prints a progress indicator.
func (p *Printer) Step(n, total int, text string) {
	yellow.Fprintf(p.W, "[%d/%d] %s\n", n, total, text)
}

// Success prints a success message.
func (p *Printer) Success(text string) {
	green.Fprintf(p.W, "  → %s\n", text)
}

// Info prints an info message.
func (p *Printer) Info(text string) {
	fmt.Fprintf(p.W, "  → %s\n", text)
}

// Warning prints a warning message.
func (p *Printer) Warning(text string) {
	yellow.Fprintf(p.W, "  ⚠ %s\n", text)
}

// Error prints an error message.
func (p *Printer) Error(text string) {
	red.Fprintf(p.W, "Error: %s\n", text)
}

// Table prints rows aligned in columns under a bold header.
func (p *Printer) Table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.W, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, bold.Sprint(strings.Join(header, "\t")))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

// EUR formats an amount as "1234.50 €".
func EUR(d decimal.Decimal) string {
	return d.StringFixed(2) + " €"
}

// Percent formats a percentage with one decimal.
func Percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}
