package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a command output format selected with -o.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json or yaml in any case. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format: %s (supported: text, json, yaml)", s)
	}
}

// Structured reports whether the format is meant for other programs.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Printer writes command results in one format. Text output is the
// command's table; json and yaml encode the record behind it.
type Printer struct {
	format Format
	w      io.Writer
}

// NewPrinter returns a printer for format writing to w.
func NewPrinter(format string, w io.Writer) (*Printer, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return &Printer{format: f, w: w}, nil
}

func (p *Printer) Format() Format {
	return p.format
}

// Print writes table for text output and data otherwise. A nil table
// prints nothing in text mode.
func (p *Printer) Print(data any, table *Table) error {
	if p.format == FormatText {
		return table.Write(p.w)
	}
	return p.encode(data)
}

// Value writes data with no table form. Text output falls back to yaml.
func (p *Printer) Value(data any) error {
	if s, ok := data.(fmt.Stringer); ok && p.format == FormatText {
		_, err := fmt.Fprintln(p.w, s.String())
		return err
	}
	return p.encode(data)
}

func (p *Printer) encode(data any) error {
	if p.format == FormatJSON {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}
