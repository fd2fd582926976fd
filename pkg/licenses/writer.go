package licenses

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"gopkg.in/yaml.v3"
)

// Record is one reported dependency.
type Record struct {
	Package string `json:"package" yaml:"package"`
	License string `json:"license" yaml:"license"`
}

// Format selects the report output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format name. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected text, json, yaml or markdown)", s)
	}
}

// Writer receives records as they are resolved.
//
// Streaming writers emit on Add; structured writers collect and emit the
// whole document on Flush.
type Writer interface {
	Add(rec Record) error
	Flush() error
}

// NewWriter returns the Writer for format, writing to out.
func NewWriter(format Format, out io.Writer) (Writer, error) {
	switch format {
	case FormatText, "":
		return &TextWriter{out: out}, nil
	case FormatJSON:
		return &JSONWriter{collector: collector{out: out}}, nil
	case FormatYAML:
		return &YAMLWriter{collector: collector{out: out}}, nil
	case FormatMarkdown:
		return &MarkdownWriter{collector: collector{out: out}}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// TextWriter prints one "<name>: <license>" line per record.
type TextWriter struct {
	out io.Writer
}

func (w *TextWriter) Add(rec Record) error {
	if _, err := fmt.Fprintf(w.out, "%s: %s\n", rec.Package, rec.License); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (w *TextWriter) Flush() error { return nil }

type collector struct {
	out     io.Writer
	records []Record
}

func (c *collector) Add(rec Record) error {
	c.records = append(c.records, rec)
	return nil
}

func (c *collector) all() []Record {
	if c.records == nil {
		return []Record{}
	}
	return c.records
}

// JSONWriter prints a single pretty-printed array.
type JSONWriter struct {
	collector
}

func (w *JSONWriter) Flush() error {
	enc := json.NewEncoder(w.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(w.all()); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}

// YAMLWriter prints a YAML sequence of records.
type YAMLWriter struct {
	collector
}

func (w *YAMLWriter) Flush() error {
	enc := yaml.NewEncoder(w.out)
	enc.SetIndent(2)
	if err := enc.Encode(w.all()); err != nil {
		return fmt.Errorf("failed to write YAML output: %w", err)
	}
	return enc.Close()
}

// MarkdownWriter prints a Package | License table.
type MarkdownWriter struct {
	collector
}

func (w *MarkdownWriter) Flush() error {
	rows := make([][]string, 0, len(w.records))
	for _, rec := range w.records {
		rows = append(rows, []string{"`" + escapeCell(rec.Package) + "`", escapeCell(rec.License)})
	}

	md := markdown.NewMarkdown(w.out)
	md.H1("Dependency Licenses")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Package", "License"},
		Rows:   rows,
	})
	if err := md.Build(); err != nil {
		return fmt.Errorf("failed to write markdown output: %w", err)
	}
	return nil
}

// escapeCell keeps a pipe inside a value from splitting the table row.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
