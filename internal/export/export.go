// Package export writes the task collection to files and reads it back.
//
// JSON and YAML exports carry a Document that Read accepts again; CSV and
// PDF are one-way reports. Read also accepts the bare task array stored
// under the tasks key, so a copied data file can be imported directly.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/matrix"
	"github.com/Iron-Ham/eisen/internal/task"
	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"
)

// Format identifies an export encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// DocumentVersion is written into every Document.
const DocumentVersion = 1

// Formats returns every format Write accepts.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatCSV, FormatPDF}
}

// ParseFormat parses a format name case-insensitively. "yml" is accepted
// for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", errors.NewValidationError("unknown export format").WithField("format").WithValue(s)
	}
}

// DetectFormat infers a format from a file extension.
func DetectFormat(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// Readable reports whether Read can decode f.
func (f Format) Readable() bool {
	return f == FormatJSON || f == FormatYAML
}

// Document is the exported form of a workspace.
type Document struct {
	Version    int         `json:"version" yaml:"version"`
	ExportedAt time.Time   `json:"exportedAt" yaml:"exportedAt"`
	Categories []string    `json:"categories,omitempty" yaml:"categories,omitempty"`
	Tasks      []task.Task `json:"tasks" yaml:"tasks"`
}

// NewDocument builds a Document stamped with now.
func NewDocument(tasks []task.Task, categories []string, now time.Time) Document {
	return Document{
		Version:    DocumentVersion,
		ExportedAt: now,
		Categories: categories,
		Tasks:      tasks,
	}
}

// Options controls report formats.
type Options struct {
	// Now is the instant quadrants are computed at.
	Now time.Time
	// Matrix tunes urgency for the PDF report.
	Matrix matrix.Options
	// PageSize is the PDF page size, "A4" or "Letter".
	PageSize string
	// Selected limits the PDF report to one category.
	Selected matrix.Selected
}

// Write encodes doc to w in format f.
func Write(w io.Writer, f Format, doc Document, opts Options) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, doc.Tasks, opts)
	case FormatPDF:
		return writePDF(w, doc, opts)
	default:
		return errors.NewValidationError("unknown export format").WithField("format").WithValue(string(f))
	}
}

var csvHeader = []string{"id", "title", "description", "isComplete", "dueDate", "priority", "category", "createdAt", "quadrant"}

func writeCSV(w io.Writer, tasks []task.Task, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format(time.RFC3339)
		}
		record := []string{
			t.ID,
			t.Title,
			t.Description,
			strconv.FormatBool(t.IsComplete),
			due,
			string(t.Priority),
			t.Category,
			t.CreatedAt.Format(time.RFC3339),
			matrix.QuadrantOf(t, opts.Now, opts.Matrix).String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePDF(w io.Writer, doc Document, opts Options) error {
	pageSize := opts.PageSize
	if pageSize == "" {
		pageSize = "A4"
	}

	pdf := gofpdf.New("P", "mm", pageSize, "")
	// Core fonts are cp1252; translate titles typed in UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	scope := "All categories"
	if opts.Selected.Set {
		scope = opts.Selected.Category
	}
	filtered := matrix.Filter(doc.Tasks, opts.Selected)
	qs := matrix.Bucket(filtered, opts.Now, opts.Matrix)

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Eisenhower Matrix")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("%s - %d tasks, %d%% complete - generated %s",
		scope, len(filtered), matrix.CompletionOf(filtered),
		opts.Now.Local().Format("Jan 2 2006, 03:04 PM"))))
	pdf.Ln(10)

	for _, q := range matrix.AllQuadrants() {
		bucket := qs.Get(q)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, tr(fmt.Sprintf("%s (%d)", q.Title(), len(bucket))))
		pdf.Ln(7)
		pdf.SetFont("Arial", "I", 9)
		pdf.Cell(0, 5, tr(q.Subtitle()))
		pdf.Ln(6)

		pdf.SetFont("Arial", "", 10)
		if len(bucket) == 0 {
			pdf.MultiCell(0, 6, "Nothing here", "0", "L", false)
		}
		for _, t := range bucket {
			mark := "[ ]"
			if t.IsComplete {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %s - %s - %s - %s",
				mark, t.Title, t.Priority, t.Category, task.FormatShortDate(t.DueDate))
			pdf.MultiCell(0, 6, tr(line), "0", "L", false)
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// Read decodes a Document written by Write, or a bare task array, from r.
// Imported tasks are validated and their categories normalized.
func Read(r io.Reader, f Format) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}

	var doc Document
	switch f {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if bytes.HasPrefix(trimmed, []byte("[")) {
			err = json.Unmarshal(trimmed, &doc.Tasks)
		} else {
			err = json.Unmarshal(trimmed, &doc)
		}
	case FormatYAML:
		var node yaml.Node
		if err = yaml.Unmarshal(data, &node); err == nil && isSequence(&node) {
			err = node.Decode(&doc.Tasks)
		} else if err == nil {
			err = node.Decode(&doc)
		}
	default:
		return Document{}, errors.NewValidationError("format cannot be imported").WithField("format").WithValue(string(f))
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to decode %s: %w", f, err)
	}

	if err := clean(doc.Tasks); err != nil {
		return Document{}, err
	}
	doc.Tasks = task.NormalizeCategories(doc.Tasks)
	return doc, nil
}

func isSequence(node *yaml.Node) bool {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	return node.Kind == yaml.SequenceNode
}

// clean rejects collections that would break store invariants and
// canonicalizes priorities in place.
func clean(tasks []task.Task) error {
	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		field := fmt.Sprintf("tasks[%d]", i)
		if t.ID == "" {
			return errors.NewValidationError("missing id").WithField(field)
		}
		if seen[t.ID] {
			return errors.NewValidationError("duplicate id").WithField(field).WithValue(t.ID)
		}
		seen[t.ID] = true
		p, err := task.ParsePriority(string(t.Priority))
		if err != nil {
			return errors.NewValidationError("unknown priority").WithField(field + ".priority").WithValue(string(t.Priority))
		}
		tasks[i].Priority = p
	}
	return nil
}
