// Package csvutil writes spreadsheet-friendly CSV.
package csvutil

import (
	"bufio"
	"io"
	"strings"
)

// BOM makes Excel detect UTF-8.
const BOM = "\ufeff"

// Writer emits every field double-quoted (embedded quotes doubled) with CRLF
// line endings. Unlike encoding/csv, quoting does not depend on content.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter writes the BOM to w and returns a Writer.
func NewWriter(w io.Writer) *Writer {
	cw := &Writer{w: bufio.NewWriter(w)}
	_, cw.err = cw.w.WriteString(BOM)
	return cw
}

// Write writes one record.
func (cw *Writer) Write(record []string) error {
	if cw.err != nil {
		return cw.err
	}
	for i, field := range record {
		if i > 0 {
			cw.w.WriteByte(',')
		}
		cw.w.WriteByte('"')
		cw.w.WriteString(strings.ReplaceAll(field, `"`, `""`))
		cw.w.WriteByte('"')
	}
	_, cw.err = cw.w.WriteString("\r\n")
	return cw.err
}

// Flush writes buffered data and returns the first error seen.
func (cw *Writer) Flush() error {
	if cw.err != nil {
		return cw.err
	}
	return cw.w.Flush()
}
