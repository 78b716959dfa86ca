// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package table locates named columns in the tabular text printed by kubectl
// and extracts cell values from data rows.
//
// A Header is built once per listing from its first line. kubectl separates
// columns with at least two spaces, which lets titles such as "NOMINATED NODE"
// stay a single column. Headers without any double space fall back to
// single-whitespace separation.
package table

import (
	"strings"

	"github.com/monadic/kubefzf/internal/textutil"
)

// Well-known column titles.
const (
	ColumnName      = "NAME"
	ColumnNamespace = "NAMESPACE"
	ColumnStatus    = "STATUS"
)

// Column is one titled column of a header line.
type Column struct {
	Name  string
	Start int // byte offset of the title in the header line
}

// Header is the column-index table for one listing.
type Header struct {
	line    string
	columns []Column
}

// Parse builds the column table for a header line.
func Parse(line string) *Header {
	h := &Header{line: line}
	wide := strings.Contains(strings.TrimSpace(line), "  ")

	i := 0
	for i < len(line) {
		if isBlank(line[i]) {
			i++
			continue
		}
		start := i
		for i < len(line) && !columnBreak(line, i, wide) {
			i++
		}
		h.columns = append(h.columns, Column{Name: line[start:i], Start: start})
	}
	return h
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}

func columnBreak(line string, i int, wide bool) bool {
	if !isBlank(line[i]) {
		return false
	}
	if !wide || line[i] == '\t' {
		return true
	}
	return i+1 == len(line) || isBlank(line[i+1])
}

// Columns returns the columns in header order.
func (h *Header) Columns() []Column {
	return h.columns
}

// Names returns the column titles in header order.
func (h *Header) Names() []string {
	names := make([]string, len(h.columns))
	for i, c := range h.columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the word position of the named column, or
// textutil.NotFound.
func (h *Header) Index(name string) int {
	return textutil.IndexOf(name, h.Names())
}

// Has reports whether the header carries the named column.
func (h *Header) Has(name string) bool {
	return h.Index(name) != textutil.NotFound
}

// Offset returns the byte offset of the named column title, or
// textutil.NotFound.
func (h *Header) Offset(name string) int {
	idx := h.Index(name)
	if idx == textutil.NotFound {
		return textutil.NotFound
	}
	return h.columns[idx].Start
}

// Word returns the value of the named column by word position. It is
// accurate for columns whose cells never contain blanks and are never empty,
// which holds for NAME, NAMESPACE and STATUS in kubectl listings.
func (h *Header) Word(row, name string) (string, bool) {
	idx := h.Index(name)
	if idx == textutil.NotFound {
		return "", false
	}
	fields := strings.Fields(row)
	if idx >= len(fields) {
		return "", false
	}
	return fields[idx], true
}

// Cell returns the value of the named column by slicing the row between the
// column's offset and the next column's offset. Empty cells come back as ""
// with ok set, so it suits aligned output with optional columns.
func (h *Header) Cell(row, name string) (string, bool) {
	idx := h.Index(name)
	if idx == textutil.NotFound {
		return "", false
	}
	start := h.columns[idx].Start
	if start >= len(row) {
		return "", true
	}
	end := len(row)
	if idx+1 < len(h.columns) && h.columns[idx+1].Start < end {
		end = h.columns[idx+1].Start
	}
	return strings.TrimSpace(row[start:end]), true
}

// Split separates a listing into its header line and data rows. Blank rows
// are dropped.
func Split(listing string) (string, []string) {
	lines := textutil.Lines(listing)
	if len(lines) == 0 {
		return "", nil
	}
	var rows []string
	for _, l := range lines[1:] {
		if strings.TrimSpace(l) != "" {
			rows = append(rows, l)
		}
	}
	return lines[0], rows
}
