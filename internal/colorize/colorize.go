// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package colorize recolors kubectl listings by row status before they are
// shown in the selector.
package colorize

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/monadic/kubefzf/internal/table"
)

// Class is the status bucket a row falls into.
type Class int

const (
	ClassAlert Class = iota
	ClassRunning
	ClassDone
	ClassPending
)

// Classify maps a pod STATUS value to its Class.
func Classify(status string) Class {
	switch status {
	case "Running":
		return ClassRunning
	case "Completed", "Succeeded":
		return ClassDone
	case "Pending", "ContainerCreating", "PodInitializing":
		return ClassPending
	default:
		return ClassAlert
	}
}

// Colorizer renders rows with one style per Class.
type Colorizer struct {
	styles map[Class]lipgloss.Style
}

// New returns a Colorizer rendering with the given color profile.
// termenv.Ascii disables color entirely.
func New(profile termenv.Profile) *Colorizer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	return &Colorizer{styles: map[Class]lipgloss.Style{
		ClassRunning: r.NewStyle().Foreground(lipgloss.Color("2")),
		ClassDone:    r.NewStyle().Foreground(lipgloss.Color("8")),
		ClassPending: r.NewStyle().Foreground(lipgloss.Color("3")),
		ClassAlert:   r.NewStyle().Foreground(lipgloss.Color("1")),
	}}
}

// Profile picks the color profile for a color mode ("auto", "always",
// "never"). Auto colors only when out is a terminal.
func Profile(mode string, out *os.File) termenv.Profile {
	switch mode {
	case "always":
		return termenv.ANSI256
	case "never":
		return termenv.Ascii
	}
	if out != nil && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
		return termenv.ANSI256
	}
	return termenv.Ascii
}

// Style returns the style used for a Class.
func (c *Colorizer) Style(class Class) lipgloss.Style {
	return c.styles[class]
}

// Colorize styles every data row of a pod listing by its STATUS column.
// The header row and listings of any other kind are returned unchanged. The
// result always has the same lines in the same order as listing.
func (c *Colorizer) Colorize(kind, listing string) string {
	if kind != "Pod" || listing == "" {
		return listing
	}

	lines := strings.Split(listing, "\n")
	header := table.Parse(lines[0])
	if !header.Has(table.ColumnStatus) {
		return listing
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		status, _ := header.Word(lines[i], table.ColumnStatus)
		lines[i] = c.styles[Classify(status)].Render(lines[i])
	}
	return strings.Join(lines, "\n")
}
