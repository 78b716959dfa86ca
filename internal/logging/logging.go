// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package logging builds the leveled logger kubefzf writes its own messages
// with. Output of the wrapped tools never goes through it.
package logging

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Options controls logger construction.
type Options struct {
	Verbose bool
	NoColor bool
}

// New returns a logger writing to w. Verbose enables debug tracing of every
// external invocation.
func New(w io.Writer, opts Options) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "kubefzf",
		ReportTimestamp: false,
		Level:           log.InfoLevel,
	})
	if opts.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	logger.SetStyles(styles(opts.NoColor))
	return logger
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func styles(noColor bool) *log.Styles {
	s := log.DefaultStyles()
	if noColor {
		for lvl, st := range s.Levels {
			s.Levels[lvl] = st.UnsetForeground()
		}
		return s
	}
	s.Levels[log.InfoLevel] = lipgloss.NewStyle().SetString("INFO").Bold(true).Foreground(lipgloss.Color("39"))
	s.Levels[log.WarnLevel] = lipgloss.NewStyle().SetString("WARN").Bold(true).Foreground(lipgloss.Color("214"))
	s.Levels[log.ErrorLevel] = lipgloss.NewStyle().SetString("ERROR").Bold(true).Foreground(lipgloss.Color("196"))
	s.Keys["cmd"] = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return s
}
