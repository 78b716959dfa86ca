// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package selector asks the user to pick one or more lines from a list.
//
// Two backends exist: Fzf pipes the candidates into an external fzf
// process, Builtin runs an in-process bubbletea picker. An aborted
// selection is an empty result, never an error.
package selector

import (
	"context"
	"os/exec"

	"github.com/charmbracelet/x/ansi"

	"github.com/monadic/kubefzf/internal/clierr"
	"github.com/monadic/kubefzf/internal/runner"
	"github.com/monadic/kubefzf/internal/textutil"
)

// Request describes one selection.
type Request struct {
	// Items are the candidate lines. The first HeaderLines of them are shown
	// as a fixed header and cannot be picked.
	Items       []string
	HeaderLines int
	// Header is the prompt shown above the candidates.
	Header string
	Multi  bool
}

// Candidates returns the pickable items.
func (r Request) Candidates() []string {
	if r.HeaderLines >= len(r.Items) {
		return nil
	}
	return r.Items[r.HeaderLines:]
}

// Headers returns the fixed header lines.
func (r Request) Headers() []string {
	if r.HeaderLines > len(r.Items) {
		return r.Items
	}
	return r.Items[:r.HeaderLines]
}

// Selector picks lines.
type Selector interface {
	Select(ctx context.Context, req Request) ([]string, error)
}

// Required turns an empty selection into a usage error naming what was
// being selected.
func Required(selected []string, what string) ([]string, error) {
	if len(selected) == 0 {
		return nil, clierr.Usage("nothing selected: no %s chosen", what)
	}
	return selected, nil
}

// Backend names accepted by New.
const (
	BackendAuto    = "auto"
	BackendFzf     = "fzf"
	BackendBuiltin = "builtin"
)

// Options configures New.
type Options struct {
	Backend    string
	FzfBinary  string
	FzfOptions []string
	Runner     runner.Runner
	// LookPath defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

// New returns the selector for a backend. "auto" uses fzf when it is on
// PATH and the builtin picker otherwise.
func New(opts Options) Selector {
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	bin := opts.FzfBinary
	if bin == "" {
		bin = "fzf"
	}
	fzf := &Fzf{Binary: bin, Options: opts.FzfOptions, Runner: opts.Runner}

	switch opts.Backend {
	case BackendFzf:
		return fzf
	case BackendBuiltin:
		return &Builtin{}
	}
	if _, err := lookPath(bin); err == nil {
		return fzf
	}
	return &Builtin{}
}

func cleanLines(out string) []string {
	var lines []string
	for _, l := range textutil.Lines(out) {
		l = ansi.Strip(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
