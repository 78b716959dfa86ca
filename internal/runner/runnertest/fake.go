// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/monadic/kubefzf/internal/runner"
)

// Mode tells which Runner method produced a Call.
type Mode string

const (
	ModeOutput Mode = "output"
	ModeRun    Mode = "run"
	ModePipe   Mode = "pipe"
)

// Call is one recorded invocation.
type Call struct {
	Mode     Mode
	Commands []runner.Command
	Stdin    string
}

// Line renders the call the way it would be logged.
func (c Call) Line() string {
	return runner.Pipeline(c.Commands)
}

// ExitError mimics a child process exiting with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode matches (*exec.ExitError).ExitCode.
func (e *ExitError) ExitCode() int {
	return e.Code
}

type response struct {
	out string
	err error
}

// Fake records every call. Responses are keyed by the rendered command
// line (runner.Pipeline for pipes). Output calls without a scripted
// response fail; Run and Pipe calls succeed.
type Fake struct {
	mu        sync.Mutex
	calls     []Call
	responses map[string]response
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{responses: make(map[string]response)}
}

// On scripts the output of a command line.
func (f *Fake) On(line, out string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[line] = response{out: out}
	return f
}

// Fail scripts a non-zero exit for a command line.
func (f *Fake) Fail(line string, code int) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[line] = response{err: &ExitError{Code: code}}
	return f
}

// Calls returns the recorded calls in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Lines returns the rendered command lines of the recorded calls whose mode
// is one of modes (all calls when modes is empty).
func (f *Fake) Lines(modes ...Mode) []string {
	var lines []string
	for _, c := range f.Calls() {
		if len(modes) > 0 && !containsMode(modes, c.Mode) {
			continue
		}
		lines = append(lines, c.Line())
	}
	return lines
}

// Ran reports whether any call rendered to a line with the given prefix.
func (f *Fake) Ran(prefix string) bool {
	for _, l := range f.Lines() {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

func containsMode(modes []Mode, m Mode) bool {
	for _, x := range modes {
		if x == m {
			return true
		}
	}
	return false
}

func (f *Fake) record(mode Mode, stdin io.Reader, cmds ...runner.Command) (response, bool) {
	var in string
	if stdin != nil {
		b, _ := io.ReadAll(stdin)
		in = string(b)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Mode: mode, Commands: cmds, Stdin: in})
	r, ok := f.responses[runner.Pipeline(cmds)]
	return r, ok
}

// Output implements runner.Runner.
func (f *Fake) Output(_ context.Context, cmd runner.Command, stdin io.Reader) ([]byte, error) {
	r, ok := f.record(ModeOutput, stdin, cmd)
	if !ok {
		return nil, fmt.Errorf("runnertest: no response scripted for %q", cmd.String())
	}
	return []byte(r.out), r.err
}

// Run implements runner.Runner.
func (f *Fake) Run(_ context.Context, cmd runner.Command) error {
	r, _ := f.record(ModeRun, nil, cmd)
	return r.err
}

// Pipe implements runner.Runner.
func (f *Fake) Pipe(_ context.Context, stages ...runner.Command) error {
	r, _ := f.record(ModePipe, nil, stages...)
	return r.err
}

var _ runner.Runner = (*Fake)(nil)
