// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package runner starts the external tools kubefzf wraps. Every invocation is
// an explicit argument list; nothing is ever handed to a shell.
package runner

import (
	"context"
	"io"
	"strings"
)

// Command is one external process invocation.
type Command struct {
	Name string
	Args []string
}

// New builds a Command.
func New(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Argv returns the full argument vector including the program name.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command as a shell-quoted line. It is only used for
// logging.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, a := range c.Argv() {
		parts = append(parts, Quote(a))
	}
	return strings.Join(parts, " ")
}

// Runner executes commands.
type Runner interface {
	// Output runs cmd with stdin (may be nil) and returns its standard
	// output. Standard error goes to the user.
	Output(ctx context.Context, cmd Command, stdin io.Reader) ([]byte, error)

	// Run runs cmd attached to the user's terminal.
	Run(ctx context.Context, cmd Command) error

	// Pipe connects the standard output of each stage to the standard input
	// of the next. The last stage writes to the user's terminal.
	Pipe(ctx context.Context, stages ...Command) error
}

// Pipeline renders stages as "a | b | c" for logging.
func Pipeline(stages []Command) string {
	parts := make([]string, len(stages))
	for i, s := range stages {
		parts[i] = s.String()
	}
	return strings.Join(parts, " | ")
}

// Quote single-quotes s when it contains anything a POSIX shell would
// interpret.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:,@%+", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
