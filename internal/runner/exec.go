// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
)

// Exec runs commands as child processes.
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger
}

// NewExec returns an Exec bound to the process's standard streams.
func NewExec(logger *log.Logger) *Exec {
	return &Exec{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
}

func (e *Exec) trace(kind string, line string) {
	if e.Logger != nil {
		e.Logger.Debug("exec", "mode", kind, "cmd", line)
	}
}

// Output implements Runner.
func (e *Exec) Output(ctx context.Context, cmd Command, stdin io.Reader) ([]byte, error) {
	e.trace("capture", cmd.String())

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	var stdout bytes.Buffer
	c.Stdin = stdin
	c.Stdout = &stdout
	c.Stderr = e.Stderr
	if err := c.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return stdout.Bytes(), nil
}

// Run implements Runner.
func (e *Exec) Run(ctx context.Context, cmd Command) error {
	e.trace("stream", cmd.String())

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Stdin = e.Stdin
	c.Stdout = e.Stdout
	c.Stderr = e.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return nil
}

// Pipe implements Runner. The returned error belongs to the first stage
// that failed.
func (e *Exec) Pipe(ctx context.Context, stages ...Command) error {
	if len(stages) == 0 {
		return errors.New("empty pipeline")
	}
	e.trace("pipe", Pipeline(stages))

	cmds := make([]*exec.Cmd, len(stages))
	for i, s := range stages {
		cmds[i] = exec.CommandContext(ctx, s.Name, s.Args...)
		cmds[i].Stderr = e.Stderr
	}
	cmds[0].Stdin = e.Stdin
	cmds[len(cmds)-1].Stdout = e.Stdout

	var parentEnds []*os.File
	closeAll := func() {
		for _, f := range parentEnds {
			f.Close()
		}
		parentEnds = nil
	}
	for i := 0; i < len(cmds)-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			closeAll()
			return fmt.Errorf("create pipe: %w", err)
		}
		cmds[i].Stdout = w
		cmds[i+1].Stdin = r
		parentEnds = append(parentEnds, r, w)
	}

	started := 0
	var startErr error
	for i, c := range cmds {
		if err := c.Start(); err != nil {
			startErr = fmt.Errorf("%s: %w", stages[i].Name, err)
			break
		}
		started++
	}
	// The children hold their own copies of the pipe ends.
	closeAll()

	if startErr != nil {
		for _, c := range cmds[:started] {
			_ = c.Process.Kill()
			_ = c.Wait()
		}
		return startErr
	}

	var firstErr error
	for i, c := range cmds {
		if err := c.Wait(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", stages[i].Name, err)
		}
	}
	return firstErr
}
