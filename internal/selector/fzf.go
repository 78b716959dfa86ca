// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package selector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/monadic/kubefzf/internal/runner"
)

// fzf exit statuses that mean "nothing picked".
const (
	fzfNoMatch     = 1
	fzfInterrupted = 130
)

// Fzf runs the external fzf binary.
type Fzf struct {
	Binary  string
	Options []string
	Runner  runner.Runner
}

// Args returns the fzf arguments for req.
func (f *Fzf) Args(req Request) []string {
	args := []string{"--ansi"}
	if req.Header != "" {
		args = append(args, "--header", req.Header)
	}
	if req.HeaderLines > 0 {
		args = append(args, fmt.Sprintf("--header-lines=%d", req.HeaderLines))
	}
	if req.Multi {
		args = append(args, "--multi")
	} else {
		args = append(args, "--no-multi")
	}
	return append(args, f.Options...)
}

// Select implements Selector.
func (f *Fzf) Select(ctx context.Context, req Request) ([]string, error) {
	if len(req.Candidates()) == 0 {
		return nil, nil
	}
	stdin := strings.NewReader(strings.Join(req.Items, "\n") + "\n")
	out, err := f.Runner.Output(ctx, runner.New(f.Binary, f.Args(req)...), stdin)
	if err != nil {
		var ec interface{ ExitCode() int }
		if errors.As(err, &ec) && (ec.ExitCode() == fzfNoMatch || ec.ExitCode() == fzfInterrupted) {
			return nil, nil
		}
		return nil, fmt.Errorf("run selector: %w", err)
	}
	return cleanLines(string(out)), nil
}
