// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireTools skips the test when a POSIX tool is missing.
func requireTools(t *testing.T, names ...string) {
	t.Helper()
	for _, n := range names {
		if _, err := exec.LookPath(n); err != nil {
			t.Skipf("PRECONDITION: %s not installed", n)
		}
	}
}

func TestExecOutput(t *testing.T) {
	requireTools(t, "cat")

	e := &Exec{Stderr: &bytes.Buffer{}}
	out, err := e.Output(context.Background(), New("cat"), strings.NewReader("web\napi\n"))
	require.NoError(t, err)
	assert.Equal(t, "web\napi\n", string(out))
}

func TestExecRun_ExitCode(t *testing.T) {
	requireTools(t, "sh")

	e := &Exec{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	err := e.Run(context.Background(), New("sh", "-c", "exit 3"))
	require.Error(t, err)

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.ExitCode())
}

func TestExecPipe(t *testing.T) {
	requireTools(t, "printf", "tr")

	var stdout bytes.Buffer
	e := &Exec{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	err := e.Pipe(context.Background(),
		New("printf", "kind: Deployment\n"),
		New("tr", "a-z", "A-Z"),
	)
	require.NoError(t, err)
	assert.Equal(t, "KIND: DEPLOYMENT\n", stdout.String())
}

func TestExecPipe_FirstFailureWins(t *testing.T) {
	requireTools(t, "sh", "cat")

	var stdout bytes.Buffer
	e := &Exec{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	err := e.Pipe(context.Background(),
		New("sh", "-c", "exit 4"),
		New("cat"),
	)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "sh:"))

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 4, exitErr.ExitCode())
}

func TestExecPipe_Empty(t *testing.T) {
	e := &Exec{}
	assert.Error(t, e.Pipe(context.Background()))
}
