// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package dispatch maps a kubefzf command line onto one of three paths:
// a native command that lists resources and lets the user pick, a custom
// composite command, or a plain passthrough to kubectl.
package dispatch

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/monadic/kubefzf/internal/clierr"
	"github.com/monadic/kubefzf/internal/colorize"
	"github.com/monadic/kubefzf/internal/kubectl"
	"github.com/monadic/kubefzf/internal/selector"
)

// CompositeHandler runs one family of custom commands.
type CompositeHandler interface {
	Run(ctx context.Context, command string, args []string) error
}

// Dispatcher routes one invocation.
type Dispatcher struct {
	Kubectl    *kubectl.Client
	Selector   selector.Selector
	Colorizer  *colorize.Colorizer
	Manifests  CompositeHandler
	Workspaces CompositeHandler
	Logger     *log.Logger
	// Out receives decoded secret values.
	Out io.Writer
	// KeepGoing continues with the remaining selected resources after a
	// sub-invocation fails.
	KeepGoing bool
	// Context reports the active kubeconfig context for selector prompts.
	Context func() kubectl.KubeContext
}

func (d *Dispatcher) out() io.Writer {
	if d.Out == nil {
		return os.Stdout
	}
	return d.Out
}

func (d *Dispatcher) kubeContext() kubectl.KubeContext {
	if d.Context == nil {
		return kubectl.KubeContext{}
	}
	return d.Context()
}

// Run dispatches args, where args[0] is the command. The returned error
// carries the exit status (see clierr.ExitCode).
func (d *Dispatcher) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return clierr.Usage("missing command (run kubefzf commands to list them)")
	}

	cmd, behavior, ok := Lookup(args[0])
	if !ok {
		d.Logger.Warn("not a kubefzf command, passing through to kubectl", "command", args[0])
		return d.passthrough(ctx, args)
	}

	switch behavior.Family {
	case FamilyManifest:
		return d.composite(ctx, d.Manifests, cmd, args[1:])
	case FamilyWorkspace:
		return d.composite(ctx, d.Workspaces, cmd, args[1:])
	}

	req, err := ParseArgs(args[1:], behavior.SubAction)
	if err != nil {
		return err
	}
	if behavior.SubAction && req.Action == "" {
		return clierr.Usage("missing %s sub-command (e.g. kubefzf %s restart deployments)", cmd, cmd)
	}
	if req.Resource == "" {
		return clierr.Usage("missing resource type for %s (e.g. kubefzf %s pods)", cmd, cmd)
	}
	return d.runResource(ctx, cmd, behavior, req)
}

func (d *Dispatcher) composite(ctx context.Context, h CompositeHandler, cmd Command, args []string) error {
	if h == nil {
		return clierr.Usage("%s is not available", cmd)
	}
	return h.Run(ctx, string(cmd), args)
}

func (d *Dispatcher) passthrough(ctx context.Context, args []string) error {
	invocation := d.Kubectl.Command(args...)
	d.Logger.Info("running", "cmd", invocation.String())
	return d.Kubectl.Runner.Run(ctx, invocation)
}
