// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package workspace implements the terraform command family: pick a
// workspace, switch to it and run plan, apply or destroy, or delete it.
package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/monadic/kubefzf/internal/clierr"
	"github.com/monadic/kubefzf/internal/runner"
	"github.com/monadic/kubefzf/internal/selector"
	"github.com/monadic/kubefzf/internal/textutil"
)

// Default is the workspace terraform always has. It cannot be deleted.
const Default = "default"

// Action is what a command does once the workspace is selected.
type Action string

const (
	ActionPlan    Action = "plan"
	ActionApply   Action = "apply"
	ActionDestroy Action = "destroy"
	ActionDelete  Action = "delete"
)

var actions = map[string]Action{
	"tfp":  ActionPlan,
	"tfa":  ActionApply,
	"tfd":  ActionDestroy,
	"tfwd": ActionDelete,
}

// Lookup returns the action for a command name.
func Lookup(name string) (Action, bool) {
	a, ok := actions[name]
	return a, ok
}

// Handler runs the terraform family.
type Handler struct {
	Terraform string
	Selector  selector.Selector
	Runner    runner.Runner
	Logger    *log.Logger
}

func (h *Handler) command(args ...string) runner.Command {
	bin := h.Terraform
	if bin == "" {
		bin = "terraform"
	}
	return runner.New(bin, args...)
}

// ParseList returns the workspace names of `terraform workspace list`
// output with the current-workspace marker removed.
func ParseList(out string) []string {
	var names []string
	for _, line := range textutil.Lines(out) {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// List returns the workspaces of the current directory. Having none is a
// usage error.
func (h *Handler) List(ctx context.Context) ([]string, error) {
	out, err := h.Runner.Output(ctx, h.command("workspace", "list"), nil)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	names := ParseList(string(out))
	if len(names) == 0 {
		return nil, clierr.Usage("no terraform workspace found")
	}
	return names, nil
}

// Run executes the named command. args are forwarded to the action.
func (h *Handler) Run(ctx context.Context, name string, args []string) error {
	action, ok := Lookup(name)
	if !ok {
		return clierr.Usage("unknown terraform command %q", name)
	}
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}

	names, err := h.List(ctx)
	if err != nil {
		return err
	}
	picked, err := h.Selector.Select(ctx, selector.Request{
		Items:  names,
		Header: fmt.Sprintf("Select workspace to %s", action),
	})
	if err != nil {
		return err
	}
	if picked, err = selector.Required(picked, "workspace"); err != nil {
		return err
	}
	ws := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(picked[0]), "*"))

	var steps []runner.Command
	switch action {
	case ActionDelete:
		if ws == Default {
			return clierr.Usage("the %s workspace cannot be deleted", Default)
		}
		steps = []runner.Command{
			h.command("workspace", "select", Default),
			h.command(append([]string{"workspace", "delete", ws}, args...)...),
		}
	default:
		steps = []runner.Command{
			h.command("workspace", "select", ws),
			h.command(append([]string{string(action)}, args...)...),
		}
	}

	for _, step := range steps {
		h.Logger.Info("running", "cmd", step.String(), "workspace", ws)
		if err := h.Runner.Run(ctx, step); err != nil {
			return err
		}
	}
	return nil
}
