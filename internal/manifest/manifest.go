// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package manifest implements the kustomize command family: pick a
// kustomization folder, build it and optionally pipe the result through a
// secrets filter and into kubectl apply or delete.
package manifest

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/monadic/kubefzf/internal/clierr"
	"github.com/monadic/kubefzf/internal/runner"
	"github.com/monadic/kubefzf/internal/selector"
)

// Variant describes one command of the family.
type Variant struct {
	// Secrets inserts the secrets filter after the build stage.
	Secrets bool
	// Verb is the kubectl verb fed from stdin ("apply", "delete"), or
	// empty to print the built manifests.
	Verb string
}

var variants = map[string]Variant{
	"kb":  {},
	"ka":  {Verb: "apply"},
	"kd":  {Verb: "delete"},
	"kbv": {Secrets: true},
	"kav": {Secrets: true, Verb: "apply"},
	"kdv": {Secrets: true, Verb: "delete"},
}

// Lookup returns the variant for a command name.
func Lookup(name string) (Variant, bool) {
	v, ok := variants[name]
	return v, ok
}

// Handler runs the kustomize family.
type Handler struct {
	Kustomize string
	Kubectl   string
	// SecretsFilter is the argv of the filter used by the *v variants.
	SecretsFilter []string
	Markers       []string
	// DefaultRoot is searched when no root argument is given.
	DefaultRoot string
	Selector    selector.Selector
	Runner      runner.Runner
	Logger      *log.Logger
}

// Run executes the named command. args is an optional root directory
// followed by extra arguments for the final pipeline stage.
func (h *Handler) Run(ctx context.Context, name string, args []string) error {
	v, ok := Lookup(name)
	if !ok {
		return clierr.Usage("unknown kustomize command %q", name)
	}

	root, extra := splitRoot(h.DefaultRoot, args)
	folders, err := Discover(root, h.Markers)
	if err != nil {
		return err
	}
	h.Logger.Debug("found kustomizations", "root", root, "count", len(folders))

	picked, err := h.Selector.Select(ctx, selector.Request{
		Items:  folders,
		Header: fmt.Sprintf("Select kustomization to %s", v.action()),
		Multi:  true,
	})
	if err != nil {
		return err
	}
	if picked, err = selector.Required(picked, "kustomization"); err != nil {
		return err
	}
	if len(picked) > 1 {
		h.Logger.Warn("using the first selected kustomization", "folder", picked[0], "selected", len(picked))
	}

	stages, err := h.Stages(v, picked[0], extra)
	if err != nil {
		return err
	}
	h.Logger.Info("running", "cmd", runner.Pipeline(stages))
	if len(stages) == 1 {
		return h.Runner.Run(ctx, stages[0])
	}
	return h.Runner.Pipe(ctx, stages...)
}

// Stages builds the pipeline for folder. extra is appended to the last stage.
func (h *Handler) Stages(v Variant, folder string, extra []string) ([]runner.Command, error) {
	stages := []runner.Command{runner.New(orDefault(h.Kustomize, "kustomize"), "build", folder)}

	if v.Secrets {
		if len(h.SecretsFilter) == 0 {
			return nil, clierr.Usage("no secrets filter configured (set secrets_filter in the config file)")
		}
		stages = append(stages, runner.New(h.SecretsFilter[0], append([]string(nil), h.SecretsFilter[1:]...)...))
	}
	if v.Verb != "" {
		stages = append(stages, runner.New(orDefault(h.Kubectl, "kubectl"), v.Verb, "-f", "-"))
	}

	last := &stages[len(stages)-1]
	last.Args = append(last.Args, extra...)
	return stages, nil
}

func (v Variant) action() string {
	if v.Verb == "" {
		return "build"
	}
	return v.Verb
}

// splitRoot takes the leading non-flag argument as the search root.
func splitRoot(fallback string, args []string) (string, []string) {
	root := fallback
	if len(args) > 0 && args[0] != "--" && !strings.HasPrefix(args[0], "-") {
		root, args = args[0], args[1:]
	}
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	return root, args
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
