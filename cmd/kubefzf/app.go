// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/monadic/kubefzf/internal/colorize"
	"github.com/monadic/kubefzf/internal/config"
	"github.com/monadic/kubefzf/internal/dispatch"
	"github.com/monadic/kubefzf/internal/kubectl"
	"github.com/monadic/kubefzf/internal/logging"
	"github.com/monadic/kubefzf/internal/manifest"
	"github.com/monadic/kubefzf/internal/runner"
	"github.com/monadic/kubefzf/internal/selector"
	"github.com/monadic/kubefzf/internal/workspace"
)

// app holds the components of one invocation.
type app struct {
	cfg        config.Config
	logger     *log.Logger
	runner     runner.Runner
	dispatcher *dispatch.Dispatcher
}

// loadConfig reads the config file and applies the global flags on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if verbose {
		cfg.Verbose = true
	}
	if selectorFlag != "" {
		cfg.Selector = selectorFlag
	}
	if colorFlag != "" {
		cfg.Color = colorFlag
	}
	return cfg, cfg.Validate()
}

func newApp(cfg config.Config, stdout io.Writer, stderr io.Writer) *app {
	l := logging.New(stderr, logging.Options{
		Verbose: cfg.Verbose,
		NoColor: cfg.Color == config.ColorNever,
	})
	r := runner.NewExec(l)
	return wire(cfg, l, r, stdout)
}

// wire assembles the dispatcher around r. Tests pass a scripted runner.
func wire(cfg config.Config, l *log.Logger, r runner.Runner, stdout io.Writer) *app {
	sel := selector.New(selector.Options{
		Backend:    cfg.Selector,
		FzfBinary:  cfg.Fzf,
		FzfOptions: cfg.FzfOptions,
		Runner:     r,
	})

	var profileOut *os.File
	if f, ok := stdout.(*os.File); ok {
		profileOut = f
	}

	d := &dispatch.Dispatcher{
		Kubectl:   kubectl.New(cfg.Kubectl, r),
		Selector:  sel,
		Colorizer: colorize.New(colorize.Profile(cfg.Color, profileOut)),
		Manifests: &manifest.Handler{
			Kustomize:     cfg.Kustomize,
			Kubectl:       cfg.Kubectl,
			SecretsFilter: cfg.SecretsFilter,
			Markers:       cfg.KustomizationFiles,
			DefaultRoot:   cfg.ManifestRoot,
			Selector:      sel,
			Runner:        r,
			Logger:        l,
		},
		Workspaces: &workspace.Handler{
			Terraform: cfg.Terraform,
			Selector:  sel,
			Runner:    r,
			Logger:    l,
		},
		Logger:    l,
		Out:       stdout,
		KeepGoing: cfg.KeepGoing(),
		Context:   kubectl.CurrentContext,
	}
	return &app{cfg: cfg, logger: l, runner: r, dispatcher: d}
}
