// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package config loads kubefzf settings from an optional YAML or TOML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Selector backends.
const (
	SelectorAuto    = "auto"
	SelectorFzf     = "fzf"
	SelectorBuiltin = "builtin"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	defaultConfigPath = "~/.config/kubefzf/config.yaml"
	defaultSecretsCmd = "argocd-vault-plugin generate -"
)

// Config is the effective configuration for one invocation.
type Config struct {
	Kubectl   string `yaml:"kubectl" toml:"kubectl"`
	Kustomize string `yaml:"kustomize" toml:"kustomize"`
	Terraform string `yaml:"terraform" toml:"terraform"`
	Fzf       string `yaml:"fzf" toml:"fzf"`

	// SecretsFilter is the argv of the filter that injects secrets into
	// built manifests, for kbv/kav/kdv.
	SecretsFilter []string `yaml:"secrets_filter" toml:"secrets_filter"`

	Selector   string   `yaml:"selector" toml:"selector"`
	FzfOptions []string `yaml:"fzf_options" toml:"fzf_options"`
	Color      string   `yaml:"color" toml:"color"`

	ManifestRoot       string   `yaml:"manifest_root" toml:"manifest_root"`
	KustomizationFiles []string `yaml:"kustomization_files" toml:"kustomization_files"`

	// ContinueOnError keeps processing the remaining selected resources
	// after one sub-invocation fails.
	ContinueOnError *bool `yaml:"continue_on_error" toml:"continue_on_error"`

	Verbose bool `yaml:"verbose" toml:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	cont := true
	return Config{
		Kubectl:            "kubectl",
		Kustomize:          "kustomize",
		Terraform:          "terraform",
		Fzf:                "fzf",
		SecretsFilter:      mustSplit(defaultSecretsCmd),
		Selector:           SelectorAuto,
		Color:              ColorAuto,
		ManifestRoot:       ".",
		KustomizationFiles: []string{"kustomization.yaml", "kustomization.yml", "Kustomization"},
		ContinueOnError:    &cont,
	}
}

func mustSplit(cmd string) []string {
	args, err := shellwords.Parse(cmd)
	if err != nil {
		panic(err)
	}
	return args
}

// SplitCommand splits a shell-style command line into an argv, honoring
// quotes and backslash escapes.
func SplitCommand(line string) ([]string, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("split %q: %w", line, err)
	}
	return args, nil
}

// KeepGoing reports the multi-selection failure policy.
func (c Config) KeepGoing() bool {
	return c.ContinueOnError == nil || *c.ContinueOnError
}

// Load reads the config file at path, or the default location when path is
// empty. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadFile reads a config file without consulting the environment. Only
// the implicit default location may be missing; a path given explicitly,
// as an argument or through $KUBEFZF_CONFIG, must exist.
func LoadFile(path string) (Config, error) {
	resolved, explicit, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if !explicit {
				return cfg, nil
			}
			return Config{}, fmt.Errorf("config file %s not found", resolved)
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw Config
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	cfg.merge(raw)
	return cfg, nil
}

func (c *Config) merge(raw Config) {
	setString(&c.Kubectl, raw.Kubectl)
	setString(&c.Kustomize, raw.Kustomize)
	setString(&c.Terraform, raw.Terraform)
	setString(&c.Fzf, raw.Fzf)
	setString(&c.Selector, raw.Selector)
	setString(&c.Color, raw.Color)
	setString(&c.ManifestRoot, raw.ManifestRoot)
	if len(raw.SecretsFilter) > 0 {
		c.SecretsFilter = raw.SecretsFilter
	}
	if len(raw.FzfOptions) > 0 {
		c.FzfOptions = raw.FzfOptions
	}
	if len(raw.KustomizationFiles) > 0 {
		c.KustomizationFiles = raw.KustomizationFiles
	}
	if raw.ContinueOnError != nil {
		c.ContinueOnError = raw.ContinueOnError
	}
	c.Verbose = c.Verbose || raw.Verbose
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// ApplyEnv applies KUBEFZF_* overrides read through getenv. Command-line
// valued variables are split with shell quoting rules.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("KUBEFZF_VERBOSE"); v != "" && v != "0" && !strings.EqualFold(v, "false") {
		c.Verbose = true
	}
	setString(&c.Selector, getenv("KUBEFZF_SELECTOR"))
	setString(&c.Color, getenv("KUBEFZF_COLOR"))
	if v := getenv("KUBEFZF_FZF_OPTS"); strings.TrimSpace(v) != "" {
		opts, err := SplitCommand(v)
		if err != nil {
			return fmt.Errorf("KUBEFZF_FZF_OPTS: %w", err)
		}
		c.FzfOptions = append(c.FzfOptions, opts...)
	}
	if v := getenv("KUBEFZF_SECRETS_FILTER"); strings.TrimSpace(v) != "" {
		filter, err := SplitCommand(v)
		if err != nil {
			return fmt.Errorf("KUBEFZF_SECRETS_FILTER: %w", err)
		}
		c.SecretsFilter = filter
	}
	if getenv("NO_COLOR") != "" {
		c.Color = ColorNever
	}
	return nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Selector {
	case SelectorAuto, SelectorFzf, SelectorBuiltin:
	default:
		return fmt.Errorf("invalid selector %q (want auto, fzf or builtin)", c.Selector)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}
	return nil
}

// DefaultPath returns the config file consulted when no path is given:
// $KUBEFZF_CONFIG or ~/.config/kubefzf/config.yaml.
func DefaultPath() string {
	if p := strings.TrimSpace(os.Getenv("KUBEFZF_CONFIG")); p != "" {
		return p
	}
	return defaultConfigPath
}

// resolvePath also reports whether the path was chosen explicitly.
func resolvePath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		if env := strings.TrimSpace(os.Getenv("KUBEFZF_CONFIG")); env != "" {
			resolved, err := expandPath(env)
			return resolved, true, err
		}
		resolved, err := expandPath(defaultConfigPath)
		return resolved, false, err
	}
	resolved, err := expandPath(path)
	return resolved, true, err
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
