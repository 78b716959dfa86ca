// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monadic/kubefzf/internal/clierr"
	"github.com/monadic/kubefzf/internal/config"
	"github.com/monadic/kubefzf/internal/logging"
	"github.com/monadic/kubefzf/internal/runner/runnertest"
)

func fzfConfig() config.Config {
	cfg := config.Default()
	cfg.Selector = config.SelectorFzf
	cfg.Color = config.ColorNever
	return cfg
}

func TestWire_WorkspaceFamily(t *testing.T) {
	fake := runnertest.New().
		On("terraform workspace list", "* default\n  staging\n").
		On("fzf --ansi --header 'Select workspace to plan' --no-multi", "staging\n")
	var out bytes.Buffer

	a := wire(fzfConfig(), logging.Discard(), fake, &out)
	require.NoError(t, a.dispatcher.Run(context.Background(), []string{"tfp", "-out=plan.bin"}))

	assert.Equal(t, []string{
		"terraform workspace select staging",
		"terraform plan -out=plan.bin",
	}, fake.Lines(runnertest.ModeRun))

	calls := fake.Calls()
	assert.Equal(t, "default\nstaging\n", calls[1].Stdin)
}

func TestWire_Passthrough(t *testing.T) {
	fake := runnertest.New()
	cfg := fzfConfig()
	cfg.Kubectl = "/usr/local/bin/kubectl"

	a := wire(cfg, logging.Discard(), fake, &bytes.Buffer{})
	require.NoError(t, a.dispatcher.Run(context.Background(), []string{"get", "ns"}))
	assert.Equal(t, []string{"/usr/local/bin/kubectl get ns"}, fake.Lines())
}

func TestWire_ContinueOnErrorFromConfig(t *testing.T) {
	stop := false
	cfg := fzfConfig()
	cfg.ContinueOnError = &stop

	a := wire(cfg, logging.Discard(), runnertest.New(), &bytes.Buffer{})
	assert.False(t, a.dispatcher.KeepGoing)

	a = wire(fzfConfig(), logging.Discard(), runnertest.New(), &bytes.Buffer{})
	assert.True(t, a.dispatcher.KeepGoing)
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("selector: fzf\n"), 0o600))
	t.Setenv("KUBEFZF_CONFIG", cfgFile)
	t.Setenv("KUBEFZF_FZF_OPTS", "")
	t.Setenv("KUBEFZF_SECRETS_FILTER", "")
	t.Setenv("NO_COLOR", "")
	t.Setenv("KUBEFZF_SELECTOR", "")
	t.Setenv("KUBEFZF_COLOR", "")
	t.Setenv("KUBEFZF_VERBOSE", "")

	old := [...]string{selectorFlag, colorFlag}
	oldVerbose := verbose
	t.Cleanup(func() {
		selectorFlag, colorFlag, verbose = old[0], old[1], oldVerbose
	})

	selectorFlag, colorFlag, verbose = "builtin", "always", true
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.SelectorBuiltin, cfg.Selector)
	assert.Equal(t, config.ColorAlways, cfg.Color)
	assert.True(t, cfg.Verbose)

	selectorFlag = "dmenu"
	_, err = loadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	old := configPath
	t.Cleanup(func() { configPath = old })

	configPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(&buf, logging.Options{NoColor: true})

	reportError(l, clierr.Usage("missing resource type for describe"))
	assert.Contains(t, buf.String(), "missing resource type for describe")

	buf.Reset()
	reportError(l, &runnertest.ExitError{Code: 2})
	assert.Empty(t, buf.String(), "tools print their own errors")

	buf.Reset()
	reportError(l, errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
}

func TestPrintCommands(t *testing.T) {
	var buf bytes.Buffer
	printCommands(&buf)
	out := buf.String()

	for _, want := range []string{"Resource commands", "Kustomize commands", "Terraform commands", "delete", "kav", "tfwd", "multi-select", "picks a container", "takes a sub-command"} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, "Any other command is passed to kubectl unchanged.\n"))
}

func TestCompleteArgs(t *testing.T) {
	oldNs, oldTypes, oldFolders := listNamespaces, listResourceTypes, listFolders
	t.Cleanup(func() {
		listNamespaces, listResourceTypes, listFolders = oldNs, oldTypes, oldFolders
		namespaceCacheMu.Lock()
		cachedNamespaces = nil
		namespaceCacheMu.Unlock()
	})
	listNamespaces = func(context.Context) ([]string, error) { return []string{"default", "kube-system", "payments"}, nil }
	listResourceTypes = func(context.Context) ([]string, error) { return []string{"configmaps", "deployments", "pods"}, nil }
	listFolders = func() []string { return []string{"env/dev", "env/prod"} }

	cmd := &cobra.Command{}
	tests := []struct {
		name       string
		args       []string
		toComplete string
		want       []string
	}{
		{name: "command names", toComplete: "de", want: []string{"delete\tdelete the selected resources", "describe\tdescribe the selected resource"}},
		{name: "resource types", args: []string{"describe"}, toComplete: "p", want: []string{"pods"}},
		{name: "resource after flags", args: []string{"logs", "-A", "-l", "app=web"}, toComplete: "d", want: []string{"deployments"}},
		{name: "resource after context", args: []string{"delete", "--context", "prod"}, toComplete: "p", want: []string{"pods"}},
		{name: "rollout action", args: []string{"rollout"}, toComplete: "re", want: []string{"restart", "resume"}},
		{name: "rollout resource", args: []string{"rollout", "restart"}, toComplete: "dep", want: []string{"deployments"}},
		{name: "namespace", args: []string{"describe", "pods", "-n"}, toComplete: "k", want: []string{"kube-system"}},
		{name: "folders", args: []string{"kav"}, toComplete: "env/p", want: []string{"env/prod"}},
		{name: "workspace commands", args: []string{"tfp"}, want: nil},
		{name: "after resource", args: []string{"describe", "pods"}, want: nil},
		{name: "flag", args: []string{"describe"}, toComplete: "--", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := completeArgs(cmd, tt.args, tt.toComplete)
			assert.Equal(t, tt.want, got)
		})
	}

	_, directive := completeArgs(cmd, []string{"get"}, "")
	assert.Equal(t, cobra.ShellCompDirectiveDefault, directive, "passthrough commands complete files")
}

func TestCompleteNamespaces_Cache(t *testing.T) {
	oldNs := listNamespaces
	t.Cleanup(func() {
		listNamespaces = oldNs
		namespaceCacheMu.Lock()
		cachedNamespaces = nil
		namespaceCacheMu.Unlock()
	})

	calls := 0
	listNamespaces = func(context.Context) ([]string, error) {
		calls++
		return []string{"default", "payments"}, nil
	}

	got, _ := completeNamespaces(&cobra.Command{}, nil, "pay")
	assert.Equal(t, []string{"payments"}, got)
	got, _ = completeNamespaces(&cobra.Command{}, nil, "")
	assert.Equal(t, []string{"default", "payments"}, got)
	assert.Equal(t, 1, calls)
}

func TestPositionalArgs(t *testing.T) {
	assert.Equal(t, []string{"pods"}, positionalArgs([]string{"-n", "x", "pods", "-o", "--", "sh"}))
	assert.Nil(t, positionalArgs([]string{"--selector", "a=b", "-A"}))
	assert.Equal(t, []string{"deploy"}, positionalArgs([]string{"--context", "prod", "--as", "admin", "deploy"}))
}

func TestFilterPrefix(t *testing.T) {
	items := []string{"Pods", "pvc", "services"}
	assert.Equal(t, items, filterPrefix(items, ""))
	assert.Equal(t, []string{"Pods", "pvc"}, filterPrefix(items, "p"))
	assert.Nil(t, filterPrefix(items, "x"))
}

func TestWriteCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		var buf bytes.Buffer
		require.NoError(t, writeCompletion(rootCmd, shell, &buf), shell)
		assert.Contains(t, buf.String(), "kubefzf", shell)
	}
	assert.Error(t, writeCompletion(rootCmd, "tcsh", &bytes.Buffer{}))
}

func TestDetectShell(t *testing.T) {
	tests := []struct {
		shell, goos, want string
	}{
		{"/bin/zsh", "linux", "zsh"},
		{"/usr/local/bin/fish", "linux", "fish"},
		{"/bin/tcsh", "darwin", "zsh"},
		{"", "linux", "bash"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectShell(tt.shell, tt.goos), tt.shell)
	}
}

func newInstaller(t *testing.T, dryRun bool) (*installer, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &installer{
		home:   t.TempDir(),
		dryRun: dryRun,
		out:    &out,
		script: func(shell string) (string, error) { return "# " + shell + " completion for kubefzf\n", nil },
	}, &out
}

func TestInstaller_Bash(t *testing.T) {
	in, out := newInstaller(t, false)
	require.NoError(t, in.install("bash"))

	rc, err := os.ReadFile(filepath.Join(in.home, ".bashrc"))
	require.NoError(t, err)
	assert.Contains(t, string(rc), "source <(kubefzf completion bash)")

	out.Reset()
	require.NoError(t, in.install("bash"))
	assert.Contains(t, out.String(), "already configured")
	rc2, _ := os.ReadFile(filepath.Join(in.home, ".bashrc"))
	assert.Equal(t, rc, rc2)
}

func TestInstaller_Zsh(t *testing.T) {
	in, _ := newInstaller(t, false)
	require.NoError(t, in.install("zsh"))

	script, err := os.ReadFile(filepath.Join(in.home, ".zsh", "completions", "_kubefzf"))
	require.NoError(t, err)
	assert.Equal(t, "# zsh completion for kubefzf\n", string(script))

	rc, err := os.ReadFile(filepath.Join(in.home, ".zshrc"))
	require.NoError(t, err)
	assert.Contains(t, string(rc), "fpath=(~/.zsh/completions $fpath)")
}

func TestInstaller_FishDryRun(t *testing.T) {
	in, out := newInstaller(t, true)
	require.NoError(t, in.install("fish"))
	assert.Contains(t, out.String(), "kubefzf.fish")
	assert.NoDirExists(t, filepath.Join(in.home, ".config"))
}

func TestInstaller_Unsupported(t *testing.T) {
	in, _ := newInstaller(t, true)
	assert.Error(t, in.install("tcsh"))
}

func TestRootFlags_StopAtCommand(t *testing.T) {
	fs := pflag.NewFlagSet("kubefzf", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	addGlobalFlags(fs)
	t.Cleanup(func() { configPath, verbose = "", false })

	require.NoError(t, fs.Parse([]string{"-v", "--config", "/tmp/k.toml", "logs", "pods", "-v", "--config", "x"}))
	assert.True(t, verbose)
	assert.Equal(t, "/tmp/k.toml", configPath)
	assert.Equal(t, []string{"logs", "pods", "-v", "--config", "x"}, fs.Args())
}
