// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Command kubefzf lists Kubernetes resources, kustomizations or terraform
// workspaces, lets you pick one with a fuzzy finder and runs the matching
// kubectl, kustomize or terraform command on it.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/monadic/kubefzf/internal/clierr"
	"github.com/monadic/kubefzf/internal/config"
	"github.com/monadic/kubefzf/internal/logging"
)

var (
	// BuildTag is set during build
	BuildTag = "dev"
	// BuildDate is set during build
	BuildDate = "unknown"
)

// Global flags. They must precede the command; everything from the command
// onward is forwarded untouched.
var (
	configPath   string
	verbose      bool
	selectorFlag string
	colorFlag    string
)

var logger = logging.New(os.Stderr, logging.Options{})

var rootCmd = &cobra.Command{
	Use:   "kubefzf [flags] <command> [resource] [options...] [-- args...]",
	Short: "Fuzzy-select Kubernetes resources, kustomizations and terraform workspaces",
	Long: `kubefzf - fuzzy selection on top of kubectl, kustomize and terraform

kubefzf lists resources, lets you pick one or more interactively and runs
the command on the selection:

  kubefzf describe pods -n kube-system
  kubefzf logs pods -A -- --tail=100
  kubefzf exec pods -n app -it -- sh
  kubefzf delete pods -l app=web          (multi-select)
  kubefzf rollout restart deploy
  kubefzf view secrets -n app             (decodes the chosen keys)

Custom commands:
  kb, ka, kd       kustomize build a folder (and kubectl apply / delete it)
  kbv, kav, kdv    same, piped through the secrets filter
  tfp, tfa, tfd    terraform plan / apply / destroy in a workspace
  tfwd             delete a terraform workspace

Anything else is passed to kubectl unchanged. Run "kubefzf commands" for
the full command table.

Environment Variables:
  KUBEFZF_CONFIG     Path to the config file (default: ~/.config/kubefzf/config.yaml)
  KUBEFZF_SELECTOR   Selector backend: auto, fzf or builtin
  KUBEFZF_FZF_OPTS   Extra fzf options
  KUBEFZF_COLOR      Color mode: auto, always or never
  KUBEFZF_VERBOSE    Trace every kubectl call
  KUBECONFIG         Path to kubeconfig file (default: ~/.kube/config)
`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	ValidArgsFunction: completeArgs,
	RunE:              runRoot,
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return
	}
	reportError(logger, err)
	os.Exit(clierr.ExitCode(err))
}

// reportError prints err unless it came from a wrapped tool, which already
// printed its own diagnostics.
func reportError(l *log.Logger, err error) {
	if clierr.IsExternal(err) {
		l.Debug("command failed", "err", err)
		return
	}
	l.Error(clierr.Pretty(err))
}

func init() {
	rootCmd.Flags().SetInterspersed(false)
	addGlobalFlags(rootCmd.PersistentFlags())

	_ = rootCmd.RegisterFlagCompletionFunc("selector", fixedCompletion("auto", "fzf", "builtin"))
	_ = rootCmd.RegisterFlagCompletionFunc("color", fixedCompletion("auto", "always", "never"))

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kubefzf version %s (built %s)\n", BuildTag, BuildDate)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for kubefzf.

Bash:
  $ source <(kubefzf completion bash)
  # Or add to ~/.bashrc:
  $ kubefzf completion bash >> ~/.bashrc

Zsh:
  $ source <(kubefzf completion zsh)
  # Or install to fpath:
  $ kubefzf completion zsh > "${fpath[1]}/_kubefzf"

Fish:
  $ kubefzf completion fish | source
  # Or install:
  $ kubefzf completion fish > ~/.config/fish/completions/kubefzf.fish

PowerShell:
  PS> kubefzf completion powershell | Out-String | Invoke-Expression
`,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	})
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVar(&configPath, "config", "", "Config file (default: $KUBEFZF_CONFIG or ~/.config/kubefzf/config.yaml)")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Trace every external command")
	fs.StringVar(&selectorFlag, "selector", "", "Selector backend: auto, fzf or builtin")
	fs.StringVar(&colorFlag, "color", "", "Color mode: auto, always or never")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		_ = cmd.Usage()
		return clierr.Usage("missing command (run kubefzf commands to list them)")
	}

	cfg, err := loadConfig()
	if err != nil {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		return clierr.WrapWithHint(clierr.Usage("%v", err), "check the config file at "+path+" and the KUBEFZF_* variables")
	}
	a := newApp(cfg, os.Stdout, os.Stderr)
	logger = a.logger
	return a.dispatcher.Run(cmd.Context(), args)
}
