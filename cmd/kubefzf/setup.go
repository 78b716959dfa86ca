// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up shell completions",
	Long: `Set up kubefzf for your environment.

This command installs shell completions so you can use tab completion
for kubefzf commands, resource types and namespaces.

Supported shells: bash, zsh, fish

Examples:
  kubefzf setup              # Auto-detect shell and install
  kubefzf setup --shell zsh  # Install for specific shell
  kubefzf setup --dry-run    # Show what would be installed`,
	RunE: runSetup,
}

var (
	setupShell  string
	setupDryRun bool
)

func init() {
	setupCmd.Flags().StringVar(&setupShell, "shell", "", "Shell to configure (bash, zsh, fish). Auto-detects if not specified.")
	setupCmd.Flags().BoolVar(&setupDryRun, "dry-run", false, "Show what would be done without making changes")
	rootCmd.AddCommand(setupCmd)
}

// installer writes completion files below home.
type installer struct {
	home   string
	dryRun bool
	out    io.Writer
	// script renders the completion script for a shell.
	script func(shell string) (string, error)
}

func runSetup(cmd *cobra.Command, args []string) error {
	shell := setupShell
	if shell == "" {
		shell = detectShell(os.Getenv("SHELL"), runtime.GOOS)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home dir: %w", err)
	}

	in := &installer{
		home:   home,
		dryRun: setupDryRun,
		out:    cmd.OutOrStdout(),
		script: func(shell string) (string, error) {
			var buf bytes.Buffer
			err := writeCompletion(cmd.Root(), shell, &buf)
			return buf.String(), err
		},
	}
	fmt.Fprintf(in.out, "Setting up kubefzf for %s...\n\n", shell)
	return in.install(shell)
}

func (in *installer) install(shell string) error {
	switch shell {
	case "bash":
		return in.bash()
	case "zsh":
		return in.zsh()
	case "fish":
		return in.fish()
	default:
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", shell)
	}
}

func detectShell(shellPath, goos string) string {
	if shellPath != "" {
		base := filepath.Base(shellPath)
		switch base {
		case "bash", "zsh", "fish":
			return base
		}
	}
	if goos == "darwin" {
		return "zsh"
	}
	return "bash"
}

func (in *installer) bash() error {
	rcFile := filepath.Join(in.home, ".bashrc")

	if isAlreadyConfigured(rcFile, "kubefzf completion bash") {
		fmt.Fprintln(in.out, "✓ Shell completions already configured in ~/.bashrc")
		return nil
	}

	completionLine := `
# kubefzf completion (added by kubefzf setup)
source <(kubefzf completion bash)
`

	if in.dryRun {
		fmt.Fprintln(in.out, "Would add to ~/.bashrc:")
		fmt.Fprintln(in.out, completionLine)
		return nil
	}

	if err := appendToFile(rcFile, completionLine); err != nil {
		return fmt.Errorf("failed to update ~/.bashrc: %w", err)
	}

	fmt.Fprintln(in.out, "✓ Added completion to ~/.bashrc")
	fmt.Fprintln(in.out, "\nRestart your shell or run:")
	fmt.Fprintln(in.out, "  source ~/.bashrc")
	return nil
}

func (in *installer) zsh() error {
	compDir := filepath.Join(in.home, ".zsh", "completions")
	compFile := filepath.Join(compDir, "_kubefzf")
	rcFile := filepath.Join(in.home, ".zshrc")

	if in.dryRun {
		fmt.Fprintf(in.out, "Would write completion to: %s\n", compFile)
		fmt.Fprintln(in.out, "Would add to ~/.zshrc (if not present):")
		fmt.Fprintln(in.out, "  fpath=(~/.zsh/completions $fpath)")
		fmt.Fprintln(in.out, "  autoload -Uz compinit && compinit")
		return nil
	}

	if err := in.writeScript("zsh", compDir, compFile); err != nil {
		return err
	}

	if !isAlreadyConfigured(rcFile, ".zsh/completions") {
		fpathConfig := `
# kubefzf completion (added by kubefzf setup)
fpath=(~/.zsh/completions $fpath)
autoload -Uz compinit && compinit
`
		if err := appendToFile(rcFile, fpathConfig); err != nil {
			return fmt.Errorf("failed to update ~/.zshrc: %w", err)
		}
		fmt.Fprintln(in.out, "✓ Added completion path to ~/.zshrc")
	} else {
		fmt.Fprintln(in.out, "✓ Completion path already in ~/.zshrc")
	}

	fmt.Fprintln(in.out, "\nRestart your shell or run:")
	fmt.Fprintln(in.out, "  source ~/.zshrc")
	return nil
}

func (in *installer) fish() error {
	compDir := filepath.Join(in.home, ".config", "fish", "completions")
	compFile := filepath.Join(compDir, "kubefzf.fish")

	if in.dryRun {
		fmt.Fprintf(in.out, "Would write completion to: %s\n", compFile)
		return nil
	}

	if err := in.writeScript("fish", compDir, compFile); err != nil {
		return err
	}
	fmt.Fprintln(in.out, "\nFish will auto-load completions on next shell start.")
	return nil
}

func (in *installer) writeScript(shell, dir, file string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	script, err := in.script(shell)
	if err != nil {
		return fmt.Errorf("failed to generate completion: %w", err)
	}
	if err := os.WriteFile(file, []byte(script), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	fmt.Fprintf(in.out, "✓ Wrote completion script to %s\n", file)
	return nil
}

func isAlreadyConfigured(filename, searchStr string) bool {
	content, err := os.ReadFile(filename)
	if err != nil {
		return false
	}
	return strings.Contains(string(content), searchStr)
}

func appendToFile(filename, content string) error {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}
