// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/monadic/kubefzf/internal/dispatch"
)

var familyTitles = []struct {
	family dispatch.Family
	title  string
}{
	{dispatch.FamilyNative, "Resource commands (kubectl)"},
	{dispatch.FamilyManifest, "Kustomize commands"},
	{dispatch.FamilyWorkspace, "Terraform commands"},
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Width(10)
	flagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "commands",
		Short: "List the commands kubefzf handles itself",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printCommands(cmd.OutOrStdout())
		},
	})
}

func printCommands(w io.Writer) {
	for i, f := range familyTitles {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, titleStyle.Render(f.title))
		for _, c := range dispatch.Commands(f.family) {
			b := dispatch.Describe(c)
			line := "  " + nameStyle.Render(string(c)) + b.Summary
			if notes := behaviorNotes(b); notes != "" {
				line += " " + flagStyle.Render("("+notes+")")
			}
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Any other command is passed to kubectl unchanged.")
}

func behaviorNotes(b dispatch.Behavior) string {
	var notes []string
	if b.Multi {
		notes = append(notes, "multi-select")
	}
	if b.Container {
		notes = append(notes, "picks a container")
	}
	if b.SubAction {
		notes = append(notes, "takes a sub-command")
	}
	return strings.Join(notes, ", ")
}
