// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"sort"
)

// Command is a top-level kubefzf command.
type Command string

// Native commands operate on a selected resource and map onto the kubectl
// verb of the same name ("view" maps onto get -o yaml).
const (
	CmdExec      Command = "exec"
	CmdLogs      Command = "logs"
	CmdDescribe  Command = "describe"
	CmdDelete    Command = "delete"
	CmdRollout   Command = "rollout"
	CmdScale     Command = "scale"
	CmdAutoscale Command = "autoscale"
	CmdLabel     Command = "label"
	CmdAnnotate  Command = "annotate"
	CmdView      Command = "view"
)

// Custom commands run a composite pipeline.
const (
	CmdKustomizeBuild        Command = "kb"
	CmdKustomizeApply        Command = "ka"
	CmdKustomizeDelete       Command = "kd"
	CmdKustomizeBuildSecrets Command = "kbv"
	CmdKustomizeApplySecrets Command = "kav"
	CmdKustomizeDeleteSecret Command = "kdv"
	CmdTerraformPlan         Command = "tfp"
	CmdTerraformApply        Command = "tfa"
	CmdTerraformDestroy      Command = "tfd"
	CmdTerraformRemove       Command = "tfwd"
)

// Family is the handling path of a command.
type Family int

const (
	FamilyNative Family = iota + 1
	FamilyManifest
	FamilyWorkspace
)

// Behavior is the static description of a command.
type Behavior struct {
	Family Family
	// Multi opens the selector in multi-select mode.
	Multi bool
	// Container asks for a container of the selected pod.
	Container bool
	// SubAction means the first argument is a kubectl sub-verb
	// (rollout restart, rollout undo, ...).
	SubAction bool
	Summary   string
}

var commandTable = map[Command]Behavior{
	CmdExec:      {Family: FamilyNative, Container: true, Summary: "exec into a container of the selected resource"},
	CmdLogs:      {Family: FamilyNative, Container: true, Summary: "print logs of a container of the selected resource"},
	CmdDescribe:  {Family: FamilyNative, Summary: "describe the selected resource"},
	CmdDelete:    {Family: FamilyNative, Multi: true, Summary: "delete the selected resources"},
	CmdRollout:   {Family: FamilyNative, SubAction: true, Summary: "run a rollout sub-command on the selected resource"},
	CmdScale:     {Family: FamilyNative, Summary: "scale the selected resource"},
	CmdAutoscale: {Family: FamilyNative, Summary: "autoscale the selected resource"},
	CmdLabel:     {Family: FamilyNative, Summary: "label the selected resource"},
	CmdAnnotate:  {Family: FamilyNative, Summary: "annotate the selected resource"},
	CmdView:      {Family: FamilyNative, Summary: "print the selected resource as YAML, or decoded secret values"},

	CmdKustomizeBuild:        {Family: FamilyManifest, Summary: "kustomize build a selected folder"},
	CmdKustomizeApply:        {Family: FamilyManifest, Summary: "kustomize build a selected folder and kubectl apply it"},
	CmdKustomizeDelete:       {Family: FamilyManifest, Summary: "kustomize build a selected folder and kubectl delete it"},
	CmdKustomizeBuildSecrets: {Family: FamilyManifest, Summary: "like kb, with secrets injected"},
	CmdKustomizeApplySecrets: {Family: FamilyManifest, Summary: "like ka, with secrets injected"},
	CmdKustomizeDeleteSecret: {Family: FamilyManifest, Summary: "like kd, with secrets injected"},

	CmdTerraformPlan:    {Family: FamilyWorkspace, Summary: "terraform plan in a selected workspace"},
	CmdTerraformApply:   {Family: FamilyWorkspace, Summary: "terraform apply in a selected workspace"},
	CmdTerraformDestroy: {Family: FamilyWorkspace, Summary: "terraform destroy in a selected workspace"},
	CmdTerraformRemove:  {Family: FamilyWorkspace, Summary: "delete a selected terraform workspace"},
}

// Lookup returns the command named by token.
func Lookup(token string) (Command, Behavior, bool) {
	b, ok := commandTable[Command(token)]
	return Command(token), b, ok
}

// Commands returns every command of a family (all families when family is
// zero), sorted by name.
func Commands(family Family) []Command {
	var cmds []Command
	for c, b := range commandTable {
		if family == 0 || b.Family == family {
			cmds = append(cmds, c)
		}
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i] < cmds[j] })
	return cmds
}

// Describe returns the behavior of a known command.
func Describe(c Command) Behavior {
	return commandTable[c]
}

// verb returns the kubectl arguments that start the sub-invocation.
func (c Command) verb() []string {
	if c == CmdView {
		return []string{"get"}
	}
	return []string{string(c)}
}
