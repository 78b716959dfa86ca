// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/monadic/kubefzf/internal/clierr"
	"github.com/monadic/kubefzf/internal/kubectl"
	"github.com/monadic/kubefzf/internal/selector"
	"github.com/monadic/kubefzf/internal/table"
	"github.com/monadic/kubefzf/internal/textutil"
)

// Target is one selected resource.
type Target struct {
	Name string
	// Namespace is the resolved namespace, or kubectl.NoNamespace.
	Namespace string
}

// Ref returns the kubectl object reference for the target.
func (t Target) Ref(resource string) string {
	if strings.Contains(t.Name, "/") {
		return t.Name
	}
	return resource + "/" + t.Name
}

// Resolve extracts the target of one listing row. The namespace comes from
// the NAMESPACE column when listing all namespaces, from the -n flag when
// one was given, and is kubectl.NoNamespace otherwise (including when the
// NAMESPACE column is missing, as for cluster-scoped types). A missing NAME
// column falls back to the first word of the row.
func Resolve(header *table.Header, row string, ns kubectl.Namespace) Target {
	t := Target{Namespace: kubectl.NoNamespace}

	if name, ok := header.Word(row, table.ColumnName); ok {
		t.Name = name
	} else if fields := strings.Fields(row); len(fields) > 0 {
		t.Name = fields[0]
	}

	switch ns.Scope {
	case kubectl.ScopeAll:
		if v, ok := header.Word(row, table.ColumnNamespace); ok {
			t.Namespace = v
		}
	case kubectl.ScopeNamespace:
		t.Namespace = ns.Name
	}
	return t
}

var titleCaser = cases.Title(language.English)

func (d *Dispatcher) prompt(cmd Command, req Request) string {
	p := fmt.Sprintf("%s %s", titleCaser.String(string(cmd)), req.Resource)
	if s := req.Namespace.String(); s != "" {
		p += " in " + s
	}
	if kc := d.kubeContext(); kc.Name != "" {
		p += fmt.Sprintf(" (context %s)", kc.Name)
	}
	return p
}

func (d *Dispatcher) runResource(ctx context.Context, cmd Command, b Behavior, req Request) error {
	kc := d.Kubectl.WithGlobal(req.GlobalOptions)
	catalog, err := kc.APIResources(ctx)
	if err != nil {
		return err
	}
	rt, ok := catalog.Lookup(req.Resource)
	if !ok {
		return clierr.Usage("unknown resource type %q (see kubectl api-resources for valid names)", req.Resource)
	}

	listing, err := kc.List(ctx, req.Resource, req.Namespace, req.ListOptions)
	if err != nil {
		return err
	}
	headerLine, rows := table.Split(listing)
	if len(rows) == 0 {
		d.Logger.Warn(clierr.NothingFound(req.Resource, req.Namespace.String()))
		return nil
	}
	header := table.Parse(headerLine)

	colored := d.Colorizer.Colorize(rt.Kind, listing)
	items := textutil.Lines(colored)
	picked, err := d.Selector.Select(ctx, selector.Request{
		Items:       items,
		HeaderLines: 1,
		Header:      d.prompt(cmd, req),
		Multi:       b.Multi,
	})
	if err != nil {
		return err
	}
	if picked, err = selector.Required(picked, req.Resource); err != nil {
		return err
	}

	var (
		failed   int
		firstErr error
	)
	for _, row := range picked {
		target := Resolve(header, row, req.Namespace)
		if err := d.act(ctx, kc, cmd, b, rt, req, target); err != nil {
			if !d.KeepGoing {
				return err
			}
			d.Logger.Error("failed", "target", target.Ref(req.Resource), "namespace", target.Namespace, "err", err)
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return fmt.Errorf("%d of %d %s failed: %w", failed, len(picked), cmd, firstErr)
	}
	return nil
}

func (d *Dispatcher) act(ctx context.Context, kc *kubectl.Client, cmd Command, b Behavior, rt kubectl.ResourceType, req Request, target Target) error {
	ns := kubectl.Target(target.Namespace)

	if cmd == CmdView && rt.IsSecret() {
		return d.viewSecret(ctx, kc, target, ns)
	}

	var containerFlags []string
	if b.Container && rt.IsPod() {
		container, err := d.pickContainer(ctx, kc, target, ns)
		if err != nil {
			return err
		}
		containerFlags = []string{"-c", container}
	}

	invocation := kc.Command(Invocation(cmd, req, target, containerFlags)...)
	d.Logger.Info("running", "cmd", invocation.String())
	return kc.Runner.Run(ctx, invocation)
}

// Invocation builds the kubectl arguments for one target:
// verb [action] resource/name [-n ns] options [extra] [tail]. Global
// connection flags are added by the kubectl client. The tail follows a
// "--" for exec, which needs it to find the remote command, and is
// appended as-is otherwise. Only the tokens before the tail are trimmed;
// the tail is forwarded untouched.
func Invocation(cmd Command, req Request, target Target, extra []string) []string {
	head := cmd.verb()
	if req.Action != "" {
		head = append(head, req.Action)
	}
	head = append(head, target.Ref(req.Resource))
	head = append(head, kubectl.Target(target.Namespace).Flags()...)
	head = append(head, req.Options...)
	if cmd == CmdView && !hasOutputFlag(req.Options) {
		head = append(head, "-o", "yaml")
	}
	head = append(head, extra...)

	args := make([]string, 0, len(head)+len(req.Tail)+1)
	for _, a := range head {
		if a = strings.TrimSpace(a); a != "" {
			args = append(args, a)
		}
	}
	if len(req.Tail) > 0 {
		if cmd == CmdExec {
			args = append(args, Separator)
		}
		args = append(args, req.Tail...)
	}
	return args
}

func hasOutputFlag(opts []string) bool {
	for _, o := range opts {
		if o == "--output" || strings.HasPrefix(o, "--output=") || (strings.HasPrefix(o, "-o") && !strings.HasPrefix(o, "--")) {
			return true
		}
	}
	return false
}

func (d *Dispatcher) pickContainer(ctx context.Context, kc *kubectl.Client, target Target, ns kubectl.Namespace) (string, error) {
	names, err := kc.Containers(ctx, target.Name, ns)
	if err != nil {
		return "", err
	}
	switch len(names) {
	case 0:
		return "", clierr.Usage("pod %s has no containers", target.Name)
	case 1:
		return names[0], nil
	}

	picked, err := d.Selector.Select(ctx, selector.Request{
		Items:  names,
		Header: fmt.Sprintf("Select container of pod %s", target.Name),
	})
	if err != nil {
		return "", err
	}
	if picked, err = selector.Required(picked, "container"); err != nil {
		return "", err
	}
	return picked[0], nil
}

func (d *Dispatcher) viewSecret(ctx context.Context, kc *kubectl.Client, target Target, ns kubectl.Namespace) error {
	secret, err := kc.Secret(ctx, target.Name, ns)
	if err != nil {
		return err
	}
	if len(secret.Keys) == 0 {
		d.Logger.Warn("secret has no data", "secret", target.Name)
		return nil
	}

	picked, err := d.Selector.Select(ctx, selector.Request{
		Items:  secret.Keys,
		Header: fmt.Sprintf("Select keys of secret %s", target.Name),
		Multi:  true,
	})
	if err != nil {
		return err
	}
	if picked, err = selector.Required(picked, "secret key"); err != nil {
		return err
	}

	for _, key := range picked {
		if _, err := fmt.Fprintf(d.out(), "%s\n\n", secret.Values[key]); err != nil {
			return err
		}
	}
	return nil
}
