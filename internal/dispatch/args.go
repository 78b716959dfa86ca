// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"strings"

	"github.com/monadic/kubefzf/internal/clierr"
	"github.com/monadic/kubefzf/internal/kubectl"
)

// Separator starts the verbatim argument tail.
const Separator = "--"

// Request is the parsed argument list of a native command.
type Request struct {
	// Action is the sub-verb of commands such as rollout.
	Action    string
	Resource  string
	Namespace kubectl.Namespace
	// ListOptions narrow the listing only (label and field selectors).
	ListOptions []string
	// GlobalOptions pick the cluster and identity (--context, --kubeconfig,
	// ...). They apply to every kubectl call, listings included.
	GlobalOptions []string
	// Options are forwarded to every sub-invocation in order.
	Options []string
	// Tail is everything after Separator, forwarded verbatim.
	Tail []string
}

// connectionFlags are kubectl's global flags that take a value and select
// the cluster, credentials or identity.
var connectionFlags = map[string]bool{
	"--context":               true,
	"--kubeconfig":            true,
	"--cluster":               true,
	"--user":                  true,
	"--server":                true,
	"-s":                      true,
	"--as":                    true,
	"--as-group":              true,
	"--as-uid":                true,
	"--token":                 true,
	"--username":              true,
	"--password":              true,
	"--certificate-authority": true,
	"--client-certificate":    true,
	"--client-key":            true,
	"--tls-server-name":       true,
	"--request-timeout":       true,
}

// connectionSwitches are the boolean connection flags.
var connectionSwitches = map[string]bool{
	"--insecure-skip-tls-verify": true,
}

// TakesValue reports whether ParseArgs consumes the token after flag as
// its value.
func TakesValue(flag string) bool {
	switch flag {
	case "-n", "--namespace", "-l", "--selector", "--field-selector":
		return true
	}
	return connectionFlags[flag]
}

// ParseArgs parses the tokens following a native command. The resource
// type is the first positional token (preceded by the sub-verb when
// withAction is set); only the flags recognized here may come before it.
// Namespace, selector and connection flags are recognized in all their
// spellings; any other token is kept in order as an option.
func ParseArgs(tokens []string, withAction bool) (Request, error) {
	var req Request
	allNamespaces := false

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if tok == Separator {
			req.Tail = append([]string{}, tokens[i+1:]...)
			break
		}

		name, value, hasValue := splitFlag(tok)
		switch name {
		case "-A", "--all-namespaces":
			if !hasValue || value != "false" {
				allNamespaces = true
			}
			continue

		case "-n", "--namespace":
			if !hasValue {
				if i+1 >= len(tokens) || tokens[i+1] == Separator {
					return Request{}, clierr.Usage("flag %s needs a namespace", tok)
				}
				i++
				value = tokens[i]
			}
			req.Namespace = kubectl.InNamespace(value)
			continue

		case "-l", "--selector", "--field-selector":
			if !hasValue {
				if i+1 >= len(tokens) || tokens[i+1] == Separator {
					return Request{}, clierr.Usage("flag %s needs a value", tok)
				}
				i++
				value = tokens[i]
			}
			req.ListOptions = append(req.ListOptions, name, value)
			continue
		}

		if connectionFlags[name] {
			req.GlobalOptions = append(req.GlobalOptions, tok)
			if !hasValue {
				if i+1 >= len(tokens) || tokens[i+1] == Separator {
					return Request{}, clierr.Usage("flag %s needs a value", tok)
				}
				i++
				req.GlobalOptions = append(req.GlobalOptions, tokens[i])
			}
			continue
		}
		if connectionSwitches[name] {
			req.GlobalOptions = append(req.GlobalOptions, tok)
			continue
		}

		if !strings.HasPrefix(tok, "-") {
			if withAction && req.Action == "" {
				req.Action = tok
				continue
			}
			if req.Resource == "" {
				req.Resource = tok
				continue
			}
		}
		if req.Resource == "" {
			return Request{}, clierr.Usage("resource type must come before option %s", tok)
		}
		req.Options = append(req.Options, tok)
	}

	if allNamespaces {
		req.Namespace = kubectl.AllNamespaces()
	}
	return req, nil
}

// splitFlag separates "--flag=value", "-n=value" and the attached shorthand
// forms "-nvalue", "-lvalue" and "-svalue" of the flags ParseArgs understands.
func splitFlag(tok string) (name, value string, hasValue bool) {
	if !strings.HasPrefix(tok, "-") || tok == "-" {
		return "", "", false
	}
	if k, v, ok := strings.Cut(tok, "="); ok {
		if k == "-n" || k == "-l" || k == "-s" || strings.HasPrefix(k, "--") {
			return k, v, true
		}
	}
	if !strings.HasPrefix(tok, "--") && len(tok) > 2 && (tok[1] == 'n' || tok[1] == 'l' || tok[1] == 's') {
		return tok[:2], tok[2:], true
	}
	return tok, "", false
}
