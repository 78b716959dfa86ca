// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package kubectl

import "fmt"

// Scope is the namespace restriction of a listing.
type Scope int

const (
	// ScopeNone leaves the namespace to the kubeconfig context.
	ScopeNone Scope = iota
	// ScopeNamespace restricts to one named namespace.
	ScopeNamespace
	// ScopeAll lists across all namespaces.
	ScopeAll
)

// NoNamespace is shown for rows whose namespace is unknown.
const NoNamespace = "n/a"

// Namespace is a Scope together with the namespace name for ScopeNamespace.
type Namespace struct {
	Scope Scope
	Name  string
}

// InNamespace returns a ScopeNamespace value.
func InNamespace(name string) Namespace {
	return Namespace{Scope: ScopeNamespace, Name: name}
}

// AllNamespaces returns a ScopeAll value.
func AllNamespaces() Namespace {
	return Namespace{Scope: ScopeAll}
}

// Flags returns the kubectl flags selecting this scope.
func (n Namespace) Flags() []string {
	switch n.Scope {
	case ScopeNamespace:
		return []string{"-n", n.Name}
	case ScopeAll:
		return []string{"-A"}
	default:
		return nil
	}
}

// String describes the scope for messages.
func (n Namespace) String() string {
	switch n.Scope {
	case ScopeNamespace:
		return fmt.Sprintf("namespace %s", n.Name)
	case ScopeAll:
		return "all namespaces"
	default:
		return ""
	}
}

// Target returns the scope a single resolved object lives in: a named
// namespace, or ScopeNone when name is empty or NoNamespace.
func Target(name string) Namespace {
	if name == "" || name == NoNamespace {
		return Namespace{}
	}
	return InNamespace(name)
}
