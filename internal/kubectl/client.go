// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package kubectl drives the kubectl binary: resource listings, the
// api-resources catalog and the small sub-fetches used while resolving a
// selection.
package kubectl

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"

	"github.com/monadic/kubefzf/internal/runner"
)

// Client runs kubectl through a runner.Runner.
type Client struct {
	Binary string
	Runner runner.Runner
	// Global flags (--context, --kubeconfig, ...) lead every invocation.
	Global []string
}

// New returns a Client for the given binary.
func New(binary string, r runner.Runner) *Client {
	if binary == "" {
		binary = "kubectl"
	}
	return &Client{Binary: binary, Runner: r}
}

// WithGlobal returns a copy of c that passes global to every invocation.
func (c *Client) WithGlobal(global []string) *Client {
	cp := *c
	cp.Global = append(append([]string(nil), c.Global...), global...)
	return &cp
}

// Command builds a kubectl invocation. Global flags come first so they
// never end up after a "--".
func (c *Client) Command(args ...string) runner.Command {
	argv := make([]string, 0, len(c.Global)+len(args))
	argv = append(argv, c.Global...)
	return runner.New(c.Binary, append(argv, args...)...)
}

func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	out, err := c.Runner.Output(ctx, c.Command(args...), nil)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// List returns the raw tabular output of `kubectl get <resource>` in the
// given scope. An empty result is returned as "" with no error.
func (c *Client) List(ctx context.Context, resource string, ns Namespace, opts []string) (string, error) {
	args := append([]string{"get", resource}, ns.Flags()...)
	args = append(args, opts...)
	out, err := c.output(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", resource, err)
	}
	return out, nil
}

// APIResources returns the catalog of resource types the cluster serves.
func (c *Client) APIResources(ctx context.Context) (*Catalog, error) {
	out, err := c.output(ctx, "api-resources")
	if err != nil {
		return nil, fmt.Errorf("list resource types: %w", err)
	}
	return ParseCatalog(out)
}

// Containers returns the container names of a pod, regular containers
// first, then init containers.
func (c *Client) Containers(ctx context.Context, pod string, ns Namespace) ([]string, error) {
	args := append([]string{"get", "pod/" + pod}, ns.Flags()...)
	args = append(args, "-o", "json")
	out, err := c.output(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("get containers of %s: %w", pod, err)
	}

	var p corev1.Pod
	if err := yaml.Unmarshal([]byte(out), &p); err != nil {
		return nil, fmt.Errorf("decode pod %s: %w", pod, err)
	}
	var names []string
	for _, ctr := range p.Spec.Containers {
		names = append(names, ctr.Name)
	}
	for _, ctr := range p.Spec.InitContainers {
		names = append(names, ctr.Name)
	}
	return names, nil
}

// SecretData is the decoded payload of a Secret.
type SecretData struct {
	Keys   []string
	Values map[string][]byte
}

// Secret fetches the data map of a secret and base64-decodes every value.
// Keys are read as JSON strings, so keys containing quotes or dots come
// back exactly as stored.
func (c *Client) Secret(ctx context.Context, name string, ns Namespace) (*SecretData, error) {
	args := append([]string{"get", "secret/" + name}, ns.Flags()...)
	args = append(args, "-o", "jsonpath={.data}")
	out, err := c.output(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("get secret %s: %w", name, err)
	}
	return parseSecretData(out)
}

func parseSecretData(raw string) (*SecretData, error) {
	data := &SecretData{Values: make(map[string][]byte)}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return data, nil
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("unexpected secret data %q", raw)
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("unexpected secret data %q", raw)
	}

	var decodeErr error
	parsed.ForEach(func(k, v gjson.Result) bool {
		val, err := base64.StdEncoding.DecodeString(v.String())
		if err != nil {
			decodeErr = fmt.Errorf("decode key %q: %w", k.String(), err)
			return false
		}
		data.Keys = append(data.Keys, k.String())
		data.Values[k.String()] = val
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	sort.Strings(data.Keys)
	return data, nil
}
