// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package kubectl

import (
	"fmt"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/monadic/kubefzf/internal/table"
	"github.com/monadic/kubefzf/internal/textutil"
)

// ResourceType is one row of `kubectl api-resources`.
type ResourceType struct {
	Name       string
	ShortNames []string
	Group      string
	Version    string
	Namespaced bool
	Kind       string
}

// GroupResource returns the type's group/resource pair.
func (r ResourceType) GroupResource() schema.GroupResource {
	return schema.GroupResource{Group: r.Group, Resource: r.Name}
}

// IsPod reports whether the type is the core Pod type.
func (r ResourceType) IsPod() bool {
	return r.Group == "" && r.Kind == "Pod"
}

// IsSecret reports whether the type is the core Secret type.
func (r ResourceType) IsSecret() bool {
	return r.Group == "" && r.Kind == "Secret"
}

// Catalog is the set of resource types the cluster serves.
type Catalog struct {
	types []ResourceType
}

// NewCatalog builds a catalog from known types.
func NewCatalog(types ...ResourceType) *Catalog {
	return &Catalog{types: types}
}

// ParseCatalog parses `kubectl api-resources` output. Cells are sliced by
// header offsets because SHORTNAMES is often empty.
func ParseCatalog(listing string) (*Catalog, error) {
	headerLine, rows := table.Split(listing)
	header := table.Parse(headerLine)
	if !header.Has(table.ColumnName) || !header.Has("KIND") {
		return nil, fmt.Errorf("unexpected api-resources header %q", headerLine)
	}

	cat := &Catalog{}
	for _, row := range rows {
		var rt ResourceType
		rt.Name, _ = header.Cell(row, table.ColumnName)
		rt.Kind, _ = header.Cell(row, "KIND")
		if rt.Name == "" {
			continue
		}
		if short, _ := header.Cell(row, "SHORTNAMES"); short != "" {
			rt.ShortNames = textutil.Split(",", short)
		}
		if av, ok := header.Cell(row, "APIVERSION"); ok {
			if gv, err := schema.ParseGroupVersion(av); err == nil {
				rt.Group, rt.Version = gv.Group, gv.Version
			}
		} else if group, ok := header.Cell(row, "APIGROUP"); ok {
			rt.Group = group
		}
		namespaced, _ := header.Cell(row, "NAMESPACED")
		rt.Namespaced = namespaced == "true"
		cat.types = append(cat.types, rt)
	}
	return cat, nil
}

// Types returns every type in listing order.
func (c *Catalog) Types() []ResourceType {
	return c.types
}

// Lookup resolves a resource token the way kubectl does: plural name, short
// name or lowercase kind, optionally qualified with a group
// ("deployments.apps", "certificates.cert-manager.io").
func (c *Catalog) Lookup(token string) (ResourceType, bool) {
	gr := schema.ParseGroupResource(strings.ToLower(strings.TrimSpace(token)))
	if gr.Resource == "" {
		return ResourceType{}, false
	}
	for _, t := range c.types {
		if gr.Group != "" && t.Group != gr.Group && !strings.HasPrefix(t.Group, gr.Group+".") {
			continue
		}
		if t.Name == gr.Resource || strings.ToLower(t.Kind) == gr.Resource || textutil.Contains(gr.Resource, t.ShortNames) {
			return t, true
		}
	}
	return ResourceType{}, false
}

// Names returns every plural name and short name, sorted, for completion
// and error hints.
func (c *Catalog) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range c.types {
		for _, n := range append([]string{t.Name}, t.ShortNames...) {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}
