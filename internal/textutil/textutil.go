// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package textutil holds the small string helpers shared by the listing,
// selection and dispatch code.
package textutil

import "strings"

// NotFound is returned by lookups that did not match anything.
const NotFound = -1

// IndexOf returns the zero-based index of the first element equal to item,
// or NotFound.
func IndexOf[T comparable](item T, list []T) int {
	for i, v := range list {
		if v == item {
			return i
		}
	}
	return NotFound
}

// Contains reports whether item is an element of list.
func Contains[T comparable](item T, list []T) bool {
	return IndexOf(item, list) != NotFound
}

// Split splits text on every occurrence of sep. Elements keep their inner
// whitespace, so Split(sep, Join(sep, items)) == items whenever no item
// contains sep. Empty text yields an empty slice.
func Split(sep, text string) []string {
	if text == "" {
		return nil
	}
	if sep == "" {
		return []string{text}
	}
	return strings.Split(text, sep)
}

// Join is the inverse of Split.
func Join(sep string, items []string) string {
	return strings.Join(items, sep)
}

// TrimCollapse removes leading and trailing whitespace and collapses every
// internal whitespace run to a single space.
func TrimCollapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Lines splits output into lines, dropping a single trailing newline and any
// carriage returns.
func Lines(text string) []string {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// NonEmpty returns the trimmed, non-blank lines of text.
func NonEmpty(lines []string) []string {
	var out []string
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}
