// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package selectortest provides a scripted selector.Selector for tests.
package selectortest

import (
	"context"
	"fmt"
	"strings"

	"github.com/monadic/kubefzf/internal/selector"
)

// Script answers Select calls in order. Each answer is a list of
// substrings; every candidate containing one of them is picked. An empty
// answer simulates the user aborting.
type Script struct {
	answers  [][]string
	requests []selector.Request
}

// New returns a Script that answers with the given picks in order.
func New(answers ...[]string) *Script {
	return &Script{answers: answers}
}

// Pick is shorthand for one answer.
func Pick(substrings ...string) []string {
	return substrings
}

// Requests returns every request received.
func (s *Script) Requests() []selector.Request {
	return s.requests
}

// Select implements selector.Selector.
func (s *Script) Select(_ context.Context, req selector.Request) ([]string, error) {
	s.requests = append(s.requests, req)
	if len(s.answers) == 0 {
		return nil, fmt.Errorf("selectortest: unexpected selection %q", req.Header)
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]

	var picked []string
	for _, c := range req.Candidates() {
		for _, sub := range answer {
			if strings.Contains(c, sub) {
				picked = append(picked, c)
				break
			}
		}
	}
	return picked, nil
}

var _ selector.Selector = (*Script)(nil)
