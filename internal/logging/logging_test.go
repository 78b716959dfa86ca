// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantLevel log.Level
	}{
		{name: "default is info", opts: Options{}, wantLevel: log.InfoLevel},
		{name: "verbose enables debug", opts: Options{Verbose: true}, wantLevel: log.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(&bytes.Buffer{}, tt.opts)
			assert.Equal(t, tt.wantLevel, logger.GetLevel())
		})
	}
}

func TestNew_WritesPrefixAndKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{NoColor: true})

	logger.Warn("no resource found", "resource", "pods")
	logger.Debug("hidden at info level")

	out := buf.String()
	assert.Contains(t, out, "kubefzf")
	assert.Contains(t, out, "no resource found")
	assert.Contains(t, out, "resource=pods")
	assert.NotContains(t, out, "hidden")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("dropped")
	assert.Equal(t, log.FatalLevel, logger.GetLevel())
}
