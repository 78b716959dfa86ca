// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package selector

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monadic/kubefzf/internal/clierr"
	"github.com/monadic/kubefzf/internal/runner/runnertest"
)

func TestRequest_CandidatesAndHeaders(t *testing.T) {
	req := Request{Items: []string{"NAME", "web", "api"}, HeaderLines: 1}
	assert.Equal(t, []string{"web", "api"}, req.Candidates())
	assert.Equal(t, []string{"NAME"}, req.Headers())

	onlyHeader := Request{Items: []string{"NAME"}, HeaderLines: 1}
	assert.Empty(t, onlyHeader.Candidates())
}

func TestRequired(t *testing.T) {
	_, err := Required(nil, "pods")
	require.Error(t, err)
	assert.True(t, clierr.IsUsage(err))
	assert.Contains(t, err.Error(), "nothing selected")

	got, err := Required([]string{"web"}, "pods")
	require.NoError(t, err)
	assert.Equal(t, []string{"web"}, got)
}

func TestFzfArgs(t *testing.T) {
	f := &Fzf{Binary: "fzf", Options: []string{"--height=40%"}}

	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{
			name: "single select with header line",
			req:  Request{Header: "Select pods", HeaderLines: 1},
			want: []string{"--ansi", "--header", "Select pods", "--header-lines=1", "--no-multi", "--height=40%"},
		},
		{
			name: "multi select",
			req:  Request{Multi: true},
			want: []string{"--ansi", "--multi", "--height=40%"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Args(tt.req))
		})
	}
}

func TestFzfSelect(t *testing.T) {
	fake := runnertest.New().
		On("fzf --ansi --header-lines=1 --multi", "\x1b[32mweb   Running\x1b[0m\napi   Pending\n")
	f := &Fzf{Binary: "fzf", Runner: fake}

	got, err := f.Select(context.Background(), Request{
		Items:       []string{"NAME   STATUS", "web   Running", "api   Pending"},
		HeaderLines: 1,
		Multi:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"web   Running", "api   Pending"}, got)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "NAME   STATUS\nweb   Running\napi   Pending\n", calls[0].Stdin)
}

func TestFzfSelect_AbortIsEmpty(t *testing.T) {
	for _, code := range []int{1, 130} {
		fake := runnertest.New().Fail("fzf --ansi --no-multi", code)
		f := &Fzf{Binary: "fzf", Runner: fake}

		got, err := f.Select(context.Background(), Request{Items: []string{"web"}})
		require.NoError(t, err, "exit %d", code)
		assert.Empty(t, got)
	}
}

func TestFzfSelect_Failure(t *testing.T) {
	fake := runnertest.New().Fail("fzf --ansi --no-multi", 2)
	f := &Fzf{Binary: "fzf", Runner: fake}

	_, err := f.Select(context.Background(), Request{Items: []string{"web"}})
	require.Error(t, err)
	var exit *runnertest.ExitError
	assert.True(t, errors.As(err, &exit))
}

func TestFzfSelect_NoCandidatesSkipsProcess(t *testing.T) {
	fake := runnertest.New()
	f := &Fzf{Binary: "fzf", Runner: fake}

	got, err := f.Select(context.Background(), Request{Items: []string{"NAME"}, HeaderLines: 1})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, fake.Calls())
}

func TestNew_Backends(t *testing.T) {
	found := func(string) (string, error) { return "/usr/bin/fzf", nil }
	missing := func(string) (string, error) { return "", errors.New("not found") }

	tests := []struct {
		name    string
		opts    Options
		wantFzf bool
		wantBin string
	}{
		{name: "auto with fzf", opts: Options{Backend: BackendAuto, LookPath: found}, wantFzf: true, wantBin: "fzf"},
		{name: "auto without fzf", opts: Options{Backend: BackendAuto, LookPath: missing}, wantFzf: false},
		{name: "forced fzf", opts: Options{Backend: BackendFzf, FzfBinary: "sk", LookPath: missing}, wantFzf: true, wantBin: "sk"},
		{name: "forced builtin", opts: Options{Backend: BackendBuiltin, LookPath: found}, wantFzf: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.opts)
			fzf, ok := s.(*Fzf)
			assert.Equal(t, tt.wantFzf, ok)
			if ok {
				assert.Equal(t, tt.wantBin, fzf.Binary)
			}
		})
	}
}

func TestCleanLines(t *testing.T) {
	got := cleanLines("\x1b[31mbatch-0   Evicted\x1b[0m\n\n" + strings.Repeat("x", 3) + "\n")
	assert.Equal(t, []string{"batch-0   Evicted", "xxx"}, got)
}
