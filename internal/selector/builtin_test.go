// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package selector

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pods = Request{
	Header:      "Select pods",
	Items:       []string{"NAME   STATUS", "web-1   Running", "api-1   Pending", "worker-1   Running"},
	HeaderLines: 1,
}

func send(p picker, msgs ...tea.Msg) picker {
	var m tea.Model = p
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m.(picker)
}

func runes(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPicker_EnterPicksCursor(t *testing.T) {
	p := send(newPicker(pods), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"api-1   Pending"}, p.result())
}

func TestPicker_FuzzyFilter(t *testing.T) {
	p := send(newPicker(pods), runes("wrk"))
	require.Len(t, p.matches, 1)
	assert.Equal(t, "worker-1   Running", p.items[p.matches[0]])

	p = send(p, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"worker-1   Running"}, p.result())
}

func TestPicker_StripsColorFromResult(t *testing.T) {
	req := Request{Items: []string{"NAME   STATUS", "\x1b[32mweb-1   Running\x1b[0m"}, HeaderLines: 1}
	p := send(newPicker(req), runes("web"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"web-1   Running"}, p.result())
	assert.Contains(t, p.items[0], "\x1b[32m", "colors are kept for display")
}

func TestPicker_NoMatchIsEmpty(t *testing.T) {
	p := send(newPicker(pods), runes("zzzz"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, p.result())
}

func TestPicker_Abort(t *testing.T) {
	p := send(newPicker(pods), tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, p.aborted)
	assert.Empty(t, p.result())
}

func TestPicker_MultiToggle(t *testing.T) {
	req := pods
	req.Multi = true

	// tab toggles and advances: select web-1, skip api-1, select worker-1
	p := send(newPicker(req),
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	assert.Equal(t, []string{"web-1   Running", "worker-1   Running"}, p.result())
}

func TestPicker_TabIgnoredInSingleMode(t *testing.T) {
	p := send(newPicker(pods), tea.KeyMsg{Type: tea.KeyTab})
	assert.Empty(t, p.selected)
	assert.Equal(t, 0, p.cursor)
}

func TestPicker_ViewShowsHeaderAndCount(t *testing.T) {
	view := newPicker(pods).View()
	assert.Contains(t, view, "Select pods")
	assert.Contains(t, view, "NAME   STATUS")
	assert.Contains(t, view, "3/3")
}

func TestPicker_Teatest(t *testing.T) {
	req := pods
	req.Multi = true

	tm := teatest.NewTestModel(t, newPicker(req), teatest.WithInitialTermSize(80, 24))

	for _, r := range "run" {
		tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(picker)
	assert.ElementsMatch(t, []string{"web-1   Running", "worker-1   Running"}, final.result())
}
