// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package selector

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"
)

var (
	pickerHeaderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	pickerColumnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	pickerCursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	pickerSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pickerCountStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type pickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Accept key.Binding
	Abort  key.Binding
}

var defaultPickerKeys = pickerKeys{
	Up:     key.NewBinding(key.WithKeys("up", "ctrl+k", "ctrl+p")),
	Down:   key.NewBinding(key.WithKeys("down", "ctrl+j", "ctrl+n")),
	Toggle: key.NewBinding(key.WithKeys("tab")),
	Accept: key.NewBinding(key.WithKeys("enter")),
	Abort:  key.NewBinding(key.WithKeys("esc", "ctrl+c")),
}

// Builtin is an in-process fuzzy picker used when fzf is unavailable.
type Builtin struct{}

// Select implements Selector. The picker draws on stderr so stdout stays
// free for the wrapped tool's output.
func (b *Builtin) Select(ctx context.Context, req Request) ([]string, error) {
	if len(req.Candidates()) == 0 {
		return nil, nil
	}
	p := tea.NewProgram(newPicker(req), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run selector: %w", err)
	}
	return final.(picker).result(), nil
}

type picker struct {
	req      Request
	items    []string
	plain    []string // items without ANSI codes
	input    textinput.Model
	matches  []int
	cursor   int
	selected map[int]bool
	height   int
	done     bool
	aborted  bool
	keys     pickerKeys
}

func newPicker(req Request) picker {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()

	items := req.Candidates()
	plain := make([]string, len(items))
	for i, item := range items {
		plain[i] = ansi.Strip(item)
	}

	p := picker{
		req:      req,
		items:    items,
		plain:    plain,
		input:    ti,
		selected: make(map[int]bool),
		height:   15,
		keys:     defaultPickerKeys,
	}
	p.filter()
	return p
}

func (p *picker) filter() {
	query := p.input.Value()
	matches := make([]int, 0, len(p.items))
	if strings.TrimSpace(query) == "" {
		for i := range p.items {
			matches = append(matches, i)
		}
	} else {
		for _, m := range fuzzy.Find(query, p.plain) {
			matches = append(matches, m.Index)
		}
	}
	p.matches = matches
	if p.cursor >= len(p.matches) {
		p.cursor = max(len(p.matches)-1, 0)
	}
}

// result returns the picked lines in candidate order.
func (p picker) result() []string {
	if p.aborted || !p.done {
		return nil
	}
	if p.req.Multi && len(p.selected) > 0 {
		var out []string
		for i, item := range p.plain {
			if p.selected[i] {
				out = append(out, item)
			}
		}
		return out
	}
	if len(p.matches) == 0 {
		return nil
	}
	return []string{p.plain[p.matches[p.cursor]]}
}

func (p picker) Init() tea.Cmd {
	return textinput.Blink
}

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.height = max(msg.Height-4-len(p.req.Headers()), 1)
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Abort):
			p.aborted = true
			return p, tea.Quit
		case key.Matches(msg, p.keys.Accept):
			p.done = true
			return p, tea.Quit
		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.matches)-1 {
				p.cursor++
			}
			return p, nil
		case key.Matches(msg, p.keys.Toggle):
			if p.req.Multi && len(p.matches) > 0 {
				idx := p.matches[p.cursor]
				if p.selected[idx] {
					delete(p.selected, idx)
				} else {
					p.selected[idx] = true
				}
				if p.cursor < len(p.matches)-1 {
					p.cursor++
				}
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	before := p.input.Value()
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.cursor = 0
		p.filter()
	}
	return p, cmd
}

func (p picker) View() string {
	if p.done || p.aborted {
		return ""
	}
	var b strings.Builder
	if p.req.Header != "" {
		b.WriteString(pickerHeaderStyle.Render(p.req.Header) + "\n")
	}
	b.WriteString(p.input.View() + "\n")
	for _, h := range p.req.Headers() {
		b.WriteString("  " + pickerColumnStyle.Render(h) + "\n")
	}

	start := 0
	if p.cursor >= p.height {
		start = p.cursor - p.height + 1
	}
	end := min(start+p.height, len(p.matches))
	for i := start; i < end; i++ {
		idx := p.matches[i]
		marker := " "
		if p.selected[idx] {
			marker = pickerSelectedStyle.Render("●")
		}
		line := p.items[idx]
		if i == p.cursor {
			b.WriteString(pickerCursorStyle.Render(">") + marker + line + "\n")
		} else {
			b.WriteString(" " + marker + line + "\n")
		}
	}

	count := fmt.Sprintf("  %d/%d", len(p.matches), len(p.items))
	if p.req.Multi {
		count += fmt.Sprintf(" (%d selected)", len(p.selected))
	}
	b.WriteString(pickerCountStyle.Render(count))
	return b.String()
}
