// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package tui runs the demo app in a terminal with bubbletea.
//
// The model is single-threaded: bubbletea calls Update and View from
// its event loop, which is also the only caller of the session.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"code.hybscloud.com/arbor/internal/demo"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Model is the bubbletea model of the demo.
type Model struct {
	session *demo.Session
	cursor  int
	nextID  int
	err     error
}

// New returns a model over session. New items get ids above every id in
// the session.
func New(session *demo.Session) Model {
	next := 1
	for _, id := range session.Items.Get().Keys() {
		next = max(next, id+1)
	}
	return Model{session: session, nextID: next}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	ctx := context.Background()
	view := m.session.View()
	m.err = nil
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(view.Items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ", "enter":
		if it, ok := m.selected(view); ok {
			m.err = m.session.Run(ctx, it.Toggle)
		}
	case "s":
		if it, ok := m.selected(view); ok {
			m.err = m.session.Run(ctx, it.Save)
		}
	case "a":
		m.session.Add(m.nextID, demo.Item{Title: fmt.Sprintf("item %d", m.nextID)})
		m.nextID++
	case "d":
		if it, ok := m.selected(view); ok {
			m.session.Remove(it.ID)
			m.cursor = max(0, min(m.cursor, len(view.Items)-2))
		}
	case "r":
		m.err = m.session.Dispatch(ctx, demo.StatsCase(demo.Refresh))
	case "tab":
		next := demo.ScreenStats
		if view.Screen == demo.ScreenStats {
			next = demo.ScreenList
		}
		m.err = m.session.Show(next)
	}
	return m, nil
}

func (m Model) selected(v demo.View) (demo.ItemView, bool) {
	if v.Screen != demo.ScreenList || m.cursor >= len(v.Items) {
		return demo.ItemView{}, false
	}
	return v.Items[m.cursor], true
}

// View implements tea.Model.
func (m Model) View() string {
	v := m.session.View()
	var b strings.Builder
	b.WriteString(titleStyle.Render("arbor demo: " + string(v.Screen)))
	b.WriteString("\n\n")
	for i, line := range v.Lines {
		if v.Screen == demo.ScreenList && i == m.cursor && len(v.Items) > 0 {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("j/k move  space toggle  s save  a add  d delete  r refresh  tab screen  q quit"))
	return b.String()
}

// Run starts the program on the terminal.
func Run(session *demo.Session, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(New(session), opts...).Run()
	return err
}
