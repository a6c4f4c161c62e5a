// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/arbor"
	"code.hybscloud.com/arbor/internal/demo"
)

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func session() *demo.Session {
	return demo.NewSession(map[int]demo.Item{1: {Title: "one"}, 2: {Title: "two"}},
		arbor.WithPerformer(demo.NewStore(nil)))
}

func TestToggleUnderCursor(t *testing.T) {
	m := press(t, New(session()), "down", " ")
	v := m.session.View()
	assert.False(t, v.Items[0].Done)
	assert.True(t, v.Items[1].Done)
	assert.Contains(t, m.View(), "[x] 2 two")
}

func TestAddDelete(t *testing.T) {
	m := press(t, New(session()), "a")
	require.Len(t, m.session.View().Items, 3)
	assert.Equal(t, "item 3", m.session.View().Items[2].Title)

	m = press(t, m, "d")
	assert.Equal(t, []string{"[ ] 2 two", "[ ] 3 item 3"}, m.session.View().Lines)
}

func TestSaveAndScreens(t *testing.T) {
	m := press(t, New(session()), "s", "tab", "r")
	assert.NoError(t, m.err)
	assert.Contains(t, m.View(), "refreshes: 1")

	m = press(t, m, "tab")
	assert.Contains(t, m.View(), "[ ] 1 one (v1)")
}

func TestQuit(t *testing.T) {
	_, cmd := New(session()).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
