// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package demo

import (
	"context"
	"fmt"

	"code.hybscloud.com/arbor"
	"code.hybscloud.com/arbor/effect"
)

// Session owns the host side of the app: the input cells and the driver.
type Session struct {
	Items  *arbor.Var[arbor.Map[int, Item]]
	Screen *arbor.Var[Screen]
	Driver *arbor.Driver[Model, Action, View]
}

// NewSession starts the app over items, showing the list.
func NewSession(items map[int]Item, opts ...arbor.Option) *Session {
	s := &Session{
		Items:  arbor.NewVar(arbor.MapOf(items)),
		Screen: arbor.NewVar(ScreenList),
	}
	s.Driver = arbor.NewDriver(App(arbor.Watch(s.Items), arbor.Watch(s.Screen)), opts...)
	return s
}

// View computes the current view.
func (s *Session) View() View { return s.Driver.Result() }

// Dispatch applies a and runs the events it schedules.
func (s *Session) Dispatch(ctx context.Context, a Action) error {
	return s.Driver.Dispatch(ctx, a)
}

// Add inserts or replaces an item.
func (s *Session) Add(id int, it Item) {
	s.Items.Update(func(m arbor.Map[int, Item]) arbor.Map[int, Item] { return m.Set(id, it) })
}

// Remove deletes an item and syncs the driver. While the list is showing
// this drops the item's state at once, so an item added again under the
// same id starts fresh. A hidden list is frozen and drops it when shown.
func (s *Session) Remove(id int) {
	s.Items.Update(func(m arbor.Map[int, Item]) arbor.Map[int, Item] { return m.Delete(id) })
	s.Driver.Sync()
}

// Show switches the screen.
func (s *Session) Show(sc Screen) error {
	switch sc {
	case ScreenList, ScreenStats:
		s.Screen.Set(sc)
		return nil
	}
	return fmt.Errorf("demo: unknown screen %q", sc)
}

// Run schedules an event taken from a view, such as ItemView.Toggle, and
// flushes.
func (s *Session) Run(ctx context.Context, ev effect.Event) error {
	s.Driver.Schedule(ev)
	return s.Driver.Flush(ctx)
}
