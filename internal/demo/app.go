// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package demo is a small component tree built with arbor: a todo list
// with per-item state, a statistics screen, and saves that go through an
// effect.
package demo

import (
	"errors"
	"fmt"
	"strings"

	"code.hybscloud.com/arbor"
	"code.hybscloud.com/arbor/effect"
)

// Item is a host-owned todo entry.
type Item struct {
	Title string `yaml:"title"`
}

// ItemModel is the state the app keeps per item.
type ItemModel struct {
	Done    bool
	Saving  bool
	Version int
	Failed  string
}

// ItemAction is an action on one item.
type ItemAction interface{ itemAction() }

// Toggle flips the done flag.
type Toggle struct{}

// Save writes the item to the store.
type Save struct{}

// Saved reports a completed save.
type Saved struct{ Version int }

// Settled ends a save, whatever its outcome.
type Settled struct{}

// Failed reports a save the store did not take.
type Failed struct{ Reason string }

func (Toggle) itemAction()  {}
func (Save) itemAction()    {}
func (Saved) itemAction()   {}
func (Settled) itemAction() {}
func (Failed) itemAction()  {}

// ErrRejected is raised by a save the store answered with version 0.
var ErrRejected = errors.New("demo: save rejected")

// SaveRequest is the query of the save effect.
type SaveRequest struct {
	ID    int
	Title string
	Done  bool
}

// ItemView is the result of one item.
type ItemView struct {
	ID     int
	Title  string
	Done   bool
	Status string
	Toggle effect.Event
	Save   effect.Event
}

func (v ItemView) String() string {
	mark := " "
	if v.Done {
		mark = "x"
	}
	s := fmt.Sprintf("[%s] %d %s", mark, v.ID, v.Title)
	if v.Status != "" {
		s += " (" + v.Status + ")"
	}
	return s
}

// item is the per-key component of the list.
func item(id arbor.Value[int], data arbor.Value[Item]) arbor.Computation[ItemModel, ItemAction, ItemView] {
	return arbor.Leaf(arbor.Both(id, data), arbor.Comparable(ItemModel{}), arbor.Actions[ItemAction](),
		func(inject func(ItemAction) effect.Event, schedule func(effect.Event), in arbor.Pair[int, Item], m ItemModel, a ItemAction) ItemModel {
			switch a := a.(type) {
			case Toggle:
				m.Done = !m.Done
			case Save:
				if m.Saving {
					return m
				}
				m.Saving = true
				m.Failed = ""
				schedule(saveEvent(inject, SaveRequest{ID: in.Fst, Title: in.Snd.Title, Done: m.Done}))
			case Settled:
				m.Saving = false
			case Saved:
				m.Version = a.Version
			case Failed:
				m.Failed = a.Reason
			}
			return m
		},
		func(inject func(ItemAction) effect.Event, in arbor.Pair[int, Item], m ItemModel) ItemView {
			v := ItemView{
				ID:     in.Fst,
				Title:  in.Snd.Title,
				Done:   m.Done,
				Toggle: inject(Toggle{}),
				Save:   inject(Save{}),
			}
			switch {
			case m.Saving:
				v.Status = "saving"
			case m.Failed != "":
				v.Status = "failed"
			case m.Version > 0:
				v.Status = fmt.Sprintf("v%d", m.Version)
			}
			return v
		},
	)
}

// saveEvent asks the store to take req. The item leaves the saving state
// once the store answers, before the outcome is delivered.
func saveEvent(inject func(ItemAction) effect.Event, req SaveRequest) effect.Event {
	version := effect.Bracket(
		effect.Pure(req),
		func(SaveRequest) effect.Event { return inject(Settled{}) },
		effect.Request[SaveRequest, int],
	)
	return effect.Recover(
		effect.Bind(version, func(v int) effect.Event {
			if v == 0 {
				return effect.Fail[struct{}](ErrRejected)
			}
			return inject(Saved{Version: v})
		}),
		func(err error) effect.Event { return inject(Failed{Reason: err.Error()}) },
	)
}

// Screen selects what the app shows.
type Screen string

// Screens.
const (
	ScreenList  Screen = "list"
	ScreenStats Screen = "stats"
)

// View is the result of the app.
type View struct {
	Screen Screen
	Items  []ItemView
	Lines  []string
}

// Render draws v as plain text.
func (v View) Render() string {
	return strings.Join(v.Lines, "\n")
}

// list renders every item.
func list(items arbor.Value[arbor.Map[int, Item]]) arbor.Computation[arbor.Map[int, ItemModel], arbor.KeyedAction[int, ItemAction], View] {
	return arbor.MapResult(arbor.Assoc(items, item), func(r arbor.Map[int, ItemView]) View {
		v := View{Screen: ScreenList}
		for _, iv := range r.All() {
			v.Items = append(v.Items, iv)
			v.Lines = append(v.Lines, iv.String())
		}
		if len(v.Lines) == 0 {
			v.Lines = []string{"(no items)"}
		}
		return v
	})
}

// StatsAction is an action on the statistics screen.
type StatsAction int

// Stats actions.
const (
	// Refresh counts a refresh of the screen.
	Refresh StatsAction = iota
)

// stats summarizes the input. Its model counts refreshes.
func stats(items arbor.Value[arbor.Map[int, Item]]) arbor.Computation[int, StatsAction, View] {
	titles := arbor.Derive(items, func(m arbor.Map[int, Item]) int {
		n := 0
		for _, it := range m.All() {
			n += len(it.Title)
		}
		return n
	})
	return arbor.Leaf(arbor.Both(items, titles), arbor.Comparable(0), arbor.Actions[StatsAction](),
		func(_ func(StatsAction) effect.Event, _ func(effect.Event), _ arbor.Pair[arbor.Map[int, Item], int], m int, a StatsAction) int {
			if a == Refresh {
				m++
			}
			return m
		},
		func(_ func(StatsAction) effect.Event, in arbor.Pair[arbor.Map[int, Item], int], m int) View {
			return View{Screen: ScreenStats, Lines: []string{
				fmt.Sprintf("items: %d", in.Fst.Len()),
				fmt.Sprintf("title characters: %d", in.Snd),
				fmt.Sprintf("refreshes: %d", m),
			}}
		},
	)
}

// Model is the model of the app.
type Model = arbor.Cases[Screen]

// Action is the action of the app.
type Action = arbor.CaseAction[Screen]

// App is the whole component tree.
func App(items arbor.Value[arbor.Map[int, Item]], screen arbor.Value[Screen]) arbor.Computation[Model, Action, View] {
	return arbor.Enum(arbor.Ordered[Screen](), screen, map[Screen]arbor.Branch[View]{
		ScreenList:  arbor.Pack(list(items)),
		ScreenStats: arbor.Pack(arbor.CutoffModel(stats(items))),
	})
}

// ItemCase addresses a to the item under id.
func ItemCase(id int, a ItemAction) Action {
	return arbor.Case(ScreenList, arbor.KeyedAction[int, ItemAction]{Key: id, Action: a})
}

// StatsCase addresses a to the statistics screen.
func StatsCase(a StatsAction) Action {
	return arbor.Case(ScreenStats, a)
}
