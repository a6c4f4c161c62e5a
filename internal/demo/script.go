// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package demo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrBadStep reports a script step that does not name exactly one
// operation.
var ErrBadStep = errors.New("demo: step must name exactly one operation")

// Script drives a session from YAML:
//
//	items:
//	  1: {title: write tests}
//	steps:
//	  - toggle: 1
//	  - save: 1
//	  - show: stats
//	  - print: true
type Script struct {
	Items map[int]Item `yaml:"items"`
	Steps []Step       `yaml:"steps"`
}

// Step is one scripted operation.
type Step struct {
	Toggle  *int     `yaml:"toggle,omitempty"`
	Save    *int     `yaml:"save,omitempty"`
	Refresh bool     `yaml:"refresh,omitempty"`
	Show    Screen   `yaml:"show,omitempty"`
	Add     *AddStep `yaml:"add,omitempty"`
	Remove  *int     `yaml:"remove,omitempty"`
	Print   bool     `yaml:"print,omitempty"`
}

// AddStep inserts an item.
type AddStep struct {
	ID    int    `yaml:"id"`
	Title string `yaml:"title"`
}

// ParseScript decodes a script. Unknown fields are errors.
func ParseScript(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("demo: parse script: %w", err)
	}
	for i, st := range s.Steps {
		if st.count() != 1 {
			return nil, fmt.Errorf("%w: step %d", ErrBadStep, i+1)
		}
	}
	return &s, nil
}

func (st Step) count() int {
	n := 0
	for _, set := range []bool{st.Toggle != nil, st.Save != nil, st.Refresh, st.Show != "", st.Add != nil, st.Remove != nil, st.Print} {
		if set {
			n++
		}
	}
	return n
}

// Run executes the steps against sess, writing the view to w at every
// print step and once at the end.
func (s *Script) Run(ctx context.Context, sess *Session, w io.Writer) error {
	for i, st := range s.Steps {
		var err error
		switch {
		case st.Toggle != nil:
			err = sess.Dispatch(ctx, ItemCase(*st.Toggle, Toggle{}))
		case st.Save != nil:
			err = sess.Dispatch(ctx, ItemCase(*st.Save, Save{}))
		case st.Refresh:
			err = sess.Dispatch(ctx, StatsCase(Refresh))
		case st.Show != "":
			err = sess.Show(st.Show)
		case st.Add != nil:
			sess.Add(st.Add.ID, Item{Title: st.Add.Title})
		case st.Remove != nil:
			sess.Remove(*st.Remove)
		case st.Print:
			err = printView(w, sess.View())
		}
		if err != nil {
			return fmt.Errorf("demo: step %d: %w", i+1, err)
		}
	}
	return printView(w, sess.View())
}

func printView(w io.Writer, v View) error {
	_, err := fmt.Fprintf(w, "== %s ==\n%s\n", v.Screen, v.Render())
	return err
}
