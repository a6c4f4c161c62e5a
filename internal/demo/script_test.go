// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package demo_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/arbor"
	"code.hybscloud.com/arbor/internal/demo"
)

const rejected = `
items:
  1: {title: ""}
steps:
  - save: 1
`

const script = `
items:
  1: {title: write tests}
  2: {title: ship}
steps:
  - toggle: 1
  - save: 1
  - print: true
  - add: {id: 3, title: celebrate}
  - remove: 2
  - show: stats
  - refresh: true
`

func TestScriptRun(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tc := range []struct {
		name   string
		script string
	}{
		{"script", script},
		{"rejected", rejected},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sc, err := demo.ParseScript([]byte(tc.script))
			require.NoError(t, err)

			s := demo.NewSession(sc.Items, arbor.WithPerformer(demo.NewStore(nil)))
			var out bytes.Buffer
			require.NoError(t, sc.Run(context.Background(), s, &out))
			g.Assert(t, tc.name, out.Bytes())
		})
	}
}

func TestScriptRejectsAmbiguousSteps(t *testing.T) {
	_, err := demo.ParseScript([]byte("steps:\n  - {toggle: 1, save: 1}\n"))
	require.ErrorIs(t, err, demo.ErrBadStep)

	_, err = demo.ParseScript([]byte("steps:\n  - {}\n"))
	require.ErrorIs(t, err, demo.ErrBadStep)
}

func TestScriptRejectsUnknownFields(t *testing.T) {
	_, err := demo.ParseScript([]byte("stepz: []\n"))
	require.Error(t, err)
}

func TestScriptUnknownScreen(t *testing.T) {
	sc, err := demo.ParseScript([]byte("steps:\n  - show: settings\n"))
	require.NoError(t, err)
	err = sc.Run(context.Background(), demo.NewSession(nil), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1")
}
