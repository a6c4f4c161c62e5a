// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/arbor/effect"
)

func TestBracketSuccess(t *testing.T) {
	var log []string
	comp := effect.Bracket(
		effect.Pure(42),
		func(r int) effect.Event {
			log = append(log, "release")
			return effect.Done()
		},
		func(r int) effect.Eff[int] {
			log = append(log, "use")
			return effect.Pure(r * 2)
		},
	)
	if got := runPure(comp); got != 84 {
		t.Fatalf("got %d, want 84", got)
	}
	if len(log) != 2 || log[0] != "use" || log[1] != "release" {
		t.Fatalf("log = %v, want [use release]", log)
	}
}

func TestBracketReleasesOnError(t *testing.T) {
	released := false
	comp := effect.Bracket(
		effect.Pure(42),
		func(int) effect.Event {
			released = true
			return effect.Done()
		},
		func(int) effect.Eff[int] { return effect.Fail[int](errBoom) },
	)
	res := runPure(effect.Attempt(comp))
	if err, ok := res.GetLeft(); !ok || !errors.Is(err, errBoom) {
		t.Fatalf("expected Left(boom), got %#v", res)
	}
	if !released {
		t.Fatal("resource not released")
	}
}

func TestBracketUnrecoveredFailureReachesHost(t *testing.T) {
	released := false
	comp := effect.Bracket(
		effect.Pure(1),
		func(int) effect.Event {
			released = true
			return effect.Done()
		},
		func(int) effect.Eff[int] { return effect.Fail[int](errBoom) },
	)
	_, susp := effect.Step(comp)
	if susp == nil {
		t.Fatal("expected suspension")
	}
	if th, ok := susp.Op().(effect.Throw); !ok || !errors.Is(th.Err, errBoom) {
		t.Fatalf("expected Throw{boom}, got %#v", susp.Op())
	}
	if !released {
		t.Fatal("release must run before the failure reaches the host")
	}
}

func TestBracketReleaseAfterSuspendedUse(t *testing.T) {
	var log []string
	comp := effect.Bracket(
		effect.Perform(Ask{}),
		func(r int) effect.Event {
			log = append(log, "release")
			return effect.Perform(Tell{Value: r})
		},
		func(r int) effect.Eff[int] {
			return effect.Map(effect.Perform(Ask{}), func(x int) int { return r + x })
		},
	)

	v, susp := effect.Step(comp)
	asks := 0
	var told []int
	for susp != nil {
		switch op := susp.Op().(type) {
		case Ask:
			asks++
			v, susp = susp.Resume(asks * 10)
		case Tell:
			told = append(told, op.Value)
			v, susp = susp.Resume(struct{}{})
		default:
			t.Fatalf("unexpected op %#v", op)
		}
	}
	if v != 30 {
		t.Fatalf("got %d, want 30", v)
	}
	if len(log) != 1 || len(told) != 1 || told[0] != 10 {
		t.Fatalf("release ran %d times, told %v", len(log), told)
	}
}

func TestOnErrorRunsOnError(t *testing.T) {
	var seen error
	comp := effect.OnError(effect.Fail[int](errBoom), func(err error) effect.Event {
		seen = err
		return effect.Done()
	})
	res := runPure(effect.Attempt(comp))
	if err, ok := res.GetLeft(); !ok || !errors.Is(err, errBoom) {
		t.Fatalf("failure must be raised again, got %#v", res)
	}
	if !errors.Is(seen, errBoom) {
		t.Fatalf("cleanup saw %v", seen)
	}
}

func TestOnErrorSkippedOnSuccess(t *testing.T) {
	comp := effect.OnError(effect.Pure(7), func(error) effect.Event {
		t.Fatal("cleanup must not run")
		return effect.Done()
	})
	if got := runPure(comp); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}
