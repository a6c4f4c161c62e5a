// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/arbor/effect"
)

var errBoom = errors.New("boom")

func TestFailSuspendsOnThrow(t *testing.T) {
	_, susp := effect.Step(effect.Fail[int](errBoom))
	if susp == nil {
		t.Fatal("expected suspension")
	}
	th, ok := susp.Op().(effect.Throw)
	if !ok || !errors.Is(th.Err, errBoom) {
		t.Fatalf("expected Throw{boom}, got %#v", susp.Op())
	}
}

func TestFailAbortsChain(t *testing.T) {
	comp := effect.Bind(effect.Pure(1), func(x int) effect.Eff[int] {
		return effect.Bind(effect.Fail[int](errBoom), func(y int) effect.Eff[int] {
			t.Fatal("unreachable")
			return effect.Pure(x + y)
		})
	})
	res := runPure(effect.Attempt(comp))
	if err, ok := res.GetLeft(); !ok || !errors.Is(err, errBoom) {
		t.Fatalf("expected Left(boom), got %#v", res)
	}
}

func TestRecover(t *testing.T) {
	comp := effect.Recover(effect.Fail[int](errBoom), func(err error) effect.Eff[int] {
		return effect.Pure(99)
	})
	if got := runPure(comp); got != 99 {
		t.Fatalf("got %d, want 99", got)
	}
}

func TestRecoverNoError(t *testing.T) {
	comp := effect.Recover(effect.Pure(42), func(err error) effect.Eff[int] {
		t.Fatal("handler must not run")
		return effect.Pure(0)
	})
	if got := runPure(comp); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestRecoverScope(t *testing.T) {
	// A failure raised after the body completes belongs to the caller.
	comp := effect.Bind(
		effect.Recover(effect.Pure(1), func(error) effect.Eff[int] { return effect.Pure(-1) }),
		func(x int) effect.Eff[int] { return effect.Fail[int](errBoom) },
	)
	_, susp := effect.Step(comp)
	if susp == nil {
		t.Fatal("failure outside the body must escape Recover")
	}
	if _, ok := susp.Op().(effect.Throw); !ok {
		t.Fatalf("expected Throw, got %T", susp.Op())
	}
}

func TestRecoverAcrossSuspension(t *testing.T) {
	body := effect.Bind(effect.Perform(Ask{}), func(x int) effect.Eff[int] {
		if x < 0 {
			return effect.Fail[int](errBoom)
		}
		return effect.Pure(x)
	})
	comp := effect.Recover(body, func(error) effect.Eff[int] { return effect.Pure(0) })

	_, susp := effect.Step(comp)
	if _, ok := susp.Op().(Ask); !ok {
		t.Fatalf("expected Ask to pass through Recover, got %T", susp.Op())
	}
	got, susp := susp.Resume(-3)
	if susp != nil || got != 0 {
		t.Fatalf("got (%d, %v), want (0, nil)", got, susp)
	}
}

func TestRecoverNested(t *testing.T) {
	inner := effect.Recover(effect.Fail[int](errBoom), func(err error) effect.Eff[int] {
		return effect.Fail[int](errors.Join(errors.New("inner"), err))
	})
	outer := effect.Recover(inner, func(err error) effect.Eff[int] {
		if !errors.Is(err, errBoom) {
			t.Fatalf("outer handler lost the cause: %v", err)
		}
		return effect.Pure(7)
	})
	if got := runPure(outer); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestAttemptRight(t *testing.T) {
	res := runPure(effect.Attempt(effect.Pure("ok")))
	v, ok := res.GetRight()
	if !ok || v != "ok" {
		t.Fatalf("expected Right(ok), got %#v", res)
	}
}

func TestEither(t *testing.T) {
	r := effect.Right[string, int](2)
	l := effect.Left[string, int]("bad")
	if !r.IsRight() || r.IsLeft() || !l.IsLeft() || l.IsRight() {
		t.Fatal("predicates disagree with constructors")
	}
	doubled := effect.MapEither(r, func(x int) int { return x * 2 })
	if v, _ := doubled.GetRight(); v != 4 {
		t.Fatalf("got %d, want 4", v)
	}
	if _, ok := effect.MapEither(l, func(x int) int { return x * 2 }).GetRight(); ok {
		t.Fatal("MapEither must keep Left")
	}
	got := effect.MatchEither(l, func(s string) string { return "L:" + s }, func(int) string { return "R" })
	if got != "L:bad" {
		t.Fatalf("got %q", got)
	}
}
