// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"code.hybscloud.com/arbor/effect"
)

// DefaultMaxSteps bounds the operations a single Flush may step through.
const DefaultMaxSteps = 10000

// Deliver is the operation performed by the events that inject makes at
// the root: apply Action to the tree.
type Deliver[A any] struct {
	effect.Phantom[struct{}]
	Action A
}

// Performer answers operations raised by scheduled events.
//
// Perform reports whether it accepts op. An accepted operation is
// answered by calling resume, at most once, now or later; the event
// continues in the next Flush after resume is called.
type Performer interface {
	Perform(op effect.Operation, resume func(effect.Resumed)) bool
}

// PerformerFunc adapts a function to a Performer.
type PerformerFunc func(op effect.Operation, resume func(effect.Resumed)) bool

// Perform calls f.
func (f PerformerFunc) Perform(op effect.Operation, resume func(effect.Resumed)) bool {
	return f(op, resume)
}

type performers []Performer

func (ps performers) Perform(op effect.Operation, resume func(effect.Resumed)) bool {
	for _, p := range ps {
		if p.Perform(op, resume) {
			return true
		}
	}
	return false
}

// Performers tries each performer in turn.
func Performers(ps ...Performer) Performer {
	return performers(ps)
}

type config struct {
	logger    *slog.Logger
	performer Performer
	model     any
	hasModel  bool
	maxSteps  int
}

// Option configures a Driver.
type Option func(*config)

// WithLogger sets the logger. A nil logger means slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithPerformer sets the performer for operations other than [Deliver]
// and [effect.Throw]. Without one, such operations fail their event.
func WithPerformer(p Performer) Option {
	return func(c *config) { c.performer = p }
}

// WithModel sets the initial model in place of the default.
func WithModel[M any](m M) Option {
	return func(c *config) { c.model, c.hasModel = m, true }
}

// WithMaxSteps bounds the operations a single Flush may step through.
func WithMaxSteps(n int) Option {
	return func(c *config) { c.maxSteps = n }
}

// task is a queued event, or a suspended one. A suspension with resume
// set continues with value; without it, its operation is still to be
// answered.
type task struct {
	ev     effect.Event
	susp   *effect.Suspension[struct{}]
	resume bool
	value  effect.Resumed
}

// Driver is a reference host for a component tree. It holds the root
// model and the live instances, applies actions, runs scheduled events
// and computes results.
//
// A Driver is not safe for concurrent use.
type Driver[M, A, R any] struct {
	c         Computation[M, A, R]
	inst      instance[M, A, R]
	model     M
	queue     []task
	performer Performer
	logger    *slog.Logger
	maxSteps  int
}

// NewDriver allocates the live state of c.
func NewDriver[M, A, R any](c Computation[M, A, R], opts ...Option) *Driver[M, A, R] {
	cfg := config{maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.maxSteps <= 0 {
		cfg.maxSteps = DefaultMaxSteps
	}
	d := &Driver[M, A, R]{
		c:         c,
		performer: cfg.performer,
		logger:    cfg.logger,
		maxSteps:  cfg.maxSteps,
	}
	if cfg.hasModel {
		d.model = model[M](cfg.model)
	} else {
		d.model = c.Model().Default()
	}
	d.inst = c.build(d.Inject)
	return d
}

// Inject wraps a into an event that applies it when run.
func (d *Driver[M, A, R]) Inject(a A) effect.Event {
	return effect.Perform(Deliver[A]{Action: a})
}

// Model returns the root model.
func (d *Driver[M, A, R]) Model() M { return d.model }

// Pending returns the number of queued events.
func (d *Driver[M, A, R]) Pending() int { return len(d.queue) }

func (d *Driver[M, A, R]) root() scope { return scope{} }

func (d *Driver[M, A, R]) sync() {
	if m, changed := d.inst.sync(d.root(), d.model); changed {
		d.model = m
	}
}

// Sync brings the model in line with the current inputs without
// computing a result. State of elements that left their input is dropped.
func (d *Driver[M, A, R]) Sync() { d.sync() }

// Result runs a recomputation pass and returns the result.
func (d *Driver[M, A, R]) Result() R {
	d.sync()
	r, _ := d.inst.compute(d.root(), d.model)
	recordPass(context.Background())
	return r
}

// Apply applies a to the tree. Events scheduled while applying are queued
// after it returns, in order.
func (d *Driver[M, A, R]) Apply(ctx context.Context, a A) {
	var scheduled []effect.Event
	ac := &applyCtx{
		schedule: func(ev effect.Event) { scheduled = append(scheduled, ev) },
		drop: func(reason string, key any) {
			d.logger.DebugContext(ctx, "arbor: action dropped",
				slog.String("reason", reason),
				slog.String("key", fmt.Sprint(key)),
			)
			recordDropped(ctx, reason)
		},
	}
	d.sync()
	d.logger.DebugContext(ctx, "arbor: applying action", slog.Any("action", lazyDebug[A]{a: a, debug: d.c.Action().Debug}))
	d.model = d.inst.apply(ac, d.root(), d.model, a)
	recordApplied(ctx)
	for _, ev := range scheduled {
		d.Schedule(ev)
	}
}

// lazyDebug renders an action only when a handler records it.
type lazyDebug[A any] struct {
	a     A
	debug func(A) string
}

func (l lazyDebug[A]) LogValue() slog.Value { return slog.StringValue(l.debug(l.a)) }

// Dispatch applies a and flushes the events it scheduled.
func (d *Driver[M, A, R]) Dispatch(ctx context.Context, a A) error {
	d.Apply(ctx, a)
	return d.Flush(ctx)
}

// Schedule queues ev.
func (d *Driver[M, A, R]) Schedule(ev effect.Event) {
	d.queue = append(d.queue, task{ev: ev})
}

// Flush runs queued events until the queue is empty or every remaining
// event waits on its performer.
//
// Deliver operations apply their action. A failure raised by an event and
// not recovered inside it abandons that event and is reported as an
// *EventError; other events keep running. Flush stops with
// ErrTooManySteps once it has stepped through its budget of operations,
// leaving the rest queued, and with the context error when ctx is done.
func (d *Driver[M, A, R]) Flush(ctx context.Context) error {
	ctx, span := startFlushSpan(ctx, len(d.queue))
	defer span.End()

	var errs []error
	fail := func(err error, cause string) {
		errs = append(errs, err)
		recordFailed(ctx, cause)
		d.logger.WarnContext(ctx, "arbor: event failed", slog.Any("error", err))
	}
	steps := 0
	for len(d.queue) > 0 {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		t := d.queue[0]
		d.queue = d.queue[1:]

		var susp *effect.Suspension[struct{}]
		switch {
		case t.susp == nil:
			_, susp = effect.Step(t.ev)
		case t.resume:
			_, susp = t.susp.Resume(t.value)
		default:
			susp = t.susp
		}
		for susp != nil {
			steps++
			if steps > d.maxSteps {
				d.queue = append([]task{{susp: susp}}, d.queue...)
				errs = append(errs, fmt.Errorf("%w: %d steps", ErrTooManySteps, d.maxSteps))
				return d.finish(span, errs)
			}
			switch op := susp.Op().(type) {
			case Deliver[A]:
				d.Apply(ctx, op.Action)
				_, susp = susp.Resume(struct{}{})
			case effect.Throw:
				susp.Discard()
				susp = nil
				fail(&EventError{Op: op, Err: op.Err}, "throw")
			default:
				s := susp
				susp = nil
				if d.performer != nil && d.performer.Perform(op, func(v effect.Resumed) {
					d.queue = append(d.queue, task{susp: s, resume: true, value: v})
				}) {
					continue
				}
				s.Discard()
				fail(&EventError{Op: op, Err: ErrUnhandledOp}, "unhandled")
			}
		}
	}
	return d.finish(span, errs)
}

func (d *Driver[M, A, R]) finish(span trace.Span, errs []error) error {
	err := errors.Join(errs...)
	span.SetAttributes(attribute.Int("arbor.pending", len(d.queue)))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
