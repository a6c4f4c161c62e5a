// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package efftest

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"code.hybscloud.com/arbor/effect"
)

// ErrNoRequest reports a response addressed to a request that is not
// pending (never made, or already answered).
var ErrNoRequest = errors.New("efftest: no such pending request")

// Request is one [effect.Call] awaiting a response.
type Request[Q, R any] struct {
	ID       uuid.UUID
	Query    Q
	Response *Ivar[R]
}

// Registry records effect.Call[Q, R] operations performed by running
// events and holds them until the test responds. It satisfies the
// performer contract of arbor.Driver: requests are parked and resumed only
// when Respond fills their response.
type Registry[Q, R any] struct {
	order   []uuid.UUID
	pending map[uuid.UUID]*Request[Q, R]
}

// NewRegistry returns an empty Registry.
func NewRegistry[Q, R any]() *Registry[Q, R] {
	return &Registry[Q, R]{pending: make(map[uuid.UUID]*Request[Q, R])}
}

// Perform parks op if it is an effect.Call[Q, R].
// resume is invoked with the response once the test answers.
func (r *Registry[Q, R]) Perform(op effect.Operation, resume func(effect.Resumed)) bool {
	c, ok := op.(effect.Call[Q, R])
	if !ok {
		return false
	}
	req := &Request[Q, R]{ID: uuid.New(), Query: c.Query, Response: NewIvar[R]()}
	r.pending[req.ID] = req
	r.order = append(r.order, req.ID)
	req.Response.Upon(func(v R) {
		r.forget(req.ID)
		resume(v)
	})
	return true
}

func (r *Registry[Q, R]) forget(id uuid.UUID) {
	delete(r.pending, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// Pending returns the outstanding requests in the order they were made.
func (r *Registry[Q, R]) Pending() []*Request[Q, R] {
	out := make([]*Request[Q, R], 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.pending[id])
	}
	return out
}

// Len returns the number of outstanding requests.
func (r *Registry[Q, R]) Len() int { return len(r.order) }

// Respond answers the request identified by id.
func (r *Registry[Q, R]) Respond(id uuid.UUID, v R) error {
	req, ok := r.pending[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRequest, id)
	}
	req.Response.Fill(v)
	return nil
}

// RespondFirst answers the oldest request whose query satisfies match.
func (r *Registry[Q, R]) RespondFirst(match func(Q) bool, v R) error {
	for _, id := range r.order {
		if req := r.pending[id]; match(req.Query) {
			req.Response.Fill(v)
			return nil
		}
	}
	return ErrNoRequest
}

// RespondAll answers every outstanding request with f(query), oldest
// first, and returns how many were answered. Requests made while
// answering are left pending.
func (r *Registry[Q, R]) RespondAll(f func(Q) R) int {
	batch := r.Pending()
	for _, req := range batch {
		req.Response.Fill(f(req.Query))
	}
	return len(batch)
}

// Immediate answers effect.Call[Q, R] operations synchronously with f.
type Immediate[Q, R any] func(Q) R

// Perform implements the arbor.Driver performer contract.
func (f Immediate[Q, R]) Perform(op effect.Operation, resume func(effect.Resumed)) bool {
	c, ok := op.(effect.Call[Q, R])
	if !ok {
		return false
	}
	resume(f(c.Query))
	return true
}
