// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package demo

import (
	"log/slog"
	"strings"

	"code.hybscloud.com/arbor/effect"
)

// Store answers save requests in memory. Every save of an item bumps its
// version.
type Store struct {
	logger   *slog.Logger
	versions map[int]int
	saved    map[int]SaveRequest
}

// NewStore returns an empty Store. A nil logger means slog.Default().
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger, versions: make(map[int]int), saved: make(map[int]SaveRequest)}
}

// Perform answers effect.Call[SaveRequest, int] at once with the new
// version. An item with a blank title is rejected with version 0.
func (s *Store) Perform(op effect.Operation, resume func(effect.Resumed)) bool {
	c, ok := op.(effect.Call[SaveRequest, int])
	if !ok {
		return false
	}
	if strings.TrimSpace(c.Query.Title) == "" {
		s.logger.Warn("demo: save rejected", slog.Int("id", c.Query.ID))
		resume(0)
		return true
	}
	s.versions[c.Query.ID]++
	s.saved[c.Query.ID] = c.Query
	s.logger.Debug("demo: saved", slog.Int("id", c.Query.ID), slog.Int("version", s.versions[c.Query.ID]))
	resume(s.versions[c.Query.ID])
	return true
}

// Saved returns the last saved state of the item under id.
func (s *Store) Saved(id int) (SaveRequest, bool) {
	r, ok := s.saved[id]
	return r, ok
}
