/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package engine provides the in-process stand-in for the external
// signal-processing engine. It holds the transport state the host reads and
// writes; actual DSP happens in the real collaborator this replaces.
package engine

import (
	"log/slog"
	"sync"

	applog "gopatchplayer/internal/log"
)

// Settings is the audio bring-up configuration handed to the engine. Zero
// fields fall back to the application defaults.
type Settings struct {
	SampleRate     int
	TicksPerBuffer int
	InputChannels  int
}

func (s Settings) withDefaults() Settings {
	if s.SampleRate <= 0 {
		s.SampleRate = 44100
	}
	if s.TicksPerBuffer <= 0 {
		s.TicksPerBuffer = 16
	}
	if s.InputChannels <= 0 {
		s.InputChannels = 1
	}
	return s
}

// Local implements the host's Engine boundary with plain state. Guarded by a
// mutex so a future processing goroutine can publish snapshots safely; the
// host itself only ever calls in from the UI goroutine.
type Local struct {
	mu        sync.Mutex
	settings  Settings
	paused    bool
	recording bool
	level     float64 // input level, [0, 1]
	lastKey   int
	log       *slog.Logger
}

// NewLocal returns an engine with audio running, not recording, level 0.
func NewLocal(s Settings) *Local {
	s = s.withDefaults()
	e := &Local{settings: s, log: applog.WithComponent("engine")}
	e.log.Debug("engine up",
		slog.Int("sample_rate", s.SampleRate),
		slog.Int("ticks_per_buffer", s.TicksPerBuffer),
		slog.Int("input_channels", s.InputChannels),
	)
	return e
}

// Settings returns the effective audio configuration.
func (e *Local) Settings() Settings { return e.settings }

func (e *Local) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

func (e *Local) SetPaused(p bool) {
	e.mu.Lock()
	e.paused = p
	e.mu.Unlock()
	e.log.Debug("pause state", slog.Bool("paused", p))
}

func (e *Local) Recording() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recording
}

func (e *Local) SetRecording(r bool) {
	e.mu.Lock()
	e.recording = r
	e.mu.Unlock()
	e.log.Debug("record state", slog.Bool("recording", r))
}

func (e *Local) InputLevel() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

// SetInputLevel clamps to the engine's [0, 1] input range.
func (e *Local) SetInputLevel(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	e.mu.Lock()
	e.level = v
	e.mu.Unlock()
}

// SendKey hands a raw key identifier to the patch. The stand-in just
// remembers it for inspection.
func (e *Local) SendKey(key int) {
	e.mu.Lock()
	e.lastKey = key
	e.mu.Unlock()
	e.log.Debug("key", slog.Int("key", key))
}

// LastKey returns the most recently received key identifier.
func (e *Local) LastKey() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastKey
}
