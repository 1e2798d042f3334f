/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package host owns the single active scene slot: it opens, replaces and
// closes scenes, keeps the transport controls in step with the engine, and
// forwards orientation and key events. Everything runs on the one UI-owning
// goroutine; nothing here blocks.
package host

import (
	"errors"
	"fmt"
	"log/slog"

	applog "gopatchplayer/internal/log"
	"gopatchplayer/internal/scene"
)

// State of the active-scene slot.
type State int

const (
	NoScene State = iota
	SceneActive
)

func (s State) String() string {
	if s == SceneActive {
		return "SceneActive"
	}
	return "NoScene"
}

var ErrNoManager = errors.New("no scene manager attached")

// SceneManager resolves a path/type pair into a constructed scene. The host
// keeps a non-owning reference to it.
type SceneManager interface {
	Resolve(path string, typ scene.Type) (*scene.Scene, error)
}

// Engine is the external signal-processing collaborator. Reads must be safe
// to call synchronously from the UI goroutine; if the engine processes audio
// on its own thread it publishes snapshots itself.
type Engine interface {
	Paused() bool
	SetPaused(bool)
	Recording() bool
	SetRecording(bool)
	InputLevel() float64
	SetInputLevel(float64)
}

// ToggleControl is a two-state transport view (pause, record). Bound
// externally; the host never owns it.
type ToggleControl interface {
	SetOn(bool)
	SetEnabled(bool)
}

// LevelSlider is the input-level transport view.
type LevelSlider interface {
	Range() (min, max float64)
	SetValue(float64)
	SetEnabled(bool)
}

// KeyGrabber is the platform capability to become/resign the receiver of raw
// key presses. Grab installs the callback; Release detaches it.
type KeyGrabber interface {
	Grab(func(key int))
	Release()
}

// Controls bundles the transport views. Any field may be nil when the
// surrounding UI does not show that control.
type Controls struct {
	Pause  ToggleControl
	Record ToggleControl
	Level  LevelSlider
}

// Control identifies which transport control fired a change event.
type Control int

const (
	ControlPause Control = iota
	ControlRecord
	ControlLevel
)

// ControlEvent is a user interaction with a transport control. On carries
// the toggle state for pause/record; Value carries the slider level.
type ControlEvent struct {
	Control Control
	On      bool
	Value   float64
}

// Host mediates the scene lifecycle. It owns at most one scene exclusively;
// the manager, engine and control views are collaborators it never owns.
type Host struct {
	mgr      SceneManager
	engine   Engine
	controls Controls
	keys     KeyGrabber

	active *scene.Scene
	log    *slog.Logger
}

// New wires a host. mgr and engine may be nil for partially assembled test
// rigs; OpenScene requires a manager.
func New(mgr SceneManager, engine Engine, controls Controls, keys KeyGrabber) *Host {
	return &Host{
		mgr:      mgr,
		engine:   engine,
		controls: controls,
		keys:     keys,
		log:      applog.WithComponent("host"),
	}
}

// State reports whether a scene is active.
func (h *Host) State() State {
	if h.active != nil {
		return SceneActive
	}
	return NoScene
}

// Scene returns the active scene, or nil.
func (h *Host) Scene() *scene.Scene { return h.active }

// OpenScene closes any current scene and opens a new one from path/typ.
// The close is ordered before the new construction, so no two scenes ever
// coexist. On failure the host is left in NoScene with no partial scene
// installed and the error is returned to the caller; there is no retry here.
func (h *Host) OpenScene(path string, typ scene.Type) error {
	if h.mgr == nil {
		return ErrNoManager
	}
	h.CloseScene()

	l := applog.WithOperation(h.log, "open_scene").With(
		slog.String("path", path), slog.String("type", typ.String()),
	)
	s, err := h.mgr.Resolve(path, typ)
	if err != nil {
		l.Warn("open failed", slog.Any("err", err))
		return fmt.Errorf("open scene %s: %w", path, err)
	}
	h.active = s
	if h.keys != nil {
		h.keys.Grab(h.KeyPressed)
	}
	h.UpdateControls()
	l.Info("scene active", slog.String("name", s.Name()), slog.Int("widgets", len(s.Widgets())))
	return nil
}

// CloseScene releases the active scene, resigns key focus and resets the
// transport controls to a neutral, disabled display. Calling it in NoScene
// is a no-op.
func (h *Host) CloseScene() {
	if h.active == nil {
		return
	}
	name := h.active.Name()
	h.active.Close()
	h.active = nil
	if h.keys != nil {
		h.keys.Release()
	}
	h.resetControls()
	h.log.Info("scene closed", slog.String("name", name))
}

func (h *Host) resetControls() {
	if c := h.controls.Pause; c != nil {
		c.SetOn(false)
		c.SetEnabled(false)
	}
	if c := h.controls.Record; c != nil {
		c.SetOn(false)
		c.SetEnabled(false)
	}
	if s := h.controls.Level; s != nil {
		min, _ := s.Range()
		s.SetValue(min)
		s.SetEnabled(false)
	}
}

// UpdateControls pulls the engine's pause/record/input-level state into the
// transport controls. One-way: the UI reflects the engine, never the other
// way around. The level is clamped to the slider's declared range.
func (h *Host) UpdateControls() {
	if h.engine == nil {
		return
	}
	if c := h.controls.Pause; c != nil {
		c.SetEnabled(true)
		c.SetOn(h.engine.Paused())
	}
	if c := h.controls.Record; c != nil {
		c.SetEnabled(true)
		c.SetOn(h.engine.Recording())
	}
	if s := h.controls.Level; s != nil {
		min, max := s.Range()
		v := h.engine.InputLevel()
		if v < min {
			v = min
		}
		if v > max {
			v = max
		}
		s.SetEnabled(true)
		s.SetValue(v)
	}
}

// ControlChanged pushes a user interaction out to the engine. Local control
// state is deliberately untouched; the next UpdateControls call is the
// source of truth.
func (h *Host) ControlChanged(ev ControlEvent) {
	if h.engine == nil {
		return
	}
	switch ev.Control {
	case ControlPause:
		h.engine.SetPaused(ev.On)
	case ControlRecord:
		h.engine.SetRecording(ev.On)
	case ControlLevel:
		h.engine.SetInputLevel(ev.Value)
	}
}

// KeyPressed forwards a raw key identifier to the active scene. Key events
// arriving while no scene is active are dropped.
func (h *Host) KeyPressed(key int) {
	if h.active == nil {
		return
	}
	h.active.HandleKey(key)
}
