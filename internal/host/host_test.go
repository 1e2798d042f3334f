/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package host

import (
	"errors"
	"testing"

	"gopatchplayer/internal/geom"
	"gopatchplayer/internal/scene"
)

// fakeManager resolves any path not named "bad" into a one-widget rj scene.
type fakeManager struct {
	resolved int
	keys     scene.KeySink
}

var errBadPath = errors.New("no such scene")

func (m *fakeManager) Resolve(path string, typ scene.Type) (*scene.Scene, error) {
	if path == "bad" {
		return nil, errBadPath
	}
	m.resolved++
	def := scene.Def{
		Name: path,
		Type: typ,
		Path: path,
		Widgets: []scene.WidgetDef{
			{Kind: scene.WidgetImage, Frame: geom.R(10, 10, 20, 20)},
		},
	}
	return scene.New(def, m.keys), nil
}

type fakeEngine struct {
	paused    bool
	recording bool
	level     float64
}

func (e *fakeEngine) Paused() bool            { return e.paused }
func (e *fakeEngine) SetPaused(p bool)        { e.paused = p }
func (e *fakeEngine) Recording() bool         { return e.recording }
func (e *fakeEngine) SetRecording(r bool)     { e.recording = r }
func (e *fakeEngine) InputLevel() float64     { return e.level }
func (e *fakeEngine) SetInputLevel(v float64) { e.level = v }

type fakeToggle struct {
	on      bool
	enabled bool
}

func (c *fakeToggle) SetOn(v bool)      { c.on = v }
func (c *fakeToggle) SetEnabled(v bool) { c.enabled = v }

type fakeSlider struct {
	min, max float64
	value    float64
	enabled  bool
}

func (s *fakeSlider) Range() (float64, float64) { return s.min, s.max }
func (s *fakeSlider) SetValue(v float64)        { s.value = v }
func (s *fakeSlider) SetEnabled(v bool)         { s.enabled = v }

type fakeGrabber struct {
	grabbed  bool
	released int
	cb       func(int)
}

func (g *fakeGrabber) Grab(cb func(int)) { g.grabbed = true; g.cb = cb }
func (g *fakeGrabber) Release()          { g.grabbed = false; g.released++ }

type rig struct {
	host    *Host
	mgr     *fakeManager
	eng     *fakeEngine
	pause   *fakeToggle
	record  *fakeToggle
	slider  *fakeSlider
	grabber *fakeGrabber
}

func newRig() *rig {
	r := &rig{
		mgr:     &fakeManager{},
		eng:     &fakeEngine{},
		pause:   &fakeToggle{},
		record:  &fakeToggle{},
		slider:  &fakeSlider{min: 0, max: 1},
		grabber: &fakeGrabber{},
	}
	r.host = New(r.mgr, r.eng, Controls{
		Pause:  r.pause,
		Record: r.record,
		Level:  r.slider,
	}, r.grabber)
	return r
}

func TestOpenSceneTransitionsAndSyncsControls(t *testing.T) {
	r := newRig()
	if r.host.State() != NoScene {
		t.Fatalf("initial state = %v", r.host.State())
	}
	if err := r.host.OpenScene("patches/a.pd", scene.TypeRj); err != nil {
		t.Fatalf("OpenScene error: %v", err)
	}
	if r.host.State() != SceneActive || r.host.Scene() == nil {
		t.Fatalf("state after open = %v", r.host.State())
	}
	if !r.grabber.grabbed {
		t.Fatalf("key focus not grabbed")
	}
	// Engine reports the defaults: not paused, not recording, level 0.
	if r.pause.on || r.record.on || r.slider.value != 0 {
		t.Fatalf("controls out of sync: pause=%v record=%v level=%v",
			r.pause.on, r.record.on, r.slider.value)
	}
	if !r.pause.enabled || !r.record.enabled || !r.slider.enabled {
		t.Fatalf("controls not enabled after open")
	}
}

func TestOpenSceneFailureLeavesNoScene(t *testing.T) {
	r := newRig()
	err := r.host.OpenScene("bad", scene.TypeRj)
	if err == nil || !errors.Is(err, errBadPath) {
		t.Fatalf("expected resolve failure, got %v", err)
	}
	if r.host.State() != NoScene || r.host.Scene() != nil {
		t.Fatalf("failed open left state %v", r.host.State())
	}
	if r.mgr.resolved != 0 {
		t.Fatalf("scene constructed despite failure")
	}
}

func TestOpenSceneReplacesActiveScene(t *testing.T) {
	r := newRig()
	if err := r.host.OpenScene("one.rj", scene.TypeRj); err != nil {
		t.Fatal(err)
	}
	old := r.host.Scene()
	if err := r.host.OpenScene("two.rj", scene.TypeRj); err != nil {
		t.Fatal(err)
	}
	if r.host.Scene() == old {
		t.Fatalf("old scene still installed")
	}
	if len(old.Widgets()) != 0 {
		t.Fatalf("old scene widgets still reachable after replacement")
	}
	if r.host.Scene().Name() != "two.rj" || r.host.State() != SceneActive {
		t.Fatalf("replacement did not install new scene")
	}
	if r.grabber.released != 1 || !r.grabber.grabbed {
		t.Fatalf("key focus not cycled on replacement: released=%d grabbed=%v",
			r.grabber.released, r.grabber.grabbed)
	}
}

func TestCloseSceneIdempotent(t *testing.T) {
	r := newRig()
	if err := r.host.OpenScene("one.rj", scene.TypeRj); err != nil {
		t.Fatal(err)
	}
	r.host.CloseScene()
	if r.host.State() != NoScene {
		t.Fatalf("state after close = %v", r.host.State())
	}
	if r.pause.enabled || r.record.enabled || r.slider.enabled {
		t.Fatalf("controls not disabled after close")
	}
	released := r.grabber.released
	r.host.CloseScene() // second close is a no-op
	if r.host.State() != NoScene || r.grabber.released != released {
		t.Fatalf("second close had side effects")
	}
}

func TestUpdateControlsClampsLevel(t *testing.T) {
	r := newRig()
	r.slider.min, r.slider.max = 0.2, 0.8
	r.eng.level = 1.5
	r.host.UpdateControls()
	if r.slider.value != 0.8 {
		t.Fatalf("level not clamped high: %v", r.slider.value)
	}
	r.eng.level = -3
	r.host.UpdateControls()
	if r.slider.value != 0.2 {
		t.Fatalf("level not clamped low: %v", r.slider.value)
	}
}

func TestControlChangedPushesToEngineOnly(t *testing.T) {
	r := newRig()
	r.host.ControlChanged(ControlEvent{Control: ControlPause, On: true})
	r.host.ControlChanged(ControlEvent{Control: ControlRecord, On: true})
	r.host.ControlChanged(ControlEvent{Control: ControlLevel, Value: 0.7})
	if !r.eng.paused || !r.eng.recording || r.eng.level != 0.7 {
		t.Fatalf("engine not updated: %+v", r.eng)
	}
	// One-way write: the control views are not touched until the next pull.
	if r.pause.on || r.record.on || r.slider.value != 0 {
		t.Fatalf("ControlChanged mutated local control state")
	}
	r.host.UpdateControls()
	if !r.pause.on || !r.record.on || r.slider.value != 0.7 {
		t.Fatalf("UpdateControls did not reflect engine state")
	}
}

func TestKeyPressedForwardedOnlyWhileActive(t *testing.T) {
	var got []int
	r := newRig()
	r.mgr.keys = func(key int) { got = append(got, key) }

	r.host.KeyPressed(1) // NoScene: dropped
	if len(got) != 0 {
		t.Fatalf("key forwarded while NoScene")
	}
	if err := r.host.OpenScene("one.rj", scene.TypeRj); err != nil {
		t.Fatal(err)
	}
	r.grabber.cb(65) // platform callback path
	r.host.KeyPressed(66)
	if len(got) != 2 || got[0] != 65 || got[1] != 66 {
		t.Fatalf("forwarded keys = %v", got)
	}
	r.host.CloseScene()
	r.host.KeyPressed(67)
	if len(got) != 2 {
		t.Fatalf("key forwarded after close")
	}
}

func TestOpenSceneWithoutManager(t *testing.T) {
	h := New(nil, nil, Controls{}, nil)
	if err := h.OpenScene("x", scene.TypePatch); !errors.Is(err, ErrNoManager) {
		t.Fatalf("expected ErrNoManager, got %v", err)
	}
}
