/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"gopatchplayer/internal/geom"
)

// WidgetDef is one widget entry from a scene definition. Frame is authored
// in the 320x320 patch space.
type WidgetDef struct {
	Kind     WidgetKind
	Frame    geom.Rect
	Centered bool
	Label    string
}

// Def is everything needed to construct a Scene. It is produced by the
// Manager from an on-disk resource; this package never parses resources.
type Def struct {
	Name           string
	Type           Type
	Path           string
	Author         string
	Description    string
	BackgroundPath string    // empty for background-less scene kinds
	BackgroundSize geom.Size // natural pixel size of the background image
	Widgets        []WidgetDef
}

// KeySink receives raw key identifiers forwarded from the host while the
// scene is active. The scene forwards; it never interprets the key.
type KeySink func(key int)

// Scene is an active collection of widgets over a background image. Widget
// membership and order are fixed at construction; the order is the authored
// z-order and is significant for hit-testing and rendering.
type Scene struct {
	def     Def
	widgets []*Widget
	sx, sy  float32
	keys    KeySink
}

// New constructs a scene from its definition. The key sink may be nil for
// scenes that take no key input.
func New(def Def, keys KeySink) *Scene {
	s := &Scene{def: def, keys: keys}
	s.widgets = make([]*Widget, 0, len(def.Widgets))
	for _, wd := range def.Widgets {
		s.widgets = append(s.widgets, newWidget(s, wd))
	}
	return s
}

func (s *Scene) Name() string        { return s.def.Name }
func (s *Scene) Type() Type          { return s.def.Type }
func (s *Scene) Path() string        { return s.def.Path }
func (s *Scene) Author() string      { return s.def.Author }
func (s *Scene) Description() string { return s.def.Description }

// BackgroundPath returns the scene's background image file, if any.
func (s *Scene) BackgroundPath() string { return s.def.BackgroundPath }

// BackgroundSize returns the background's natural pixel size.
func (s *Scene) BackgroundSize() geom.Size { return s.def.BackgroundSize }

// Widgets returns the scene's widgets in authored z-order. The slice is
// shared; callers must not reorder it.
func (s *Scene) Widgets() []*Widget { return s.widgets }

// Scale returns the current background scale factors relative to the
// 320x320 patch space. Both are zero until the background has been sized.
func (s *Scene) Scale() (sx, sy float32) { return s.sx, s.sy }

// SetBackgroundScale stores the new scale factors and reshapes every widget
// in stored order. Geometry results are order-independent; the fixed order
// only makes any widget side effects deterministic.
func (s *Scene) SetBackgroundScale(sx, sy float32) {
	s.sx, s.sy = sx, sy
	for _, w := range s.widgets {
		w.Reshape()
	}
}

// SetBackgroundSize derives the scale from the displayed background size and
// applies it via SetBackgroundScale.
func (s *Scene) SetBackgroundSize(size geom.Size) {
	sx, sy := geom.ScaleForBounds(size)
	s.SetBackgroundScale(sx, sy)
}

// HandleKey forwards a raw key identifier to the scene's key sink, if any.
func (s *Scene) HandleKey(key int) {
	if s.keys != nil {
		s.keys(key)
	}
}

// Close releases the scene's widgets. After Close the scene owns nothing and
// must not be reused; the host drops its reference right after calling it.
func (s *Scene) Close() {
	for _, w := range s.widgets {
		w.parent = nil
	}
	s.widgets = nil
	s.keys = nil
}
