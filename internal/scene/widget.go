/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "gopatchplayer/internal/geom"

// Widget is a single positionable control surface within a scene. Its
// geometry is authored once in the 320x320 patch space; the live frame and
// position are derived from the parent scene's current background scale and
// are never set directly.
//
// Widgets are only constructible through their owning scene, so a parentless
// widget cannot exist. The parent reference is non-owning: the widget's
// lifetime is bounded by the scene's widget list.
type Widget struct {
	parent *Scene
	kind   WidgetKind
	label  string

	// originalFrame is authored in the 320x320 patch space and immutable
	// for the lifetime of the widget.
	originalFrame geom.Rect
	centered      bool

	// Derived live-space geometry, valid after the first successful Reshape.
	frame    geom.Rect
	position geom.Pt
}

func newWidget(parent *Scene, def WidgetDef) *Widget {
	return &Widget{
		parent:        parent,
		kind:          def.Kind,
		label:         def.Label,
		originalFrame: def.Frame,
		centered:      def.Centered,
	}
}

// Kind returns the widget's closed variant discriminant.
func (w *Widget) Kind() WidgetKind { return w.kind }

// TypeString identifies the widget's concrete kind for serialization and
// debug output.
func (w *Widget) TypeString() string { return w.kind.TypeString() }

// Label returns the optional display label from the scene manifest.
func (w *Widget) Label() string { return w.label }

// OriginalFrame returns the authored frame in patch space.
func (w *Widget) OriginalFrame() geom.Rect { return w.originalFrame }

// Centered reports whether Position denotes the widget's center rather than
// its origin.
func (w *Widget) Centered() bool { return w.centered }

// Frame returns the live-space frame computed by the last Reshape.
func (w *Widget) Frame() geom.Rect { return w.frame }

// Position returns the widget's live-space anchor: the frame's center when
// Centered, its origin otherwise.
func (w *Widget) Position() geom.Pt { return w.position }

// Reshape recomputes the live frame and position from the original frame and
// the parent scene's current scale. It mutates only this widget and is
// idempotent for an unchanged scale. While the background is not yet sized
// (scale undefined) the reshape is skipped; the owning scene retries on the
// next scale update.
func (w *Widget) Reshape() {
	if w.parent == nil {
		// released by Scene.Close
		return
	}
	sx, sy := w.parent.Scale()
	if !geom.ScaleDefined(sx, sy) {
		return
	}
	w.frame = geom.AuthorToLive(w.originalFrame, sx, sy)
	if w.centered {
		w.position = w.frame.Center()
	} else {
		w.position = w.frame.Min()
	}
}
