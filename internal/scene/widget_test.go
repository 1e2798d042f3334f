/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"testing"

	"gopatchplayer/internal/geom"
)

func oneWidgetScene(def WidgetDef) (*Scene, *Widget) {
	s := New(Def{Name: "t", Type: TypeRj, Widgets: []WidgetDef{def}}, nil)
	return s, s.Widgets()[0]
}

func TestReshapeRepositionsWithScale(t *testing.T) {
	s, w := oneWidgetScene(WidgetDef{Kind: WidgetImage, Frame: geom.R(10, 10, 20, 20)})

	s.SetBackgroundScale(1, 1)
	if p := w.Position(); p.X != 10 || p.Y != 10 {
		t.Fatalf("position at unit scale = %+v, want (10,10)", p)
	}
	s.SetBackgroundScale(2, 2)
	if p := w.Position(); p.X != 20 || p.Y != 20 {
		t.Fatalf("position at 2x scale = %+v, want (20,20)", p)
	}
	if f := w.Frame(); f != geom.R(20, 20, 40, 40) {
		t.Fatalf("frame at 2x scale = %+v", f)
	}
}

func TestReshapeCenteredPosition(t *testing.T) {
	s, w := oneWidgetScene(WidgetDef{Kind: WidgetText, Frame: geom.R(10, 10, 20, 20), Centered: true})
	s.SetBackgroundScale(2, 2)
	if p := w.Position(); p.X != 40 || p.Y != 40 {
		t.Fatalf("centered position = %+v, want (40,40)", p)
	}
}

func TestReshapeIdempotent(t *testing.T) {
	s, w := oneWidgetScene(WidgetDef{Kind: WidgetImage, Frame: geom.R(5, 7, 11, 13)})
	s.SetBackgroundScale(1.5, 0.75)
	f1, p1 := w.Frame(), w.Position()
	w.Reshape()
	w.Reshape()
	if w.Frame() != f1 || w.Position() != p1 {
		t.Fatalf("repeat reshape drifted: frame %+v -> %+v, pos %+v -> %+v",
			f1, w.Frame(), p1, w.Position())
	}
}

func TestReshapeRoundTripRecoversOriginal(t *testing.T) {
	s, w := oneWidgetScene(WidgetDef{Kind: WidgetImage, Frame: geom.R(12, 34, 56, 78)})
	s.SetBackgroundScale(2, 0.5)
	got := geom.LiveToAuthor(w.Frame(), 2, 0.5)
	if got != w.OriginalFrame() {
		t.Fatalf("inverse transform = %+v, want %+v", got, w.OriginalFrame())
	}
}

func TestReshapeSkippedWhileUnsized(t *testing.T) {
	s, w := oneWidgetScene(WidgetDef{Kind: WidgetImage, Frame: geom.R(10, 10, 20, 20)})

	// Background not sized yet: reshape must not divide by zero or move.
	s.SetBackgroundScale(0, 0)
	if f := w.Frame(); f != (geom.Rect{}) {
		t.Fatalf("unsized reshape produced geometry: %+v", f)
	}
	// Retried on the next scale update.
	s.SetBackgroundScale(1, 1)
	if p := w.Position(); p.X != 10 || p.Y != 10 {
		t.Fatalf("retry after sizing = %+v, want (10,10)", p)
	}
}

func TestWidgetTypeString(t *testing.T) {
	_, w := oneWidgetScene(WidgetDef{Kind: WidgetText, Frame: geom.R(0, 0, 1, 1)})
	if got := w.TypeString(); got != "RjText" {
		t.Fatalf("TypeString = %q", got)
	}
}
