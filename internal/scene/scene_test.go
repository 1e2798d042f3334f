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

func TestSetBackgroundScaleReshapesAllInOrder(t *testing.T) {
	def := Def{Name: "multi", Type: TypeRj, Widgets: []WidgetDef{
		{Kind: WidgetImage, Frame: geom.R(0, 0, 10, 10)},
		{Kind: WidgetText, Frame: geom.R(100, 100, 50, 25)},
		{Kind: WidgetImage, Frame: geom.R(300, 0, 20, 20), Centered: true},
	}}
	s := New(def, nil)
	s.SetBackgroundScale(2, 4)

	ws := s.Widgets()
	if len(ws) != 3 {
		t.Fatalf("widget count = %d", len(ws))
	}
	if f := ws[0].Frame(); f != geom.R(0, 0, 20, 40) {
		t.Fatalf("widget 0 frame = %+v", f)
	}
	if f := ws[1].Frame(); f != geom.R(200, 400, 100, 100) {
		t.Fatalf("widget 1 frame = %+v", f)
	}
	if p := ws[2].Position(); p.X != 620 || p.Y != 40 {
		t.Fatalf("widget 2 centered position = %+v", p)
	}
	// Order must reflect the authored z-order.
	if ws[0].Kind() != WidgetImage || ws[1].Kind() != WidgetText {
		t.Fatalf("widget order not preserved")
	}
}

func TestSetBackgroundSizeDerivesScale(t *testing.T) {
	s := New(Def{Name: "sz", Type: TypeRj}, nil)
	s.SetBackgroundSize(geom.Size{W: 640, H: 160})
	sx, sy := s.Scale()
	if sx != 2 || sy != 0.5 {
		t.Fatalf("scale = (%v, %v), want (2, 0.5)", sx, sy)
	}
}

func TestCloseReleasesWidgets(t *testing.T) {
	s := New(Def{Name: "c", Type: TypeRj, Widgets: []WidgetDef{
		{Kind: WidgetImage, Frame: geom.R(0, 0, 10, 10)},
	}}, nil)
	w := s.Widgets()[0]
	s.Close()
	if len(s.Widgets()) != 0 {
		t.Fatalf("widgets still reachable after Close")
	}
	// A stale external reference must be inert, not panic.
	w.Reshape()
}

func TestHandleKeyForwardsToSink(t *testing.T) {
	var got []int
	s := New(Def{Name: "k", Type: TypeRj}, func(key int) { got = append(got, key) })
	s.HandleKey(42)
	s.HandleKey(7)
	if len(got) != 2 || got[0] != 42 || got[1] != 7 {
		t.Fatalf("forwarded keys = %v", got)
	}
	s.Close()
	s.HandleKey(9) // dropped after close
	if len(got) != 2 {
		t.Fatalf("key forwarded after Close")
	}
}

func TestHandleKeyNilSink(t *testing.T) {
	s := New(Def{Name: "nk", Type: TypePatch}, nil)
	s.HandleKey(1) // must not panic
}
