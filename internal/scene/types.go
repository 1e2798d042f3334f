/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene holds the data model and lifecycle of an active scene: an
// ordered set of widgets laid out over a background image, instantiated from
// a patch resource on disk.
package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Type identifies the kind of patch resource behind a scene. The set is
// closed; construction dispatches on it by switch.
type Type int

const (
	TypeUnknown Type = iota
	// TypePatch is a plain .pd patch file with no scene metadata.
	TypePatch
	// TypeRj is an .rj scene directory: info.json, background image, widgets.
	TypeRj
	// TypeParty is a scene directory containing a _main.pd entry patch.
	TypeParty
	// TypeRecording is a previously recorded .wav played back through the engine.
	TypeRecording
)

func (t Type) String() string {
	switch t {
	case TypePatch:
		return "patch"
	case TypeRj:
		return "rj"
	case TypeParty:
		return "party"
	case TypeRecording:
		return "recording"
	default:
		return "unknown"
	}
}

// ParseType is the inverse of Type.String.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "patch":
		return TypePatch, nil
	case "rj":
		return TypeRj, nil
	case "party":
		return TypeParty, nil
	case "recording":
		return TypeRecording, nil
	default:
		return TypeUnknown, fmt.Errorf("unknown scene type %q", s)
	}
}

// ClassifyPath infers the scene type from a library path by suffix and shape.
// Returns TypeUnknown and ok=false for paths that are not scenes.
func ClassifyPath(path string, dir bool) (Type, bool) {
	switch {
	case dir && strings.HasSuffix(path, ".rj"):
		return TypeRj, true
	case dir:
		if _, err := os.Stat(filepath.Join(path, "_main.pd")); err == nil {
			return TypeParty, true
		}
		return TypeUnknown, false
	case strings.HasSuffix(path, ".pd"):
		return TypePatch, true
	case strings.HasSuffix(path, ".wav"):
		return TypeRecording, true
	default:
		return TypeUnknown, false
	}
}

// WidgetKind discriminates the concrete widget variants of an rj scene.
type WidgetKind int

const (
	// WidgetImage displays a picture from the scene bundle.
	WidgetImage WidgetKind = iota
	// WidgetText displays a line of text from the patch.
	WidgetText
)

// TypeString returns the widget kind identifier used in scene manifests and
// debug output.
func (k WidgetKind) TypeString() string {
	switch k {
	case WidgetImage:
		return "RjImage"
	case WidgetText:
		return "RjText"
	default:
		return "RjWidget"
	}
}

// ParseWidgetKind maps a manifest type string onto a WidgetKind.
func ParseWidgetKind(s string) (WidgetKind, error) {
	switch s {
	case "RjImage", "image":
		return WidgetImage, nil
	case "RjText", "text":
		return WidgetText, nil
	default:
		return 0, fmt.Errorf("unknown widget type %q", s)
	}
}
