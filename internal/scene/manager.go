/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopatchplayer/internal/geom"
	applog "gopatchplayer/internal/log"
	"gopatchplayer/internal/storage"
)

// ErrUnresolvable marks a path/type pair that cannot be loaded as a scene.
var ErrUnresolvable = errors.New("scene resource unresolvable")

// Manager resolves (path, type) pairs into constructed scenes. It owns no
// scene itself; the host does. The optional library records opens.
type Manager struct {
	lib  *storage.Library
	keys KeySink
	log  *slog.Logger
}

// NewManager builds a manager. lib may be nil (opens are not recorded); keys
// may be nil (scenes take no key input) and is handed to every scene built.
func NewManager(lib *storage.Library, keys KeySink) *Manager {
	return &Manager{lib: lib, keys: keys, log: applog.WithComponent("scenemgr")}
}

// Resolve loads the resource at path as a scene of the given type. On any
// failure no scene is constructed and the error wraps ErrUnresolvable.
func (m *Manager) Resolve(path string, typ Type) (*Scene, error) {
	l := applog.WithOperation(m.log, "resolve").With(
		slog.String("path", path), slog.String("type", typ.String()),
	)

	var (
		def Def
		err error
	)
	switch typ {
	case TypeRj:
		def, err = m.rjDef(path)
	case TypePatch:
		def, err = m.fileDef(path, TypePatch, ".pd")
	case TypeRecording:
		def, err = m.fileDef(path, TypeRecording, ".wav")
	case TypeParty:
		def, err = m.partyDef(path)
	default:
		err = fmt.Errorf("%w: type %q", ErrUnresolvable, typ)
	}
	if err != nil {
		l.Warn("resolve failed", slog.Any("err", err))
		return nil, err
	}

	s := New(def, m.keys)
	if m.lib != nil {
		if rerr := m.lib.RecordOpen(context.Background(), path); rerr != nil {
			l.Warn("record open failed", slog.Any("err", rerr))
		}
	}
	l.Info("scene resolved", slog.String("name", def.Name), slog.Int("widgets", len(def.Widgets)))
	return s, nil
}

// rjDef loads an .rj scene bundle: validated manifest, background image and
// widget definitions authored in the 320x320 space.
func (m *Manager) rjDef(dir string) (Def, error) {
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return Def{}, fmt.Errorf("%w: %s is not a scene directory", ErrUnresolvable, dir)
	}
	man, err := storage.LoadManifest(dir)
	if err != nil {
		return Def{}, fmt.Errorf("%w: %v", ErrUnresolvable, err)
	}

	def := Def{
		Name:        man.Name,
		Type:        TypeRj,
		Path:        dir,
		Author:      man.Author,
		Description: man.Description,
	}
	if p, ok := storage.BackgroundImagePath(dir); ok {
		size, err := storage.ImageSize(p)
		if err != nil {
			return Def{}, fmt.Errorf("%w: %v", ErrUnresolvable, err)
		}
		def.BackgroundPath = p
		def.BackgroundSize = size
	}
	if def.BackgroundPath == "" {
		return Def{}, fmt.Errorf("%w: %s has no readable background image", ErrUnresolvable, dir)
	}

	authoring := geom.R(0, 0, geom.PatchCoordSize, geom.PatchCoordSize)
	for _, we := range man.Widgets {
		kind, err := ParseWidgetKind(we.Type)
		if err != nil {
			return Def{}, fmt.Errorf("%w: %v", ErrUnresolvable, err)
		}
		frame := geom.R(we.Frame[0], we.Frame[1], we.Frame[2], we.Frame[3])
		if !authoring.Contains(frame.Min()) || !authoring.Contains(frame.Max()) {
			// Authoring tools occasionally place widgets off the square;
			// they still lay out, just partly outside the background.
			m.log.Warn("widget extends outside authoring space",
				slog.String("label", we.Label), slog.String("dir", dir))
		}
		def.Widgets = append(def.Widgets, WidgetDef{
			Kind:     kind,
			Frame:    frame,
			Centered: we.Centered,
			Label:    we.Label,
		})
	}
	return def, nil
}

// fileDef handles the single-file scene kinds: a bare patch or a recording.
// They carry no background image; layout uses the default 320x320 square.
func (m *Manager) fileDef(path string, typ Type, ext string) (Def, error) {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() || !strings.HasSuffix(path, ext) {
		return Def{}, fmt.Errorf("%w: %s is not a %s resource", ErrUnresolvable, path, ext)
	}
	name := strings.TrimSuffix(filepath.Base(path), ext)
	return Def{
		Name:           name,
		Type:           typ,
		Path:           path,
		BackgroundSize: geom.Size{W: geom.PatchCoordSize, H: geom.PatchCoordSize},
	}, nil
}

// partyDef handles plain scene folders whose entry point is _main.pd.
func (m *Manager) partyDef(dir string) (Def, error) {
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return Def{}, fmt.Errorf("%w: %s is not a scene directory", ErrUnresolvable, dir)
	}
	if _, err := os.Stat(filepath.Join(dir, "_main.pd")); err != nil {
		return Def{}, fmt.Errorf("%w: %s has no _main.pd", ErrUnresolvable, dir)
	}
	return Def{
		Name:           filepath.Base(dir),
		Type:           TypeParty,
		Path:           dir,
		BackgroundSize: geom.Size{W: geom.PatchCoordSize, H: geom.PatchCoordSize},
	}, nil
}

// LibraryClassifier adapts ClassifyPath to the storage scan callback.
func LibraryClassifier(path string, dir bool) (string, bool) {
	t, ok := ClassifyPath(path, dir)
	if !ok {
		return "", false
	}
	return t.String(), true
}
