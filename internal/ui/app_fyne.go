//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"gopatchplayer/internal/config"
	"gopatchplayer/internal/crash"
	"gopatchplayer/internal/engine"
	"gopatchplayer/internal/geom"
	"gopatchplayer/internal/host"
	applog "gopatchplayer/internal/log"
	"gopatchplayer/internal/scene"
	"gopatchplayer/internal/storage"
	"gopatchplayer/internal/telemetry"
)

// Run starts the Fyne-based desktop shell: a library browser on the left, the
// scene canvas in the middle and the transport controls at the bottom.
func Run(libraryDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("library", libraryDir))

	defer func() { crash.Recover(libraryDir) }()

	fyneApp := app.NewWithID("gopatchplayer")
	w := fyneApp.NewWindow("Go Patch Player")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1024)
	winH := prefs.IntWithFallback("window.height", 720)
	if winW < 640 {
		winW = 640
	}
	if winH < 480 {
		winH = 480
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	lib, err := storage.OpenLibrary(libraryDir)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer func() {
		if cerr := lib.Close(); cerr != nil {
			l.Error("close library failed", slog.Any("err", cerr))
		}
	}()

	cfg, cerr := config.Load()
	if cerr != nil {
		cfg = config.Defaults()
	}
	eng := engine.NewLocal(engine.Settings{
		SampleRate:     cfg.Audio.SampleRate,
		TicksPerBuffer: cfg.Audio.TicksPerBuffer,
		InputChannels:  cfg.Audio.InputChannels,
	})
	mgr := scene.NewManager(lib, eng.SendKey)

	status := widget.NewLabel("Ready")
	sceneCanvas := NewSceneCanvas()

	// Transport controls. The host pushes engine state into them and the
	// check/slider callbacks push user changes back out through the host.
	var h *host.Host
	pauseCheck := newSyncedCheck("Pause", func(on bool) {
		h.ControlChanged(host.ControlEvent{Control: host.ControlPause, On: on})
	})
	recordCheck := newSyncedCheck("Record", func(on bool) {
		h.ControlChanged(host.ControlEvent{Control: host.ControlRecord, On: on})
	})
	levelSlider := newSyncedSlider(func(v float64) {
		h.ControlChanged(host.ControlEvent{Control: host.ControlLevel, Value: v})
	})
	keys := &canvasKeys{canvas: w.Canvas()}

	h = host.New(mgr, eng, host.Controls{
		Pause:  pauseCheck,
		Record: recordCheck,
		Level:  levelSlider.control(),
	}, keys)

	// Library browser (left): cached background thumbnail plus name per row.
	var entries []storage.Entry
	entriesDisplay := []string{}
	thumbs := map[string]fyne.Resource{}
	sceneList := widget.NewList(
		func() int { return len(entriesDisplay) },
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(nil), widget.NewLabel(""))
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			row := o.(*fyne.Container)
			icon := row.Objects[0].(*widget.Icon)
			label := row.Objects[1].(*widget.Label)
			if i >= 0 && int(i) < len(entries) {
				label.SetText(entriesDisplay[i])
				icon.SetResource(thumbs[entries[i].Path])
			} else {
				label.SetText("")
				icon.SetResource(nil)
			}
		},
	)
	refreshSceneList := func() {
		list, lerr := lib.List(context.Background())
		if lerr != nil {
			l.Error("list library failed", slog.Any("err", lerr))
			return
		}
		entries = list
		entriesDisplay = entriesDisplay[:0]
		clear(thumbs)
		for _, e := range entries {
			entriesDisplay = append(entriesDisplay, fmt.Sprintf("%s (%s)", e.Name, e.Kind))
			if blob, terr := lib.Thumb(context.Background(), e.Path); terr == nil && blob != nil {
				thumbs[e.Path] = fyne.NewStaticResource(e.Name+".png", blob)
			}
		}
		sceneList.Refresh()
	}

	openEntry := func(e storage.Entry) {
		typ, perr := scene.ParseType(e.Kind)
		if perr != nil {
			dialog.ShowError(perr, w)
			return
		}
		if oerr := h.OpenScene(e.Path, typ); oerr != nil {
			l.Warn("open scene failed", slog.Any("err", oerr))
			dialog.ShowError(oerr, w)
			status.SetText("Open failed")
			sceneCanvas.SetScene(nil)
			return
		}
		s := h.Scene()
		sceneCanvas.SetScene(s)
		telemetry.SceneOpened(s.Type().String())
		status.SetText(fmt.Sprintf("Playing %s", s.Name()))
	}
	sceneList.OnSelected = func(id widget.ListItemID) {
		if int(id) < 0 || int(id) >= len(entries) {
			return
		}
		openEntry(entries[int(id)])
	}

	rescanBtn := widget.NewButton("Rescan", func() {
		n, serr := lib.Scan(context.Background(), scene.LibraryClassifier)
		if serr != nil {
			dialog.ShowError(serr, w)
			return
		}
		refreshSceneList()
		status.SetText(fmt.Sprintf("Indexed %d scenes", n))
	})
	closeBtn := widget.NewButton("Close Scene", func() {
		if h.State() == host.NoScene {
			return
		}
		h.CloseScene()
		sceneCanvas.SetScene(nil)
		sceneList.UnselectAll()
		telemetry.SceneClosed()
		status.SetText("Ready")
	})
	left := container.NewBorder(
		container.NewVBox(widget.NewLabel("Library"), widget.NewSeparator()),
		container.NewVBox(rescanBtn, closeBtn),
		nil, nil, sceneList,
	)

	// Orientation selector; content rotation follows the sensor convention.
	orientations := []host.Orientation{
		host.OrientationPortrait,
		host.OrientationPortraitUpsideDown,
		host.OrientationLandscapeLeft,
		host.OrientationLandscapeRight,
	}
	orientationNames := make([]string, len(orientations))
	for i, o := range orientations {
		orientationNames[i] = o.String()
	}
	rotationLabel := widget.NewLabel("0°")
	orientationSelect := widget.NewSelect(orientationNames, func(sel string) {
		for _, o := range orientations {
			if o.String() == sel {
				deg := host.OrientationInDegrees(o)
				sceneCanvas.SetRotation(deg)
				rotationLabel.SetText(fmt.Sprintf("%d°", deg))
				return
			}
		}
	})
	orientationSelect.SetSelected(host.OrientationPortrait.String())

	transport := container.NewHBox(
		pauseCheck.check, recordCheck.check,
		widget.NewLabel("Input"), levelSlider.slider,
		widget.NewSeparator(),
		widget.NewLabel("Orientation"), orientationSelect, rotationLabel,
	)
	bottom := container.NewVBox(transport, status)

	w.SetContent(container.NewBorder(nil, bottom, left, nil, sceneCanvas))

	refreshSceneList()
	if len(entries) == 0 {
		if _, serr := lib.Scan(context.Background(), scene.LibraryClassifier); serr == nil {
			refreshSceneList()
		}
	}

	w.SetCloseIntercept(func() {
		h.CloseScene()
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})
	w.ShowAndRun()
	return nil
}

// syncedCheck adapts a Fyne check to the host's toggle view. Programmatic
// SetOn calls must not loop back into the engine, so they are guarded.
type syncedCheck struct {
	check   *widget.Check
	syncing bool
}

func newSyncedCheck(label string, onChanged func(bool)) *syncedCheck {
	c := &syncedCheck{}
	c.check = widget.NewCheck(label, func(on bool) {
		if c.syncing {
			return
		}
		onChanged(on)
	})
	c.check.Disable()
	return c
}

func (c *syncedCheck) SetOn(on bool) {
	c.syncing = true
	c.check.SetChecked(on)
	c.syncing = false
}

func (c *syncedCheck) SetEnabled(enabled bool) {
	if enabled {
		c.check.Enable()
	} else {
		c.check.Disable()
	}
}

// syncedSlider adapts a Fyne slider to the host's level view with the same
// feedback guard as syncedCheck.
type syncedSlider struct {
	slider  *widget.Slider
	syncing bool
}

func newSyncedSlider(onChanged func(float64)) *syncedSlider {
	s := &syncedSlider{slider: widget.NewSlider(0, 1)}
	s.slider.Step = 0.01
	s.slider.OnChanged = func(v float64) {
		if s.syncing {
			return
		}
		onChanged(v)
	}
	s.slider.Disable()
	return s
}

func (s *syncedSlider) control() host.LevelSlider { return s }

func (s *syncedSlider) Range() (min, max float64) { return s.slider.Min, s.slider.Max }

func (s *syncedSlider) SetValue(v float64) {
	s.syncing = true
	s.slider.SetValue(v)
	s.syncing = false
}

func (s *syncedSlider) SetEnabled(enabled bool) {
	if enabled {
		s.slider.Enable()
	} else {
		s.slider.Disable()
	}
}

// canvasKeys routes typed runes from the window canvas to the host while a
// scene holds key focus.
type canvasKeys struct {
	canvas fyne.Canvas
}

func (k *canvasKeys) Grab(fn func(key int)) {
	k.canvas.SetOnTypedRune(func(r rune) { fn(int(r)) })
}

func (k *canvasKeys) Release() {
	k.canvas.SetOnTypedRune(nil)
}

// SceneCanvas renders the active scene: the background image stretched over
// the canvas plus one labeled box per widget, positioned from the widget's
// live frame. Layout drives the scene's background size, so widgets track
// every resize.
type SceneCanvas struct {
	widget.BaseWidget

	scene    *scene.Scene
	rotation int // degrees, content rotation for the orientation display
}

func NewSceneCanvas() *SceneCanvas {
	sc := &SceneCanvas{}
	sc.ExtendBaseWidget(sc)
	return sc
}

// SetScene swaps the displayed scene. Pass nil to clear.
func (sc *SceneCanvas) SetScene(s *scene.Scene) {
	sc.scene = s
	sc.Refresh()
}

// SetRotation updates the content rotation in degrees.
func (sc *SceneCanvas) SetRotation(deg int) {
	sc.rotation = deg
	sc.Refresh()
}

func (sc *SceneCanvas) PreferredSize() fyne.Size { return fyne.NewSize(640, 640) }

func (sc *SceneCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 24, G: 24, B: 28, A: 255})
	empty := canvas.NewText("No scene open", color.RGBA{R: 160, G: 160, B: 160, A: 255})
	return &sceneCanvasRenderer{sc: sc, bg: bg, empty: empty}
}

type sceneCanvasRenderer struct {
	sc    *SceneCanvas
	bg    *canvas.Rectangle
	empty *canvas.Text

	background *canvas.Image
	boxes      []*canvas.Rectangle
	labels     []*canvas.Text
}

func (r *sceneCanvasRenderer) Destroy() {}

func (r *sceneCanvasRenderer) MinSize() fyne.Size { return fyne.NewSize(320, 320) }

func (r *sceneCanvasRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.bg}
	if r.sc.scene == nil {
		return append(objs, r.empty)
	}
	if r.background != nil {
		objs = append(objs, r.background)
	}
	for i := range r.boxes {
		objs = append(objs, r.boxes[i], r.labels[i])
	}
	return objs
}

// Refresh rebuilds the per-widget visuals; Layout then places them.
func (r *sceneCanvasRenderer) Refresh() {
	r.background = nil
	r.boxes = r.boxes[:0]
	r.labels = r.labels[:0]
	if s := r.sc.scene; s != nil {
		if s.BackgroundPath() != "" {
			var img *canvas.Image
			if rotated, err := storage.RotatedImage(s.BackgroundPath(), r.sc.rotation); err == nil {
				img = canvas.NewImageFromImage(rotated)
			} else {
				img = canvas.NewImageFromFile(s.BackgroundPath())
			}
			img.FillMode = canvas.ImageFillStretch
			r.background = img
		}
		for _, wd := range s.Widgets() {
			box := canvas.NewRectangle(color.RGBA{R: 60, G: 60, B: 70, A: 200})
			box.StrokeColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
			box.StrokeWidth = 1
			r.boxes = append(r.boxes, box)
			r.labels = append(r.labels, canvas.NewText(wd.Label(), color.White))
		}
	}
	r.Layout(r.sc.Size())
	canvas.Refresh(r.sc)
}

func (r *sceneCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	s := r.sc.scene
	if s == nil {
		r.empty.Move(fyne.NewPos(size.Width/2-60, size.Height/2-10))
		return
	}

	// Content is laid out unrotated in its own space, sized so the rotated
	// footprint fills the canvas, then mapped through the quarter-turn
	// transform. The scene derives the background scale from the content
	// bounds and reshapes every widget.
	deg := geom.NormalizeQuarter(r.sc.rotation)
	content := geom.RotatedSize(deg, geom.Size{W: size.Width, H: size.Height})
	s.SetBackgroundSize(content)
	m := geom.RotationFor(deg, content)

	if r.background != nil {
		bg := m.ApplyRect(geom.R(0, 0, content.W, content.H))
		r.background.Resize(fyne.NewSize(bg.W, bg.H))
		r.background.Move(fyne.NewPos(bg.X, bg.Y))
	}
	widgets := s.Widgets()
	for i, wd := range widgets {
		if i >= len(r.boxes) {
			break
		}
		f := m.ApplyRect(wd.Frame())
		r.boxes[i].Resize(fyne.NewSize(f.W, f.H))
		r.boxes[i].Move(fyne.NewPos(f.X, f.Y))
		lp := f.Inset(4, 4)
		r.labels[i].Move(fyne.NewPos(lp.X, lp.Y))
	}
}
