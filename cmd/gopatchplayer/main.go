/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopatchplayer/internal/config"
	"gopatchplayer/internal/crash"
	"gopatchplayer/internal/engine"
	"gopatchplayer/internal/host"
	applog "gopatchplayer/internal/log"
	"gopatchplayer/internal/scene"
	"gopatchplayer/internal/storage"
	"gopatchplayer/internal/ui"
	"gopatchplayer/internal/version"
)

func usage() {
	fmt.Println("Go Patch Player")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gopatchplayer version|-v|--version   Show version")
	fmt.Println("  gopatchplayer scan <dir>              Index the scene library at <dir>")
	fmt.Println("  gopatchplayer list <dir>              List indexed scenes in the library at <dir>")
	fmt.Println("  gopatchplayer open <path>             Resolve and open a scene, print a summary")
	fmt.Println("  gopatchplayer ui [<dir>]              Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var libraryRoot string
	defer func() { crash.Recover(libraryRoot) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Go Patch Player")
			fmt.Println(version.String())
			return
		case "scan":
			if len(args) < 3 {
				fmt.Println("scan requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			libraryRoot = abs
			l.Info("scan library", slog.String("root", abs))
			lib, err := storage.OpenLibrary(abs)
			if err != nil {
				l.Error("open library failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			defer func() { _ = lib.Close() }()
			n, err := lib.Scan(context.Background(), scene.LibraryClassifier)
			if err != nil {
				l.Error("scan failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Indexed %d scenes in %s\n", n, abs)
			return
		case "list":
			if len(args) < 3 {
				fmt.Println("list requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			libraryRoot = abs
			lib, err := storage.OpenLibrary(abs)
			if err != nil {
				l.Error("open library failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			defer func() { _ = lib.Close() }()
			entries, err := lib.List(context.Background())
			if err != nil {
				l.Error("list failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, e := range entries {
				fmt.Printf("%-10s %s\n", e.Kind, e.Path)
			}
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <path>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open scene", slog.String("path", abs))
			info, err := os.Stat(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			typ, ok := scene.ClassifyPath(abs, info.IsDir())
			if !ok {
				fmt.Println("Error: not a recognized scene:", abs)
				os.Exit(1)
			}
			cfg, cerr := config.Load()
			if cerr != nil {
				cfg = config.Defaults()
			}
			eng := engine.NewLocal(engine.Settings{
				SampleRate:     cfg.Audio.SampleRate,
				TicksPerBuffer: cfg.Audio.TicksPerBuffer,
				InputChannels:  cfg.Audio.InputChannels,
			})
			mgr := scene.NewManager(nil, eng.SendKey)
			h := host.New(mgr, eng, host.Controls{}, nil)
			if err := h.OpenScene(abs, typ); err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			s := h.Scene()
			fmt.Printf("Opened scene: %s\n", s.Name())
			fmt.Printf("Type: %s\n", s.Type())
			if s.Author() != "" {
				fmt.Printf("Author: %s\n", s.Author())
			}
			bg := s.BackgroundSize()
			fmt.Printf("Background: %gx%g\n", bg.W, bg.H)
			// Lay the widgets out at the authored background size so the
			// summary shows their live frames.
			s.SetBackgroundSize(bg)
			fmt.Printf("Widgets: %d\n", len(s.Widgets()))
			for _, wd := range s.Widgets() {
				f := wd.Frame()
				fmt.Printf("  %-8s %-12q at (%g,%g) %gx%g\n", wd.TypeString(), wd.Label(), f.X, f.Y, f.W, f.H)
			}
			h.CloseScene()
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			} else if cfg, cerr := config.Load(); cerr == nil {
				dir = cfg.Library.Root
			}
			if dir == "" {
				fmt.Println("ui requires <dir> (or set library root in the config file or " + config.EnvLibraryRoot + ")")
				os.Exit(2)
			}
			libraryRoot = dir
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
