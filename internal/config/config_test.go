/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"testing"
)

func TestEnvOverridesLibraryRoot(t *testing.T) {
	old := os.Getenv(EnvLibraryRoot)
	_ = os.Setenv(EnvLibraryRoot, "/tmp/scenes")
	t.Cleanup(func() { _ = os.Setenv(EnvLibraryRoot, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Library.Root, "/tmp/scenes"; got != want {
		t.Fatalf("Library.Root = %q, want %q", got, want)
	}
}

func TestEnvOverridesSampleRate(t *testing.T) {
	old := os.Getenv(EnvSampleRate)
	_ = os.Setenv(EnvSampleRate, "48000")
	t.Cleanup(func() { _ = os.Setenv(EnvSampleRate, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Audio.SampleRate != 48000 {
		t.Fatalf("Audio.SampleRate = %d, want 48000", cfg.Audio.SampleRate)
	}
}

func TestEnvOverrideRejectsBadSampleRate(t *testing.T) {
	old := os.Getenv(EnvSampleRate)
	_ = os.Setenv(EnvSampleRate, "not-a-number")
	t.Cleanup(func() { _ = os.Setenv(EnvSampleRate, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Audio.SampleRate != Defaults().Audio.SampleRate {
		t.Fatalf("bad env value should leave default, got %d", cfg.Audio.SampleRate)
	}
}

func TestMergeIncludesAudio(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Audio.SampleRate = 22050
	src.Audio.InputChannels = 2
	mergeInto(&dst, &src)
	if dst.Audio.SampleRate != 22050 || dst.Audio.InputChannels != 2 {
		t.Fatalf("audio settings were not merged: %+v", dst.Audio)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source {
		t.Fatalf("logging settings were not merged: %+v", dst.Logging)
	}
}

func TestEnvOverrideFor(t *testing.T) {
	old := os.Getenv(EnvLogLevel)
	_ = os.Setenv(EnvLogLevel, "debug")
	t.Cleanup(func() { _ = os.Setenv(EnvLogLevel, old) })
	name, ok := EnvOverrideFor("logging.level")
	if !ok || name != EnvLogLevel {
		t.Fatalf("EnvOverrideFor(logging.level) = %q, %v", name, ok)
	}
	if _, ok := EnvOverrideFor("nonexistent.key"); ok {
		t.Fatalf("unexpected override for unknown key")
	}
}
