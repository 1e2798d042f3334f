/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "gopatchplayer/internal/log"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// LibraryDirName stores all index data under the library root.
	LibraryDirName  = ".gpp"
	LibraryFileName = "library.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 1

	// thumbMaxDim bounds the longer side of cached browser thumbnails.
	thumbMaxDim = 96
)

// Entry is one indexed scene resource.
type Entry struct {
	Path       string
	Name       string
	Kind       string // scene type name, e.g. "rj" or "patch"
	ModTime    time.Time
	LastOpened time.Time // zero if never opened
}

// Classifier decides whether a library path is a scene and what kind. The
// scene package supplies the canonical implementation; storage stays free of
// a dependency on scene type enums.
type Classifier func(path string, dir bool) (kind string, ok bool)

// Library is the per-directory scene index backed by an embedded SQLite
// database at <root>/.gpp/library.sqlite.
type Library struct {
	root string
	db   *sql.DB
}

// LibraryPath returns the full path to the index database for a library root.
func LibraryPath(root string) string {
	return filepath.Join(root, LibraryDirName, LibraryFileName)
}

// OpenLibrary opens (creating if needed) the scene index for the given
// library root, enables WAL mode, and ensures the schema exists.
func OpenLibrary(root string) (*Library, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "library_open").With(
		slog.String("root", root),
	)
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("library root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, LibraryDirName), 0o755); err != nil {
		l.Error("create .gpp dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .gpp dir: %w", err)
	}

	// Use a URI with shared cache and a busy timeout. Convert to forward
	// slashes for the SQLite URI.
	uriPath := filepath.ToSlash(LibraryPath(root))
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Embedded usage: one writer is plenty.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("library opened")
	return &Library{root: root, db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scenes (
			path        TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			kind        TEXT NOT NULL,
			mtime       TEXT NOT NULL,
			last_opened TEXT,
			thumb       BLOB
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scenes_last_opened ON scenes(last_opened);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
		fmt.Sprintf("%d", schemaVersion)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}

// Root returns the library root directory.
func (lib *Library) Root() string { return lib.root }

// Close releases the underlying database.
func (lib *Library) Close() error { return lib.db.Close() }

// Scan walks the library root, indexing every path the classifier accepts.
// Scene directories are not descended into. Rows for resources that have
// disappeared are removed; last-opened stamps of surviving rows are kept.
// Returns the number of indexed scenes.
func (lib *Library) Scan(ctx context.Context, classify Classifier) (int, error) {
	if classify == nil {
		return 0, errors.New("classifier is required")
	}
	l := applog.WithOperation(applog.WithComponent("storage"), "library_scan")

	seen := map[string]bool{}
	err := filepath.WalkDir(lib.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == lib.root {
			return nil
		}
		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		kind, ok := classify(path, d.IsDir())
		if !ok {
			return nil
		}
		info, ierr := d.Info()
		if ierr != nil {
			return ierr
		}
		name := strings.TrimSuffix(base, filepath.Ext(base))
		if uerr := lib.upsert(ctx, path, name, kind, info.ModTime()); uerr != nil {
			return uerr
		}
		seen[path] = true
		if d.IsDir() {
			// a scene bundle, not a folder of scenes
			if bg, ok := BackgroundImagePath(path); ok {
				if blob, terr := Thumbnail(bg, thumbMaxDim); terr == nil {
					if serr := lib.StoreThumb(ctx, path, blob); serr != nil {
						l.Warn("store thumbnail failed", slog.Any("err", serr))
					}
				} else {
					l.Warn("thumbnail failed", slog.String("image", bg), slog.Any("err", terr))
				}
			}
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan library: %w", err)
	}

	if err := lib.pruneMissing(ctx, seen); err != nil {
		return 0, err
	}
	l.Info("library scanned", slog.Int("scenes", len(seen)))
	return len(seen), nil
}

func (lib *Library) upsert(ctx context.Context, path, name, kind string, mtime time.Time) error {
	_, err := lib.db.ExecContext(ctx,
		`INSERT INTO scenes(path, name, kind, mtime) VALUES(?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET name=excluded.name, kind=excluded.kind, mtime=excluded.mtime;`,
		path, name, kind, mtime.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("index scene %s: %w", path, err)
	}
	return nil
}

func (lib *Library) pruneMissing(ctx context.Context, seen map[string]bool) error {
	rows, err := lib.db.QueryContext(ctx, `SELECT path FROM scenes;`)
	if err != nil {
		return fmt.Errorf("list indexed paths: %w", err)
	}
	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			_ = rows.Close()
			return err
		}
		if !seen[p] {
			stale = append(stale, p)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	_ = rows.Close()
	for _, p := range stale {
		if _, err := lib.db.ExecContext(ctx, `DELETE FROM scenes WHERE path=?;`, p); err != nil {
			return fmt.Errorf("prune %s: %w", p, err)
		}
	}
	return nil
}

// List returns all indexed scenes ordered by name.
func (lib *Library) List(ctx context.Context) ([]Entry, error) {
	return lib.query(ctx,
		`SELECT path, name, kind, mtime, last_opened FROM scenes ORDER BY name, path;`)
}

// Recent returns the n most recently opened scenes, newest first.
func (lib *Library) Recent(ctx context.Context, n int) ([]Entry, error) {
	return lib.query(ctx,
		`SELECT path, name, kind, mtime, last_opened FROM scenes
		 WHERE last_opened IS NOT NULL ORDER BY last_opened DESC LIMIT ?;`, n)
}

func (lib *Library) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := lib.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query scenes: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var mtime string
		var opened sql.NullString
		if err := rows.Scan(&e.Path, &e.Name, &e.Kind, &mtime, &opened); err != nil {
			return nil, err
		}
		e.ModTime, _ = time.Parse(time.RFC3339Nano, mtime)
		if opened.Valid {
			e.LastOpened, _ = time.Parse(time.RFC3339Nano, opened.String)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecordOpen stamps a scene as opened now. Unknown paths are a no-op so a
// scene opened from outside the library does not fail the caller.
func (lib *Library) RecordOpen(ctx context.Context, path string) error {
	_, err := lib.db.ExecContext(ctx,
		`UPDATE scenes SET last_opened=? WHERE path=?;`,
		time.Now().UTC().Format(time.RFC3339Nano), path)
	if err != nil {
		return fmt.Errorf("record open %s: %w", path, err)
	}
	return nil
}

// StoreThumb caches a PNG thumbnail blob for an indexed scene.
func (lib *Library) StoreThumb(ctx context.Context, path string, blob []byte) error {
	_, err := lib.db.ExecContext(ctx, `UPDATE scenes SET thumb=? WHERE path=?;`, blob, path)
	if err != nil {
		return fmt.Errorf("store thumb %s: %w", path, err)
	}
	return nil
}

// Thumb returns the cached thumbnail for a scene, or nil if none is cached.
func (lib *Library) Thumb(ctx context.Context, path string) ([]byte, error) {
	var blob []byte
	err := lib.db.QueryRowContext(ctx, `SELECT thumb FROM scenes WHERE path=?;`, path).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load thumb %s: %w", path, err)
	}
	return blob, nil
}
