/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage reads scene resources from disk and maintains the local
// scene library index. It never constructs scenes itself; the scene manager
// turns the loaded data into live objects.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// ManifestFileName is the metadata file inside an rj scene directory.
const ManifestFileName = "info.json"

// WidgetEntry is one widget row from a scene manifest. Frame is x, y, w, h
// in the 320x320 patch authoring space.
type WidgetEntry struct {
	Type     string     `json:"type"`
	Frame    [4]float32 `json:"frame"`
	Centered bool       `json:"centered,omitempty"`
	Label    string     `json:"label,omitempty"`
}

// Manifest is the parsed and schema-validated content of info.json.
type Manifest struct {
	Name        string        `json:"name"`
	Author      string        `json:"author,omitempty"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	Widgets     []WidgetEntry `json:"widgets,omitempty"`
}

// manifestSchema validates info.json before decoding. Keeping the schema
// embedded means a scene bundle can be checked without any installed docs.
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-04/schema#",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "author": {"type": "string"},
    "description": {"type": "string"},
    "category": {"type": "string"},
    "widgets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "frame"],
        "properties": {
          "type": {"type": "string", "enum": ["RjImage", "RjText", "image", "text"]},
          "frame": {
            "type": "array",
            "minItems": 4,
            "maxItems": 4,
            "items": {"type": "number"}
          },
          "centered": {"type": "boolean"},
          "label": {"type": "string"}
        }
      }
    }
  }
}`

// LoadManifest reads and validates the manifest of the scene directory at
// dir. Schema violations are reported with the offending fields.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(manifestSchema)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("validate manifest: %w", err)
	}
	if !result.Valid() {
		msg := ""
		for _, e := range result.Errors() {
			if msg != "" {
				msg += "; "
			}
			msg += e.String()
		}
		return nil, fmt.Errorf("manifest %s does not conform to schema: %s", path, msg)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
