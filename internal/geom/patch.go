/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Conversions between the fixed 320x320 patch authoring space and the live
// coordinate space of the displayed background image. Scaling is independent
// per axis; a letterboxed or stretched background is fine. No rotation is
// applied here: orientation changes re-derive the scale from the new bounds.

// PatchCoordSize is the side length of the square authoring space in which
// widget geometry is originally specified.
const PatchCoordSize float32 = 320

// ScaleDefined reports whether (sx, sy) describes a usable transform.
// A background that has not been sized yet reports zero scale; callers must
// skip layout until the next scale update rather than divide by zero.
func ScaleDefined(sx, sy float32) bool { return sx > 0 && sy > 0 }

// ScaleForBounds derives the per-axis scale factors for a background
// displayed at the given pixel size.
func ScaleForBounds(size Size) (sx, sy float32) {
	return size.W / PatchCoordSize, size.H / PatchCoordSize
}

// AuthorToLivePt maps a point from authoring space into live space.
func AuthorToLivePt(p Pt, sx, sy float32) Pt {
	return Scale(sx, sy).Apply(p)
}

// LiveToAuthorPt maps a point from live space back into authoring space.
// Scale must be defined; check ScaleDefined first.
func LiveToAuthorPt(p Pt, sx, sy float32) Pt {
	return Scale(1/sx, 1/sy).Apply(p)
}

// AuthorToLive maps a rectangle from authoring space into live space.
func AuthorToLive(r Rect, sx, sy float32) Rect {
	return Scale(sx, sy).ApplyRect(r)
}

// LiveToAuthor maps a rectangle from live space back into authoring space.
// Scale must be defined; check ScaleDefined first.
func LiveToAuthor(r Rect, sx, sy float32) Rect {
	return Scale(1/sx, 1/sy).ApplyRect(r)
}
