/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// Quarter-turn content rotation for the orientation display. Content is
// laid out unrotated in its own space and then mapped into the display
// through the transform returned here.

// NormalizeQuarter clamps a rotation in degrees to one of 0, 90, 180, 270.
// Values off the quarter grid flatten to 0.
func NormalizeQuarter(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	switch deg {
	case 90, 180, 270:
		return deg
	default:
		return 0
	}
}

// RotatedSize returns the footprint of a content size after a quarter-turn:
// width and height swap at 90 and 270.
func RotatedSize(deg int, s Size) Size {
	switch NormalizeQuarter(deg) {
	case 90, 270:
		return Size{W: s.H, H: s.W}
	default:
		return s
	}
}

// RotationFor returns the transform that turns content of the given size by
// deg quarter-turn degrees and shifts it back into the positive quadrant,
// so the rotated content occupies the origin-anchored RotatedSize footprint.
func RotationFor(deg int, content Size) Affine2D {
	deg = NormalizeQuarter(deg)
	if deg == 0 {
		return Identity
	}
	rad := float32(float64(deg) * math.Pi / 180)
	var tx, ty float32
	switch deg {
	case 90:
		tx = content.H
	case 180:
		tx, ty = content.W, content.H
	case 270:
		ty = content.W
	}
	return Translate(tx, ty).Mul(Rotate(rad))
}
