/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package host

// Orientation is the discrete device orientation reported by the platform.
type Orientation int

const (
	OrientationUnknown Orientation = iota
	OrientationPortrait
	OrientationPortraitUpsideDown
	OrientationLandscapeLeft
	OrientationLandscapeRight
)

func (o Orientation) String() string {
	switch o {
	case OrientationPortrait:
		return "portrait"
	case OrientationPortraitUpsideDown:
		return "portrait-upside-down"
	case OrientationLandscapeLeft:
		return "landscape-left"
	case OrientationLandscapeRight:
		return "landscape-right"
	default:
		return "unknown"
	}
}

// OrientationInDegrees converts a device orientation into the content
// rotation in degrees, following the device-sensor convention: landscape
// left rotates content 90, landscape right 270, upside down 180. Anything
// outside the four recognized values is a safe 0, not an error.
func OrientationInDegrees(o Orientation) int {
	switch o {
	case OrientationPortrait:
		return 0
	case OrientationPortraitUpsideDown:
		return 180
	case OrientationLandscapeLeft:
		return 90
	case OrientationLandscapeRight:
		return 270
	default:
		return 0
	}
}
