// Package formats provides parsers for the walkabout binary asset formats:
// SKM (skinned mesh) and SKA (skeletal animation clip).
package formats

import "bytes"

// boneNameLen is the fixed width of bone name fields in SKM and SKA files.
const boneNameLen = 32

// MaxBones is the largest skeleton the formats (and the GPU palette) allow.
const MaxBones = 64

// trimName extracts a null-padded fixed-width name.
func trimName(b []byte) string {
	if idx := bytes.IndexByte(b, 0); idx >= 0 {
		return string(b[:idx])
	}
	return string(b)
}
