package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// leWriter writes little-endian values and latches the first error so
// encoders can write straight through without checking every call.
type leWriter struct {
	w   io.Writer
	err error
}

func (w *leWriter) value(v any) {
	if w.err != nil {
		return
	}
	w.err = binary.Write(w.w, binary.LittleEndian, v)
}

func (w *leWriter) bytes(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

// boneName writes a name into the fixed-width null-padded field.
func (w *leWriter) boneName(s string) {
	if w.err != nil {
		return
	}
	var name [boneNameLen]byte
	copy(name[:], s)
	_, w.err = w.w.Write(name[:])
}

// Encode serializes the mesh in the binary layout ParseSKM reads. The
// mesh is validated first; encoding an invalid mesh would only defer
// the failure to load time. A zero Version encodes as 1.0.
func (m *SKM) Encode() ([]byte, error) {
	if len(m.Bones) == 0 || len(m.Bones) > MaxBones {
		return nil, fmt.Errorf("SKM bone count %d out of range 1..%d", len(m.Bones), MaxBones)
	}
	if len(m.Vertices) > maxSKMVertices {
		return nil, fmt.Errorf("SKM vertex count %d exceeds %d", len(m.Vertices), maxSKMVertices)
	}
	if len(m.Indices) > maxSKMIndices {
		return nil, fmt.Errorf("SKM index count %d exceeds %d", len(m.Indices), maxSKMIndices)
	}
	if len(m.Indices)%3 != 0 {
		return nil, fmt.Errorf("SKM index count %d is not a multiple of 3", len(m.Indices))
	}
	if len(m.Texture) > 0xFFFF {
		return nil, fmt.Errorf("SKM texture name length %d exceeds %d", len(m.Texture), 0xFFFF)
	}
	for i := range m.Bones {
		if len(m.Bones[i].Name) > boneNameLen {
			return nil, fmt.Errorf("bone %d: name %q longer than %d bytes", i, m.Bones[i].Name, boneNameLen)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to encode invalid mesh: %w", err)
	}

	version := m.Version
	if version.Major == 0 {
		version = SKMVersion{Major: 1}
	}

	buf := new(bytes.Buffer)
	buf.WriteString("SKMF")
	buf.WriteByte(version.Major)
	buf.WriteByte(version.Minor)

	w := &leWriter{w: buf}
	w.value(uint16(len(m.Bones)))
	for i := range m.Bones {
		bone := &m.Bones[i]
		w.boneName(bone.Name)
		w.value(bone.Parent)
		w.value(bone.RestTranslation)
		w.value(bone.RestRotation)
		w.value(bone.RestScale)
		w.value(bone.InverseBind)
	}

	w.value(uint32(len(m.Vertices)))
	w.value(m.Vertices)
	w.value(uint32(len(m.Indices)))
	w.value(m.Indices)

	w.value(uint16(len(m.Texture)))
	w.bytes([]byte(m.Texture))

	if w.err != nil {
		return nil, fmt.Errorf("encoding SKM: %w", w.err)
	}
	return buf.Bytes(), nil
}

// Encode serializes the clip in the binary layout ParseSKA reads. Keys
// must already be in ascending time order. A zero Version encodes as 1.0.
func (a *SKA) Encode() ([]byte, error) {
	if a.Duration <= 0 {
		return nil, fmt.Errorf("invalid SKA duration: %f", a.Duration)
	}
	if len(a.Name) > 0xFFFF {
		return nil, fmt.Errorf("SKA name length %d exceeds %d", len(a.Name), 0xFFFF)
	}
	if len(a.Channels) > maxSKAChannels {
		return nil, fmt.Errorf("SKA channel count %d exceeds %d", len(a.Channels), maxSKAChannels)
	}
	for i := range a.Channels {
		ch := &a.Channels[i]
		if len(ch.Bone) > boneNameLen {
			return nil, fmt.Errorf("channel %d: bone name %q longer than %d bytes", i, ch.Bone, boneNameLen)
		}
		if len(ch.RotKeys) > maxSKAKeys || len(ch.PosKeys) > maxSKAKeys {
			return nil, fmt.Errorf("channel %s: too many keys", ch.Bone)
		}
		for j := 1; j < len(ch.RotKeys); j++ {
			if ch.RotKeys[j].Time <= ch.RotKeys[j-1].Time {
				return nil, fmt.Errorf("channel %s: %w: rotation key %d", ch.Bone, ErrUnsortedSKAKeys, j)
			}
		}
		for j := 1; j < len(ch.PosKeys); j++ {
			if ch.PosKeys[j].Time <= ch.PosKeys[j-1].Time {
				return nil, fmt.Errorf("channel %s: %w: position key %d", ch.Bone, ErrUnsortedSKAKeys, j)
			}
		}
	}

	version := a.Version
	if version.Major == 0 {
		version = SKAVersion{Major: 1}
	}

	buf := new(bytes.Buffer)
	buf.WriteString("SKAF")
	buf.WriteByte(version.Major)
	buf.WriteByte(version.Minor)

	w := &leWriter{w: buf}
	w.value(uint16(len(a.Name)))
	w.bytes([]byte(a.Name))
	w.value(a.Duration)

	var flags uint8
	if a.Loop {
		flags |= skaFlagLoop
	}
	w.value(flags)

	w.value(uint16(len(a.Channels)))
	for i := range a.Channels {
		ch := &a.Channels[i]
		w.boneName(ch.Bone)
		w.value(uint32(len(ch.RotKeys)))
		w.value(ch.RotKeys)
		w.value(uint32(len(ch.PosKeys)))
		w.value(ch.PosKeys)
	}

	if w.err != nil {
		return nil, fmt.Errorf("encoding SKA: %w", w.err)
	}
	return buf.Bytes(), nil
}
