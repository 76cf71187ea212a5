package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// SKM format errors.
var (
	ErrInvalidSKMMagic       = errors.New("invalid SKM magic: expected 'SKMF'")
	ErrUnsupportedSKMVersion = errors.New("unsupported SKM version")
	ErrTruncatedSKMData      = errors.New("truncated SKM data")
)

// Parser sanity limits. Placeholder meshes are far smaller; these only
// guard against allocating from corrupt counts.
const (
	maxSKMVertices = 1 << 20
	maxSKMIndices  = 1 << 22
)

// SKMVersion represents the SKM file version.
type SKMVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v SKMVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// SKMBone is one joint of the skeleton. Parent is -1 for the root and
// otherwise indexes an earlier bone. The rest pose is the local transform
// used when no animation channel drives the bone.
type SKMBone struct {
	Name            string
	Parent          int16
	RestTranslation [3]float32
	RestRotation    [4]float32 // x, y, z, w
	RestScale       [3]float32
	InverseBind     [16]float32 // column-major
}

// SKMVertex is a skinned vertex with up to four bone influences.
type SKMVertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
	Bones    [4]uint8
	Weights  [4]float32
}

// SKM represents a parsed skinned mesh file.
type SKM struct {
	Version  SKMVersion
	Bones    []SKMBone
	Vertices []SKMVertex
	Indices  []uint32
	Texture  string
}

// BoneIndex returns the index of the named bone, or -1 if absent.
func (m *SKM) BoneIndex(name string) int {
	for i := range m.Bones {
		if m.Bones[i].Name == name {
			return i
		}
	}
	return -1
}

// Validate checks skeleton and skinning consistency: parents precede
// children, bone influences stay in range, weights are normalized, and
// triangle indices reference real vertices.
func (m *SKM) Validate() error {
	for i, bone := range m.Bones {
		if bone.Parent >= 0 && int(bone.Parent) >= i {
			return fmt.Errorf("bone %d (%s): parent %d does not precede it", i, bone.Name, bone.Parent)
		}
		if bone.Parent < -1 {
			return fmt.Errorf("bone %d (%s): invalid parent %d", i, bone.Name, bone.Parent)
		}
	}

	for i, v := range m.Vertices {
		var sum float32
		for j := 0; j < 4; j++ {
			w := v.Weights[j]
			if w < 0 {
				return fmt.Errorf("vertex %d: negative weight %f", i, w)
			}
			if w > 0 && int(v.Bones[j]) >= len(m.Bones) {
				return fmt.Errorf("vertex %d: bone index %d out of range", i, v.Bones[j])
			}
			sum += w
		}
		if sum < 0.99 || sum > 1.01 {
			return fmt.Errorf("vertex %d: weights sum to %f, want 1", i, sum)
		}
	}

	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("index %d: vertex %d out of range", i, idx)
		}
	}

	return nil
}

// ParseSKM parses a skinned mesh from raw bytes.
func ParseSKM(data []byte) (*SKM, error) {
	if len(data) < 8 {
		return nil, ErrTruncatedSKMData
	}

	// Check magic "SKMF"
	if string(data[0:4]) != "SKMF" {
		return nil, ErrInvalidSKMMagic
	}

	version := SKMVersion{
		Major: data[4],
		Minor: data[5],
	}
	if version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSKMVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var boneCount uint16
	if err := binary.Read(r, binary.LittleEndian, &boneCount); err != nil {
		return nil, fmt.Errorf("%w: reading bone count", ErrTruncatedSKMData)
	}
	if boneCount == 0 || boneCount > MaxBones {
		return nil, fmt.Errorf("invalid SKM bone count: %d (max %d)", boneCount, MaxBones)
	}

	mesh := &SKM{
		Version: version,
		Bones:   make([]SKMBone, boneCount),
	}

	for i := uint16(0); i < boneCount; i++ {
		bone, err := parseSKMBone(r)
		if err != nil {
			return nil, fmt.Errorf("parsing bone %d: %w", i, err)
		}
		mesh.Bones[i] = bone
	}

	var vertexCount uint32
	if err := binary.Read(r, binary.LittleEndian, &vertexCount); err != nil {
		return nil, fmt.Errorf("%w: reading vertex count", ErrTruncatedSKMData)
	}
	if vertexCount > maxSKMVertices {
		return nil, fmt.Errorf("invalid SKM vertex count: %d", vertexCount)
	}

	mesh.Vertices = make([]SKMVertex, vertexCount)
	for i := uint32(0); i < vertexCount; i++ {
		if err := binary.Read(r, binary.LittleEndian, &mesh.Vertices[i]); err != nil {
			return nil, fmt.Errorf("%w: reading vertex %d", ErrTruncatedSKMData, i)
		}
	}

	var indexCount uint32
	if err := binary.Read(r, binary.LittleEndian, &indexCount); err != nil {
		return nil, fmt.Errorf("%w: reading index count", ErrTruncatedSKMData)
	}
	if indexCount > maxSKMIndices {
		return nil, fmt.Errorf("invalid SKM index count: %d", indexCount)
	}
	if indexCount%3 != 0 {
		return nil, fmt.Errorf("SKM index count %d is not a multiple of 3", indexCount)
	}

	mesh.Indices = make([]uint32, indexCount)
	if err := binary.Read(r, binary.LittleEndian, &mesh.Indices); err != nil {
		return nil, fmt.Errorf("%w: reading indices", ErrTruncatedSKMData)
	}

	var texLen uint16
	if err := binary.Read(r, binary.LittleEndian, &texLen); err != nil {
		return nil, fmt.Errorf("%w: reading texture name length", ErrTruncatedSKMData)
	}
	if texLen > 0 {
		texBytes := make([]byte, texLen)
		if _, err := io.ReadFull(r, texBytes); err != nil {
			return nil, fmt.Errorf("%w: reading texture name", ErrTruncatedSKMData)
		}
		mesh.Texture = string(texBytes)
	}

	return mesh, nil
}

// parseSKMBone parses a single bone record.
func parseSKMBone(r *bytes.Reader) (SKMBone, error) {
	var bone SKMBone

	nameBytes := make([]byte, boneNameLen)
	if _, err := io.ReadFull(r, nameBytes); err != nil {
		return SKMBone{}, fmt.Errorf("%w: reading name", ErrTruncatedSKMData)
	}
	bone.Name = trimName(nameBytes)

	if err := binary.Read(r, binary.LittleEndian, &bone.Parent); err != nil {
		return SKMBone{}, fmt.Errorf("%w: reading parent", ErrTruncatedSKMData)
	}
	if err := binary.Read(r, binary.LittleEndian, &bone.RestTranslation); err != nil {
		return SKMBone{}, fmt.Errorf("%w: reading rest translation", ErrTruncatedSKMData)
	}
	if err := binary.Read(r, binary.LittleEndian, &bone.RestRotation); err != nil {
		return SKMBone{}, fmt.Errorf("%w: reading rest rotation", ErrTruncatedSKMData)
	}
	if err := binary.Read(r, binary.LittleEndian, &bone.RestScale); err != nil {
		return SKMBone{}, fmt.Errorf("%w: reading rest scale", ErrTruncatedSKMData)
	}
	if err := binary.Read(r, binary.LittleEndian, &bone.InverseBind); err != nil {
		return SKMBone{}, fmt.Errorf("%w: reading inverse bind", ErrTruncatedSKMData)
	}

	return bone, nil
}

// ParseSKMFile parses a skinned mesh file from disk.
func ParseSKMFile(path string) (*SKM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading SKM file: %w", err)
	}
	return ParseSKM(data)
}
