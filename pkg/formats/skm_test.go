package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// createTestSKM builds a minimal valid SKM file: a two-bone skeleton with
// three vertices forming one triangle.
func createTestSKM(texture string) []byte {
	buf := new(bytes.Buffer)

	// Magic "SKMF", version 1.0
	buf.WriteString("SKMF")
	buf.WriteByte(1)
	buf.WriteByte(0)

	// Bones
	binary.Write(buf, binary.LittleEndian, uint16(2))
	writeTestBone(buf, "root", -1, [3]float32{0, 0, 0})
	writeTestBone(buf, "limb", 0, [3]float32{0, 1, 0})

	// Vertices
	binary.Write(buf, binary.LittleEndian, uint32(3))
	writeTestVertex(buf, [3]float32{0, 0, 0}, 0)
	writeTestVertex(buf, [3]float32{1, 0, 0}, 0)
	writeTestVertex(buf, [3]float32{0, 2, 0}, 1)

	// One triangle
	binary.Write(buf, binary.LittleEndian, uint32(3))
	binary.Write(buf, binary.LittleEndian, uint32(0))
	binary.Write(buf, binary.LittleEndian, uint32(1))
	binary.Write(buf, binary.LittleEndian, uint32(2))

	// Texture name
	binary.Write(buf, binary.LittleEndian, uint16(len(texture)))
	buf.WriteString(texture)

	return buf.Bytes()
}

func writeTestBone(buf *bytes.Buffer, name string, parent int16, translation [3]float32) {
	nameBytes := make([]byte, 32)
	copy(nameBytes, name)
	buf.Write(nameBytes)

	binary.Write(buf, binary.LittleEndian, parent)
	binary.Write(buf, binary.LittleEndian, translation)
	binary.Write(buf, binary.LittleEndian, [4]float32{0, 0, 0, 1}) // rest rotation
	binary.Write(buf, binary.LittleEndian, [3]float32{1, 1, 1})   // rest scale

	// Identity inverse bind
	identity := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	binary.Write(buf, binary.LittleEndian, identity)
}

func writeTestVertex(buf *bytes.Buffer, pos [3]float32, bone uint8) {
	binary.Write(buf, binary.LittleEndian, pos)
	binary.Write(buf, binary.LittleEndian, [3]float32{0, 1, 0}) // normal
	binary.Write(buf, binary.LittleEndian, [2]float32{0, 0})    // uv
	buf.Write([]byte{bone, 0, 0, 0})                            // bone indices
	binary.Write(buf, binary.LittleEndian, [4]float32{1, 0, 0, 0})
}

func TestParseSKM_ValidFile(t *testing.T) {
	data := createTestSKM("hero.png")

	mesh, err := ParseSKM(data)
	if err != nil {
		t.Fatalf("ParseSKM failed: %v", err)
	}

	if mesh.Version.Major != 1 || mesh.Version.Minor != 0 {
		t.Errorf("expected version 1.0, got %s", mesh.Version)
	}
	if len(mesh.Bones) != 2 {
		t.Fatalf("expected 2 bones, got %d", len(mesh.Bones))
	}
	if mesh.Bones[0].Name != "root" || mesh.Bones[0].Parent != -1 {
		t.Errorf("bone 0: got %q parent %d, want root/-1", mesh.Bones[0].Name, mesh.Bones[0].Parent)
	}
	if mesh.Bones[1].Name != "limb" || mesh.Bones[1].Parent != 0 {
		t.Errorf("bone 1: got %q parent %d, want limb/0", mesh.Bones[1].Name, mesh.Bones[1].Parent)
	}
	if mesh.Bones[1].RestTranslation != [3]float32{0, 1, 0} {
		t.Errorf("bone 1 rest translation: got %v", mesh.Bones[1].RestTranslation)
	}
	if len(mesh.Vertices) != 3 {
		t.Errorf("expected 3 vertices, got %d", len(mesh.Vertices))
	}
	if len(mesh.Indices) != 3 {
		t.Errorf("expected 3 indices, got %d", len(mesh.Indices))
	}
	if mesh.Texture != "hero.png" {
		t.Errorf("expected texture 'hero.png', got %q", mesh.Texture)
	}

	if err := mesh.Validate(); err != nil {
		t.Errorf("Validate failed on valid mesh: %v", err)
	}
}

func TestParseSKM_EmptyTexture(t *testing.T) {
	mesh, err := ParseSKM(createTestSKM(""))
	if err != nil {
		t.Fatalf("ParseSKM failed: %v", err)
	}
	if mesh.Texture != "" {
		t.Errorf("expected empty texture, got %q", mesh.Texture)
	}
}

func TestParseSKM_InvalidMagic(t *testing.T) {
	data := createTestSKM("")
	copy(data[0:4], "XXXX")

	_, err := ParseSKM(data)
	if !errors.Is(err, ErrInvalidSKMMagic) {
		t.Errorf("expected ErrInvalidSKMMagic, got %v", err)
	}
}

func TestParseSKM_UnsupportedVersion(t *testing.T) {
	data := createTestSKM("")
	data[4] = 2

	_, err := ParseSKM(data)
	if !errors.Is(err, ErrUnsupportedSKMVersion) {
		t.Errorf("expected ErrUnsupportedSKMVersion, got %v", err)
	}
}

func TestParseSKM_Truncated(t *testing.T) {
	data := createTestSKM("hero.png")

	// Cutting the buffer anywhere after the header must error, not panic.
	for _, n := range []int{0, 4, 8, 20, 100, len(data) - 1} {
		if _, err := ParseSKM(data[:n]); err == nil {
			t.Errorf("expected error for %d-byte prefix", n)
		}
	}
}

func TestParseSKM_BadBoneCount(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.WriteString("SKMF")
	buf.WriteByte(1)
	buf.WriteByte(0)
	binary.Write(buf, binary.LittleEndian, uint16(0))

	if _, err := ParseSKM(buf.Bytes()); err == nil {
		t.Error("expected error for zero bones")
	}

	buf.Reset()
	buf.WriteString("SKMF")
	buf.WriteByte(1)
	buf.WriteByte(0)
	binary.Write(buf, binary.LittleEndian, uint16(MaxBones+1))

	if _, err := ParseSKM(buf.Bytes()); err == nil {
		t.Error("expected error for too many bones")
	}
}

func TestParseSKM_IndexCountNotTriangles(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.WriteString("SKMF")
	buf.WriteByte(1)
	buf.WriteByte(0)
	binary.Write(buf, binary.LittleEndian, uint16(1))
	writeTestBone(buf, "root", -1, [3]float32{})
	binary.Write(buf, binary.LittleEndian, uint32(0)) // no vertices
	binary.Write(buf, binary.LittleEndian, uint32(2)) // 2 indices: not a triangle
	binary.Write(buf, binary.LittleEndian, uint32(0))
	binary.Write(buf, binary.LittleEndian, uint32(0))

	if _, err := ParseSKM(buf.Bytes()); err == nil {
		t.Error("expected error for index count not a multiple of 3")
	}
}

func TestSKM_ValidateBadParentOrder(t *testing.T) {
	mesh, err := ParseSKM(createTestSKM(""))
	if err != nil {
		t.Fatalf("ParseSKM failed: %v", err)
	}

	// A parent that does not precede its child breaks pose evaluation.
	mesh.Bones[0].Parent = 1
	if err := mesh.Validate(); err == nil {
		t.Error("expected error for parent after child")
	}
}

func TestSKM_ValidateBadWeights(t *testing.T) {
	mesh, err := ParseSKM(createTestSKM(""))
	if err != nil {
		t.Fatalf("ParseSKM failed: %v", err)
	}

	mesh.Vertices[0].Weights = [4]float32{0.5, 0, 0, 0}
	if err := mesh.Validate(); err == nil {
		t.Error("expected error for weights not summing to 1")
	}

	mesh.Vertices[0].Weights = [4]float32{1.5, -0.5, 0, 0}
	if err := mesh.Validate(); err == nil {
		t.Error("expected error for negative weight")
	}
}

func TestSKM_ValidateBadBoneIndex(t *testing.T) {
	mesh, err := ParseSKM(createTestSKM(""))
	if err != nil {
		t.Fatalf("ParseSKM failed: %v", err)
	}

	mesh.Vertices[0].Bones[0] = 9
	if err := mesh.Validate(); err == nil {
		t.Error("expected error for bone index out of range")
	}
}

func TestSKM_ValidateBadTriangleIndex(t *testing.T) {
	mesh, err := ParseSKM(createTestSKM(""))
	if err != nil {
		t.Fatalf("ParseSKM failed: %v", err)
	}

	mesh.Indices[0] = 17
	if err := mesh.Validate(); err == nil {
		t.Error("expected error for triangle index out of range")
	}
}

func TestSKM_BoneIndex(t *testing.T) {
	mesh, err := ParseSKM(createTestSKM(""))
	if err != nil {
		t.Fatalf("ParseSKM failed: %v", err)
	}

	if idx := mesh.BoneIndex("limb"); idx != 1 {
		t.Errorf("BoneIndex(limb) = %d, want 1", idx)
	}
	if idx := mesh.BoneIndex("tail"); idx != -1 {
		t.Errorf("BoneIndex(tail) = %d, want -1", idx)
	}
}
