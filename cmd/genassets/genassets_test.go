package main

import (
	"bytes"
	"image"
	"math/rand"
	"testing"

	"github.com/mosslight/walkabout/pkg/formats"
)

func TestHeroMeshIsValid(t *testing.T) {
	mesh := heroMesh()

	if err := mesh.Validate(); err != nil {
		t.Fatalf("generated mesh fails validation: %v", err)
	}
	if len(mesh.Bones) != 11 {
		t.Errorf("bone count: got %d, want 11", len(mesh.Bones))
	}
	if mesh.Texture != "hero.png" {
		t.Errorf("texture: got %q", mesh.Texture)
	}

	data, err := mesh.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	parsed, err := formats.ParseSKM(data)
	if err != nil {
		t.Fatalf("generated mesh does not parse back: %v", err)
	}
	if len(parsed.Vertices) != len(mesh.Vertices) || len(parsed.Indices) != len(mesh.Indices) {
		t.Errorf("round trip lost geometry: %d/%d vs %d/%d",
			len(parsed.Vertices), len(parsed.Indices), len(mesh.Vertices), len(mesh.Indices))
	}
}

func TestHeroClipsMatchSkeleton(t *testing.T) {
	mesh := heroMesh()
	clips := heroClips()

	wantLoop := map[string]bool{"idle": true, "walk": true, "run": true, "jump": false}
	if len(clips) != len(wantLoop) {
		t.Fatalf("clip count: got %d, want %d", len(clips), len(wantLoop))
	}

	for _, clip := range clips {
		loop, known := wantLoop[clip.Name]
		if !known {
			t.Errorf("unexpected clip name %q", clip.Name)
			continue
		}
		if clip.Loop != loop {
			t.Errorf("clip %s: loop = %v, want %v", clip.Name, clip.Loop, loop)
		}

		data, err := clip.Encode()
		if err != nil {
			t.Errorf("clip %s: Encode failed: %v", clip.Name, err)
			continue
		}
		parsed, err := formats.ParseSKA(data)
		if err != nil {
			t.Errorf("clip %s: does not parse back: %v", clip.Name, err)
			continue
		}

		// Every channel must drive a bone the mesh actually has,
		// otherwise the clip silently does nothing at runtime.
		for _, ch := range parsed.Channels {
			if mesh.BoneIndex(ch.Bone) < 0 {
				t.Errorf("clip %s: channel targets unknown bone %q", clip.Name, ch.Bone)
			}
		}
	}
}

func TestImagesAreDeterministic(t *testing.T) {
	a := heightmapImage(rand.New(rand.NewSource(7)), 64).(*image.Gray)
	b := heightmapImage(rand.New(rand.NewSource(7)), 64).(*image.Gray)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("heightmap differs across runs with the same seed")
	}

	c := grassTexture(rand.New(rand.NewSource(7)), 64).(*image.RGBA)
	d := grassTexture(rand.New(rand.NewSource(7)), 64).(*image.RGBA)
	if !bytes.Equal(c.Pix, d.Pix) {
		t.Error("grass texture differs across runs with the same seed")
	}
}

func TestHeightmapEdgesAreSeaLevel(t *testing.T) {
	img := heightmapImage(rand.New(rand.NewSource(1)), 65).(*image.Gray)
	bounds := img.Bounds()

	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		if v := img.GrayAt(x, bounds.Min.Y).Y; v != 0 {
			t.Fatalf("top edge pixel %d has height %d, want 0", x, v)
		}
		if v := img.GrayAt(x, bounds.Max.Y-1).Y; v != 0 {
			t.Fatalf("bottom edge pixel %d has height %d, want 0", x, v)
		}
	}

	center := img.GrayAt(bounds.Dx()/2, bounds.Dy()/2).Y
	if center < 64 {
		t.Errorf("island center height %d is implausibly low", center)
	}
}

func TestSoundsStayInRange(t *testing.T) {
	for name, samples := range map[string][][2]float64{
		"step": stepSound(rand.New(rand.NewSource(1))),
		"jump": jumpSound(),
	} {
		if len(samples) == 0 {
			t.Errorf("%s: no samples", name)
			continue
		}
		for i, s := range samples {
			if s[0] < -1 || s[0] > 1 || s[1] < -1 || s[1] > 1 {
				t.Errorf("%s: sample %d out of range: %v", name, i, s)
				break
			}
		}
		// The tail fade has to land on silence or playback clicks.
		last := samples[len(samples)-1]
		if last[0] > 0.01 || last[0] < -0.01 {
			t.Errorf("%s: ends at %f, want ~0", name, last[0])
		}
	}
}
