// genassets writes the placeholder asset set the viewer loads by
// default: heightmap and ground texture PNGs, the blocky hero mesh with
// its animation clips, and the movement sound effects. Output is
// deterministic for a given seed.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

func main() {
	out := flag.String("out", "assets", "output directory")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	fmt.Println("Walkabout placeholder asset generator")
	fmt.Println("=====================================")

	if err := generate(*out, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}

func generate(out string, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	if err := writePNG(filepath.Join(out, "terrain", "heightmap.png"), heightmapImage(rng, 257)); err != nil {
		return err
	}
	if err := writePNG(filepath.Join(out, "terrain", "grass.png"), grassTexture(rng, 256)); err != nil {
		return err
	}

	if err := writePNG(filepath.Join(out, "character", "hero.png"), heroTexture()); err != nil {
		return err
	}
	mesh := heroMesh()
	data, err := mesh.Encode()
	if err != nil {
		return fmt.Errorf("encoding hero mesh: %w", err)
	}
	if err := writeFile(filepath.Join(out, "character", "hero.skm"), data); err != nil {
		return err
	}

	for _, clip := range heroClips() {
		data, err := clip.Encode()
		if err != nil {
			return fmt.Errorf("encoding clip %s: %w", clip.Name, err)
		}
		if err := writeFile(filepath.Join(out, "character", "clips", clip.Name+".ska"), data); err != nil {
			return err
		}
	}

	if err := writeWAV(filepath.Join(out, "audio", "step.wav"), stepSound(rng)); err != nil {
		return err
	}
	if err := writeWAV(filepath.Join(out, "audio", "jump.wav"), jumpSound()); err != nil {
		return err
	}

	return nil
}

// writeFile writes data, creating parent directories as needed.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	fmt.Printf("  wrote %s (%d bytes)\n", path, len(data))
	return nil
}
