package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "terrain/heightmap.png", "pixels")

	m := NewManager()
	if err := m.AddRoot(root); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	defer m.Close()

	data, err := m.Load("terrain/heightmap.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "pixels" {
		t.Errorf("Load = %q, want %q", data, "pixels")
	}
}

func TestLoadNotFound(t *testing.T) {
	m := NewManager()
	if err := m.AddRoot(t.TempDir()); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	defer m.Close()

	_, err := m.Load("missing.skm")
	if err == nil {
		t.Fatal("expected error for missing asset")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRootPriority(t *testing.T) {
	base := t.TempDir()
	override := t.TempDir()
	writeFile(t, base, "clip.ska", "base")
	writeFile(t, override, "clip.ska", "override")

	m := NewManager()
	if err := m.AddRoot(base); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	if err := m.AddRoot(override); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	defer m.Close()

	data, err := m.Load("clip.ska")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Last added root wins.
	if string(data) != "override" {
		t.Errorf("Load = %q, want %q", data, "override")
	}
}

func TestAddRootMissing(t *testing.T) {
	m := NewManager()
	if err := m.AddRoot("/nonexistent/walkabout/assets"); err == nil {
		t.Error("expected error adding missing root")
	}
}

func TestAddRootFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.txt", "x")

	m := NewManager()
	if err := m.AddRoot(filepath.Join(root, "file.txt")); err == nil {
		t.Error("expected error adding a file as root")
	}
}

func TestLoadRejectsEscapes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.txt", "x")

	m := NewManager()
	if err := m.AddRoot(filepath.Join(root)); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}

	for _, path := range []string{"../secret", "/etc/passwd", "a/../../b"} {
		if _, err := m.Load(path); err == nil {
			t.Errorf("expected error loading %q", path)
		}
	}
}

func TestCacheStats(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")

	m := NewManager()
	if err := m.AddRoot(root); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	defer m.Close()

	if _, err := m.Load("a.txt"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := m.Load("a.txt"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	hits, misses := m.Stats()
	if hits != 1 {
		t.Errorf("expected 1 cache hit, got %d", hits)
	}
	// First load misses, second hits.
	if misses != 1 {
		t.Errorf("expected 1 cache miss, got %d", misses)
	}
}

func TestList(t *testing.T) {
	base := t.TempDir()
	override := t.TempDir()
	writeFile(t, base, "clips/walk.ska", "w")
	writeFile(t, base, "clips/idle.ska", "i")
	writeFile(t, override, "clips/jump.ska", "j")
	writeFile(t, base, "clips/sub/nested.ska", "n")

	m := NewManager()
	if err := m.AddRoot(base); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	if err := m.AddRoot(override); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	defer m.Close()

	names, err := m.List("clips")
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	// Merged across roots, sorted, subdirectories skipped.
	want := []string{"idle.ska", "jump.ska", "walk.ska"}
	if len(names) != len(want) {
		t.Fatalf("List = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestListMissingDir(t *testing.T) {
	m := NewManager()
	if err := m.AddRoot(t.TempDir()); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	defer m.Close()

	if _, err := m.List("clips"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	base := t.TempDir()
	override := t.TempDir()
	writeFile(t, base, "audio/step.wav", "b")
	writeFile(t, override, "audio/step.wav", "o")

	m := NewManager()
	if err := m.AddRoot(base); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	if err := m.AddRoot(override); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	defer m.Close()

	path, err := m.Resolve("audio/step.wav")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if path != filepath.Join(override, "audio", "step.wav") {
		t.Errorf("Resolve = %s, want the override root copy", path)
	}

	if _, err := m.Resolve("audio/missing.wav"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExists(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "present.txt", "x")

	m := NewManager()
	if err := m.AddRoot(root); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	defer m.Close()

	if !m.Exists("present.txt") {
		t.Error("expected present.txt to exist")
	}
	if m.Exists("absent.txt") {
		t.Error("expected absent.txt to be missing")
	}
}
