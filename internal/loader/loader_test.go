package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMergesSiblingFiles(t *testing.T) {
	root := t.TempDir()
	modDir := filepath.Join(root, "collections", "stack")
	if err := os.MkdirAll(modDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, modDir, "push.pluto", "pub fn push(x: Int) {\n\treturn\n}\n")
	writeFile(t, modDir, "pop.pluto", "pub fn pop() -> Int {\n\treturn 0\n}\n")

	cache := NewCache(root)
	mod, err := cache.Load("collections.stack")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mod.Program.Functions) != 2 {
		t.Fatalf("expected 2 merged functions, got %d", len(mod.Program.Functions))
	}
}

func TestLoadDetectsCircularImport(t *testing.T) {
	root := t.TempDir()
	aDir := filepath.Join(root, "a")
	bDir := filepath.Join(root, "b")
	os.MkdirAll(aDir, 0o755)
	os.MkdirAll(bDir, 0o755)
	writeFile(t, aDir, "a.pluto", "import b\n")
	writeFile(t, bDir, "b.pluto", "import a\n")

	cache := NewCache(root)
	_, err := cache.Load("a")
	if err == nil {
		t.Fatalf("expected circular import error")
	}
	if _, ok := err.(*CircularImportError); !ok {
		t.Fatalf("expected *CircularImportError, got %T: %v", err, err)
	}
}

func TestLoadReportsMissingModule(t *testing.T) {
	root := t.TempDir()
	cache := NewCache(root)
	_, err := cache.Load("nonexistent.module")
	if _, ok := err.(*ModuleNotFoundError); !ok {
		t.Fatalf("expected *ModuleNotFoundError, got %T: %v", err, err)
	}
}

func TestLoadCachesByPath(t *testing.T) {
	root := t.TempDir()
	modDir := filepath.Join(root, "mathx")
	os.MkdirAll(modDir, 0o755)
	writeFile(t, modDir, "mathx.pluto", "pub fn square(x: Int) -> Int {\n\treturn x * x\n}\n")

	cache := NewCache(root)
	m1, err := cache.Load("mathx")
	if err != nil {
		t.Fatal(err)
	}
	m2, err := cache.Load("mathx")
	if err != nil {
		t.Fatal(err)
	}
	if m1 != m2 {
		t.Fatalf("expected cached module instance to be reused")
	}
}

func TestLoadNamespacesTestsBySourceFile(t *testing.T) {
	root := t.TempDir()
	modDir := filepath.Join(root, "suite")
	os.MkdirAll(modDir, 0o755)
	writeFile(t, modDir, "a.pluto", "test \"it works\" {\n\tlet x = 1\n}\n")
	writeFile(t, modDir, "b.pluto", "test \"it works\" {\n\tlet x = 2\n}\n")

	cache := NewCache(root)
	mod, err := cache.Load("suite")
	if err != nil {
		t.Fatal(err)
	}
	if len(mod.Program.Tests) != 2 {
		t.Fatalf("expected 2 tests, got %d", len(mod.Program.Tests))
	}
	if mod.Program.Tests[0].File == mod.Program.Tests[1].File {
		t.Fatalf("expected tests to carry distinct source files")
	}
}
