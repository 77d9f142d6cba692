package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	m "gooze.dev/pkg/mutest/internal/model"
)

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	root := t.TempDir()
	path := filepath.Join(root, "isEven.js")
	writeTestFile(t, path, "module.exports = n => n % 2 === 0;\n")

	data, err := adapter.ReadFile(ctx, m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(data) != "module.exports = n => n % 2 === 0;\n" {
		t.Fatalf("ReadFile() = %q", data)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	if _, err := adapter.ReadFile(canceled, m.Path(path)); err == nil {
		t.Fatalf("ReadFile() with canceled context expected error")
	}
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	root := t.TempDir()
	path := filepath.Join(root, "file.py")
	writeTestFile(t, path, "def f():\n    return 1\n")

	info, err := adapter.FileInfo(ctx, m.Path(path))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if info.IsDir() || info.Name() != "file.py" {
		t.Fatalf("FileInfo() = %s dir=%v", info.Name(), info.IsDir())
	}

	if _, err := adapter.FileInfo(ctx, m.Path(filepath.Join(root, "missing"))); !os.IsNotExist(err) {
		t.Fatalf("FileInfo() missing file error = %v, want not exist", err)
	}
}

func TestLocalSourceFSAdapter_FindProjectRoot(t *testing.T) {
	ctx := context.Background()

	t.Run("finds nearest marker", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "package.json"), "{}\n")

		nested := filepath.Join(root, "src", "lib")
		if err := os.MkdirAll(nested, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}

		file := filepath.Join(nested, "math.js")
		writeTestFile(t, file, "export const add = (a, b) => a + b;\n")

		got, err := adapter.FindProjectRoot(ctx, m.Path(file))
		if err != nil {
			t.Fatalf("FindProjectRoot() error = %v", err)
		}

		if string(got) != root {
			t.Fatalf("FindProjectRoot() = %s, want %s", got, root)
		}
	})

	t.Run("inner marker wins", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "Makefile"), "all:\n")

		inner := filepath.Join(root, "service")
		mustMkdir(t, inner)
		writeTestFile(t, filepath.Join(inner, "go.mod"), "module example.com/service\n")

		file := filepath.Join(inner, "main.go")
		writeTestFile(t, file, "package main\n")

		got, err := adapter.FindProjectRoot(ctx, m.Path(file))
		if err != nil {
			t.Fatalf("FindProjectRoot() error = %v", err)
		}

		if string(got) != inner {
			t.Fatalf("FindProjectRoot() = %s, want %s", got, inner)
		}
	})
}

func TestLocalSourceFSAdapter_CreateTempDirAndRemoveAll(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	dir, err := adapter.CreateTempDir(ctx, "mutest-test-*")
	if err != nil {
		t.Fatalf("CreateTempDir() error = %v", err)
	}

	if info, err := os.Stat(string(dir)); err != nil || !info.IsDir() {
		t.Fatalf("CreateTempDir() did not create directory: %v", err)
	}

	writeTestFile(t, filepath.Join(string(dir), "x.txt"), "x")

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	if err := adapter.RemoveAll(canceled, dir); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}

	if _, err := os.Stat(string(dir)); !os.IsNotExist(err) {
		t.Fatalf("RemoveAll() left %s behind", dir)
	}
}

func TestLocalSourceFSAdapter_CopyDirAndWriteFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	src := t.TempDir()
	writeTestFile(t, filepath.Join(src, "package.json"), "{}\n")
	mustMkdir(t, filepath.Join(src, "lib"))
	writeTestFile(t, filepath.Join(src, "lib", "index.js"), "module.exports = 1;\n")

	for _, skipped := range []string{".git", "node_modules", ".mutest"} {
		mustMkdir(t, filepath.Join(src, skipped))
		writeTestFile(t, filepath.Join(src, skipped, "blob"), "skip me")
	}

	dst := filepath.Join(t.TempDir(), "copy")

	if err := adapter.CopyDir(ctx, m.Path(src), m.Path(dst)); err != nil {
		t.Fatalf("CopyDir() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "lib", "index.js"))
	if err != nil || string(data) != "module.exports = 1;\n" {
		t.Fatalf("CopyDir() nested file = %q, %v", data, err)
	}

	for _, skipped := range []string{".git", "node_modules", ".mutest"} {
		if _, err := os.Stat(filepath.Join(dst, skipped)); !os.IsNotExist(err) {
			t.Fatalf("CopyDir() copied %s", skipped)
		}
	}

	target := filepath.Join(dst, "deep", "er", "out.js")
	if err := adapter.WriteFile(ctx, m.Path(target), []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err = os.ReadFile(target)
	if err != nil || string(data) != "x" {
		t.Fatalf("WriteFile() wrote %q, %v", data, err)
	}
}

func TestLocalSourceFSAdapter_PathHelpers(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	base := t.TempDir()
	target := filepath.Join(base, "sub", "dir", "file.js")

	rel, err := adapter.RelPath(ctx, m.Path(base), m.Path(target))
	if err != nil {
		t.Fatalf("RelPath() error = %v", err)
	}

	if string(rel) != filepath.Join("sub", "dir", "file.js") {
		t.Fatalf("RelPath() = %s, want %s", rel, filepath.Join("sub", "dir", "file.js"))
	}

	joined := adapter.JoinPath(ctx, "/tmp", "project", "sub", "file.js")
	if string(joined) != filepath.Join("/tmp", "project", "sub", "file.js") {
		t.Fatalf("JoinPath() = %s, want %s", joined, filepath.Join("/tmp", "project", "sub", "file.js"))
	}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}
