package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, p, data string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(data), perm); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCopyDir(t *testing.T) {
	td := t.TempDir()
	src := filepath.Join(td, "src")
	writeFile(t, filepath.Join(src, "app.yml"), "name: x\n", 0o600)
	writeFile(t, filepath.Join(src, "nested", "deeper", "run.sh"), "#!/bin/sh\n", 0o755)
	if err := os.MkdirAll(filepath.Join(src, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	dst := filepath.Join(td, "dst")
	if err := CopyDir(src, dst); err != nil {
		t.Fatalf("CopyDir: %v", err)
	}

	for rel, want := range map[string]string{
		"app.yml":              "name: x\n",
		"nested/deeper/run.sh": "#!/bin/sh\n",
	} {
		got, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("read %s: %v", rel, err)
		}
		if string(got) != want {
			t.Fatalf("%s = %q, want %q", rel, got, want)
		}
	}
	info, err := os.Stat(filepath.Join(dst, "nested", "deeper", "run.sh"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Fatalf("executable bit lost: %v", info.Mode())
	}
	if info, err := os.Stat(filepath.Join(dst, "empty")); err != nil || !info.IsDir() {
		t.Fatalf("empty directory not mirrored: %v", err)
	}
}

func TestCopyDir_IntoExistingDestination(t *testing.T) {
	td := t.TempDir()
	src := filepath.Join(td, "src")
	writeFile(t, filepath.Join(src, "a.txt"), "new", 0o644)
	dst := filepath.Join(td, "dst")
	writeFile(t, filepath.Join(dst, "a.txt"), "old contents", 0o644)
	writeFile(t, filepath.Join(dst, "b.txt"), "untouched", 0o644)

	if err := CopyDir(src, dst); err != nil {
		t.Fatalf("CopyDir: %v", err)
	}
	if got, _ := os.ReadFile(filepath.Join(dst, "a.txt")); string(got) != "new" {
		t.Fatalf("a.txt = %q, want overwritten", got)
	}
	if got, _ := os.ReadFile(filepath.Join(dst, "b.txt")); string(got) != "untouched" {
		t.Fatalf("b.txt = %q, want untouched", got)
	}
}

func TestCopyDir_Errors(t *testing.T) {
	td := t.TempDir()
	file := filepath.Join(td, "file.txt")
	writeFile(t, file, "x", 0o644)

	tests := []struct {
		name  string
		src   string
		errIs error
	}{
		{name: "source is a file", src: file, errIs: ErrNotDirectory},
		{name: "source missing", src: filepath.Join(td, "missing"), errIs: fs.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CopyDir(tt.src, filepath.Join(td, "out-"+filepath.Base(tt.src)))
			if !errors.Is(err, tt.errIs) {
				t.Fatalf("errors.Is(err, %v) = false; err = %v", tt.errIs, err)
			}
		})
	}
}

func TestCopyDir_ReadOnlySource(t *testing.T) {
	td := t.TempDir()
	src := filepath.Join(td, "src")
	writeFile(t, filepath.Join(src, "app.yml"), "name: x\n", 0o644)
	if err := os.Chmod(src, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	dst := filepath.Join(td, "dst")
	t.Cleanup(func() {
		_ = os.Chmod(src, 0o755)
		_ = os.Chmod(dst, 0o755)
	})

	if err := CopyDir(src, dst); err != nil {
		t.Fatalf("CopyDir: %v", err)
	}
	if got, err := os.ReadFile(filepath.Join(dst, "app.yml")); err != nil || string(got) != "name: x\n" {
		t.Fatalf("app.yml = %q, %v", got, err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o555 {
		t.Fatalf("dst mode = %v, want 0555", info.Mode().Perm())
	}
}
