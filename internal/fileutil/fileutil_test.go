package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMoveRelocatesFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.zip")
	dst := filepath.Join(dir, "sub", "dst.zip")

	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := Move(src, dst); err != nil {
		t.Fatalf("Move: %v", err)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source removed, stat err = %v", err)
	}
	if got, err := os.ReadFile(dst); err != nil || string(got) != "payload" {
		t.Fatalf("read destination: %q, %v", got, err)
	}
}

func TestMoveMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := Move(filepath.Join(dir, "nope"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	for _, content := range []string{`{"style":"old"}`, `{"style":"narration"}`} {
		if err := WriteFileAtomic(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic: %v", err)
		}
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"style":"narration"}` {
		t.Fatalf("expected the second write to win, got %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files cleaned up, found %d entries", len(entries))
	}
}

func TestCopyFilePreservesContentAndMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	if err := os.WriteFile(src, []byte("data"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := copyFile(src, dst, 0o755); err != nil {
		t.Fatalf("copyFile: %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	// umask may clear group/other bits; owner execute must survive.
	if info.Mode().Perm()&0o100 == 0 {
		t.Fatalf("expected owner execute bit, got %o", info.Mode().Perm())
	}
	if got, _ := os.ReadFile(dst); string(got) != "data" {
		t.Fatalf("content mismatch: got %q", got)
	}
}
