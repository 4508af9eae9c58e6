package memory_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mementolabs/memento-go-sdk/memory"
)

func TestFileStore_AppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.txt")
	store := memory.NewFileStore(path)

	if err := store.Append("first entry"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append("second entry\n"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	content, err := store.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if content != "first entry\nsecond entry\n" {
		t.Errorf("unexpected content: %q", content)
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.txt")

	first := memory.NewFileStore(path)
	if err := first.Append("remember me"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// A new store over the same path sees prior sessions' entries.
	second := memory.NewFileStore(path)
	content, err := second.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !strings.Contains(content, "remember me") {
		t.Errorf("expected persisted entry, got %q", content)
	}
}

func TestFileStore_MissingFileReadsEmpty(t *testing.T) {
	store := memory.NewFileStore(filepath.Join(t.TempDir(), "never-written.txt"))

	content, err := store.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if content != "" {
		t.Errorf("expected empty content, got %q", content)
	}
}

func TestFileStore_OpenFailureSurfaced(t *testing.T) {
	// The path is a directory, so the append-open must fail.
	store := memory.NewFileStore(t.TempDir())

	if err := store.Append("entry"); err == nil {
		t.Error("expected error appending to an unopenable path")
	}
}

func TestFileStore_MaxBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.txt")
	store := memory.NewFileStore(path, memory.WithMaxBytes(4))

	if err := store.Append("12345678"); err != nil {
		t.Fatalf("first append should pass the pre-check: %v", err)
	}
	if err := store.Append("more"); err == nil {
		t.Error("expected error once the file exceeds the size limit")
	}
}
