package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStore_Put(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	filename, err := store.Put([]byte("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(filename, "relatorio_") || !strings.HasSuffix(filename, ".pdf") {
		t.Errorf("unexpected filename shape: %q", filename)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), filename))
	if err != nil {
		t.Fatalf("staged file not readable: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("wrong staged bytes: %q", string(data))
	}
}

func TestStore_Put_UniqueFilenames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := store.Put([]byte("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.Put([]byte("b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first == second {
		t.Errorf("expected distinct filenames, both were %q", first)
	}
}

func TestNewStore_EmptyDir(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Error("expected error for empty directory, got nil")
	}
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "relatorios")

	if _, err := NewStore(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("staging path is not a directory")
	}
}

func TestSweeper_SweepOnce(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	oldFile, err := store.Put([]byte("old"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	freshFile, err := store.Put([]byte("fresh"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now := time.Now()
	stale := now.Add(-15 * time.Minute)
	if err := os.Chtimes(filepath.Join(store.Dir(), oldFile), stale, stale); err != nil {
		t.Fatalf("failed to age file: %v", err)
	}

	sweeper := NewSweeper(store, nil)
	sweeper.sweepOnce(now)

	if _, err := os.Stat(filepath.Join(store.Dir(), oldFile)); !os.IsNotExist(err) {
		t.Errorf("expired file should be deleted, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), freshFile)); err != nil {
		t.Errorf("fresh file should survive the sweep: %v", err)
	}
}

func TestSweeper_StartStop(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sweeper := NewSweeper(store, nil)
	sweeper.Start()
	sweeper.Stop()

	select {
	case <-sweeper.done:
	default:
		t.Error("sweeper loop did not exit after Stop")
	}
}
