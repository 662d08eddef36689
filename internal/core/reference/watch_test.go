package reference

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatchFileReloadsOnChange(t *testing.T) {
	path := writeFile(t, "names.txt", "Priya Sharma\n")

	store := NewStore(NewFileSource(path))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("initial load: %v", err)
	}

	w, err := WatchFile(store, path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("Priya Sharma\nAman Verma\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !store.Current().Contains("Aman Verma") {
		if time.Now().After(deadline) {
			t.Fatalf("store was not reloaded, names: %v", store.Current().Names())
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWatchFileMissingDirectory(t *testing.T) {
	store := NewStore(NewStaticSource(nil))
	if _, err := WatchFile(store, "/does/not/exist/names.txt", 0); err == nil {
		t.Fatalf("expected error for a missing directory")
	}
}
