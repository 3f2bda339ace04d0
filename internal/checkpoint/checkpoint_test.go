package checkpoint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type rosterSnapshot struct {
	Names []string `json:"names"`
	Step  int      `json:"step"`
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	mgr, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	want := rosterSnapshot{Names: []string{"Leo", "Sam"}, Step: 7}
	if err := mgr.Save("classroom", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var got rosterSnapshot
	restored, err := mgr.Load("classroom", &got, func() error {
		t.Fatal("fresh initialiser must not run when a valid checkpoint exists")
		return nil
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !restored {
		t.Fatal("expected restored=true")
	}
	if got.Step != 7 || len(got.Names) != 2 || got.Names[0] != "Leo" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestSaveUnserialisableWritesMarkerAndDegrades(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	// Channels cannot be JSON serialised.
	err = mgr.Save("classroom", map[string]interface{}{"ch": make(chan int)})
	if err == nil {
		t.Fatal("expected degraded error")
	}
	if !errors.Is(err, ErrDegraded) {
		t.Fatalf("expected ErrDegraded, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "classroom.ckpt.failed")); statErr != nil {
		t.Fatalf("failure marker missing: %v", statErr)
	}
}

func TestLoadAfterFailedSaveStartsFresh(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	// A valid checkpoint followed by a failed save: the marker wins and the
	// next load starts fresh instead of restoring the stale blob.
	if err := mgr.Save("classroom", rosterSnapshot{Step: 3}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_ = mgr.Save("classroom", map[string]interface{}{"ch": make(chan int)})

	freshRan := false
	var got rosterSnapshot
	restored, err := mgr.Load("classroom", &got, func() error {
		freshRan = true
		return nil
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if restored {
		t.Fatal("expected restored=false after failed save")
	}
	if !freshRan {
		t.Fatal("fresh initialiser did not run")
	}
}

func TestLoadMissingBlobStartsFresh(t *testing.T) {
	mgr, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	freshRan := false
	var got rosterSnapshot
	restored, err := mgr.Load("nope", &got, func() error {
		freshRan = true
		return nil
	})
	if err != nil || restored || !freshRan {
		t.Fatalf("restored=%v err=%v freshRan=%v", restored, err, freshRan)
	}
}

func TestListSkipsFailedCheckpoints(t *testing.T) {
	mgr, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := mgr.Save("alpha", rosterSnapshot{Step: 1}); err != nil {
		t.Fatalf("Save alpha: %v", err)
	}
	if err := mgr.Save("beta", rosterSnapshot{Step: 2}); err != nil {
		t.Fatalf("Save beta: %v", err)
	}
	_ = mgr.Save("beta", map[string]interface{}{"ch": make(chan int)})

	names, err := mgr.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != "alpha" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestSuccessfulSaveClearsFailureMarker(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	_ = mgr.Save("classroom", map[string]interface{}{"ch": make(chan int)})
	if err := mgr.Save("classroom", rosterSnapshot{Step: 9}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "classroom.ckpt.failed")); statErr == nil {
		t.Fatal("failure marker should be cleared by a successful save")
	}
	var got rosterSnapshot
	restored, err := mgr.Load("classroom", &got, func() error { return nil })
	if err != nil || !restored || got.Step != 9 {
		t.Fatalf("restored=%v err=%v got=%+v", restored, err, got)
	}
}
