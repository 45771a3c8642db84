package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUpToDateMissingFile(t *testing.T) {
	st := newStamp("abc", testOptions("/p"))
	if upToDate(filepath.Join(t.TempDir(), "nope.json"), st) {
		t.Error("upToDate() = true for a missing state file")
	}
}

func TestUpToDateCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	st := newStamp("abc", testOptions("/p"))
	if upToDate(path, st) {
		t.Error("upToDate() = true for a corrupt state file")
	}
}

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	opts := testOptions("/p")
	st := newStamp("abc", opts)

	writeState(path, st)

	if !upToDate(path, newStamp("abc", opts)) {
		t.Error("upToDate() = false right after writeState()")
	}
	if upToDate(path, newStamp("different-sha", opts)) {
		t.Error("upToDate() = true for a different source digest")
	}

	changed := opts
	changed.Launcher = "ic_other"
	if upToDate(path, newStamp("abc", changed)) {
		t.Error("upToDate() = true after the launcher name changed")
	}

	bumped := opts
	bumped.Version = "next"
	if upToDate(path, newStamp("abc", bumped)) {
		t.Error("upToDate() = true across a version bump")
	}
}

func TestOptionsDigest(t *testing.T) {
	a := testOptions("/p")
	b := testOptions("/p")
	if optionsDigest(a) != optionsDigest(b) {
		t.Error("identical options produced different digests")
	}

	b.Background = "#000000"
	if optionsDigest(a) == optionsDigest(b) {
		t.Error("background change did not change the digest")
	}

	c := testOptions("/p")
	c.Round = false
	if optionsDigest(a) == optionsDigest(c) {
		t.Error("round change did not change the digest")
	}
}
