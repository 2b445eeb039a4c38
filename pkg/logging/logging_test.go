package logging

import (
	"io"
	"log"
	"testing"
)

// TestSetLevelReturnsPrevious verifies that SetLevel reports the level it
// replaced, which callers rely on to restore a temporary override.
func TestSetLevelReturnsPrevious(t *testing.T) {
	original := SetLevel(LevelTrace)
	defer SetLevel(original)

	previous := SetLevel(LevelError)
	if previous != LevelTrace {
		t.Errorf("SetLevel reported previous level %v, expected %v", previous, LevelTrace)
	}
	if CurrentLevel() != LevelError {
		t.Errorf("CurrentLevel() = %v, expected %v", CurrentLevel(), LevelError)
	}
}

// TestSetLevelRestoresDiscardedOutput verifies that toggling to and from
// LevelDisabled keeps the standard library logger's destination in sync
// rather than leaving it discarded after re-enabling logging.
func TestSetLevelRestoresDiscardedOutput(t *testing.T) {
	original := SetLevel(LevelInfo)
	defer SetLevel(original)

	SetLevel(LevelDisabled)
	if CurrentLevel() != LevelDisabled {
		t.Fatalf("CurrentLevel() = %v, expected %v", CurrentLevel(), LevelDisabled)
	}
	if log.Writer() != io.Discard {
		t.Fatal("standard library logger not discarded at LevelDisabled")
	}

	SetLevel(LevelInfo)
	if CurrentLevel() != LevelInfo {
		t.Fatalf("CurrentLevel() = %v, expected %v", CurrentLevel(), LevelInfo)
	}
	if log.Writer() == io.Discard {
		t.Fatal("standard library logger still discarded after re-enabling logging")
	}
}
