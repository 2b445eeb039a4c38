package hashing

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("unable to write temp file: %v", err)
	}
	return path
}

func TestHashEmptyFile(t *testing.T) {
	path := writeTemp(t, "")
	digest, err := Hash(path, nil)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	const expected = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if digest != expected {
		t.Fatalf("digest = %s, expected %s", digest, expected)
	}
}

func TestHashHelloWorld(t *testing.T) {
	path := writeTemp(t, "Hello, World!")
	digest, err := Hash(path, nil)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	const expected = "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f"
	if digest != expected {
		t.Fatalf("digest = %s, expected %s", digest, expected)
	}
}

func TestHashUnreadablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist")
	if _, err := Hash(path, nil); err == nil {
		t.Fatal("expected an error for a nonexistent path")
	} else if _, ok := err.(*IOError); !ok {
		t.Fatalf("expected *IOError, got %T", err)
	}
}

func TestVerifyHash(t *testing.T) {
	path := writeTemp(t, "Hello, World!")
	ok, err := VerifyHash(path, "DFFD6021BB2BD5B0AF676290809EC3A53191DD81C7F70A4B28688A362182986F")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatal("expected verification to succeed case-insensitively")
	}

	ok, err = VerifyHash(path, "0000")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatal("expected verification to fail for a mismatched digest")
	}
}

func TestPoolSubmitAndClose(t *testing.T) {
	pool := NewPool(2)

	pathA := writeTemp(t, "a")
	pathB := writeTemp(t, "Hello, World!")

	futureA := pool.Submit(pathA, nil)
	futureB := pool.Submit(pathB, nil)

	digestB, err := futureB.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if digestB != "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f" {
		t.Fatalf("unexpected digest: %s", digestB)
	}

	if _, err := futureA.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pool.Close()
}

func TestProgressReportedOnlyForLargeFiles(t *testing.T) {
	path := writeTemp(t, "small")
	called := false
	if _, err := Hash(path, func(done, total int64) { called = true }); err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if called {
		t.Fatal("progress should not be reported for files below the granularity threshold")
	}
}
