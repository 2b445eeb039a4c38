package project

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// ContentHash derives a project's content-addressed fingerprint: the source
// files' hashes, sorted lexicographically, concatenated as raw ASCII and
// hashed with SHA-256. An empty set produces the literal string "empty"
// rather than the hash of an empty input.
func ContentHash(sourceFileHashes []string) string {
	if len(sourceFileHashes) == 0 {
		return "empty"
	}

	sorted := make([]string, len(sourceFileHashes))
	copy(sorted, sourceFileHashes)
	sort.Strings(sorted)

	hasher := sha256.New()
	hasher.Write([]byte(strings.Join(sorted, "")))

	return hex.EncodeToString(hasher.Sum(nil))
}
