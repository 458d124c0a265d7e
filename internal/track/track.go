// Package track defines the canonical track record and its change-detection
// fingerprint.
package track

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Track is a normalized listening event from the scrobbling service.
// It has no identity beyond its field values.
type Track struct {
	Artist string
	Name   string
	Album  string
	URL    string
}

// SentinelFingerprint is the fingerprint of "no track". Real fingerprints are
// 32 lowercase hex characters, so the sentinel can never equal one.
const SentinelFingerprint = "absent"

// Fingerprint derives a stable identity digest from artist, name and album.
// The URL is deliberately excluded: Last.fm serves the same track under
// varying URLs and a URL-only change must not trigger a publish.
// A nil track maps to SentinelFingerprint.
func Fingerprint(t *Track) string {
	if t == nil {
		return SentinelFingerprint
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%s:%s", t.Artist, t.Name, t.Album)))
	return hex.EncodeToString(sum[:])
}
