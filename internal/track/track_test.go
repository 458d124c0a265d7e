package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_Deterministic(t *testing.T) {
	tr := &Track{Artist: "Boards of Canada", Name: "Roygbiv", Album: "Music Has the Right to Children", URL: "https://last.fm/a"}

	first := Fingerprint(tr)
	second := Fingerprint(tr)

	assert.Equal(t, first, second)
	assert.Len(t, first, 32)
}

func TestFingerprint_IgnoresURL(t *testing.T) {
	a := &Track{Artist: "Artist", Name: "Song", Album: "Album", URL: "https://last.fm/a"}
	b := &Track{Artist: "Artist", Name: "Song", Album: "Album", URL: "https://last.fm/b"}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_SensitiveToEachField(t *testing.T) {
	base := &Track{Artist: "Artist", Name: "Song", Album: "Album"}

	tests := []struct {
		name  string
		other *Track
	}{
		{"artist", &Track{Artist: "Other", Name: "Song", Album: "Album"}},
		{"name", &Track{Artist: "Artist", Name: "Other", Album: "Album"}},
		{"album", &Track{Artist: "Artist", Name: "Song", Album: "Other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, Fingerprint(base), Fingerprint(tt.other))
		})
	}
}

func TestFingerprint_NilIsSentinel(t *testing.T) {
	assert.Equal(t, SentinelFingerprint, Fingerprint(nil))
	assert.NotEqual(t, SentinelFingerprint, Fingerprint(&Track{}))
}
